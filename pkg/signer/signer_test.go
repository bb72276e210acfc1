package signer

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *KeyPair {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	kp, err := ParseKeyPair("ed25519:" + base58.Encode(seed))
	require.NoError(t, err)
	return kp
}

func TestParseKeyPair(t *testing.T) {
	kp := testKey(t)

	full, err := ParseKeyPair("ed25519:" + base58.Encode(kp.priv))
	require.NoError(t, err)
	require.Equal(t, kp.PublicKeyString(), full.PublicKeyString())

	_, err = ParseKeyPair("secp256k1:abc")
	require.Error(t, err)
	_, err = ParseKeyPair("ed25519:" + base58.Encode([]byte{1, 2, 3}))
	require.Error(t, err)
}

func TestEncodeFunctionCall(t *testing.T) {
	kp := testKey(t)
	tx := &Transaction{
		SignerID:   "a",
		PublicKey:  kp.PublicKey(),
		Nonce:      7,
		ReceiverID: "b",
		Actions: []FunctionCall{{
			MethodName: "withdraw_all",
			Args:       []byte("{}"),
			Gas:        175_000_000_000_000,
			Deposit:    "0",
		}},
	}
	body, err := tx.Encode()
	require.NoError(t, err)

	// signer "a": u32 len + byte
	require.Equal(t, []byte{1, 0, 0, 0, 'a'}, body[:5])
	// key type + 32 key bytes
	require.Equal(t, byte(0), body[5])
	require.Equal(t, []byte(kp.PublicKey()), body[6:38])
	require.Equal(t, uint64(7), binary.LittleEndian.Uint64(body[38:46]))
	require.Equal(t, []byte{1, 0, 0, 0, 'b'}, body[46:51])
	// 32 byte block hash, then one action
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(body[83:87]))
	require.Equal(t, byte(actionFunctionCall), body[87])

	// trailing gas (u64) + deposit (u128)
	tail := body[len(body)-24:]
	require.Equal(t, uint64(175_000_000_000_000), binary.LittleEndian.Uint64(tail[:8]))
	require.Equal(t, make([]byte, 16), tail[8:])
}

func TestEncodeRejectsOversizedDeposit(t *testing.T) {
	kp := testKey(t)
	tx := &Transaction{
		SignerID:  "a",
		PublicKey: kp.PublicKey(),
		Actions:   []FunctionCall{{MethodName: "m", Deposit: "340282366920938463463374607431768211456"}}, // 2^128
	}
	_, err := tx.Encode()
	require.Error(t, err)
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	kp := testKey(t)
	tx := &Transaction{SignerID: "alice.near", PublicKey: kp.PublicKey(), Nonce: 1, ReceiverID: "pool.near"}

	signed, hash, err := Sign(kp, tx)
	require.NoError(t, err)

	body, err := tx.Encode()
	require.NoError(t, err)
	digest := sha256.Sum256(body)
	require.Equal(t, base58.Encode(digest[:]), hash)

	require.Equal(t, body, signed[:len(body)])
	require.Equal(t, byte(0), signed[len(body)])
	require.True(t, ed25519.Verify(kp.PublicKey(), digest[:], signed[len(body)+1:]))
}

func TestDecodeBlockHash(t *testing.T) {
	raw := make([]byte, 32)
	raw[31] = 9
	got, err := DecodeBlockHash(base58.Encode(raw))
	require.NoError(t, err)
	require.Equal(t, byte(9), got[31])

	_, err = DecodeBlockHash(base58.Encode([]byte{1}))
	require.Error(t, err)
}
