package signer

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	keyTypeED25519     = 0
	actionFunctionCall = 2
)

// FunctionCall is the only action kind stakex submits.
type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    string // yocto, decimal
}

// Transaction is an unsigned transaction ready for borsh encoding.
type Transaction struct {
	SignerID   string
	PublicKey  ed25519.PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []FunctionCall
}

// Encode returns the borsh serialization of tx.
func (tx *Transaction) Encode() ([]byte, error) {
	if len(tx.PublicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length %d", len(tx.PublicKey))
	}
	e := &encoder{}
	e.string(tx.SignerID)
	e.u8(keyTypeED25519)
	e.fixed(tx.PublicKey)
	e.u64(tx.Nonce)
	e.string(tx.ReceiverID)
	e.fixed(tx.BlockHash[:])
	e.u32(uint32(len(tx.Actions)))
	for _, a := range tx.Actions {
		e.u8(actionFunctionCall)
		e.string(a.MethodName)
		e.bytes(a.Args)
		e.u64(a.Gas)
		e.u128(a.Deposit)
	}
	return e.result()
}

// Sign encodes tx, signs its sha256 digest with key and returns the borsh
// SignedTransaction together with the base58 transaction hash.
func Sign(key *KeyPair, tx *Transaction) ([]byte, string, error) {
	body, err := tx.Encode()
	if err != nil {
		return nil, "", err
	}
	digest := sha256.Sum256(body)
	sig := key.Sign(digest[:])

	out := make([]byte, 0, len(body)+1+ed25519.SignatureSize)
	out = append(out, body...)
	out = append(out, keyTypeED25519)
	out = append(out, sig...)
	return out, base58.Encode(digest[:]), nil
}

// DecodeBlockHash parses a base58 block hash as returned by the RPC.
func DecodeBlockHash(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := base58.Decode(s)
	if err != nil {
		return out, fmt.Errorf("decode block hash: %w", err)
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("block hash length %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
