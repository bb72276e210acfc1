package signer

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

const ed25519Prefix = "ed25519:"

// KeyPair is a full-access ed25519 key loaded from its text form.
type KeyPair struct {
	priv ed25519.PrivateKey
}

// ParseKeyPair accepts "ed25519:<base58>" where the payload is either the
// 64-byte expanded secret key or a 32-byte seed.
func ParseKeyPair(s string) (*KeyPair, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, ed25519Prefix) {
		return nil, fmt.Errorf("unsupported key type in %q", redact(s))
	}
	raw, err := base58.Decode(strings.TrimPrefix(s, ed25519Prefix))
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return &KeyPair{priv: ed25519.PrivateKey(raw)}, nil
	case ed25519.SeedSize:
		return &KeyPair{priv: ed25519.NewKeyFromSeed(raw)}, nil
	default:
		return nil, fmt.Errorf("invalid ed25519 key length %d", len(raw))
	}
}

// PublicKey returns the raw public key.
func (k *KeyPair) PublicKey() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}

// PublicKeyString returns the public key in "ed25519:<base58>" form.
func (k *KeyPair) PublicKeyString() string {
	return ed25519Prefix + base58.Encode(k.PublicKey())
}

// Sign signs msg with the private key.
func (k *KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

func redact(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:8] + "***"
}
