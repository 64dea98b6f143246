package models

import (
	"errors"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// KeyType identifies the curve of a NEAR key. Only ed25519 is supported.
type KeyType uint8

const (
	KeyTypeED25519 KeyType = 0
)

const ed25519Prefix = "ed25519:"

// ErrInvalidKey is returned when a key string cannot be parsed
var ErrInvalidKey = errors.New("invalid key")

// PublicKey is a NEAR public key
type PublicKey struct {
	Type KeyType
	Data solana.PublicKey
}

// ParsePublicKey parses "ed25519:<base58>" (the prefix is optional)
func ParsePublicKey(s string) (PublicKey, error) {
	data, err := solana.PublicKeyFromBase58(strings.TrimPrefix(s, ed25519Prefix))
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return PublicKey{Type: KeyTypeED25519, Data: data}, nil
}

func (k PublicKey) String() string {
	return ed25519Prefix + k.Data.String()
}

func (k PublicKey) Equals(other PublicKey) bool {
	return k.Type == other.Type && k.Data.Equals(other.Data)
}

func (k PublicKey) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(k.Type)); err != nil {
		return err
	}
	return encoder.WriteBytes(k.Data[:], false)
}

// Signature is an ed25519 signature over a transaction hash
type Signature struct {
	Type KeyType
	Data solana.Signature
}

func (s Signature) String() string {
	return ed25519Prefix + s.Data.String()
}

func (s Signature) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(s.Type)); err != nil {
		return err
	}
	return encoder.WriteBytes(s.Data[:], false)
}

// KeyPair holds a 64 byte ed25519 secret key
type KeyPair struct {
	secret solana.PrivateKey
}

// ParseKeyPair parses a NEAR secret key, "ed25519:<base58 of 64 bytes>"
func ParseKeyPair(s string) (KeyPair, error) {
	secret, err := solana.PrivateKeyFromBase58(strings.TrimPrefix(strings.TrimSpace(s), ed25519Prefix))
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(secret) != 64 {
		return KeyPair{}, fmt.Errorf("%w: secret key must be 64 bytes, got %d", ErrInvalidKey, len(secret))
	}
	return KeyPair{secret: secret}, nil
}

// GenerateKeyPair creates a random ed25519 key pair
func GenerateKeyPair() (KeyPair, error) {
	secret, err := solana.NewRandomPrivateKey()
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{secret: secret}, nil
}

func (kp KeyPair) PublicKey() PublicKey {
	return PublicKey{Type: KeyTypeED25519, Data: kp.secret.PublicKey()}
}

func (kp KeyPair) Sign(message []byte) (Signature, error) {
	sig, err := kp.secret.Sign(message)
	if err != nil {
		return Signature{}, err
	}
	return Signature{Type: KeyTypeED25519, Data: sig}, nil
}

// String returns the secret key in NEAR's "ed25519:" encoding
func (kp KeyPair) String() string {
	return ed25519Prefix + kp.secret.String()
}
