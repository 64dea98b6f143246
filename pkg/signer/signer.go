package signer

import (
	"context"
	"errors"
	"fmt"

	"near-transaction-manager/models"
)

var ErrKeyMismatch = errors.New("transaction public key does not match signer")

// KeyPairSigner signs with an in-memory ed25519 key
type KeyPairSigner struct {
	keyPair models.KeyPair
}

func NewKeyPairSigner(keyPair models.KeyPair) *KeyPairSigner {
	return &KeyPairSigner{keyPair: keyPair}
}

func (s *KeyPairSigner) PublicKey() models.PublicKey {
	return s.keyPair.PublicKey()
}

// Sign signs the sha256 of the borsh encoded transaction
func (s *KeyPairSigner) Sign(_ context.Context, transaction *models.Transaction) (*models.SignedTransaction, error) {
	if !transaction.PublicKey.Equals(s.PublicKey()) {
		return nil, fmt.Errorf("%w: transaction has %s, signer has %s", ErrKeyMismatch, transaction.PublicKey, s.PublicKey())
	}

	hash, err := transaction.Hash()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	signature, err := s.keyPair.Sign(hash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return &models.SignedTransaction{
		Transaction: transaction,
		Signature:   signature,
	}, nil
}
