package models

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TransactionOptions describes the intent of one transaction. NonceOffset is
// added to the access key nonce by the creator; zero is treated as one.
type TransactionOptions struct {
	ReceiverID  string
	Actions     []Action
	NonceOffset uint64
}

// Transaction is an unsigned NEAR transaction
type Transaction struct {
	SignerID   string
	PublicKey  PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  solana.Hash
	Actions    []Action
}

func (t *Transaction) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := writeString(encoder, t.SignerID); err != nil {
		return err
	}
	if err := t.PublicKey.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	if err := encoder.WriteUint64(t.Nonce, binary.LittleEndian); err != nil {
		return err
	}
	if err := writeString(encoder, t.ReceiverID); err != nil {
		return err
	}
	if err := encoder.WriteBytes(t.BlockHash[:], false); err != nil {
		return err
	}
	if err := encoder.WriteUint32(uint32(len(t.Actions)), binary.LittleEndian); err != nil {
		return err
	}
	for i, action := range t.Actions {
		if err := action.MarshalWithEncoder(encoder); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, action.Kind(), err)
		}
	}
	return nil
}

// Serialize returns the borsh encoding of the transaction
func (t *Transaction) Serialize() ([]byte, error) {
	return serialize(t)
}

// Hash is the sha256 of the borsh encoding; this is what gets signed and
// what the network reports as the transaction hash.
func (t *Transaction) Hash() (solana.Hash, error) {
	data, err := t.Serialize()
	if err != nil {
		return solana.Hash{}, err
	}
	return solana.Hash(sha256.Sum256(data)), nil
}

// SignedTransaction is a transaction plus the signature over its hash
type SignedTransaction struct {
	Transaction *Transaction
	Signature   Signature
}

func (s *SignedTransaction) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := s.Transaction.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	return s.Signature.MarshalWithEncoder(encoder)
}

func (s *SignedTransaction) Serialize() ([]byte, error) {
	return serialize(s)
}

// Base64 is the form broadcast_tx_commit expects
func (s *SignedTransaction) Base64() (string, error) {
	data, err := s.Serialize()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (s *SignedTransaction) Hash() (solana.Hash, error) {
	return s.Transaction.Hash()
}
