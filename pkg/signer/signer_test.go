package signer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"near-transaction-manager/models"
)

func TestSign(t *testing.T) {
	kp, err := models.GenerateKeyPair()
	require.NoError(t, err)
	s := NewKeyPairSigner(kp)

	tx := &models.Transaction{
		SignerID:   "alice.near",
		PublicKey:  s.PublicKey(),
		Nonce:      3,
		ReceiverID: "bob.near",
		Actions:    []models.Action{models.CreateAccount{}},
	}

	signed, err := s.Sign(context.Background(), tx)
	require.NoError(t, err)
	assert.Same(t, tx, signed.Transaction)
	assert.Equal(t, models.KeyTypeED25519, signed.Signature.Type)

	hash, err := tx.Hash()
	require.NoError(t, err)
	assert.True(t, signed.Signature.Data.Verify(kp.PublicKey().Data, hash[:]))
}

func TestSignRejectsForeignKey(t *testing.T) {
	kp, err := models.GenerateKeyPair()
	require.NoError(t, err)
	other, err := models.GenerateKeyPair()
	require.NoError(t, err)

	_, err = NewKeyPairSigner(kp).Sign(context.Background(), &models.Transaction{
		SignerID:   "alice.near",
		PublicKey:  other.PublicKey(),
		ReceiverID: "bob.near",
	})
	assert.ErrorIs(t, err, ErrKeyMismatch)
}
