package client

import (
	"context"

	"near-transaction-manager/models"
)

//go:generate mockgen -source=types.go -destination=mocks/provider.go -package=mocks

// Provider submits a signed transaction to the network and waits for its final outcome
type Provider interface {
	SendTransaction(ctx context.Context, signedTransaction *models.SignedTransaction) (*models.FinalExecutionOutcome, error)
}
