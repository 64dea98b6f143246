// Package sender drives transactions through create, sign and submit.
//
// A TransactionSender owns none of the steps itself: a TransactionCreator builds
// the unsigned transaction, a TransactionSigner signs it and a client.Provider
// broadcasts it and waits for the final outcome. Errors from any of them are
// returned to the caller as they are.
package sender

import (
	"context"

	"near-transaction-manager/models"
	"near-transaction-manager/pkg/client"
	"near-transaction-manager/pkg/logger"
)

//go:generate mockgen -source=sender.go -destination=mocks/sender.go -package=mocks

// TransactionCreator builds an unsigned transaction from options
type TransactionCreator interface {
	Create(ctx context.Context, options models.TransactionOptions) (*models.Transaction, error)
}

// TransactionSigner signs a transaction
type TransactionSigner interface {
	Sign(ctx context.Context, transaction *models.Transaction) (*models.SignedTransaction, error)
}

type SendOptions struct {
	TransactionOptions models.TransactionOptions
	TransactionCreator TransactionCreator
	TransactionSigner  TransactionSigner
}

type BundleSendOptions struct {
	BundleTransactionOptions []models.TransactionOptions
	TransactionCreator       TransactionCreator
	TransactionSigner        TransactionSigner
}

type TransactionSender interface {
	// Send creates, signs and submits one transaction.
	Send(ctx context.Context, opts SendOptions) (*models.FinalExecutionOutcome, error)

	// BundleSend sends the transactions one after another, giving the i-th a
	// nonce offset of i+1. It stops at the first failure and returns only that
	// error; transactions sent before it stay on chain.
	BundleSend(ctx context.Context, opts BundleSendOptions) ([]*models.FinalExecutionOutcome, error)
}

type ProviderTransactionSenderOptions struct {
	Provider client.Provider
	Logger   *logger.Logger
}

// ProviderTransactionSender sends transactions with a client.Provider
type ProviderTransactionSender struct {
	provider client.Provider
	logger   *logger.Logger
}

var _ TransactionSender = (*ProviderTransactionSender)(nil)

func NewProviderTransactionSender(opts ProviderTransactionSenderOptions) *ProviderTransactionSender {
	log := opts.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &ProviderTransactionSender{
		provider: opts.Provider,
		logger:   log,
	}
}

func (s *ProviderTransactionSender) Send(ctx context.Context, opts SendOptions) (*models.FinalExecutionOutcome, error) {
	transaction, err := opts.TransactionCreator.Create(ctx, opts.TransactionOptions)
	if err != nil {
		return nil, err
	}

	signedTransaction, err := opts.TransactionSigner.Sign(ctx, transaction)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Submitting transaction to %s with nonce %d", transaction.ReceiverID, transaction.Nonce)
	return s.provider.SendTransaction(ctx, signedTransaction)
}

func (s *ProviderTransactionSender) BundleSend(ctx context.Context, opts BundleSendOptions) ([]*models.FinalExecutionOutcome, error) {
	outcomes := make([]*models.FinalExecutionOutcome, 0, len(opts.BundleTransactionOptions))

	for i, transactionOptions := range opts.BundleTransactionOptions {
		transactionOptions.NonceOffset = uint64(i + 1)

		outcome, err := s.Send(ctx, SendOptions{
			TransactionOptions: transactionOptions,
			TransactionCreator: opts.TransactionCreator,
			TransactionSigner:  opts.TransactionSigner,
		})
		if err != nil {
			if i > 0 {
				s.logger.Warn("Bundle aborted at transaction %d/%d; %d earlier transactions were already submitted",
					i+1, len(opts.BundleTransactionOptions), i)
			}
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}
