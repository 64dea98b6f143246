package creator

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"near-transaction-manager/models"
	"near-transaction-manager/pkg/client"
)

var (
	ErrAccessKeyNotFound = errors.New("access key not found")
	ErrEmptyReceiver     = errors.New("transaction has no receiver")
)

// ChainReader is the part of a NEAR node a creator needs
type ChainReader interface {
	ViewAccessKey(ctx context.Context, accountID string, publicKey models.PublicKey, finality models.Finality) (*models.AccessKeyView, error)
	Block(ctx context.Context, finality models.Finality) (*models.BlockView, error)
}

// AccountTransactionCreator builds transactions signed by one access key of one
// account. The nonce is the key's on-chain nonce plus the options' offset.
type AccountTransactionCreator struct {
	accountID string
	publicKey models.PublicKey
	chain     ChainReader
	finality  models.Finality
}

func NewAccountTransactionCreator(
	accountID string, publicKey models.PublicKey, chain ChainReader, finality models.Finality,
) *AccountTransactionCreator {
	if finality == "" {
		finality = models.FinalityFinal
	}
	return &AccountTransactionCreator{
		accountID: accountID,
		publicKey: publicKey,
		chain:     chain,
		finality:  finality,
	}
}

func (c *AccountTransactionCreator) Create(ctx context.Context, options models.TransactionOptions) (*models.Transaction, error) {
	if options.ReceiverID == "" {
		return nil, ErrEmptyReceiver
	}

	accessKey, err := c.chain.ViewAccessKey(ctx, c.accountID, c.publicKey, c.finality)
	if err != nil {
		if client.IsAccessKeyNotFound(err) {
			return nil, fmt.Errorf("%w: %s on %s", ErrAccessKeyNotFound, c.publicKey, c.accountID)
		}
		return nil, fmt.Errorf("failed to view access key: %w", err)
	}

	block, err := c.chain.Block(ctx, c.finality)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch block: %w", err)
	}
	blockHash, err := solana.HashFromBase58(block.Header.Hash)
	if err != nil {
		return nil, fmt.Errorf("invalid block hash %q: %w", block.Header.Hash, err)
	}

	nonceOffset := options.NonceOffset
	if nonceOffset == 0 {
		nonceOffset = 1
	}

	return &models.Transaction{
		SignerID:   c.accountID,
		PublicKey:  c.publicKey,
		Nonce:      accessKey.Nonce + nonceOffset,
		ReceiverID: options.ReceiverID,
		BlockHash:  blockHash,
		Actions:    options.Actions,
	}, nil
}
