package runner

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"near-transaction-manager/internal/neartest"
	"near-transaction-manager/models"
	"near-transaction-manager/pkg/config"
	"near-transaction-manager/pkg/creator"
	"near-transaction-manager/pkg/logger"
	"near-transaction-manager/pkg/metrics"
	"near-transaction-manager/pkg/sender"
	"near-transaction-manager/pkg/sender/mocks"
)

func newTestRunner(t *testing.T, node *neartest.Node) (*Runner, *config.Config) {
	t.Helper()

	keyPair, err := models.GenerateKeyPair()
	require.NoError(t, err)
	node.AddAccessKey("alice.near", keyPair.PublicKey(), 10)

	dir := t.TempDir()
	cfg := &config.Config{
		RpcUrl:          node.URL(),
		NetworkID:       "localnet",
		SignerAccountID: "alice.near",
		Finality:        "final",
		Timeout:         5,
		Retry:           config.RetryConfig{MaxAttempts: 1, InitialDelayMs: 10},
		OutputPath:      filepath.Join(dir, "results"),
		MetricsFile:     filepath.Join(dir, "near_tx.prom"),
		LogFilePath:     filepath.Join(dir, "logs"),
	}

	r, err := NewRunner(cfg, keyPair.String(), logger.DebugLevel)
	require.NoError(t, err)
	return r, cfg
}

func transfer(receiverID string) models.TransactionOptions {
	return models.TransactionOptions{
		ReceiverID: receiverID,
		Actions:    []models.Action{models.Transfer{Deposit: big.NewInt(1)}},
	}
}

func TestNewRunnerRejectsBadKey(t *testing.T) {
	_, err := NewRunner(&config.Config{RpcUrl: "http://127.0.0.1:1"}, "not-a-key", logger.InfoLevel)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidKey)
}

func TestRunnerSend(t *testing.T) {
	node := neartest.NewNode()
	defer node.Close()
	r, _ := newTestRunner(t, node)

	outcome, err := r.Send(context.Background(), transfer("bob.near"))
	require.NoError(t, err)
	assert.True(t, outcome.Status.IsSuccess())
	assert.Equal(t, uint64(11), outcome.Transaction.Nonce)

	broadcasts := node.Broadcasts()
	require.Len(t, broadcasts, 1)
	assert.Equal(t, "bob.near", broadcasts[0].ReceiverID)
	assert.Equal(t, outcome.Transaction.Hash, broadcasts[0].Hash)
}

func TestRunnerBundleSendWritesReport(t *testing.T) {
	node := neartest.NewNode()
	defer node.Close()
	r, cfg := newTestRunner(t, node)

	outcomes, err := r.BundleSend(context.Background(), []models.TransactionOptions{
		transfer("a.near"), transfer("b.near"), transfer("c.near"),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	// The node commits each transaction before the next one is created, so the
	// access key nonce read by the creator moves between items.
	var nonces []uint64
	for _, b := range node.Broadcasts() {
		nonces = append(nonces, b.Nonce)
	}
	assert.Equal(t, []uint64{11, 13, 16}, nonces)
	for i, receiver := range []string{"a.near", "b.near", "c.near"} {
		assert.Equal(t, receiver, outcomes[i].Transaction.ReceiverID)
	}

	path, err := r.Finish()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report models.SendReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 3, report.TotalTransactions)
	assert.Equal(t, 3, report.SuccessCount)
	assert.Len(t, report.ReceiverResults, 3)

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `near_tx_submissions_total{result="success"} 3`)
	assert.Contains(t, string(prom), "near_tx_last_submitted_nonce 16")
}

func TestRunnerBundleSendStopsAtFirstFailure(t *testing.T) {
	node := neartest.NewNode()
	defer node.Close()
	r, _ := newTestRunner(t, node)

	outcomes, err := r.BundleSend(context.Background(), []models.TransactionOptions{
		transfer("a.near"), transfer(""), transfer("c.near"),
	})
	require.ErrorIs(t, err, creator.ErrEmptyReceiver)
	assert.Nil(t, outcomes)

	// the first transaction stays on chain
	require.Len(t, node.Broadcasts(), 1)
	assert.Equal(t, []string{"query", "block", "broadcast_tx_commit"}, node.Calls())
	assert.Len(t, r.collector.Records(), 1)
}

func TestRunnerPassesCollaboratorsToSender(t *testing.T) {
	ctrl := gomock.NewController(t)
	txSender := mocks.NewMockTransactionSender(ctrl)
	txCreator := mocks.NewMockTransactionCreator(ctrl)
	txSigner := mocks.NewMockTransactionSigner(ctrl)

	r := &Runner{
		config:    &config.Config{},
		creator:   txCreator,
		signer:    txSigner,
		sender:    txSender,
		collector: metrics.NewCollector(t.TempDir()),
		logger:    logger.NewNop(),
	}

	bundle := []models.TransactionOptions{transfer("a.near"), transfer("b.near")}
	wantErr := errors.New("provider unavailable")
	txSender.EXPECT().
		BundleSend(gomock.Any(), sender.BundleSendOptions{
			BundleTransactionOptions: bundle,
			TransactionCreator:       txCreator,
			TransactionSigner:        txSigner,
		}).
		Return(nil, wantErr)

	outcomes, err := r.BundleSend(context.Background(), bundle)
	assert.Same(t, wantErr, err)
	assert.Nil(t, outcomes)
}

func TestRunnerToleratesMissingOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	txSender := mocks.NewMockTransactionSender(ctrl)

	r := &Runner{
		config:    &config.Config{},
		creator:   mocks.NewMockTransactionCreator(ctrl),
		signer:    mocks.NewMockTransactionSigner(ctrl),
		sender:    txSender,
		collector: metrics.NewCollector(t.TempDir()),
		logger:    logger.NewNop(),
	}

	txSender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, nil)
	txSender.EXPECT().BundleSend(gomock.Any(), gomock.Any()).
		Return([]*models.FinalExecutionOutcome{nil}, nil)

	outcome, err := r.Send(context.Background(), transfer("a.near"))
	require.NoError(t, err)
	assert.Nil(t, outcome)

	outcomes, err := r.BundleSend(context.Background(), []models.TransactionOptions{transfer("a.near")})
	require.NoError(t, err)
	assert.Equal(t, []*models.FinalExecutionOutcome{nil}, outcomes)
}
