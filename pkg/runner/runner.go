package runner

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"near-transaction-manager/models"
	"near-transaction-manager/pkg/client"
	"near-transaction-manager/pkg/config"
	"near-transaction-manager/pkg/creator"
	"near-transaction-manager/pkg/logger"
	"near-transaction-manager/pkg/metrics"
	"near-transaction-manager/pkg/sender"
	"near-transaction-manager/pkg/signer"
)

// Runner sends transactions for the configured signer account and keeps a
// record of every submission
type Runner struct {
	config    *config.Config
	creator   sender.TransactionCreator
	signer    sender.TransactionSigner
	sender    sender.TransactionSender
	collector *metrics.Collector
	registry  *prometheus.Registry
	logger    *logger.Logger
}

func NewRunner(cfg *config.Config, privKey string, logLevel logger.LogLevel) (*Runner, error) {
	keyPair, err := models.ParseKeyPair(privKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load signer key: %w", err)
	}

	rotationConfig := logger.DefaultRotationConfig()
	if cfg.LogRotation.MaxSizeMB > 0 {
		rotationConfig.MaxSizeMB = cfg.LogRotation.MaxSizeMB
	}
	if cfg.LogRotation.MaxAgeDays > 0 {
		rotationConfig.MaxAgeDays = cfg.LogRotation.MaxAgeDays
	}
	if cfg.LogRotation.MaxBackups > 0 {
		rotationConfig.MaxBackups = cfg.LogRotation.MaxBackups
	}
	rotationConfig.Compress = cfg.LogRotation.Compress

	if err := logger.InitGlobalLoggerWithRotation(cfg.LogFilePath, logLevel, rotationConfig); err != nil {
		fmt.Printf("Warning: Failed to initialize logger: %v. Logs will be sent to stderr.\n", err)
	}
	log := logger.GetDefaultLogger()

	rpcProvider := client.NewRPCProvider(cfg.RpcUrl,
		client.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}),
		client.WithRetry(uint64(cfg.Retry.MaxAttempts), time.Duration(cfg.Retry.InitialDelayMs)*time.Millisecond),
		client.WithLogger(logger.GetLogger("rpc", cfg.RpcUrl)),
	)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(cfg.OutputPath)
	provider := metrics.NewInstrumentedProvider(rpcProvider, registry, collector)

	log.Info("Signer %s using key %s on %s (%s)",
		cfg.SignerAccountID, keyPair.PublicKey(), cfg.NetworkID, cfg.RpcUrl)

	return &Runner{
		config:    cfg,
		creator:   creator.NewAccountTransactionCreator(cfg.SignerAccountID, keyPair.PublicKey(), rpcProvider, models.Finality(cfg.Finality)),
		signer:    signer.NewKeyPairSigner(keyPair),
		sender:    sender.NewProviderTransactionSender(sender.ProviderTransactionSenderOptions{Provider: provider, Logger: log}),
		collector: collector,
		registry:  registry,
		logger:    log,
	}, nil
}

func (r *Runner) Send(ctx context.Context, options models.TransactionOptions) (*models.FinalExecutionOutcome, error) {
	r.logger.Info("Sending transaction to %s with %d actions", options.ReceiverID, len(options.Actions))

	outcome, err := r.sender.Send(ctx, sender.SendOptions{
		TransactionOptions: options,
		TransactionCreator: r.creator,
		TransactionSigner:  r.signer,
	})
	if err != nil {
		r.logger.Error("Transaction to %s failed: %v", options.ReceiverID, err)
		return nil, err
	}

	r.logOutcome(outcome)
	return outcome, nil
}

func (r *Runner) BundleSend(ctx context.Context, bundle []models.TransactionOptions) ([]*models.FinalExecutionOutcome, error) {
	r.logger.Info("Sending bundle of %d transactions", len(bundle))
	submittedBefore := len(r.collector.Records())

	outcomes, err := r.sender.BundleSend(ctx, sender.BundleSendOptions{
		BundleTransactionOptions: bundle,
		TransactionCreator:       r.creator,
		TransactionSigner:        r.signer,
	})
	if err != nil {
		submitted := len(r.collector.Records()) - submittedBefore
		r.logger.Error("Bundle failed after %d/%d submissions: %v", submitted, len(bundle), err)
		return nil, err
	}

	for _, outcome := range outcomes {
		r.logOutcome(outcome)
	}
	r.logger.Info("Bundle of %d transactions completed", len(outcomes))
	return outcomes, nil
}

func (r *Runner) logOutcome(outcome *models.FinalExecutionOutcome) {
	if outcome == nil {
		r.logger.Warn("Transaction finished without an outcome")
		return
	}
	if outcome.Status.IsFailure() {
		r.logger.Warn("Transaction %s (nonce %d) finished with failure: %s",
			outcome.Transaction.Hash, outcome.Transaction.Nonce, string(outcome.Status.Failure))
		return
	}
	r.logger.Info("Transaction %s (nonce %d) finished with %s",
		outcome.Transaction.Hash, outcome.Transaction.Nonce, outcome.Status)
}

// Finish saves the run report and, if configured, the metrics textfile. It
// returns the report path.
func (r *Runner) Finish() (string, error) {
	path, err := r.collector.SaveResults()
	if err != nil {
		return "", err
	}
	r.logger.Info("Results saved to %s", path)

	if r.config.MetricsFile != "" {
		if err := metrics.WriteTextfile(r.config.MetricsFile, r.registry); err != nil {
			return path, fmt.Errorf("failed to write metrics: %w", err)
		}
		r.logger.Info("Metrics written to %s", r.config.MetricsFile)
	}

	_ = r.logger.Sync()
	return path, nil
}
