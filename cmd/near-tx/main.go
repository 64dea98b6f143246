package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"near-transaction-manager/pkg/config"
	"near-transaction-manager/pkg/logger"
	"near-transaction-manager/pkg/runner"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "near-tx",
	Short:         "Send NEAR transactions and nonce-ordered bundles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "", "Log level: debug, info, warn, error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// newRunner loads the configuration and builds a runner for the signer whose
// secret key is in the configured environment variable
func newRunner() (*runner.Runner, error) {
	cfg, err := config.LoadConfigFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	privKey := os.Getenv(cfg.PrivateKeyEnv)
	if privKey == "" {
		return nil, fmt.Errorf("environment variable %s is not set", cfg.PrivateKeyEnv)
	}

	return runner.NewRunner(cfg, privKey, logger.ParseLevel(cfg.LogLevel))
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// finish saves the report even when sending failed; the send error wins
func finish(r *runner.Runner, sendErr error) error {
	path, err := r.Finish()
	if err != nil {
		fmt.Printf("Warning: failed to save results: %v\n", err)
	} else {
		fmt.Printf("Results saved to %s\n", path)
	}
	return sendErr
}
