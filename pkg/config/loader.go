package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPrivateKeyEnv = "NEAR_PRIVATE_KEY"
	DefaultFinality      = "final"
)

// LoadConfigFromFile loads configuration from a YAML file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig fills defaults and reports every problem at once
func validateConfig(cfg *Config) error {
	if cfg.PrivateKeyEnv == "" {
		cfg.PrivateKeyEnv = DefaultPrivateKeyEnv
	}

	if cfg.Finality == "" {
		cfg.Finality = DefaultFinality
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}

	if cfg.Retry.InitialDelayMs <= 0 {
		cfg.Retry.InitialDelayMs = 500
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = "results"
	}

	if cfg.LogFilePath == "" {
		cfg.LogFilePath = "logs"
	}

	var result *multierror.Error

	if cfg.RpcUrl == "" {
		result = multierror.Append(result, errors.New("rpcUrl is required"))
	} else if u, err := url.Parse(cfg.RpcUrl); err != nil || u.Scheme == "" || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("rpcUrl %q is not an absolute URL", cfg.RpcUrl))
	}

	if cfg.SignerAccountID == "" {
		result = multierror.Append(result, errors.New("signerAccountId is required"))
	}

	if cfg.Finality != "final" && cfg.Finality != "optimistic" {
		result = multierror.Append(result, fmt.Errorf("finality must be final or optimistic, got %q", cfg.Finality))
	}

	return result.ErrorOrNil()
}
