package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"near-transaction-manager/models"
)

var (
	accountID  string
	outputFile string
)

// credentials matches the layout near-cli keeps under ~/.near-credentials
type credentials struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

var rootCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an ed25519 key pair for a NEAR access key",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyPair, err := models.GenerateKeyPair()
		if err != nil {
			return fmt.Errorf("failed to generate key pair: %w", err)
		}

		if accountID != "" {
			return writeCredentials(keyPair)
		}
		return writeKeyInfo(keyPair)
	},
}

func init() {
	rootCmd.Flags().StringVar(&accountID, "account", "", "Account ID; writes a credentials JSON file when set")
	rootCmd.Flags().StringVar(&outputFile, "out", "", "Output file (default key_info.txt, or <account>.json with --account)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func writeKeyInfo(keyPair models.KeyPair) error {
	path := outputFile
	if path == "" {
		path = "key_info.txt"
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "private key: %s\n", keyPair.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if _, err := fmt.Fprintf(file, "public key: %s\n", keyPair.PublicKey().String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	fmt.Printf("Public key %s\n", keyPair.PublicKey())
	fmt.Printf("Key information has been saved to %s\n", path)
	return nil
}

func writeCredentials(keyPair models.KeyPair) error {
	path := outputFile
	if path == "" {
		path = accountID + ".json"
	}

	data, err := json.MarshalIndent(credentials{
		AccountID:  accountID,
		PublicKey:  keyPair.PublicKey().String(),
		PrivateKey: keyPair.String(),
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	fmt.Printf("Public key %s\n", keyPair.PublicKey())
	fmt.Printf("Credentials for %s have been saved to %s\n", accountID, path)
	return nil
}
