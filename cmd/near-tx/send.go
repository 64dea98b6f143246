package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"near-transaction-manager/models"
	"near-transaction-manager/pkg/config"
)

var (
	sendReceiver string
	sendAmount   string
	sendFile     string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Create, sign and submit a single transaction",
	Long: `Sends one transaction from the configured signer. Use --receiver with --amount
for a plain transfer, or --file with a bundle file holding exactly one transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := sendOptions()
		if err != nil {
			return err
		}

		r, err := newRunner()
		if err != nil {
			return err
		}

		startTime := time.Now()
		outcome, err := r.Send(cmd.Context(), options)
		if err != nil {
			return finish(r, err)
		}
		fmt.Printf("Transaction finished in %v\n", time.Since(startTime))
		return finish(r, printJSON(outcome))
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendReceiver, "receiver", "", "Receiver account ID for a transfer")
	sendCmd.Flags().StringVar(&sendAmount, "amount", "", "Transfer amount in NEAR, e.g. 1.5")
	sendCmd.Flags().StringVar(&sendFile, "file", "", "Bundle file with a single transaction")
	sendCmd.MarkFlagsMutuallyExclusive("file", "receiver")
	sendCmd.MarkFlagsMutuallyExclusive("file", "amount")
	sendCmd.MarkFlagsRequiredTogether("receiver", "amount")
	rootCmd.AddCommand(sendCmd)
}

func sendOptions() (models.TransactionOptions, error) {
	if sendFile != "" {
		bundle, err := config.LoadBundleFromFile(sendFile)
		if err != nil {
			return models.TransactionOptions{}, err
		}
		if len(bundle) != 1 {
			return models.TransactionOptions{}, fmt.Errorf("%s holds %d transactions, send takes exactly one", sendFile, len(bundle))
		}
		return bundle[0], nil
	}

	if sendReceiver == "" {
		return models.TransactionOptions{}, errors.New("either --file or --receiver is required")
	}
	if sendAmount == "" {
		return models.TransactionOptions{}, errors.New("--receiver needs --amount")
	}
	amount, err := models.ParseNearAmount(sendAmount)
	if err != nil {
		return models.TransactionOptions{}, err
	}
	return models.TransactionOptions{
		ReceiverID: sendReceiver,
		Actions:    []models.Action{models.Transfer{Deposit: amount}},
	}, nil
}
