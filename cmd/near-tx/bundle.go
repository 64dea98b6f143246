package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"near-transaction-manager/pkg/config"
)

var bundleFile string

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Send the transactions of a bundle file one after another",
	Long: `Sends every transaction in the file in order, each with a nonce offset one
higher than the previous. The first failure stops the bundle; transactions sent
before it are not rolled back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := config.LoadBundleFromFile(bundleFile)
		if err != nil {
			return err
		}

		r, err := newRunner()
		if err != nil {
			return err
		}

		fmt.Printf("Sending bundle of %d transactions from %s\n", len(bundle), bundleFile)
		startTime := time.Now()

		outcomes, err := r.BundleSend(cmd.Context(), bundle)
		if err != nil {
			return finish(r, err)
		}
		fmt.Printf("Bundle finished in %v\n", time.Since(startTime))
		return finish(r, printJSON(outcomes))
	},
}

func init() {
	bundleCmd.Flags().StringVar(&bundleFile, "file", "", "Bundle file (YAML)")
	_ = bundleCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(bundleCmd)
}
