// Package cmd contains the ledger app commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var url string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "ledger",
	Short:         "Work with a proof of work ledger node",
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:5000", "Url of the node.")
}
