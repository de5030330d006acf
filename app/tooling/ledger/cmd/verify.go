package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <last-proof> <proof>",
	Short: "Check a proof against the last proof.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lastProof, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing last proof: %w", err)
		}
		proof, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing proof: %w", err)
		}

		if !pow.IsValidProof(lastProof, proof) {
			return errors.New("invalid proof")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "valid proof")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
