package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/spf13/cobra"
)

var (
	workers     int
	maxAttempts uint64
)

// proveCmd represents the prove command
var proveCmd = &cobra.Command{
	Use:   "prove <last-proof>",
	Short: "Find the smallest proof for the last proof.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lastProof, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing last proof: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg := pow.Config{
			Workers:     workers,
			MaxAttempts: maxAttempts,
		}

		start := time.Now()
		proof, err := pow.Search(ctx, lastProof, cfg)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "proof: %d\n", proof)
		fmt.Fprintf(cmd.ErrOrStderr(), "found in %s\n", time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().IntVarP(&workers, "workers", "w", runtime.GOMAXPROCS(0), "Goroutines used by the search.")
	proveCmd.Flags().Uint64VarP(&maxAttempts, "max-attempts", "m", 0, "Candidates tried before giving up, 0 is unbounded.")
}

