package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var validateChain bool

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the chain held by the node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Chain  []database.Block `json:"chain"`
			Length int              `json:"length"`
		}
		if err := send(http.MethodGet, "/v1/chain", nil, http.StatusOK, &resp); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, block := range resp.Chain {
			fmt.Fprintf(out, "blk[%d]: hash[%s]: prevHash[%s]: proof[%d]: numTrans[%d]\n",
				block.Index, block.Hash(), block.PreviousHash, block.Proof, len(block.Transactions))
		}
		fmt.Fprintf(out, "length: %d\n", resp.Length)

		if !validateChain {
			return nil
		}

		if err := verifyChain(resp.Chain); err != nil {
			return err
		}

		fmt.Fprintln(out, "chain is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&validateChain, "validate", "v", false, "Check every link and proof locally.")
}

// verifyChain checks the chain the way the node does, without trusting it.
func verifyChain(blocks []database.Block) error {
	if len(blocks) == 0 {
		return errors.New("chain is empty")
	}

	noop := func(v string, args ...any) {}
	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], noop); err != nil {
			return fmt.Errorf("blk[%d]: %w", blocks[i].Index, err)
		}
	}

	return nil
}
