package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var background bool

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to forge a block from its pending transactions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if background {
			if err := send(http.MethodPost, "/v1/mining/signal", nil, http.StatusAccepted, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "mining signalled")
			return nil
		}

		var resp struct {
			Message      string        `json:"message"`
			Index        uint64        `json:"index"`
			Transactions []database.Tx `json:"transactions"`
			Proof        uint64        `json:"proof"`
			PreviousHash string        `json:"previous_hash"`
		}
		if err := send(http.MethodGet, "/v1/mine", nil, http.StatusOK, &resp); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: blk[%d]: proof[%d]: prevHash[%s]\n", resp.Message, resp.Index, resp.Proof, resp.PreviousHash)
		for _, tx := range resp.Transactions {
			fmt.Fprintf(out, "  %s\n", tx)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().BoolVarP(&background, "background", "b", false, "Signal the background worker instead of waiting for the block.")
}
