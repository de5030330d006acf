package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tx := struct {
			Sender    string `json:"sender"`
			Recipient string `json:"recipient"`
			Amount    uint64 `json:"amount"`
		}{
			Sender:    sender,
			Recipient: recipient,
			Amount:    amount,
		}

		var resp struct {
			Message string `json:"message"`
		}
		if err := send(http.MethodPost, "/v1/transactions/new", tx, http.StatusCreated, &resp); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Account sending the amount.")
	sendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Account receiving the amount.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("sender")
	sendCmd.MarkFlagRequired("recipient")
	sendCmd.MarkFlagRequired("amount")
}
