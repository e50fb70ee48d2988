package cli

import (
	"github.com/AlexZinkM/offline-signer/internal/client"
	"github.com/AlexZinkM/offline-signer/solana"

	"github.com/spf13/cobra"
)

func newBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance NAME|ADDRESS",
		Short: "Show the SOL balance and its USD value (online)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := a.resolveAddress(args[0])
			if err != nil {
				return err
			}

			balance, err := solana.GetBalance(cmd.Context(), a.rpc(), client.NewCoinGeckoClient(a.cfg.PriceAPIURL), args[0], address)
			if err != nil {
				return err
			}
			return printJSON(cmd, balance)
		},
	}
}
