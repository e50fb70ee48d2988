package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/solana"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

const payerFlag = "payer"

func newNonceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonce",
		Short: "Create and inspect durable nonce accounts",
	}
	cmd.AddCommand(
		newNonceCreate(a),
		newNonceShow(a),
		newNonceList(a),
	)
	return cmd
}

func newNonceCreate(a *app) *cobra.Command {
	var payer, authority string

	cmd := &cobra.Command{
		Use:   "create LABEL",
		Short: "Fund and initialize a new durable nonce account (online)",
		Long: `Fund and initialize a new durable nonce account and record it under LABEL.

The payer key must be in this vault. The authority, which must sign every
transaction using the nonce, defaults to the payer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.vault.NonceAccount(args[0]); err == nil {
				return errs.Newf(errs.AlreadyExists, "nonce account %q already exists", args[0])
			}

			var authorityKey solanago.PublicKey
			if authority != "" {
				pk, err := a.resolveAddress(authority)
				if err != nil {
					return err
				}
				authorityKey = pk
			}

			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			key, err := a.vault.Load(payer, password)
			if err != nil {
				return err
			}
			defer clear(key)

			chain := a.rpc()
			rec, sig, err := solana.CreateNonceAccount(cmd.Context(), chain, chain, a.vault, args[0], key, authorityKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Nonce account: %s\nAuthority:     %s\nSignature:     %s\n", rec.Address, rec.Authority, sig)
			return nil
		},
	}
	cmd.Flags().StringVar(&payer, payerFlag, "", "vault key that funds the account (required)")
	cmd.Flags().StringVar(&authority, authorityFlag, "", "nonce authority: vault key name or public key (default: payer)")
	_ = cmd.MarkFlagRequired(payerFlag)
	return cmd
}

func newNonceShow(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show LABEL|ADDRESS",
		Short: "Fetch the current value of a nonce account (online)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := a.resolveNonce(args[0])
			if err != nil {
				return err
			}

			state, err := solana.FetchNonce(cmd.Context(), a.rpc(), address)
			if err != nil {
				return err
			}
			return printJSON(cmd, state)
		},
	}
}

func newNonceList(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List nonce accounts recorded in this vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := a.vault.NonceAccounts()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tADDRESS\tAUTHORITY\tCREATED")
			for _, n := range accounts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.Label, n.Address, n.Authority, n.CreatedAt)
			}
			return tw.Flush()
		},
	}
}
