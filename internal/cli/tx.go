package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/codec"
	"github.com/AlexZinkM/offline-signer/internal/model"
	"github.com/AlexZinkM/offline-signer/solana"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	fromFlag        = "from"
	toFlag          = "to"
	amountFlag      = "amount"
	nonceFlag       = "nonce"
	authorityFlag   = "authority"
	descriptionFlag = "description"
	outFlag         = "out"
	mintFlag        = "mint"
	symbolFlag      = "symbol"
	keyFlag         = "key"
	signerFlag      = "signer"
	jsonFlag        = "json"
)

func newTxCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build, review, sign and broadcast transaction artifacts",
	}
	cmd.AddCommand(
		newTxTransfer(a),
		newTxTokenTransfer(a),
		newTxPreview(a),
		newTxSign(a),
		newTxVerify(),
		newTxBroadcast(a),
	)
	return cmd
}

type transferFlags struct {
	from, to, amount, nonce, authority, description, out string
}

func (f *transferFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, fromFlag, "", "sender: vault key name or public key (required)")
	cmd.Flags().StringVar(&f.to, toFlag, "", "recipient public key (required)")
	cmd.Flags().StringVar(&f.amount, amountFlag, "", "amount in whole units, e.g. 0.5 (required)")
	cmd.Flags().StringVar(&f.nonce, nonceFlag, "", "durable nonce account: recorded label or address (required)")
	cmd.Flags().StringVar(&f.authority, authorityFlag, "", "nonce authority: vault key name or public key (default: sender)")
	cmd.Flags().StringVar(&f.description, descriptionFlag, "", "human readable description")
	cmd.Flags().StringVar(&f.out, outFlag, "unsigned.json", "where to write the unsigned artifact")
	for _, name := range []string{fromFlag, toFlag, amountFlag, nonceFlag} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *transferFlags) params(a *app) (solana.TransferParams, error) {
	var p solana.TransferParams
	var err error

	if p.From, err = a.resolveAddress(f.from); err != nil {
		return p, err
	}
	if p.To, err = a.resolveAddress(f.to); err != nil {
		return p, err
	}
	if p.NonceAccount, err = a.resolveNonce(f.nonce); err != nil {
		return p, err
	}
	if f.authority != "" {
		if p.NonceAuthority, err = a.resolveAddress(f.authority); err != nil {
			return p, err
		}
	}
	p.Amount = f.amount
	p.Network = a.cfg.Network
	p.Description = f.description
	return p, nil
}

func newTxTransfer(a *app) *cobra.Command {
	var f transferFlags

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Build an unsigned SOL transfer (online)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := f.params(a)
			if err != nil {
				return err
			}

			tx, err := solana.BuildTransfer(cmd.Context(), a.rpc(), p)
			if err != nil {
				return err
			}
			return writeUnsigned(cmd, f.out, tx)
		},
	}
	f.register(cmd)
	return cmd
}

func newTxTokenTransfer(a *app) *cobra.Command {
	var (
		f            transferFlags
		mint, symbol string
	)

	cmd := &cobra.Command{
		Use:   "token-transfer",
		Short: "Build an unsigned SPL token transfer (online)",
		Long: `Build an unsigned SPL token transfer between associated token accounts.

Decimals are read from the mint. The recipient's associated token account is
created in the same transaction when it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := f.params(a)
			if err != nil {
				return err
			}
			mintKey, err := solanago.PublicKeyFromBase58(mint)
			if err != nil {
				return errors.Wrap(err, "invalid mint address")
			}

			tx, err := solana.BuildTokenTransfer(cmd.Context(), a.rpc(), solana.TokenTransferParams{
				TransferParams: p,
				Mint:           mintKey,
				Symbol:         symbol,
			})
			if err != nil {
				return err
			}
			return writeUnsigned(cmd, f.out, tx)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&mint, mintFlag, "", "token mint address (required)")
	cmd.Flags().StringVar(&symbol, symbolFlag, "", "token symbol shown to the signer")
	_ = cmd.MarkFlagRequired(mintFlag)
	return cmd
}

func writeUnsigned(cmd *cobra.Command, path string, tx *model.UnsignedTransaction) error {
	if err := codec.WriteArtifact(path, tx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\nUnsigned transaction written to %s\n", tx.Description, path)
	return nil
}

func newTxPreview(a *app) *cobra.Command {
	var signer string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Decode an unsigned artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := codec.ReadUnsigned(args[0])
			if err != nil {
				return err
			}

			var signerKey *solanago.PublicKey
			if signer != "" {
				pk, err := a.resolveAddress(signer)
				if err != nil {
					return err
				}
				signerKey = &pk
			}

			preview, _, err := solana.Preview(tx, signerKey)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, preview)
			}
			renderPreview(cmd.OutOrStdout(), preview)
			return nil
		},
	}
	cmd.Flags().StringVar(&signer, signerFlag, "", "expected signer: vault key name or public key")
	cmd.Flags().BoolVar(&asJSON, jsonFlag, false, "print the preview as JSON")
	return cmd
}

func newTxSign(a *app) *cobra.Command {
	var key, out string

	cmd := &cobra.Command{
		Use:   "sign FILE",
		Short: "Review and sign an unsigned artifact (offline)",
		Long: `Review and sign an unsigned artifact.

The decoded transaction is shown first and nothing is signed unless the
prompt is answered with yes. The signature covers the exact message bytes
in the artifact; the signed artifact carries them unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := codec.ReadUnsigned(args[0])
			if err != nil {
				return err
			}

			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			outcome, err := solana.Sign(a.vault, key, password, tx, func(p *solana.TransactionPreview) (bool, error) {
				renderPreview(cmd.ErrOrStderr(), p)
				return a.confirm(cmd, "Sign this transaction?")
			})
			if err != nil {
				return err
			}
			if outcome.Status == solana.StatusDeclined {
				fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
				return nil
			}

			if err := codec.WriteArtifact(out, outcome.Signed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nSignature: %s\nSigned transaction written to %s\n",
				outcome.Message, outcome.Signed.Signature, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, keyFlag, "", "vault key to sign with (required)")
	cmd.Flags().StringVar(&out, outFlag, "signed.json", "where to write the signed artifact")
	_ = cmd.MarkFlagRequired(keyFlag)
	return cmd
}

func newTxVerify() *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE",
		Short: "Check a signed artifact's signature against its message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signed, err := codec.ReadSigned(args[0])
			if err != nil {
				return err
			}
			if !solana.VerifySigned(signed) {
				return errors.Errorf("signature %s is not valid for %s", signed.Signature, signed.PublicKey)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signature is valid for %s.\n", signed.PublicKey)
			return nil
		},
	}
}

func newTxBroadcast(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast SIGNED_FILE...",
		Short: "Bind signed artifacts and submit the transaction (online)",
		Long: `Bind one signed artifact per required signer and submit the transaction.

All artifacts must carry the same message. Every required signer needs a
signature and every signature is verified before submission. The command waits
for confirmation once and does not retry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signed := make([]*model.SignedTransaction, 0, len(args))
			for _, path := range args {
				s, err := codec.ReadSigned(path)
				if err != nil {
					return err
				}
				signed = append(signed, s)
			}

			result, err := solana.Broadcast(cmd.Context(), a.rpc(), a.cfg.Network, signed...)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, result); err != nil {
				return err
			}
			if result.Status != solana.StatusConfirmed {
				return errors.Errorf("transaction %s failed: %s", result.Signature, result.Error)
			}
			return nil
		},
	}
}

func renderPreview(w io.Writer, p *solana.TransactionPreview) {
	fmt.Fprintf(w, "Description: %s\n", p.Description)
	fmt.Fprintf(w, "Network:     %s\n", p.Network)
	fmt.Fprintf(w, "Type:        %s\n", p.Type)
	if p.Amount != nil {
		fmt.Fprintf(w, "Amount:      %s\n", *p.Amount)
	}
	fmt.Fprintf(w, "Fee payer:   %s\n", p.Decoded.FeePayer)
	fmt.Fprintf(w, "Signers:     %s\n", strings.Join(p.Decoded.Signers, ", "))
	fmt.Fprintf(w, "Blockhash:   %s\n", p.Decoded.RecentBlockhash)
	for i, ix := range p.Decoded.Instructions {
		fmt.Fprintf(w, "  #%d %s accounts=%v data=%s\n", i, ix.ProgramID, ix.Accounts, ix.DataHex)
	}
	if p.Signer != "" {
		fmt.Fprintf(w, "Signing key: %s\n", p.Signer)
	}
	for _, warning := range p.Warnings {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
}
