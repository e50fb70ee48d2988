package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/AlexZinkM/offline-signer/internal/derivation"

	"github.com/spf13/cobra"
)

const (
	wordsFlag = "words"
	startFlag = "start"
	countFlag = "count"
)

func newMnemonicCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "Generate, validate and derive from BIP39 seed phrases",
	}
	cmd.AddCommand(
		newMnemonicNew(),
		newMnemonicValidate(a),
		newMnemonicDerive(a),
		newMnemonicPresets(),
	)
	return cmd
}

func newMnemonicNew() *cobra.Command {
	var words int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new seed phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phrase, err := derivation.Generate(words)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: write this down and keep it offline; it is not stored")
			fmt.Fprintln(cmd.OutOrStdout(), phrase)
			return nil
		},
	}
	cmd.Flags().IntVar(&words, wordsFlag, 24, "number of words: 12, 15, 18, 21 or 24")
	return cmd
}

func newMnemonicValidate(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check word count, vocabulary and checksum of a seed phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phrase, err := a.readSecret(cmd, "Seed phrase: ")
			if err != nil {
				return err
			}
			defer clear(phrase)

			return printJSON(cmd, derivation.Validate(string(phrase)))
		},
	}
}

func newMnemonicDerive(a *app) *cobra.Command {
	var (
		preset, template string
		start, count     int
		withPassphrase   bool
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Preview the public keys a seed phrase derives to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phrase, err := a.readSecret(cmd, "Seed phrase: ")
			if err != nil {
				return err
			}
			defer clear(phrase)

			var passphrase string
			if withPassphrase {
				p, err := a.readSecret(cmd, "BIP39 passphrase: ")
				if err != nil {
					return err
				}
				passphrase = string(p)
				clear(p)
			}

			spec := derivation.PathSpec{Preset: preset, Template: template}
			if _, err := spec.Path(start); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}

			accounts, err := derivation.DeriveMany(string(phrase), passphrase, spec, start, count)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tPATH\tPUBLIC KEY")
			for _, acc := range accounts {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", acc.Index, acc.Path, acc.PublicKey)
			}
			return tw.Flush()
		},
	}
	addPathFlags(cmd, &preset, &template)
	cmd.Flags().IntVar(&start, startFlag, 0, "first account index")
	cmd.Flags().IntVar(&count, countFlag, 5, "number of accounts")
	cmd.Flags().BoolVar(&withPassphrase, passphraseFlag, false, "prompt for a BIP39 passphrase")
	return cmd
}

func newMnemonicPresets() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in derivation path presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRESET\tTEMPLATE\tWALLETS")
			for _, p := range derivation.Presets() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Template, p.Description)
			}
			return tw.Flush()
		},
	}
}
