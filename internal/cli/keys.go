package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/AlexZinkM/offline-signer/internal/common"
	"github.com/AlexZinkM/offline-signer/internal/derivation"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/vault"
	"github.com/AlexZinkM/offline-signer/solana"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	encodingFlag   = "encoding"
	fileFlag       = "file"
	presetFlag     = "preset"
	templateFlag   = "template"
	indexFlag      = "index"
	passphraseFlag = "passphrase"
	keepFlag       = "keep-mnemonic"
	yesFlag        = "yes"
)

func newKeysCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage named keypairs in the vault",
	}
	cmd.AddCommand(
		newKeysGenerate(a),
		newKeysImport(a),
		newKeysImportMnemonic(a),
		newKeysList(a),
		newKeysShow(a),
		newKeysDelete(a),
		newKeysExport(a),
		newKeysExportMnemonic(a),
	)
	return cmd
}

func newKeysGenerate(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate NAME",
		Short: "Generate a new keypair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			resp, err := solana.GenerateKey(a.vault, args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", resp.Name, resp.PublicKey)
			return nil
		},
	}
}

func newKeysImport(a *app) *cobra.Command {
	var encoding, file string

	cmd := &cobra.Command{
		Use:   "import NAME",
		Short: "Import a 64-byte secret key",
		Long: `Import a 64-byte secret key (seed followed by public key).

The key is read from --file or, without it, from the terminal without echo.
Supported encodings: base58, base64, json (a JSON array of 64 byte values,
the solana-keygen file format).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := vault.ParseSecretEncoding(encoding)
			if err != nil {
				return err
			}

			var material []byte
			if file != "" {
				material, err = os.ReadFile(file)
				if err != nil {
					return errors.Wrapf(err, "failed to read %s", file)
				}
			} else {
				material, err = a.readSecret(cmd, "Secret key: ")
				if err != nil {
					return err
				}
			}
			defer clear(material)

			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			rec, err := a.vault.Import(args[0], strings.TrimSpace(string(material)), enc, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.Name, rec.PublicKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, encodingFlag, vault.Base58.String(), "secret key encoding: base58, base64 or json")
	cmd.Flags().StringVar(&file, fileFlag, "", "read the secret key from this file")
	return cmd
}

func newKeysImportMnemonic(a *app) *cobra.Command {
	var (
		preset, template string
		index            int
		withPassphrase   bool
		keepMnemonic     bool
	)

	cmd := &cobra.Command{
		Use:   "import-mnemonic NAME",
		Short: "Derive a keypair from a seed phrase and store it",
		Long: `Derive a keypair from a BIP39 seed phrase and store it under NAME.

Only the derived key and its derivation path are stored. With --keep-mnemonic
the seed phrase is kept alongside the key as well (encrypted once a vault
password is set) so it can be exported later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase, err := a.readSecret(cmd, "Seed phrase: ")
			if err != nil {
				return err
			}
			defer clear(phrase)

			mnemonic := derivation.Normalize(string(phrase))
			res := derivation.Validate(mnemonic)
			if !res.Valid {
				return errs.New(errs.InvalidMnemonicStructure, res.Message)
			}
			if !res.ChecksumValid {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", res.Message)
			}

			var passphrase string
			if withPassphrase {
				p, err := a.readSecret(cmd, "BIP39 passphrase: ")
				if err != nil {
					return err
				}
				passphrase = string(p)
				clear(p)
			}

			key, path, err := derivation.DeriveOne(mnemonic, passphrase, derivation.PathSpec{Preset: preset, Template: template}, index)
			if err != nil {
				return err
			}
			defer clear(key)

			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			opts := vault.ImportOptions{DerivationPath: path}
			if keepMnemonic {
				opts.Mnemonic = mnemonic
			}

			rec, err := a.vault.ImportKeypair(args[0], key, opts, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", rec.Name, rec.PublicKey, rec.DerivationPath)
			return nil
		},
	}
	addPathFlags(cmd, &preset, &template)
	cmd.Flags().IntVar(&index, indexFlag, 0, "account index")
	cmd.Flags().BoolVar(&withPassphrase, passphraseFlag, false, "prompt for a BIP39 passphrase")
	cmd.Flags().BoolVar(&keepMnemonic, keepFlag, false, "store the seed phrase with the key")
	return cmd
}

func addPathFlags(cmd *cobra.Command, preset, template *string) {
	names := make([]string, 0, len(derivation.Presets())+1)
	for _, p := range derivation.Presets() {
		names = append(names, p.Name)
	}
	names = append(names, derivation.CustomPreset)

	cmd.Flags().StringVar(preset, presetFlag, "phantom", "derivation preset: "+strings.Join(names, ", "))
	cmd.Flags().StringVar(template, templateFlag, "", "path template for the custom preset, e.g. m/44'/501'/{index}'/0'")
}

func newKeysList(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := a.vault.List()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPUBLIC KEY\tMNEMONIC\tPATH")
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", k.Name, k.PublicKey, k.HasMnemonic, k.DerivationPath)
			}
			return tw.Flush()
		},
	}
}

func newKeysShow(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a public key with a terminal QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.vault.Get(args[0])
			if err != nil {
				return err
			}

			qr, err := common.AddressQRCodeText(summary.PublicKey)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", summary.Name)
			fmt.Fprintf(out, "Public key: %s\n", summary.PublicKey)
			if summary.DerivationPath != "" {
				fmt.Fprintf(out, "Path:       %s\n", summary.DerivationPath)
			}
			fmt.Fprintln(out, qr)
			return nil
		},
	}
}

func newKeysDelete(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.vault.Get(args[0]); err != nil {
				return err
			}
			if !yes {
				ok, err := a.confirm(cmd, fmt.Sprintf("Delete key %q? This cannot be undone", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
					return nil
				}
			}
			return a.vault.Delete(args[0])
		},
	}
	cmd.Flags().BoolVar(&yes, yesFlag, false, "do not ask for confirmation")
	return cmd
}

func newKeysExport(a *app) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Print the decrypted secret key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := vault.ParseSecretEncoding(encoding)
			if err != nil {
				return err
			}

			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			secret, err := a.vault.ExportSecret(args[0], enc, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: anyone with this secret key controls the account")
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, encodingFlag, vault.Base58.String(), "output encoding: base58, base64 or json")
	return cmd
}

func newKeysExportMnemonic(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export-mnemonic NAME",
		Short: "Print the seed phrase a key was imported from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			phrase, ok, err := a.vault.ExportMnemonic(args[0], password)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "key %q has no stored seed phrase\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: anyone with this seed phrase controls every account derived from it")
			fmt.Fprintln(cmd.OutOrStdout(), phrase)
			return nil
		},
	}
}
