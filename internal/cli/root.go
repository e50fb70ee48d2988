// Package cli wires the vault, derivation and signing packages into the
// offline-signer command tree. Commands hold no logic of their own.
package cli

import (
	"bufio"
	"os"

	"github.com/AlexZinkM/offline-signer/internal/client"
	"github.com/AlexZinkM/offline-signer/internal/config"
	"github.com/AlexZinkM/offline-signer/internal/vault"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const appName = "offline-signer"

// app is shared by every subcommand and filled in before any of them runs
type app struct {
	cfg         *config.Config
	vault       *vault.Vault
	in          *bufio.Reader
	interactive func() bool
}

// NewRootCommand builds the full command tree
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &app{interactive: stdinIsTerminal})
}

func newRootCommand(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Version: version,
		Use:     appName,
		Short:   "Air-gapped Solana key vault and transaction signer",
		Long: `offline-signer keeps Solana keys on a machine that never touches the network.

Transactions are built online against a durable nonce, carried to the offline
machine as JSON files, reviewed and signed there, then carried back and broadcast.
Requires configuration through ENV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	rootCmd.AddCommand(
		newKeysCommand(a),
		newPasswordCommand(a),
		newMnemonicCommand(a),
		newTxCommand(a),
		newNonceCommand(a),
		newBalanceCommand(a),
		newServeCommand(a),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute(version string) {
	rootCmd := NewRootCommand(version)
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	setupLogger(cfg)

	v, err := vault.New(cfg.VaultDir, vault.WithKDFCost(cfg.KDFCost))
	if err != nil {
		return errors.Wrap(err, "failed to open vault")
	}
	a.vault = v
	return nil
}

func setupLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// rpc returns a client for the configured cluster. Only online commands call it.
func (a *app) rpc() *client.SolanaClient {
	return client.NewSolanaClient(a.cfg.SolanaRPCURL, a.cfg.SolanaWSURL)
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
