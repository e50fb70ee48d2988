package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/config"
	"github.com/AlexZinkM/offline-signer/internal/errs"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// readLine reads one line from the command's input. One reader is shared by
// every prompt of a command so piped answers are consumed in order.
func (a *app) readLine(cmd *cobra.Command) (string, error) {
	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "failed to read input")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads one line without echo on a terminal, or one line of
// piped input otherwise. The caller must zero the returned slice.
func (a *app) readSecret(cmd *cobra.Command, prompt string) ([]byte, error) {
	if a.interactive() {
		return config.PromptPassword(prompt)
	}

	line, err := a.readLine(cmd)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, errors.New("input cannot be empty")
	}
	return []byte(line), nil
}

// vaultPassword prompts for the vault password only when one is set.
// It returns nil for an unprotected vault.
func (a *app) vaultPassword(cmd *cobra.Command) ([]byte, error) {
	set, err := a.vault.PasswordSet()
	if err != nil {
		return nil, err
	}
	if !set {
		return nil, nil
	}
	return a.readSecret(cmd, "Vault password: ")
}

// confirm asks a yes/no question; anything but "y" or "yes" is a no
func (a *app) confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	answer, err := a.readLine(cmd)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveAddress accepts either a vault key name or a base58 public key
func (a *app) resolveAddress(s string) (solanago.PublicKey, error) {
	if summary, err := a.vault.Get(s); err == nil {
		return solanago.PublicKeyFromBase58(summary.PublicKey)
	}
	pk, err := solanago.PublicKeyFromBase58(s)
	if err != nil {
		return solanago.PublicKey{}, errs.Newf(errs.NotFound, "%q is neither a vault key nor a public key", s)
	}
	return pk, nil
}

// resolveNonce accepts either a recorded nonce label or a base58 address
func (a *app) resolveNonce(s string) (solanago.PublicKey, error) {
	if rec, err := a.vault.NonceAccount(s); err == nil {
		return solanago.PublicKeyFromBase58(rec.Address)
	}
	pk, err := solanago.PublicKeyFromBase58(s)
	if err != nil {
		return solanago.PublicKey{}, errs.Newf(errs.NotFound, "%q is neither a nonce label nor an address", s)
	}
	return pk, nil
}
