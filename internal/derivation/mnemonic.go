// Package derivation turns BIP39 seed phrases into Solana keypairs along
// hardened SLIP-0010 paths.
package derivation

import (
	"fmt"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

const emptyMnemonicMessage = "mnemonic is empty"

var wordCountBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// ValidationResult describes a seed phrase. A bad checksum is a warning:
// Valid stays true and ChecksumValid is false.
type ValidationResult struct {
	Valid         bool   `json:"valid"`
	WordCount     int    `json:"wordCount"`
	ChecksumValid bool   `json:"checksumValid"`
	Message       string `json:"message"`
}

// Normalize collapses whitespace and case.
func Normalize(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// Validate checks word count, vocabulary and checksum. Only the word count
// decides validity; an unknown word fails the checksum.
func Validate(mnemonic string) ValidationResult {
	words := strings.Fields(strings.ToLower(mnemonic))
	n := len(words)

	if n == 0 {
		return ValidationResult{Message: emptyMnemonicMessage}
	}
	if _, ok := wordCountBits[n]; !ok {
		return ValidationResult{
			WordCount: n,
			Message:   fmt.Sprintf("invalid word count: %d (expected 12, 15, 18, 21 or 24)", n),
		}
	}
	for i, w := range words {
		if _, ok := bip39.GetWordIndex(w); !ok {
			return ValidationResult{
				Valid:     true,
				WordCount: n,
				Message:   fmt.Sprintf("checksum cannot be verified: word %d (%q) is not in the BIP39 English wordlist", i+1, w),
			}
		}
	}

	if _, err := bip39.EntropyFromMnemonic(strings.Join(words, " ")); err != nil {
		return ValidationResult{
			Valid:     true,
			WordCount: n,
			Message:   "checksum is invalid: double-check the words, or proceed only if the source wallet is known to be non-standard",
		}
	}

	return ValidationResult{
		Valid:         true,
		WordCount:     n,
		ChecksumValid: true,
		Message:       "mnemonic is valid",
	}
}

// Generate returns a fresh English mnemonic of the given length.
func Generate(words int) (string, error) {
	bits, ok := wordCountBits[words]
	if !ok {
		return "", errs.Newf(errs.InvalidMnemonicStructure, "invalid word count: %d (expected 12, 15, 18, 21 or 24)", words)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to build mnemonic")
	}
	return mnemonic, nil
}

// seedFor rejects structurally invalid phrases before any derivation work.
func seedFor(mnemonic, passphrase string) ([]byte, error) {
	res := Validate(mnemonic)
	if !res.Valid {
		return nil, errs.New(errs.InvalidMnemonicStructure, res.Message)
	}
	return bip39.NewSeed(Normalize(mnemonic), passphrase), nil
}
