package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/offline-signer/internal/crypto"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const defaultVaultDirName = ".offline-signer"

// Config contains all configuration parameters for the application.
// Passwords are never part of it: they are prompted for at the moment of use.
type Config struct {
	VaultDir     string `envconfig:"VAULT_DIR"`
	Network      string `envconfig:"NETWORK" default:"mainnet-beta"`
	SolanaRPCURL string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	SolanaWSURL  string `envconfig:"SOLANA_WS_URL"`
	Port         string `envconfig:"PORT" default:"8080"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty    bool   `envconfig:"LOG_PRETTY" default:"true"`
	KDFCost      int    `envconfig:"KDF_COST" default:"262144"`
	PriceAPIURL  string `envconfig:"PRICE_API_URL"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.VaultDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.VaultDir = filepath.Join(home, defaultVaultDirName)
	}
	if cfg.KDFCost <= 1 || cfg.KDFCost&(cfg.KDFCost-1) != 0 {
		return nil, fmt.Errorf("KDF_COST must be a power of two, got %d", cfg.KDFCost)
	}
	if cfg.KDFCost > crypto.MaxCost {
		return nil, fmt.Errorf("KDF_COST must not exceed %d, got %d", crypto.MaxCost, cfg.KDFCost)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// PromptPassword reads a password from the terminal without echoing it.
// The caller must zero the returned slice after use.
func PromptPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	password := make([]byte, len(raw))
	copy(password, raw)
	clear(raw)
	return password, nil
}

// PromptNewPassword asks twice and requires both entries to match.
func PromptNewPassword() ([]byte, error) {
	first, err := PromptPassword("New vault password: ")
	if err != nil {
		return nil, err
	}
	second, err := PromptPassword("Repeat vault password: ")
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)

	if string(first) != string(second) {
		clear(first)
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}
