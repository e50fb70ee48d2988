package vault

import (
	"os"
	"path/filepath"

	"github.com/AlexZinkM/offline-signer/internal/crypto"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/pkg/errors"
)

func (v *Vault) configPath() string {
	return filepath.Join(v.root, configFile)
}

func (v *Vault) readConfig() (*model.GlobalConfig, error) {
	var cfg model.GlobalConfig
	if err := readJSON(v.configPath(), &cfg); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (v *Vault) passwordHash() (string, error) {
	cfg, err := v.readConfig()
	if err != nil {
		return "", err
	}
	return cfg.PasswordHash, nil
}

// SetPassword configures the vault password. It can be set only once.
// Keys stored before it was set stay in plain envelopes.
func (v *Vault) SetPassword(password []byte) error {
	if len(password) == 0 {
		return errs.Missing("password")
	}

	cfg, err := v.readConfig()
	if err != nil {
		return err
	}
	if cfg.PasswordHash != "" {
		return errs.New(errs.AlreadyExists, "vault password is already set")
	}

	cfg.PasswordHash, err = crypto.HashPassword(password, v.params)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	if err := writeJSON(v.configPath(), cfg); err != nil {
		return err
	}

	v.logger.Info().Msg("vault password set")
	return nil
}

// VerifyPassword reports whether password matches. False when none is set.
func (v *Vault) VerifyPassword(password []byte) (bool, error) {
	hash, err := v.passwordHash()
	if err != nil {
		return false, err
	}
	if hash == "" {
		return false, nil
	}
	return crypto.VerifyPassword(password, hash), nil
}

// PasswordSet reports whether a vault password is configured.
func (v *Vault) PasswordSet() (bool, error) {
	hash, err := v.passwordHash()
	if err != nil {
		return false, err
	}
	return hash != "", nil
}

// ClearPassword removes the vault password. Allowed only while the vault holds no keys.
func (v *Vault) ClearPassword() error {
	names, err := v.recordNames()
	if err != nil {
		return err
	}
	if len(names) > 0 {
		return errs.Newf(errs.VaultNotEmpty, "cannot clear password: vault holds %d key(s)", len(names))
	}

	cfg, err := v.readConfig()
	if err != nil {
		return err
	}
	if cfg.PasswordHash == "" {
		return nil
	}

	cfg.PasswordHash = ""
	if err := writeJSON(v.configPath(), cfg); err != nil {
		return err
	}

	v.logger.Info().Msg("vault password cleared")
	return nil
}
