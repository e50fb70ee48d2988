// Package vault keeps named Ed25519 keypairs encrypted at rest, one JSON
// file per name, under a single storage root.
package vault

import (
	"bytes"
	"crypto/ed25519"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexZinkM/offline-signer/internal/crypto"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const secretKeyLen = ed25519.PrivateKeySize

// Vault is stateless between calls: every operation reads and writes disk.
type Vault struct {
	root   string
	params crypto.Params
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Vault.
type Option func(*Vault)

// WithKDFCost overrides the scrypt N parameter for new envelopes.
func WithKDFCost(n int) Option {
	return func(v *Vault) {
		v.params = crypto.ParamsWithCost(n)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) {
		v.now = now
	}
}

// New opens (and creates if needed) a vault rooted at dir.
func New(dir string, opts ...Option) (*Vault, error) {
	if dir == "" {
		return nil, errs.Missing("vault directory")
	}

	v := &Vault{
		root:   dir,
		params: crypto.DefaultParams(),
		now:    time.Now,
		logger: log.With().Str("component", "vault").Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := os.MkdirAll(filepath.Join(dir, keysDir), dirPerm); err != nil {
		return nil, errors.Wrap(err, "failed to create vault directory")
	}
	return v, nil
}

// Root returns the storage root.
func (v *Vault) Root() string {
	return v.root
}

// ImportOptions carries provenance for keys derived from a seed phrase.
type ImportOptions struct {
	Mnemonic       string // retained only when non-empty
	DerivationPath string
}

// Generate creates and stores a fresh keypair.
// password is required once a vault password is set (caller should zero it after use)
func (v *Vault) Generate(name string, password []byte) (*model.KeypairRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate keypair")
	}
	defer clear(key)

	rec := &model.KeypairRecord{
		Name:      name,
		PublicKey: key.PublicKey().String(),
		CreatedAt: v.now().UTC().Format(time.RFC3339),
	}
	if err := v.store(rec, key, "", password); err != nil {
		return nil, err
	}

	v.logger.Info().Str("name", name).Str("publicKey", rec.PublicKey).Msg("generated keypair")
	return rec, nil
}

// Import stores existing secret material given in one of the SecretEncodings.
func (v *Vault) Import(name, material string, enc SecretEncoding, password []byte) (*model.KeypairRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	raw, err := enc.Decode(material)
	if err != nil {
		return nil, err
	}
	defer clear(raw)

	key, err := keypairFromSecret(raw)
	if err != nil {
		return nil, err
	}
	return v.ImportKeypair(name, key, ImportOptions{}, password)
}

// ImportKeypair stores an already reconstructed keypair, e.g. one derived from a mnemonic.
func (v *Vault) ImportKeypair(name string, key solana.PrivateKey, opts ImportOptions, password []byte) (*model.KeypairRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := keypairFromSecret(key); err != nil {
		return nil, err
	}

	rec := &model.KeypairRecord{
		Name:           name,
		PublicKey:      key.PublicKey().String(),
		DerivationPath: opts.DerivationPath,
		ImportedAt:     v.now().UTC().Format(time.RFC3339),
	}
	if err := v.store(rec, key, opts.Mnemonic, password); err != nil {
		return nil, err
	}

	v.logger.Info().
		Str("name", name).
		Str("publicKey", rec.PublicKey).
		Bool("mnemonic", rec.HasMnemonic()).
		Msg("imported keypair")
	return rec, nil
}

func (v *Vault) store(rec *model.KeypairRecord, key solana.PrivateKey, mnemonic string, password []byte) error {
	protected, err := v.protected(password)
	if err != nil {
		return err
	}

	rec.EncryptedSecretKey, err = v.seal(key, password, protected)
	if err != nil {
		return err
	}

	if mnemonic != "" {
		if protected {
			phrase := []byte(mnemonic)
			rec.EncryptedMnemonic, err = v.seal(phrase, password, protected)
			clear(phrase)
			if err != nil {
				return err
			}
		} else {
			rec.Mnemonic = mnemonic
		}
	}

	return v.createRecord(rec)
}

// protected reports whether a vault password is set and, if so, checks it.
func (v *Vault) protected(password []byte) (bool, error) {
	hash, err := v.passwordHash()
	if err != nil {
		return false, err
	}
	if hash == "" {
		return false, nil
	}
	if len(password) == 0 {
		return false, errs.Missing("password")
	}
	if !crypto.VerifyPassword(password, hash) {
		return false, errs.New(errs.InvalidPassword, "invalid password")
	}
	return true, nil
}

func (v *Vault) seal(plaintext, password []byte, protected bool) (string, error) {
	if !protected {
		return crypto.SealPlain(plaintext), nil
	}
	envelope, err := crypto.Seal(plaintext, password, v.params)
	if err != nil {
		return "", errors.Wrap(err, "failed to encrypt")
	}
	return envelope, nil
}

// Load decrypts the named keypair. Wrong password, corrupted ciphertext and a
// stored public key that does not match the secret all yield crypto.ErrDecrypt.
// The caller must zero the returned key after use.
func (v *Vault) Load(name string, password []byte) (solana.PrivateKey, error) {
	rec, err := v.readRecord(name)
	if err != nil {
		return nil, err
	}

	raw, err := crypto.Open(rec.EncryptedSecretKey, password)
	if err != nil {
		return nil, crypto.ErrDecrypt
	}
	defer clear(raw)

	key, err := keypairFromSecret(raw)
	if err != nil {
		return nil, crypto.ErrDecrypt
	}
	if key.PublicKey().String() != rec.PublicKey {
		clear(key)
		v.logger.Warn().Str("name", name).Msg("stored public key does not match secret")
		return nil, crypto.ErrDecrypt
	}
	return key, nil
}

// Get returns the named record without secret material.
func (v *Vault) Get(name string) (model.KeypairSummary, error) {
	rec, err := v.readRecord(name)
	if err != nil {
		return model.KeypairSummary{}, err
	}
	return rec.Summary(), nil
}

// List returns every record, sorted by name, without secret material.
func (v *Vault) List() ([]model.KeypairSummary, error) {
	names, err := v.recordNames()
	if err != nil {
		return nil, err
	}

	out := make([]model.KeypairSummary, 0, len(names))
	for _, name := range names {
		rec, err := v.readRecord(name)
		if err != nil {
			v.logger.Warn().Err(err).Str("name", name).Msg("skipping unreadable key record")
			continue
		}
		out = append(out, rec.Summary())
	}
	return out, nil
}

// Delete removes the named record.
func (v *Vault) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.Remove(v.recordPath(name)); err != nil {
		if os.IsNotExist(err) {
			return errs.Newf(errs.NotFound, "key %q not found", name)
		}
		return errors.Wrapf(err, "failed to delete key %q", name)
	}

	v.logger.Info().Str("name", name).Msg("deleted keypair")
	return nil
}

// ExportSecret decrypts the named secret key and renders it in enc.
func (v *Vault) ExportSecret(name string, enc SecretEncoding, password []byte) (string, error) {
	key, err := v.Load(name, password)
	if err != nil {
		return "", err
	}
	defer clear(key)

	return enc.Encode(key)
}

// ExportMnemonic returns the retained seed phrase, if any.
func (v *Vault) ExportMnemonic(name string, password []byte) (string, bool, error) {
	rec, err := v.readRecord(name)
	if err != nil {
		return "", false, err
	}

	switch {
	case rec.EncryptedMnemonic != "":
		phrase, err := crypto.Open(rec.EncryptedMnemonic, password)
		if err != nil {
			return "", false, crypto.ErrDecrypt
		}
		defer clear(phrase)
		return string(phrase), true, nil
	case rec.Mnemonic != "":
		return rec.Mnemonic, true, nil
	}
	return "", false, nil
}

// keypairFromSecret accepts only a 64-byte seed||publicKey array whose second
// half is the public key of its first half.
func keypairFromSecret(b []byte) (solana.PrivateKey, error) {
	if len(b) != secretKeyLen {
		return nil, errs.Newf(errs.InvalidSecretMaterial, "invalid secret key length: expected %d bytes, got %d", secretKeyLen, len(b))
	}

	expected := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
	defer clear(expected)
	if !bytes.Equal(expected, b) {
		return nil, errs.New(errs.InvalidSecretMaterial, "secret key does not match its public key")
	}

	key := make(solana.PrivateKey, secretKeyLen)
	copy(key, b)
	return key, nil
}
