package vault

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/pkg/errors"
)

// NamedNonceAccount is a NonceAccountRecord with its local label.
type NamedNonceAccount struct {
	Label string `json:"label"`
	model.NonceAccountRecord
}

func (v *Vault) noncesPath() string {
	return filepath.Join(v.root, noncesFile)
}

func (v *Vault) readNonces() (map[string]model.NonceAccountRecord, error) {
	out := map[string]model.NonceAccountRecord{}
	if err := readJSON(v.noncesPath(), &out); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return map[string]model.NonceAccountRecord{}, nil
		}
		return nil, err
	}
	return out, nil
}

// SaveNonceAccount records a durable nonce account under label.
func (v *Vault) SaveNonceAccount(label string, rec model.NonceAccountRecord) error {
	if err := validateName(label); err != nil {
		return err
	}
	if rec.Address == "" {
		return errs.Missing("address")
	}

	nonces, err := v.readNonces()
	if err != nil {
		return err
	}
	if _, ok := nonces[label]; ok {
		return errs.Newf(errs.AlreadyExists, "nonce account %q already exists", label)
	}

	if rec.CreatedAt == "" {
		rec.CreatedAt = v.now().UTC().Format(time.RFC3339)
	}
	nonces[label] = rec
	if err := writeJSON(v.noncesPath(), nonces); err != nil {
		return err
	}

	v.logger.Info().Str("label", label).Str("address", rec.Address).Msg("recorded nonce account")
	return nil
}

// NonceAccount returns the nonce account recorded under label.
func (v *Vault) NonceAccount(label string) (model.NonceAccountRecord, error) {
	nonces, err := v.readNonces()
	if err != nil {
		return model.NonceAccountRecord{}, err
	}
	rec, ok := nonces[label]
	if !ok {
		return model.NonceAccountRecord{}, errs.Newf(errs.NotFound, "nonce account %q not found", label)
	}
	return rec, nil
}

// NonceAccounts lists recorded nonce accounts sorted by label.
func (v *Vault) NonceAccounts() ([]NamedNonceAccount, error) {
	nonces, err := v.readNonces()
	if err != nil {
		return nil, err
	}

	out := make([]NamedNonceAccount, 0, len(nonces))
	for label, rec := range nonces {
		out = append(out, NamedNonceAccount{Label: label, NonceAccountRecord: rec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}
