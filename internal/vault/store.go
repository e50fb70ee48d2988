package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/pkg/errors"
)

const (
	keysDir    = "keys"
	configFile = "config.json"
	noncesFile = "nonces.json"
	recordExt  = ".json"

	dirPerm  = 0o700
	filePerm = 0o600
)

// Names become file names, so they are restricted to a portable set.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Missing("name")
	}
	if name == "." || name == ".." || !namePattern.MatchString(name) {
		return errs.Newf(errs.InvalidName, "invalid key name %q: use letters, digits, '.', '_' or '-'", name)
	}
	return nil
}

func (v *Vault) recordPath(name string) string {
	return filepath.Join(v.root, keysDir, name+recordExt)
}

func (v *Vault) exists(name string) (bool, error) {
	_, err := os.Stat(v.recordPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to stat key %q", name)
}

func (v *Vault) readRecord(name string) (*model.KeypairRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var rec model.KeypairRecord
	if err := readJSON(v.recordPath(name), &rec); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, errs.Newf(errs.NotFound, "key %q not found", name)
		}
		return nil, err
	}
	return &rec, nil
}

// createRecord persists a new record. The existence check and the write are
// not atomic together: two concurrent creates of one name race, last writer wins.
func (v *Vault) createRecord(rec *model.KeypairRecord) error {
	found, err := v.exists(rec.Name)
	if err != nil {
		return err
	}
	if found {
		return errs.Newf(errs.AlreadyExists, "key %q already exists", rec.Name)
	}
	return writeJSON(v.recordPath(rec.Name), rec)
}

func (v *Vault) recordNames() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(v.root, keysDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read keys directory")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != recordExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), recordExt))
	}
	sort.Strings(names)
	return names, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to parse %s", filepath.Base(path))
	}
	return nil
}

func writeJSON(path string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal record")
	}
	return atomicWriteFile(path, data, filePerm)
}

// atomicWriteFile replaces path as a whole so readers never observe a partial record.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"

	// Best effort cleanup if something already exists.
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
