package derivation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	"github.com/anyproto/go-slip10"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
)

// DerivedAccount is one row of a derivation preview.
type DerivedAccount struct {
	Index     int    `json:"index"`
	Path      string `json:"path"`
	PublicKey string `json:"publicKey"`
}

// DeriveOne derives the keypair at one account index and returns it with its path.
// The caller must zero the returned key after use.
func DeriveOne(mnemonic, passphrase string, spec PathSpec, index int) (solana.PrivateKey, string, error) {
	seed, err := seedFor(mnemonic, passphrase)
	if err != nil {
		return nil, "", err
	}
	defer clear(seed)

	path, err := spec.Path(index)
	if err != nil {
		return nil, "", err
	}

	key, err := keyAtPath(seed, path)
	if err != nil {
		return nil, "", err
	}
	return key, path, nil
}

// DeriveMany previews count consecutive accounts starting at start.
// An unknown preset yields no rows; an index that fails to derive is skipped.
func DeriveMany(mnemonic, passphrase string, spec PathSpec, start, count int) ([]DerivedAccount, error) {
	if start < 0 {
		return nil, errs.Newf(errs.InvalidDerivationPath, "account index must not be negative: %d", start)
	}

	seed, err := seedFor(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	if _, ok := spec.resolve(); !ok || count <= 0 {
		return []DerivedAccount{}, nil
	}

	out := make([]DerivedAccount, 0, count)
	for index := start; index < start+count; index++ {
		path, err := spec.Path(index)
		if err == nil {
			var key solana.PrivateKey
			key, err = keyAtPath(seed, path)
			if err == nil {
				out = append(out, DerivedAccount{Index: index, Path: path, PublicKey: key.PublicKey().String()})
				clear(key)
				continue
			}
		}
		log.Warn().Str("component", "derivation").Err(err).Int("index", index).Msg("skipping account")
	}
	return out, nil
}

func keyAtPath(seed []byte, path string) (solana.PrivateKey, error) {
	canonical, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}

	node, err := slip10.DeriveForPath(canonical, seed)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidDerivationPath, err, "failed to derive "+path)
	}
	_, priv := node.Keypair()
	return solana.PrivateKey(priv), nil
}

// canonicalPath accepts m/a'/b'/... with every step hardened and rewrites
// the h suffix to an apostrophe.
func canonicalPath(path string) (string, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) < 2 || parts[0] != "m" {
		return "", errs.Newf(errs.InvalidDerivationPath, "invalid derivation path %q", path)
	}

	var b strings.Builder
	b.WriteString("m")
	for _, p := range parts[1:] {
		if !strings.HasSuffix(p, "'") && !strings.HasSuffix(p, "h") {
			return "", errs.Newf(errs.InvalidDerivationPath, "derivation path %q: step %q must be hardened", path, p)
		}
		n, err := strconv.ParseUint(p[:len(p)-1], 10, 31)
		if err != nil {
			return "", errs.Newf(errs.InvalidDerivationPath, "derivation path %q: invalid step %q", path, p)
		}
		fmt.Fprintf(&b, "/%d'", n)
	}
	return b.String(), nil
}
