package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	"golang.org/x/crypto/scrypt"
)

// ErrDecrypt is returned for every failure to open an envelope.
// Wrong password and corrupted data are deliberately indistinguishable.
var ErrDecrypt = errs.New(errs.InvalidPassword, "invalid password or corrupted key material")

// Open decrypts an envelope produced by Seal or SealPlain.
// password must be []byte for security (caller should zero it after use)
func Open(envelope string, password []byte) ([]byte, error) {
	parts := strings.Split(envelope, sep)

	switch parts[0] {
	case schemePlain:
		if len(parts) != 2 {
			return nil, ErrDecrypt
		}
		plaintext, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, ErrDecrypt
		}
		return plaintext, nil
	case schemeSealed:
		if len(parts) != 7 {
			return nil, ErrDecrypt
		}
	default:
		return nil, ErrDecrypt
	}

	params, ok := parseParams(parts[1:4])
	if !ok {
		return nil, ErrDecrypt
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, ErrDecrypt
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(nonce) != nonceLen {
		return nil, ErrDecrypt
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[6])
	if err != nil {
		return nil, ErrDecrypt
	}

	aesGCM, err := newGCM(password, salt, params)
	if err != nil {
		return nil, ErrDecrypt
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// VerifyPassword checks password against a HashPassword verifier in constant time.
func VerifyPassword(password []byte, hash string) bool {
	parts := strings.Split(hash, sep)
	if len(parts) != 6 || parts[0] != schemeHash {
		return false
	}

	params, ok := parseParams(parts[1:4])
	if !ok {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	sum, err := scrypt.Key(password, salt, params.N, params.R, params.P, len(expected))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(sum, expected) == 1
}

func parseParams(fields []string) (Params, bool) {
	var out [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v <= 0 {
			return Params{}, false
		}
		out[i] = v
	}
	p := Params{N: out[0], R: out[1], P: out[2]}
	if p.N > MaxCost || p.R > maxScryptR || p.P > maxScryptP {
		return Params{}, false
	}
	return p, true
}
