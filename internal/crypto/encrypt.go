package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for key custody
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s) - optimal balance:
	//   - Maximum security while remaining usable on an offline laptop
	//   - Brute-force attacks remain extremely expensive
	defaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1

	// MaxCost bounds N for new and stored envelopes (1 GiB of scrypt memory at r=8).
	MaxCost    = 1 << 20
	maxScryptR = 16
	maxScryptP = 16

	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12

	schemeSealed = "scrypt-aes256gcm"
	schemePlain  = "plain"
	schemeHash   = "scrypt"
	sep          = "$"
)

// Params are the scrypt cost parameters recorded inside every envelope,
// so records written with one cost stay readable after the default changes.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams returns the production scrypt cost.
func DefaultParams() Params {
	return Params{N: defaultScryptN, R: scryptR, P: scryptP}
}

// ParamsWithCost returns default parameters with a custom N (power of two > 1, at most MaxCost).
func ParamsWithCost(n int) Params {
	p := DefaultParams()
	if n > 1 && n <= MaxCost && n&(n-1) == 0 {
		p.N = n
	}
	return p
}

// Seal encrypts plaintext under a key derived from password.
// Envelope: scrypt-aes256gcm$N$r$p$salt$nonce$ciphertext (base64 fields).
// password must be []byte for security (caller should zero it after use)
func Seal(plaintext, password []byte, params Params) (string, error) {
	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, params)
	if err != nil {
		return "", err
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	return strings.Join([]string{
		schemeSealed,
		strconv.Itoa(params.N),
		strconv.Itoa(params.R),
		strconv.Itoa(params.P),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(ciphertext),
	}, sep), nil
}

// SealPlain wraps plaintext without encryption. Used while no vault password
// has been configured.
func SealPlain(plaintext []byte) string {
	return schemePlain + sep + base64.StdEncoding.EncodeToString(plaintext)
}

// IsSealed reports whether an envelope is password protected.
func IsSealed(envelope string) bool {
	return strings.HasPrefix(envelope, schemeSealed+sep)
}

// HashPassword returns a salted scrypt verifier: scrypt$N$r$p$salt$hash.
func HashPassword(password []byte, params Params) (string, error) {
	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	sum, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return strings.Join([]string{
		schemeHash,
		strconv.Itoa(params.N),
		strconv.Itoa(params.R),
		strconv.Itoa(params.P),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(sum),
	}, sep), nil
}

func newGCM(password, salt []byte, params Params) (cipher.AEAD, error) {
	// Derive key from password
	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
