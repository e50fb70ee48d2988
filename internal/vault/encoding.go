package vault

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	"github.com/mr-tron/base58"
)

// SecretEncoding is the text form of exported or imported secret key bytes.
type SecretEncoding int

const (
	Base58 SecretEncoding = iota
	Base64
	JSONArray // [12,34,...] as written by solana-keygen
)

// SecretEncodings lists every supported encoding.
var SecretEncodings = []SecretEncoding{Base58, Base64, JSONArray}

// ParseSecretEncoding maps a user-facing name to an encoding.
func ParseSecretEncoding(s string) (SecretEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "base58":
		return Base58, nil
	case "base64":
		return Base64, nil
	case "json":
		return JSONArray, nil
	}
	return 0, errs.Newf(errs.UnsupportedEncoding, "unsupported encoding %q (allowed: base58, base64, json)", s)
}

func (e SecretEncoding) String() string {
	switch e {
	case Base58:
		return "base58"
	case Base64:
		return "base64"
	case JSONArray:
		return "json"
	}
	return "unknown"
}

// Encode renders secret bytes.
func (e SecretEncoding) Encode(b []byte) (string, error) {
	switch e {
	case Base58:
		return base58.Encode(b), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(b), nil
	case JSONArray:
		nums := make([]int, len(b))
		for i, x := range b {
			nums[i] = int(x)
		}
		out, err := json.Marshal(nums)
		if err != nil {
			return "", errs.Wrap(errs.InvalidEncoding, err, "failed to encode secret")
		}
		return string(out), nil
	}
	return "", errs.Newf(errs.UnsupportedEncoding, "unsupported encoding %d", int(e))
}

// Decode parses secret bytes. Malformed input is InvalidEncoding,
// never UnsupportedEncoding.
func (e SecretEncoding) Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errs.Missing("secret")
	}

	switch e {
	case Base58:
		b, err := base58.Decode(s)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid base58 secret")
		}
		return b, nil
	case Base64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid base64 secret")
		}
		return b, nil
	case JSONArray:
		var nums []int
		if err := json.Unmarshal([]byte(s), &nums); err != nil {
			return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid json secret")
		}
		b := make([]byte, len(nums))
		for i, n := range nums {
			if n < 0 || n > 255 {
				return nil, errs.Newf(errs.InvalidEncoding, "invalid json secret: byte %d out of range", i)
			}
			b[i] = byte(n)
		}
		return b, nil
	}
	return nil, errs.Newf(errs.UnsupportedEncoding, "unsupported encoding %d", int(e))
}
