// Package errs defines the error kinds shared by the vault, derivation,
// codec and signing layers. Callers branch on the kind, never on the message.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure.
type Kind int

const (
	Unknown Kind = iota
	AlreadyExists
	NotFound
	MissingRequiredField
	InvalidEncoding
	UnsupportedEncoding
	InvalidSecretMaterial
	InvalidPassword
	InvalidMnemonicStructure
	InvalidDerivationPath
	InvalidName
	VaultNotEmpty
	SignerNotInTransaction
	InvalidSignature
	NetworkFailure
	NetworkMismatch
)

var kindNames = map[Kind]string{
	Unknown:                  "UNKNOWN",
	AlreadyExists:            "ALREADY_EXISTS",
	NotFound:                 "NOT_FOUND",
	MissingRequiredField:     "MISSING_REQUIRED_FIELD",
	InvalidEncoding:          "INVALID_ENCODING",
	UnsupportedEncoding:      "UNSUPPORTED_ENCODING",
	InvalidSecretMaterial:    "INVALID_SECRET_MATERIAL",
	InvalidPassword:          "INVALID_PASSWORD",
	InvalidMnemonicStructure: "INVALID_MNEMONIC_STRUCTURE",
	InvalidDerivationPath:    "INVALID_DERIVATION_PATH",
	InvalidName:              "INVALID_NAME",
	VaultNotEmpty:            "VAULT_NOT_EMPTY",
	SignerNotInTransaction:   "SIGNER_NOT_IN_TRANSACTION",
	InvalidSignature:         "INVALID_SIGNATURE",
	NetworkFailure:           "NETWORK_FAILURE",
	NetworkMismatch:          "NETWORK_MISMATCH",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Error is a classified failure. Field is set for MissingRequiredField.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error of the given kind.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind.
func Wrap(kind Kind, cause error, message string) error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Missing reports a required field that was absent or empty.
func Missing(field string) error {
	return &Error{
		Kind:    MissingRequiredField,
		Field:   field,
		Message: fmt.Sprintf("missing required field: %s", field),
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldOf returns the missing field name for MissingRequiredField errors.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
