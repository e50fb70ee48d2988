package codec

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/pkg/errors"
)

const artifactPerm = 0o644

// Preview is what a person reviews before approving a signature.
type Preview struct {
	Description string   `json:"description"`
	Network     string   `json:"network"`
	Type        Category `json:"type"`
	Amount      *string  `json:"amount,omitempty"`
	Decoded     *Decoded `json:"decoded"`
}

// MessageBytes validates the required fields of an artifact and returns the
// exact message bytes it carries.
func MessageBytes(tx *model.UnsignedTransaction) ([]byte, error) {
	if tx == nil || tx.MessageBase64 == "" {
		return nil, errs.Missing("messageBase64")
	}
	if strings.TrimSpace(tx.Network) == "" {
		return nil, errs.Missing("network")
	}

	msg, err := base64.StdEncoding.DecodeString(tx.MessageBase64)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid messageBase64")
	}
	if len(msg) == 0 {
		return nil, errs.Missing("messageBase64")
	}
	return msg, nil
}

// Describe decodes an artifact and classifies it.
func Describe(tx *model.UnsignedTransaction) (*Preview, []byte, error) {
	msg, err := MessageBytes(tx)
	if err != nil {
		return nil, nil, err
	}

	decoded, err := Decode(msg)
	if err != nil {
		return nil, nil, err
	}

	return &Preview{
		Description: tx.Description,
		Network:     tx.Network,
		Type:        Classify(tx.Description, tx.Meta),
		Amount:      FormatAmount(tx.Meta),
		Decoded:     decoded,
	}, msg, nil
}

// ReadUnsigned loads an unsigned artifact from disk.
func ReadUnsigned(path string) (*model.UnsignedTransaction, error) {
	var tx model.UnsignedTransaction
	if err := readArtifact(path, &tx); err != nil {
		return nil, err
	}
	if _, err := MessageBytes(&tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ReadSigned loads a signed artifact from disk.
func ReadSigned(path string) (*model.SignedTransaction, error) {
	var tx model.SignedTransaction
	if err := readArtifact(path, &tx); err != nil {
		return nil, err
	}
	if tx.Signature == "" {
		return nil, errs.Missing("signature")
	}
	if tx.PublicKey == "" {
		return nil, errs.Missing("publicKey")
	}
	if _, err := MessageBytes(tx.Unsigned()); err != nil {
		return nil, err
	}
	return &tx, nil
}

// WriteArtifact stores an artifact as indented JSON.
func WriteArtifact(path string, artifact any) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal artifact")
	}
	if err := os.WriteFile(path, append(data, '\n'), artifactPerm); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func readArtifact(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.Newf(errs.NotFound, "artifact %s not found", path)
		}
		return errors.Wrapf(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.Wrap(errs.InvalidEncoding, err, "invalid artifact JSON")
	}
	return nil
}
