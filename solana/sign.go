package solana

import (
	"encoding/base64"
	"time"

	"github.com/AlexZinkM/offline-signer/internal/codec"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SignStatus is the terminal state of a Sign call
type SignStatus string

const (
	StatusDeclined SignStatus = "declined"
	StatusSigned   SignStatus = "signed"
)

// TransactionPreview is a decoded artifact plus the advisory signer check
type TransactionPreview struct {
	*codec.Preview
	Signer         string   `json:"signer,omitempty"`
	VerifiedSigner bool     `json:"verifiedSigner"`
	Warnings       []string `json:"warnings,omitempty"`
}

// SignOutcome is returned for both approval and decline. A decline is not an error.
type SignOutcome struct {
	Status  SignStatus               `json:"status"`
	Message string                   `json:"message"`
	Preview *TransactionPreview      `json:"preview"`
	Signed  *model.SignedTransaction `json:"signed,omitempty"`
}

// Approver shows the preview to a person and reports their decision
type Approver func(preview *TransactionPreview) (bool, error)

// Preview decodes an artifact and compares signer, if given, against the fee
// payer. A mismatch is reported as a warning and never blocks signing.
func Preview(tx *model.UnsignedTransaction, signer *solana.PublicKey) (*TransactionPreview, []byte, error) {
	p, msg, err := codec.Describe(tx)
	if err != nil {
		return nil, nil, err
	}

	out := &TransactionPreview{Preview: p}
	if signer == nil {
		return out, msg, nil
	}

	out.Signer = signer.String()
	out.VerifiedSigner = p.Decoded.FeePayer == out.Signer
	if !out.VerifiedSigner {
		out.Warnings = append(out.Warnings, "signing key "+out.Signer+" is not the fee payer "+p.Decoded.FeePayer)
	}
	if p.Decoded.SignerIndex(*signer) < 0 {
		out.Warnings = append(out.Warnings, "signing key "+out.Signer+" is not a required signer of this message; the signature cannot be used")
	}
	return out, msg, nil
}

// Sign decrypts the named key, shows the preview through approve and, only on
// approval, signs the exact message bytes carried by the artifact.
// password must be []byte for security (caller should zero it after use)
func Sign(keys KeyLoader, name string, password []byte, tx *model.UnsignedTransaction, approve Approver) (*SignOutcome, error) {
	wallet, err := keys.Load(name, password)
	if err != nil {
		return nil, err
	}
	defer clear(wallet)

	signer := wallet.PublicKey()
	preview, msg, err := Preview(tx, &signer)
	if err != nil {
		return nil, err
	}

	ok, err := approve(preview)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get approval")
	}
	if !ok {
		log.Info().Str("component", "protocol").Str("name", name).Msg("signing declined")
		return &SignOutcome{
			Status:  StatusDeclined,
			Message: "Signing declined. Nothing was signed.",
			Preview: preview,
		}, nil
	}

	sig, err := wallet.Sign(msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}

	log.Info().
		Str("component", "protocol").
		Str("name", name).
		Str("signer", signer.String()).
		Str("signature", sig.String()).
		Msg("message signed")

	return &SignOutcome{
		Status:  StatusSigned,
		Message: "Transaction signed.",
		Preview: preview,
		Signed: &model.SignedTransaction{
			Signature:     sig.String(),
			PublicKey:     signer.String(),
			SignedAt:      time.Now().UTC().Format(time.RFC3339),
			Network:       tx.Network,
			Description:   tx.Description,
			MessageBase64: tx.MessageBase64,
			Meta:          tx.Meta,
		},
	}, nil
}

// Verify reports whether signature (base58) is publicKey's (base58) signature
// over message. Malformed input yields false.
func Verify(message []byte, signature, publicKey string) bool {
	pk, err := solana.PublicKeyFromBase58(publicKey)
	if err != nil {
		return false
	}
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return false
	}
	return pk.Verify(message, sig)
}

// VerifySigned checks a signed artifact against its own message bytes
func VerifySigned(tx *model.SignedTransaction) bool {
	msg, err := base64.StdEncoding.DecodeString(tx.MessageBase64)
	if err != nil || len(msg) == 0 {
		return false
	}
	return Verify(msg, tx.Signature, tx.PublicKey)
}

func encodeMessage(msg []byte) string {
	return base64.StdEncoding.EncodeToString(msg)
}
