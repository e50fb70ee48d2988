package handler

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/derivation"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"
	"github.com/AlexZinkM/offline-signer/solana"

	solanago "github.com/gagliardetto/solana-go"
)

// MaxDeriveCount caps a single derivation preview request
const MaxDeriveCount = 100

// OfflineHandler serves the endpoints that need no key material
type OfflineHandler struct{}

// NewOfflineHandler creates a new OfflineHandler
func NewOfflineHandler() *OfflineHandler {
	return &OfflineHandler{}
}

// ValidateMnemonic handles POST /mnemonic/validate
// @Summary      Validate seed phrase
// @Description  Checks word count, vocabulary and checksum of a BIP39 seed phrase. A bad checksum is reported as a warning.
// @Tags         mnemonic
// @Accept       json
// @Produce      json
// @Param        request  body      model.ValidateMnemonicRequest  true  "Seed phrase"
// @Success      200      {object}  derivation.ValidationResult
// @Failure      400      {object}  model.ErrorResponse
// @Router       /mnemonic/validate [post]
func (h *OfflineHandler) ValidateMnemonic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ValidateMnemonicRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, derivation.Validate(req.Mnemonic))
}

// Derive handles POST /mnemonic/derive
// @Summary      Preview derived accounts
// @Description  Derives public keys for consecutive account indexes of a seed phrase. Secret keys are never returned.
// @Tags         mnemonic
// @Accept       json
// @Produce      json
// @Param        request  body      model.DeriveRequest  true  "Seed phrase and path"
// @Success      200      {array}   derivation.DerivedAccount
// @Failure      400      {object}  model.ErrorResponse
// @Router       /mnemonic/derive [post]
func (h *OfflineHandler) Derive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.DeriveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Mnemonic) == "" {
		writeError(w, errs.Missing("mnemonic"))
		return
	}
	if req.Count > MaxDeriveCount {
		writeError(w, errs.Newf(errs.InvalidDerivationPath, "count must not exceed %d", MaxDeriveCount))
		return
	}

	spec := derivation.PathSpec{Preset: req.Preset, Template: req.Template}
	accounts, err := derivation.DeriveMany(req.Mnemonic, req.Passphrase, spec, req.StartIndex, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// Preview handles POST /tx/preview
// @Summary      Preview unsigned transaction
// @Description  Decodes an unsigned transaction artifact. If signer is given it is compared to the fee payer (advisory only).
// @Tags         tx
// @Accept       json
// @Produce      json
// @Param        request  body      model.PreviewRequest  true  "Unsigned artifact"
// @Success      200      {object}  solana.TransactionPreview
// @Failure      400      {object}  model.ErrorResponse
// @Router       /tx/preview [post]
func (h *OfflineHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PreviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var signer *solanago.PublicKey
	if req.Signer != "" {
		pk, err := solanago.PublicKeyFromBase58(req.Signer)
		if err != nil {
			writeError(w, errs.Wrap(errs.InvalidEncoding, err, "invalid signer public key"))
			return
		}
		signer = &pk
	}

	preview, _, err := solana.Preview(&req.Transaction, signer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// VerifySignature handles POST /signature/verify
// @Summary      Verify detached signature
// @Description  Checks a base58 signature over base64 message bytes. Malformed input is reported as invalid.
// @Tags         tx
// @Accept       json
// @Produce      json
// @Param        request  body      model.VerifySignatureRequest  true  "Message, signature and public key"
// @Success      200      {object}  model.VerifySignatureResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /signature/verify [post]
func (h *OfflineHandler) VerifySignature(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.VerifySignatureRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	msg, err := base64.StdEncoding.DecodeString(req.MessageBase64)
	if err != nil {
		writeJSON(w, http.StatusOK, model.VerifySignatureResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, model.VerifySignatureResponse{
		Valid: solana.Verify(msg, req.Signature, req.PublicKey),
	})
}
