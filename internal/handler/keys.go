package handler

import (
	"net/http"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"
	"github.com/AlexZinkM/offline-signer/internal/vault"
	"github.com/AlexZinkM/offline-signer/solana"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PasswordSource returns the vault password for the current request.
// A nil source means the vault is used without a password.
type PasswordSource func() ([]byte, error)

// KeysHandler serves the read-mostly vault endpoints
type KeysHandler struct {
	vault    *vault.Vault
	password PasswordSource
	logger   zerolog.Logger
}

// NewKeysHandler creates a new KeysHandler over v
func NewKeysHandler(v *vault.Vault, password PasswordSource) *KeysHandler {
	return &KeysHandler{
		vault:    v,
		password: password,
		logger:   log.With().Str("component", "http").Logger(),
	}
}

// List handles GET /keys
// @Summary      List vault keys
// @Description  Lists names and public keys stored in the vault. Secret material is never returned.
// @Tags         keys
// @Produce      json
// @Success      200  {array}   model.KeypairSummary
// @Failure      500  {object}  model.ErrorResponse
// @Router       /keys [get]
func (h *KeysHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	keys, err := h.vault.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if keys == nil {
		keys = []model.KeypairSummary{}
	}
	writeJSON(w, http.StatusOK, keys)
}

// Generate handles POST /keys/generate
// @Summary      Generate new keypair
// @Description  Generates a new Ed25519 keypair and stores it in the vault under the given name
// @Tags         keys
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  true  "Key name"
// @Success      200      {object}  model.GenerateResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /keys/generate [post]
func (h *KeysHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var password []byte
	if h.password != nil {
		p, err := h.password()
		if err != nil {
			writeError(w, err)
			return
		}
		password = p
		defer clear(password)
	}

	resp, err := solana.GenerateKey(h.vault, req.Name, password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info().Str("name", resp.Name).Str("publicKey", resp.PublicKey).Msg("keypair generated")
	writeJSON(w, http.StatusOK, resp)
}

// QR handles GET /keys/qr
// @Summary      Public key QR code
// @Description  Returns the public key of a vault entry as a base64-encoded PNG QR code
// @Tags         keys
// @Produce      json
// @Param        name  query     string  true  "Key name"
// @Success      200   {object}  model.QRResponse
// @Failure      404   {object}  model.ErrorResponse
// @Router       /keys/qr [get]
func (h *KeysHandler) QR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, errs.Missing("name"))
		return
	}

	resp, err := solana.KeyQR(h.vault, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
