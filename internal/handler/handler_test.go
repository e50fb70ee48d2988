package handler_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlexZinkM/offline-signer/internal/derivation"
	"github.com/AlexZinkM/offline-signer/internal/handler"
	"github.com/AlexZinkM/offline-signer/internal/model"
	"github.com/AlexZinkM/offline-signer/internal/vault"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newKeysHandler(t *testing.T) *handler.KeysHandler {
	t.Helper()
	v, err := vault.New(t.TempDir(), vault.WithKDFCost(1<<10))
	require.NoError(t, err)
	return handler.NewKeysHandler(v, nil)
}

func post(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func unsignedTransfer(t *testing.T, from, to solanago.PublicKey) model.UnsignedTransaction {
	t.Helper()
	tx, err := solanago.NewTransaction(
		[]solanago.Instruction{system.NewTransferInstruction(1_000_000, from, to).Build()},
		solanago.Hash{1},
		solanago.TransactionPayer(from),
	)
	require.NoError(t, err)
	msg, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	return model.UnsignedTransaction{
		Description:   "Send 0.001 SOL",
		Network:       "devnet",
		MessageBase64: base64.StdEncoding.EncodeToString(msg),
		Meta:          &model.TransactionMeta{TokenSymbol: "SOL"},
	}
}

func TestGenerateAndList(t *testing.T) {
	h := newKeysHandler(t)

	rec := post(t, h.Generate, "/keys/generate", model.GenerateRequest{Name: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	var gen model.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))
	assert.True(t, gen.Success)
	assert.Equal(t, "alice", gen.Name)
	assert.NotEmpty(t, gen.PublicKey)

	rec = post(t, h.Generate, "/keys/generate", model.GenerateRequest{Name: "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/keys", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "encryptedSecretKey")

	var keys []model.KeypairSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
	require.Len(t, keys, 1)
	assert.Equal(t, gen.PublicKey, keys[0].PublicKey)
}

func TestGenerateRejectsBadName(t *testing.T) {
	h := newKeysHandler(t)

	rec := post(t, h.Generate, "/keys/generate", model.GenerateRequest{Name: "../escape"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_NAME", decodeError(t, rec).Code)
}

func TestListEmptyVault(t *testing.T) {
	h := newKeysHandler(t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/keys", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newKeysHandler(t)

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodGet, "/keys/generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestQR(t *testing.T) {
	h := newKeysHandler(t)
	require.Equal(t, http.StatusOK, post(t, h.Generate, "/keys/generate", model.GenerateRequest{Name: "alice"}).Code)

	rec := httptest.NewRecorder()
	h.QR(rec, httptest.NewRequest(http.MethodGet, "/keys/qr?name=alice", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var qr model.QRResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &qr))
	png, err := base64.StdEncoding.DecodeString(qr.QR)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	rec = httptest.NewRecorder()
	h.QR(rec, httptest.NewRequest(http.MethodGet, "/keys/qr?name=bob", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.QR(rec, httptest.NewRequest(http.MethodGet, "/keys/qr", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", decodeError(t, rec).Code)
}

func TestValidateMnemonic(t *testing.T) {
	h := handler.NewOfflineHandler()

	rec := post(t, h.ValidateMnemonic, "/mnemonic/validate", model.ValidateMnemonicRequest{Mnemonic: testMnemonic})
	require.Equal(t, http.StatusOK, rec.Code)
	var result derivation.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.True(t, result.ChecksumValid)
	assert.Equal(t, 12, result.WordCount)

	rec = post(t, h.ValidateMnemonic, "/mnemonic/validate", model.ValidateMnemonicRequest{Mnemonic: "abandon abandon"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
}

func TestDerive(t *testing.T) {
	h := handler.NewOfflineHandler()

	rec := post(t, h.Derive, "/mnemonic/derive", model.DeriveRequest{
		Mnemonic: testMnemonic,
		Preset:   "phantom",
		Count:    3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var accounts []derivation.DerivedAccount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	require.Len(t, accounts, 3)
	assert.Equal(t, "m/44'/501'/2'/0'", accounts[2].Path)
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = post(t, h.Derive, "/mnemonic/derive", model.DeriveRequest{
		Mnemonic: testMnemonic,
		Preset:   "phantom",
		Count:    handler.MaxDeriveCount + 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h.Derive, "/mnemonic/derive", model.DeriveRequest{Preset: "phantom", Count: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", decodeError(t, rec).Code)
}

func TestPreview(t *testing.T) {
	h := handler.NewOfflineHandler()
	from := solanago.NewWallet().PublicKey()
	to := solanago.NewWallet().PublicKey()
	other := solanago.NewWallet().PublicKey()

	rec := post(t, h.Preview, "/tx/preview", model.PreviewRequest{
		Transaction: unsignedTransfer(t, from, to),
		Signer:      other.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var preview struct {
		Type           string   `json:"type"`
		VerifiedSigner bool     `json:"verifiedSigner"`
		Warnings       []string `json:"warnings"`
		Decoded        struct {
			FeePayer string `json:"feePayer"`
		} `json:"decoded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Equal(t, "SOL Transfer", preview.Type)
	assert.Equal(t, from.String(), preview.Decoded.FeePayer)
	assert.False(t, preview.VerifiedSigner)
	assert.NotEmpty(t, preview.Warnings)

	rec = post(t, h.Preview, "/tx/preview", model.PreviewRequest{
		Transaction: model.UnsignedTransaction{Network: "devnet"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", decodeError(t, rec).Code)
}

func TestVerifySignature(t *testing.T) {
	h := handler.NewOfflineHandler()
	wallet := solanago.NewWallet()
	msg := []byte("message bytes")
	sig, err := wallet.PrivateKey.Sign(msg)
	require.NoError(t, err)

	req := model.VerifySignatureRequest{
		MessageBase64: base64.StdEncoding.EncodeToString(msg),
		Signature:     sig.String(),
		PublicKey:     wallet.PublicKey().String(),
	}
	rec := post(t, h.VerifySignature, "/signature/verify", req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())

	req.PublicKey = solanago.NewWallet().PublicKey().String()
	rec = post(t, h.VerifySignature, "/signature/verify", req)
	assert.JSONEq(t, `{"valid":false}`, rec.Body.String())

	req.MessageBase64 = "%%%"
	rec = post(t, h.VerifySignature, "/signature/verify", req)
	assert.JSONEq(t, `{"valid":false}`, rec.Body.String())
}
