package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	writeJSON(w, statusFor(kind), model.ErrorResponse{
		Error: err.Error(),
		Code:  kind.String(),
	})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.AlreadyExists:
		return http.StatusConflict
	case errs.NotFound:
		return http.StatusNotFound
	case errs.InvalidPassword:
		return http.StatusUnauthorized
	case errs.MissingRequiredField,
		errs.InvalidEncoding,
		errs.UnsupportedEncoding,
		errs.InvalidSecretMaterial,
		errs.InvalidMnemonicStructure,
		errs.InvalidDerivationPath,
		errs.InvalidName,
		errs.VaultNotEmpty,
		errs.SignerNotInTransaction,
		errs.InvalidSignature,
		errs.NetworkMismatch:
		return http.StatusBadRequest
	case errs.NetworkFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errs.Wrap(errs.InvalidEncoding, err, "invalid request body")
	}
	return nil
}
