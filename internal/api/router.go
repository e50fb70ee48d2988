package api

import (
	"net/http"

	_ "github.com/AlexZinkM/offline-signer/internal/docs"
	"github.com/AlexZinkM/offline-signer/internal/handler"
	"github.com/AlexZinkM/offline-signer/internal/vault"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
// @title        offline-signer API
// @version      1.0
// @description  Local API of the offline Solana signer. It never signs transactions.
// @BasePath     /
func SetupRouter(v *vault.Vault, password handler.PasswordSource) http.Handler {
	keysHandler := handler.NewKeysHandler(v, password)
	offlineHandler := handler.NewOfflineHandler()

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Vault endpoints
	mux.HandleFunc("/keys", keysHandler.List)
	mux.HandleFunc("/keys/generate", keysHandler.Generate)
	mux.HandleFunc("/keys/qr", keysHandler.QR)

	// Offline endpoints
	mux.HandleFunc("/mnemonic/validate", offlineHandler.ValidateMnemonic)
	mux.HandleFunc("/mnemonic/derive", offlineHandler.Derive)
	mux.HandleFunc("/tx/preview", offlineHandler.Preview)
	mux.HandleFunc("/signature/verify", offlineHandler.VerifySignature)

	return mux
}
