package solana

import (
	"github.com/AlexZinkM/offline-signer/internal/common"
	"github.com/AlexZinkM/offline-signer/internal/model"
	"github.com/AlexZinkM/offline-signer/internal/vault"

	"github.com/pkg/errors"
)

// GenerateKey generates a new keypair in the vault.
// password must be []byte for security (caller should zero it after use)
func GenerateKey(v *vault.Vault, name string, password []byte) (*model.GenerateResponse, error) {
	rec, err := v.Generate(name, password)
	if err != nil {
		return nil, err
	}

	return &model.GenerateResponse{
		Success:   true,
		Message:   "Keypair generated successfully",
		Name:      rec.Name,
		PublicKey: rec.PublicKey,
	}, nil
}

// KeyQR renders the public key of a vault entry as a base64 PNG QR code
func KeyQR(v *vault.Vault, name string) (*model.QRResponse, error) {
	summary, err := v.Get(name)
	if err != nil {
		return nil, err
	}

	qr, err := common.AddressQRCode(summary.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate QR code")
	}

	return &model.QRResponse{
		Name:      summary.Name,
		PublicKey: summary.PublicKey,
		QR:        qr,
	}, nil
}
