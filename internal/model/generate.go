package model

// GenerateRequest represents request for POST /keys/generate
type GenerateRequest struct {
	Name string `json:"name"`
}

// GenerateResponse represents response for POST /keys/generate
type GenerateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Name      string `json:"name,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

// QRResponse represents response for GET /keys/qr
type QRResponse struct {
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
	QR        string `json:"QR"` // base64 PNG
}
