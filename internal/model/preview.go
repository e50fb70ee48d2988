package model

// PreviewRequest represents request for POST /tx/preview
type PreviewRequest struct {
	Transaction UnsignedTransaction `json:"transaction"`
	Signer      string              `json:"signer,omitempty"` // public key expected to sign
}

// VerifySignatureRequest represents request for POST /signature/verify
type VerifySignatureRequest struct {
	MessageBase64 string `json:"messageBase64"`
	Signature     string `json:"signature"`
	PublicKey     string `json:"publicKey"`
}

// VerifySignatureResponse represents response for POST /signature/verify
type VerifySignatureResponse struct {
	Valid bool `json:"valid"`
}
