package model

// TransactionMeta is display-only information attached to an artifact.
// It is never part of what gets signed.
type TransactionMeta struct {
	TokenSymbol string   `json:"tokenSymbol,omitempty"`
	Decimals    *int     `json:"decimals,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// UnsignedTransaction is the file carried to the offline machine
type UnsignedTransaction struct {
	Description   string           `json:"description"`
	Network       string           `json:"network"`
	MessageBase64 string           `json:"messageBase64"`
	Meta          *TransactionMeta `json:"meta,omitempty"`
}

// SignedTransaction is the file carried back from the offline machine.
// MessageBase64 is copied byte for byte from the unsigned artifact.
type SignedTransaction struct {
	Signature     string           `json:"signature"`
	PublicKey     string           `json:"publicKey"`
	SignedAt      string           `json:"signedAt"`
	Network       string           `json:"network"`
	Description   string           `json:"description"`
	MessageBase64 string           `json:"messageBase64"`
	Meta          *TransactionMeta `json:"meta,omitempty"`
}

// Unsigned returns the artifact this signature was produced for
func (s *SignedTransaction) Unsigned() *UnsignedTransaction {
	return &UnsignedTransaction{
		Description:   s.Description,
		Network:       s.Network,
		MessageBase64: s.MessageBase64,
		Meta:          s.Meta,
	}
}
