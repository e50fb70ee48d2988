package model

// ValidateMnemonicRequest represents request for POST /mnemonic/validate
type ValidateMnemonicRequest struct {
	Mnemonic string `json:"mnemonic"`
}

// DeriveRequest represents request for POST /mnemonic/derive
type DeriveRequest struct {
	Mnemonic   string `json:"mnemonic"`
	Passphrase string `json:"passphrase,omitempty"`
	Preset     string `json:"preset"`
	Template   string `json:"template,omitempty"` // only for the custom preset
	StartIndex int    `json:"startIndex"`
	Count      int    `json:"count"`
}
