package model

// KeypairRecord represents one named key file in the vault directory
type KeypairRecord struct {
	Name               string `json:"name"`
	PublicKey          string `json:"publicKey"`
	EncryptedSecretKey string `json:"encryptedSecretKey"`
	Mnemonic           string `json:"mnemonic,omitempty"`          // only while no vault password is set
	EncryptedMnemonic  string `json:"encryptedMnemonic,omitempty"` // once a vault password is set
	DerivationPath     string `json:"derivationPath,omitempty"`    // provenance only, never re-derived
	CreatedAt          string `json:"createdAt,omitempty"`
	ImportedAt         string `json:"importedAt,omitempty"`
}

// HasMnemonic reports whether the record retained its seed phrase
func (r *KeypairRecord) HasMnemonic() bool {
	return r.Mnemonic != "" || r.EncryptedMnemonic != ""
}

// Summary strips every secret field from the record
func (r *KeypairRecord) Summary() KeypairSummary {
	return KeypairSummary{
		Name:           r.Name,
		PublicKey:      r.PublicKey,
		DerivationPath: r.DerivationPath,
		HasMnemonic:    r.HasMnemonic(),
		CreatedAt:      r.CreatedAt,
		ImportedAt:     r.ImportedAt,
	}
}

// KeypairSummary is the list view of a KeypairRecord
type KeypairSummary struct {
	Name           string `json:"name"`
	PublicKey      string `json:"publicKey"`
	DerivationPath string `json:"derivationPath,omitempty"`
	HasMnemonic    bool   `json:"hasMnemonic"`
	CreatedAt      string `json:"createdAt,omitempty"`
	ImportedAt     string `json:"importedAt,omitempty"`
}

// GlobalConfig is the single vault-wide configuration record
type GlobalConfig struct {
	PasswordHash string `json:"passwordHash,omitempty"`
}

// NonceAccountRecord remembers a durable nonce account created from this machine
type NonceAccountRecord struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	CreatedAt string `json:"createdAt"`
}
