package derivation

import (
	"strconv"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"
)

const (
	// IndexPlaceholder is replaced by the account index in path templates.
	IndexPlaceholder = "{index}"
	// CustomPreset takes its template from PathSpec.Template.
	CustomPreset = "custom"
)

// Preset is a wallet's path convention. Ed25519 only supports hardened steps.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Template    string `json:"template"`
}

var presets = []Preset{
	{Name: "phantom", Description: "Phantom, Backpack", Template: "m/44'/501'/{index}'/0'"},
	{Name: "solflare", Description: "Solflare", Template: "m/44'/501'/{index}'/0'"},
	{Name: "cli", Description: "solana-keygen recover 'prompt://?key={index}/0'", Template: "m/44'/501'/{index}'/0'"},
	{Name: "ledger", Description: "Ledger Live", Template: "m/44'/501'/{index}'"},
	{Name: "trust", Description: "Trust Wallet", Template: "m/44'/501'/{index}'"},
}

// Presets returns the built-in path conventions.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a built-in preset by name.
func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PathSpec selects a preset, or a custom template when Preset is "custom".
type PathSpec struct {
	Preset   string
	Template string
}

// resolve returns the template, or false if the spec names nothing usable.
func (s PathSpec) resolve() (string, bool) {
	if strings.EqualFold(strings.TrimSpace(s.Preset), CustomPreset) {
		t := strings.TrimSpace(s.Template)
		return t, strings.Contains(t, IndexPlaceholder)
	}
	p, ok := LookupPreset(s.Preset)
	return p.Template, ok
}

// Path expands the spec for one account index.
func (s PathSpec) Path(index int) (string, error) {
	if index < 0 {
		return "", errs.Newf(errs.InvalidDerivationPath, "account index must not be negative: %d", index)
	}
	t, ok := s.resolve()
	if !ok {
		return "", errs.Newf(errs.InvalidDerivationPath, "unknown derivation preset %q", s.Preset)
	}
	return strings.ReplaceAll(t, IndexPlaceholder, strconv.Itoa(index)), nil
}
