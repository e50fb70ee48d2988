package codec

import (
	"strconv"

	"github.com/AlexZinkM/offline-signer/internal/model"
)

const (
	shortenMinLen = 10
	shortenKeep   = 4
)

// ShortenAddress renders long addresses as first4...last4.
// Short input is returned unchanged and nil stays nil.
func ShortenAddress(address *string) *string {
	if address == nil {
		return nil
	}
	s := *address
	r := []rune(s)
	if len(r) < shortenMinLen {
		return &s
	}
	short := string(r[:shortenKeep]) + "..." + string(r[len(r)-shortenKeep:])
	return &short
}

// Shorten is ShortenAddress for plain strings.
func Shorten(address string) string {
	return *ShortenAddress(&address)
}

// FormatAmount renders meta as "<amount> <symbol>" using the amount exactly
// as declared. Nil when meta carries no amount or symbol.
func FormatAmount(meta *model.TransactionMeta) *string {
	if meta == nil || meta.Amount == nil || meta.TokenSymbol == "" {
		return nil
	}
	s := strconv.FormatFloat(*meta.Amount, 'f', -1, 64) + " " + meta.TokenSymbol
	return &s
}
