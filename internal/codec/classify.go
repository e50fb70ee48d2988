package codec

import (
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/common"
	"github.com/AlexZinkM/offline-signer/internal/model"
)

// Category is the best-effort kind of a transaction, derived from its
// display metadata. It is never used for signing decisions.
type Category string

const (
	CategoryNativeTransfer Category = "SOL Transfer"
	CategoryTokenTransfer  Category = "Token Transfer"
	CategoryTransfer       Category = "Transfer"
	CategoryUnknown        Category = "Unknown"
)

const transferKeyword = "transfer"

type classificationRule struct {
	name     string
	matches  func(description string, meta *model.TransactionMeta) bool
	category Category
}

// classificationRules are evaluated in order; the first match wins.
//
//	1. meta.tokenSymbol == "SOL"            -> SOL Transfer
//	2. meta.tokenSymbol set to anything else -> Token Transfer
//	3. description mentions "transfer"      -> Transfer
//	4. otherwise                            -> Unknown
var classificationRules = []classificationRule{
	{
		name: "native symbol",
		matches: func(_ string, meta *model.TransactionMeta) bool {
			return meta != nil && meta.TokenSymbol == common.NativeSymbol
		},
		category: CategoryNativeTransfer,
	},
	{
		name: "token symbol",
		matches: func(_ string, meta *model.TransactionMeta) bool {
			return meta != nil && meta.TokenSymbol != ""
		},
		category: CategoryTokenTransfer,
	},
	{
		name: "description keyword",
		matches: func(description string, _ *model.TransactionMeta) bool {
			return strings.Contains(strings.ToLower(description), transferKeyword)
		},
		category: CategoryTransfer,
	},
}

// Classify applies classificationRules.
func Classify(description string, meta *model.TransactionMeta) Category {
	for _, r := range classificationRules {
		if r.matches(description, meta) {
			return r.category
		}
	}
	return CategoryUnknown
}
