// Package solana implements the offline signing protocol: building unsigned
// artifacts around a durable nonce, previewing and signing them on the
// offline machine, and binding and broadcasting the result.
package solana

import (
	"context"

	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/gagliardetto/solana-go"
)

// AccountFetcher reads raw account data. A missing account is errs.NotFound.
type AccountFetcher interface {
	FetchAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// Submitter sends wire transactions and waits for them once.
// Transport problems are errs.NetworkFailure; any other AwaitConfirmation
// error means the chain rejected the transaction.
type Submitter interface {
	SubmitTransaction(ctx context.Context, raw []byte) (solana.Signature, error)
	AwaitConfirmation(ctx context.Context, sig solana.Signature) error
}

// NonceFunder supplies what an online nonce account creation needs.
type NonceFunder interface {
	MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// KeyLoader decrypts a named key. The vault implements it.
type KeyLoader interface {
	Load(name string, password []byte) (solana.PrivateKey, error)
}

// NonceRecorder remembers nonce accounts created from this machine.
type NonceRecorder interface {
	SaveNonceAccount(label string, rec model.NonceAccountRecord) error
}
