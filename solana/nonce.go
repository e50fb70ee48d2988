package solana

import (
	"context"
	"time"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/pkg/errors"
)

const (
	// NonceAccountSize is the data length of a system nonce account
	NonceAccountSize = 80

	nonceStateInitialized = 1
)

// NonceState is the decoded on-chain state of a durable nonce account
type NonceState struct {
	Address              solana.PublicKey `json:"address"`
	Authority            solana.PublicKey `json:"authority"`
	Nonce                solana.Hash      `json:"nonce"`
	LamportsPerSignature uint64           `json:"lamportsPerSignature"`
}

// FetchNonce reads and decodes a durable nonce account
func FetchNonce(ctx context.Context, chain AccountFetcher, address solana.PublicKey) (*NonceState, error) {
	data, err := chain.FetchAccountData(ctx, address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch nonce account %s", address)
	}
	return DecodeNonce(address, data)
}

// DecodeNonce parses nonce account data
func DecodeNonce(address solana.PublicKey, data []byte) (*NonceState, error) {
	if len(data) != NonceAccountSize {
		return nil, errs.Newf(errs.InvalidEncoding, "account %s is not a nonce account: %d bytes", address, len(data))
	}

	var acc system.NonceAccount
	if err := acc.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, err, "failed to decode nonce account")
	}
	if acc.State != nonceStateInitialized {
		return nil, errs.Newf(errs.InvalidEncoding, "nonce account %s is not initialized", address)
	}

	return &NonceState{
		Address:              address,
		Authority:            acc.AuthorizedPubkey,
		Nonce:                solana.Hash(acc.Nonce),
		LamportsPerSignature: acc.FeeCalculator.LamportsPerSignature,
	}, nil
}

// CreateNonceAccount funds and initializes a fresh nonce account owned by
// authority, waits for confirmation and records it in the vault under label.
// This is an online operation: payer must be available on this machine.
func CreateNonceAccount(
	ctx context.Context,
	funder NonceFunder,
	submitter Submitter,
	recorder NonceRecorder,
	label string,
	payer solana.PrivateKey,
	authority solana.PublicKey,
) (*model.NonceAccountRecord, solana.Signature, error) {
	if authority.IsZero() {
		authority = payer.PublicKey()
	}

	nonceKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, solana.Signature{}, errors.Wrap(err, "failed to generate nonce account key")
	}
	defer clear(nonceKey)

	rent, err := funder.MinimumBalanceForRentExemption(ctx, NonceAccountSize)
	if err != nil {
		return nil, solana.Signature{}, errors.Wrap(err, "failed to get rent exemption")
	}
	recent, err := funder.LatestBlockhash(ctx)
	if err != nil {
		return nil, solana.Signature{}, errors.Wrap(err, "failed to get recent blockhash")
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewCreateAccountInstruction(
				rent,
				NonceAccountSize,
				solana.SystemProgramID,
				payer.PublicKey(),
				nonceKey.PublicKey(),
			).Build(),
			system.NewInitializeNonceAccountInstruction(
				authority,
				nonceKey.PublicKey(),
				solana.SysVarRecentBlockHashesPubkey,
				solana.SysVarRentPubkey,
			).Build(),
		},
		recent,
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		return nil, solana.Signature{}, errors.Wrap(err, "failed to create transaction")
	}

	// Sign transaction
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		switch {
		case key.Equals(payer.PublicKey()):
			return &payer
		case key.Equals(nonceKey.PublicKey()):
			return &nonceKey
		}
		return nil
	})
	if err != nil {
		return nil, solana.Signature{}, errors.Wrap(err, "failed to sign transaction")
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, solana.Signature{}, errors.Wrap(err, "failed to serialize transaction")
	}

	sig, err := submitter.SubmitTransaction(ctx, raw)
	if err != nil {
		return nil, solana.Signature{}, err
	}
	if err := submitter.AwaitConfirmation(ctx, sig); err != nil {
		return nil, sig, err
	}

	rec := model.NonceAccountRecord{
		Address:   nonceKey.PublicKey().String(),
		Authority: authority.String(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := recorder.SaveNonceAccount(label, rec); err != nil {
		return &rec, sig, errors.Wrap(err, "nonce account created but not recorded")
	}
	return &rec, sig, nil
}
