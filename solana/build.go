package solana

import (
	"context"
	"strconv"

	"github.com/AlexZinkM/offline-signer/internal/common"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/pkg/errors"
)

// TransferParams describes a native transfer bound to a durable nonce
type TransferParams struct {
	From           solana.PublicKey
	To             solana.PublicKey
	Amount         string // decimal, e.g. "0.001"
	NonceAccount   solana.PublicKey
	NonceAuthority solana.PublicKey // defaults to From
	Network        string
	Description    string
}

// TokenTransferParams describes an SPL token transfer. Decimals come from the mint.
type TokenTransferParams struct {
	TransferParams
	Mint   solana.PublicKey
	Symbol string
}

func (p *TransferParams) validate() error {
	switch {
	case p.From.IsZero():
		return errs.Missing("from")
	case p.To.IsZero():
		return errs.Missing("to")
	case p.Amount == "":
		return errs.Missing("amount")
	case p.NonceAccount.IsZero():
		return errs.Missing("nonceAccount")
	case p.Network == "":
		return errs.Missing("network")
	}
	if p.NonceAuthority.IsZero() {
		p.NonceAuthority = p.From
	}
	return nil
}

// BuildTransfer creates an unsigned SOL transfer whose lifetime is the nonce
// account's current value rather than a recent blockhash.
func BuildTransfer(ctx context.Context, chain AccountFetcher, p TransferParams) (*model.UnsignedTransaction, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	// Convert SOL to lamports (1 SOL = 1,000,000,000 lamports)
	lamports, err := common.SOLToLamports(p.Amount)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid amount")
	}

	transferInstruction := system.NewTransferInstruction(lamports, p.From, p.To).Build()

	if p.Description == "" {
		p.Description = "Transfer " + p.Amount + " " + common.NativeSymbol + " to " + p.To.String()
	}
	return buildDurable(ctx, chain, &p, []solana.Instruction{transferInstruction}, metaFor(common.NativeSymbol, common.SOLDecimals, p.Amount))
}

// BuildTokenTransfer creates an unsigned TransferChecked between associated
// token accounts, creating the recipient's account when it does not exist yet.
func BuildTokenTransfer(ctx context.Context, chain AccountFetcher, p TokenTransferParams) (*model.UnsignedTransaction, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Mint.IsZero() {
		return nil, errs.Missing("mint")
	}

	mintData, err := chain.FetchAccountData(ctx, p.Mint)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch mint %s", p.Mint)
	}
	var mint token.Mint
	if err := bin.NewBinDecoder(mintData).Decode(&mint); err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, err, "failed to decode mint")
	}

	amount, err := common.ParseUnits(p.Amount, int(mint.Decimals))
	if err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid amount")
	}

	sourceTokenAccount, _, err := solana.FindAssociatedTokenAddress(p.From, p.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find source token account address")
	}
	destTokenAccount, _, err := solana.FindAssociatedTokenAddress(p.To, p.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find destination token account")
	}

	var instructions []solana.Instruction
	if _, err := chain.FetchAccountData(ctx, destTokenAccount); err != nil {
		if !errs.Is(err, errs.NotFound) {
			return nil, errors.Wrap(err, "failed to get destination account info")
		}
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(p.From, p.To, p.Mint).Build())
	}
	instructions = append(instructions, token.NewTransferCheckedInstruction(
		amount,
		mint.Decimals,
		sourceTokenAccount,
		p.Mint,
		destTokenAccount,
		p.From,
		[]solana.PublicKey{},
	).Build())

	symbol := p.Symbol
	if symbol == "" {
		symbol = p.Mint.String()
	}
	if p.Description == "" {
		p.Description = "Transfer " + p.Amount + " " + symbol + " to " + p.To.String()
	}
	return buildDurable(ctx, chain, &p.TransferParams, instructions, metaFor(symbol, int(mint.Decimals), p.Amount))
}

// buildDurable prepends AdvanceNonceAccount, which must be the first
// instruction of a durable transaction, and serializes the message once.
func buildDurable(ctx context.Context, chain AccountFetcher, p *TransferParams, instructions []solana.Instruction, meta *model.TransactionMeta) (*model.UnsignedTransaction, error) {
	nonce, err := FetchNonce(ctx, chain, p.NonceAccount)
	if err != nil {
		return nil, err
	}
	if !nonce.Authority.Equals(p.NonceAuthority) {
		return nil, errors.Errorf("nonce account %s is controlled by %s, not %s", p.NonceAccount, nonce.Authority, p.NonceAuthority)
	}

	advance := system.NewAdvanceNonceAccountInstruction(
		p.NonceAccount,
		solana.SysVarRecentBlockHashesPubkey,
		p.NonceAuthority,
	).Build()

	tx, err := solana.NewTransaction(
		append([]solana.Instruction{advance}, instructions...),
		nonce.Nonce,
		solana.TransactionPayer(p.From),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize message")
	}

	return &model.UnsignedTransaction{
		Description:   p.Description,
		Network:       p.Network,
		MessageBase64: encodeMessage(msg),
		Meta:          meta,
	}, nil
}

func metaFor(symbol string, decimals int, amount string) *model.TransactionMeta {
	meta := &model.TransactionMeta{TokenSymbol: symbol, Decimals: &decimals}
	if f, err := strconv.ParseFloat(amount, 64); err == nil {
		meta.Amount = &f
	}
	return meta
}
