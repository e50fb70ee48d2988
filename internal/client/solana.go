package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SolanaClient is a client for working with Solana RPC.
// It is the only part of the system that talks to the network.
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
	wsURL     string
	logger    zerolog.Logger
}

// NewSolanaClient creates a new Solana client. Empty wsURL is derived from rpcURL.
func NewSolanaClient(rpcURL, wsURL string) *SolanaClient {
	if wsURL == "" {
		wsURL = WebsocketURL(rpcURL)
	}
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
		wsURL:     wsURL,
		logger:    log.With().Str("component", "rpc").Str("endpoint", rpcURL).Logger(),
	}
}

// WebsocketURL maps an http(s) RPC endpoint to its ws(s) counterpart
func WebsocketURL(rpcURL string) string {
	switch {
	case strings.HasPrefix(rpcURL, "https://"):
		return "wss://" + strings.TrimPrefix(rpcURL, "https://")
	case strings.HasPrefix(rpcURL, "http://"):
		return "ws://" + strings.TrimPrefix(rpcURL, "http://")
	}
	return rpcURL
}

// FetchAccountData gets raw account data
func (c *SolanaClient) FetchAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	info, err := c.rpcClient.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) || isAccountNotFoundError(err) {
			return nil, errs.Newf(errs.NotFound, "account %s not found", address)
		}
		return nil, errs.Wrap(errs.NetworkFailure, err, "failed to get account info")
	}
	if info.Value == nil || info.Value.Data == nil {
		return nil, errs.Newf(errs.NotFound, "account %s not found", address)
	}
	return info.Value.Data.GetBinary(), nil
}

// SOLBalance gets SOL balance in lamports
func (c *SolanaClient) SOLBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetBalance(ctx, address, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, errs.Wrap(errs.NetworkFailure, err, "failed to get SOL balance")
	}
	return balance.Value, nil
}

// MinimumBalanceForRentExemption gets the rent-exempt minimum for an account of size bytes
func (c *SolanaClient) MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := c.rpcClient.GetMinimumBalanceForRentExemption(ctx, size, rpc.CommitmentFinalized)
	if err != nil {
		return 0, errs.Wrap(errs.NetworkFailure, err, "failed to get rent exemption")
	}
	return lamports, nil
}

// LatestBlockhash gets latest blockhash (GetRecentBlockhash is deprecated, use GetLatestBlockhash)
func (c *SolanaClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, errs.Wrap(errs.NetworkFailure, err, "failed to get recent blockhash")
	}
	return recent.Value.Blockhash, nil
}

// SubmitTransaction sends a fully signed wire transaction
func (c *SolanaClient) SubmitTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	sig, err := c.rpcClient.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		SkipPreflight:       false, // Transaction validation before node
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			// the node answered: the transaction itself was rejected
			return solana.Signature{}, errors.Errorf("transaction rejected: %s (code %d)", rpcErr.Message, rpcErr.Code)
		}
		return solana.Signature{}, errs.Wrap(errs.NetworkFailure, err, "failed to send transaction")
	}
	c.logger.Debug().Str("signature", sig.String()).Msg("transaction sent")
	return sig, nil
}

// AwaitConfirmation waits once for the signature to reach confirmed commitment
func (c *SolanaClient) AwaitConfirmation(ctx context.Context, sig solana.Signature) error {
	wsClient, err := ws.Connect(ctx, c.wsURL)
	if err != nil {
		return errs.Wrap(errs.NetworkFailure, err, "failed to connect websocket")
	}
	defer wsClient.Close()

	sub, err := wsClient.SignatureSubscribe(sig, rpc.CommitmentConfirmed)
	if err != nil {
		return errs.Wrap(errs.NetworkFailure, err, "failed to subscribe to signature")
	}
	defer sub.Unsubscribe()

	res, err := sub.Recv(ctx)
	if err != nil {
		return errs.Wrap(errs.NetworkFailure, err, "failed to await confirmation")
	}
	if res.Value.Err != nil {
		return fmt.Errorf("transaction %s failed: %v", sig, res.Value.Err)
	}
	return nil
}

// isAccountNotFoundError checks if error indicates that account doesn't exist
func isAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "could not find account") ||
		strings.Contains(errStr, "not found")
}
