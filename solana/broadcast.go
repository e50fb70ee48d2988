package solana

import (
	"context"

	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/rs/zerolog/log"
)

// BroadcastStatus is the terminal state of a submitted transaction
type BroadcastStatus string

const (
	StatusConfirmed BroadcastStatus = "confirmed"
	StatusFailed    BroadcastStatus = "failed"
)

// BroadcastResult reports one submission
type BroadcastResult struct {
	Signature string          `json:"signature"`
	Status    BroadcastStatus `json:"status"`
	Error     string          `json:"error,omitempty"`
}

// Broadcast binds signed artifacts, submits the transaction and waits for
// confirmation once. There is no retry: network failures are returned as errors,
// an on-chain rejection is a failed result.
func Broadcast(ctx context.Context, submitter Submitter, network string, signed ...*model.SignedTransaction) (*BroadcastResult, error) {
	if len(signed) == 0 {
		return nil, errs.Missing("signature")
	}
	for _, s := range signed {
		if network != "" && s.Network != network {
			return nil, errs.Newf(errs.NetworkMismatch, "artifact is for network %q, configured network is %q", s.Network, network)
		}
	}

	bound, err := Bind(signed[0].Unsigned(), signed...)
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("component", "protocol").Logger()

	sig, err := submitter.SubmitTransaction(ctx, bound.Raw)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("signature", sig.String()).Msg("transaction submitted")

	if err := submitter.AwaitConfirmation(ctx, sig); err != nil {
		if errs.Is(err, errs.NetworkFailure) {
			return nil, err
		}
		logger.Warn().Err(err).Str("signature", sig.String()).Msg("transaction failed")
		return &BroadcastResult{Signature: sig.String(), Status: StatusFailed, Error: err.Error()}, nil
	}

	logger.Info().Str("signature", sig.String()).Msg("transaction confirmed")
	return &BroadcastResult{Signature: sig.String(), Status: StatusConfirmed}, nil
}
