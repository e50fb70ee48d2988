package solana

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AlexZinkM/offline-signer/internal/common"
	"github.com/AlexZinkM/offline-signer/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// BalanceSource reads SOL balances in lamports
type BalanceSource interface {
	SOLBalance(ctx context.Context, address solana.PublicKey) (uint64, error)
}

// RateSource quotes SOL in USD
type RateSource interface {
	GetSOLtoUSDRate() (string, error)
}

// GetBalance gets the SOL balance of address with its USD value
func GetBalance(ctx context.Context, chain BalanceSource, rates RateSource, name string, address solana.PublicKey) (*model.BalanceResponse, error) {
	lamports, err := chain.SOLBalance(ctx, address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SOL balance")
	}

	// Convert to display string (no float precision loss)
	sol := common.LamportsToSOL(lamports)

	rate, err := rates.GetSOLtoUSDRate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rate")
	}

	// Calculate USD (use float only for display, not for critical operations)
	solFloat, _ := strconv.ParseFloat(sol, 64)
	rateFloat, _ := strconv.ParseFloat(rate, 64)
	usd := fmt.Sprintf("%.2f", solFloat*rateFloat)

	return &model.BalanceResponse{
		Name:    name,
		Address: address.String(),
		SOL:     sol,
		Rate:    rate,
		USD:     usd,
	}, nil
}
