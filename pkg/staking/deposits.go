package staking

import (
	"context"

	"github.com/canopy-network/stakex/pkg/rpc"
)

// DepositSource lists the staking deposits recorded by the indexer.
type DepositSource interface {
	StakingDeposits(ctx context.Context, accountID string) ([]rpc.StakingDeposit, error)
}

// DepositReconciler maps indexer deposit records to validators.
type DepositReconciler struct {
	source DepositSource
}

// NewDepositReconciler reads deposits from source.
func NewDepositReconciler(source DepositSource) *DepositReconciler {
	return &DepositReconciler{source: source}
}

// GetStakingDeposits returns validator id to deposit for accountID. Errors
// from the source are returned as is.
func (r *DepositReconciler) GetStakingDeposits(ctx context.Context, accountID string) (map[string]string, error) {
	records, err := r.source.StakingDeposits(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return FoldDeposits(records), nil
}

// FoldDeposits keys records by validator; later records win.
func FoldDeposits(records []rpc.StakingDeposit) map[string]string {
	out := make(map[string]string, len(records))
	for _, r := range records {
		out[r.ValidatorID] = r.Deposit
	}
	return out
}
