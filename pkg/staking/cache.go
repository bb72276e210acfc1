package staking

import (
	"context"

	"github.com/canopy-network/stakex/pkg/kvstore"
)

const stakedBalancePrefix = "__SVPRE__"

// BalanceCache stores the last read staked balance per (validator, account).
type BalanceCache struct {
	store kvstore.Store
}

// NewBalanceCache wraps store.
func NewBalanceCache(store kvstore.Store) *BalanceCache {
	return &BalanceCache{store: store}
}

func stakedBalanceKey(validatorID, accountID string) string {
	return stakedBalancePrefix + validatorID + accountID
}

// Put overwrites the cached balance.
func (c *BalanceCache) Put(ctx context.Context, validatorID, accountID, balance string) error {
	return c.store.Set(ctx, stakedBalanceKey(validatorID, accountID), balance)
}

// Get returns the cached balance and whether one was stored.
func (c *BalanceCache) Get(ctx context.Context, validatorID, accountID string) (string, bool, error) {
	return c.store.Get(ctx, stakedBalanceKey(validatorID, accountID))
}
