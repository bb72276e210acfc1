package staking

import (
	"context"
)

// ValidatorBalance reads the position of accountID at validatorID. deposit is
// the principal recorded by the indexer; the excess of the total balance over
// it is reported as unclaimed rewards.
func (s *Service) ValidatorBalance(ctx context.Context, sess Session, validatorID, accountID, deposit string) (ValidatorAccountEntry, error) {
	pool, err := s.binder.Bind(ctx, sess, validatorID, StakingPoolViewMethods, accountID)
	if err != nil {
		return ValidatorAccountEntry{}, err
	}
	args := accountArgs{AccountID: pool.AccountID}

	var staked, unstaked, total string
	var available bool
	if err := pool.View(ctx, MethodGetAccountStakedBalance, args, &staked); err != nil {
		return ValidatorAccountEntry{}, err
	}
	if err := pool.View(ctx, MethodGetAccountUnstakedBalance, args, &unstaked); err != nil {
		return ValidatorAccountEntry{}, err
	}
	if err := pool.View(ctx, MethodGetAccountTotalBalance, args, &total); err != nil {
		return ValidatorAccountEntry{}, err
	}
	if err := pool.View(ctx, MethodIsAccountUnstakedBalanceAvailable, args, &available); err != nil {
		return ValidatorAccountEntry{}, err
	}

	unclaimed, err := subFloor(total, deposit)
	if err != nil {
		return ValidatorAccountEntry{}, err
	}
	entry := ValidatorAccountEntry{
		AccountID: validatorID,
		Staked:    orZero(staked),
		Unstaked:  orZero(unstaked),
		Unclaimed: unclaimed,
		Available: "0",
		Pending:   "0",
	}
	if available {
		entry.Available = entry.Unstaked
	} else {
		entry.Pending = entry.Unstaked
	}
	return entry, nil
}
