package staking

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

// LoadState builds the staking view of the session owner and its lockup.
// currentAccountID selects the current account; empty means the owner.
// Validators where an account holds less than MinDisplayYocto are left out.
// A failed account keeps zeroed totals and its error is returned alongside
// the state.
func (s *Service) LoadState(ctx context.Context, sess Session, currentAccountID string, validators []string, deposits *DepositReconciler) (StakingState, error) {
	state := Reduce(InitialState(), MergeFields{Fields: StateFields{AllValidators: validators}})

	accounts, err := s.resolver.Accounts(ctx, sess)
	if err != nil {
		return Reduce(state, AccountsListed{Result: Failed[AccountStakingState](err)}), err
	}
	state = Reduce(state, AccountsListed{Result: Done(accounts)})

	var errs []error
	for _, id := range accounts.IDs() {
		totals, err := s.AccountTotals(ctx, sess, id, id == accounts.LockupID, validators, deposits)
		if err != nil {
			s.logger.Warn("unable to load account totals", zap.String("account", id), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			state = Reduce(state, UpdateAccountByID{AccountID: id, Result: Failed[AccountPatch](err)})
			continue
		}
		state = Reduce(state, UpdateAccountByID{AccountID: id, Result: Done(PatchFromTotals(totals))})
	}

	if currentAccountID == "" {
		currentAccountID = accounts.AccountID
	}
	isLockup := currentAccountID != accounts.AccountID
	state = Reduce(state, MergeFields{Fields: StateFields{IsLockup: &isLockup}})
	state = Reduce(state, SelectCurrent{AccountID: currentAccountID})
	return state, errors.Join(errs...)
}

// AccountTotals reads the position of accountID at every validator and sums
// it. For a lockup the selected staking pool is read from the contract.
func (s *Service) AccountTotals(ctx context.Context, sess Session, accountID string, isLockup bool, validators []string, deposits *DepositReconciler) (AggregatedAccountTotals, error) {
	var selected string
	if isLockup {
		lockup, err := s.binder.Bind(ctx, sess, accountID, LockupMethods, accountID)
		if err != nil {
			return AggregatedAccountTotals{}, err
		}
		var pool *string
		if err := lockup.View(ctx, MethodGetStakingPoolAccountID, nil, &pool); err != nil {
			return AggregatedAccountTotals{}, err
		}
		if pool != nil {
			selected = *pool
		}
	}

	principal := map[string]string{}
	if deposits != nil {
		var err error
		if principal, err = deposits.GetStakingDeposits(ctx, accountID); err != nil {
			return AggregatedAccountTotals{}, err
		}
	}

	entries := make([]ValidatorAccountEntry, len(validators))
	errs := make([]error, len(validators))

	group := s.pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for i, validatorID := range validators {
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				errs[i] = err
				return
			}
			entries[i], errs[i] = s.ValidatorBalance(groupCtx, sess, validatorID, accountID, principal[validatorID])
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		return AggregatedAccountTotals{}, err
	}

	held := make([]ValidatorAccountEntry, 0, len(validators))
	for i, entry := range entries {
		if err := errs[i]; err != nil {
			// a validator that went away is not a failure of the account
			var noContract *NoContractError
			if errors.As(err, &noContract) {
				continue
			}
			return AggregatedAccountTotals{}, fmt.Errorf("validator %s: %w", validators[i], err)
		}
		if aboveDust(entry.Staked) || aboveDust(entry.Unstaked) || entry.AccountID == selected {
			held = append(held, entry)
		}
	}
	return NewAggregatedTotals(selected, held)
}
