package staking

import "slices"

// Contract method names.
const (
	MethodGetAccountStakedBalance           = "get_account_staked_balance"
	MethodGetAccountUnstakedBalance         = "get_account_unstaked_balance"
	MethodGetAccountTotalBalance            = "get_account_total_balance"
	MethodIsAccountUnstakedBalanceAvailable = "is_account_unstaked_balance_available"
	MethodGetTotalStakedBalance             = "get_total_staked_balance"
	MethodGetOwnerID                        = "get_owner_id"
	MethodGetRewardFeeFraction              = "get_reward_fee_fraction"
	MethodPing                              = "ping"
	MethodDeposit                           = "deposit"
	MethodDepositAndStake                   = "deposit_and_stake"
	MethodStake                             = "stake"
	MethodStakeAll                          = "stake_all"
	MethodUnstake                           = "unstake"
	MethodUnstakeAll                        = "unstake_all"
	MethodWithdraw                          = "withdraw"
	MethodWithdrawAll                       = "withdraw_all"
	MethodDepositToStakingPool              = "deposit_to_staking_pool"
	MethodGetBalance                        = "get_balance"
	MethodGetLockedAmount                   = "get_locked_amount"
	MethodGetOwnersBalance                  = "get_owners_balance"
	MethodGetStakingPoolAccountID           = "get_staking_pool_account_id"
	MethodGetKnownDepositedBalance          = "get_known_deposited_balance"
	MethodSelectStakingPool                 = "select_staking_pool"
	MethodUnselectStakingPool               = "unselect_staking_pool"
	MethodWithdrawFromStakingPool           = "withdraw_from_staking_pool"
	MethodWithdrawAllFromStakingPool        = "withdraw_all_from_staking_pool"
	MethodRefreshStakingPoolBalance         = "refresh_staking_pool_balance"
)

// MethodSet declares the callable surface of a contract.
type MethodSet struct {
	Name          string
	ViewMethods   []string
	ChangeMethods []string
	lockup        bool
}

func (m MethodSet) hasView(name string) bool   { return slices.Contains(m.ViewMethods, name) }
func (m MethodSet) hasChange(name string) bool { return slices.Contains(m.ChangeMethods, name) }

var (
	// StakingPoolMethods is the validator staking pool interface.
	StakingPoolMethods = MethodSet{
		Name: "staking-pool",
		ViewMethods: []string{
			MethodGetAccountStakedBalance,
			MethodGetAccountUnstakedBalance,
			MethodGetAccountTotalBalance,
			MethodIsAccountUnstakedBalanceAvailable,
			MethodGetTotalStakedBalance,
			MethodGetOwnerID,
			MethodGetRewardFeeFraction,
		},
		ChangeMethods: []string{
			MethodPing,
			MethodDeposit,
			MethodDepositAndStake,
			MethodDepositToStakingPool,
			MethodStake,
			MethodStakeAll,
			MethodUnstake,
			MethodUnstakeAll,
			MethodWithdraw,
			MethodWithdrawAll,
		},
	}

	// StakingPoolViewMethods is the read-only subset of StakingPoolMethods.
	StakingPoolViewMethods = MethodSet{
		Name:        "staking-pool-view",
		ViewMethods: StakingPoolMethods.ViewMethods,
	}

	// LockupMethods is the lockup contract interface.
	LockupMethods = MethodSet{
		Name: "lockup",
		ViewMethods: []string{
			MethodGetBalance,
			MethodGetLockedAmount,
			MethodGetOwnersBalance,
			MethodGetStakingPoolAccountID,
			MethodGetKnownDepositedBalance,
		},
		ChangeMethods: []string{
			MethodSelectStakingPool,
			MethodUnselectStakingPool,
			MethodDepositToStakingPool,
			MethodDepositAndStake,
			MethodWithdrawFromStakingPool,
			MethodWithdrawAllFromStakingPool,
			MethodUnstake,
			MethodUnstakeAll,
			MethodRefreshStakingPoolBalance,
		},
		lockup: true,
	}
)
