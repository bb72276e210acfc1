package staking

import "fmt"

// Gas is a per-call compute budget.
type Gas uint64

// DefaultGasBase is the unit every staking call's gas is a multiple of.
const DefaultGasBase Gas = 25_000_000_000_000

// ZeroDeposit is attached to every staking call.
const ZeroDeposit = "0"

// Operation names a gas-metered staking call.
type Operation string

const (
	OpWithdraw     Operation = "withdraw"
	OpWithdrawAll  Operation = "withdraw_all"
	OpUnstake      Operation = "unstake"
	OpUnstakeAll   Operation = "unstake_all"
	OpSelectPool   Operation = "select_staking_pool"
	OpUnselectPool Operation = "unselect_staking_pool"
	OpPing         Operation = "ping"
)

var gasMultipliers = map[Operation]Gas{
	OpWithdraw:     5,
	OpWithdrawAll:  7,
	OpUnstake:      5,
	OpUnstakeAll:   5,
	OpSelectPool:   3,
	OpUnselectPool: 1,
	OpPing:         1,
}

// GasPolicy maps operations to gas limits.
type GasPolicy struct {
	Base Gas
}

// For returns Base times the multiplier of op. Unknown operations panic.
func (p GasPolicy) For(op Operation) Gas {
	m, ok := gasMultipliers[op]
	if !ok {
		panic(fmt.Sprintf("staking: no gas multiplier for %q", op))
	}
	base := p.Base
	if base == 0 {
		base = DefaultGasBase
	}
	return base * m
}
