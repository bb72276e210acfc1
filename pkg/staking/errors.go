package staking

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers.
const (
	KindNoLockup   = "staking.noLockup"
	KindNoContract = "staking.noContract"
	KindNoWithdraw = "staking.noWithdraw"
)

// ErrUndeclaredMethod is returned when a bound contract is asked for a method
// outside its method set.
var ErrUndeclaredMethod = errors.New("method not declared for contract")

// NoContractError reports that the bind target does not exist on chain.
type NoContractError struct {
	ContractID string
	kind       string
	Err        error
}

func (e *NoContractError) Error() string {
	return fmt.Sprintf("no contract for account %s", e.ContractID)
}

// Kind is KindNoLockup for lockup binds and KindNoContract otherwise.
func (e *NoContractError) Kind() string { return e.kind }

func (e *NoContractError) Unwrap() error { return e.Err }

// WithdrawFailedError reports that a withdraw call returned a literal false.
type WithdrawFailedError struct {
	ReceiverID string
	TxHash     string
}

func (e *WithdrawFailedError) Error() string {
	return "unable to withdraw pending balance from validator"
}

func (e *WithdrawFailedError) Kind() string { return KindNoWithdraw }

// ErrorKind returns the staking kind carried by err, or "" when there is none.
func ErrorKind(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}
