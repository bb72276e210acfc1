package staking

import (
	"fmt"
	"slices"
)

// Update is a closed set of state transitions. See Reduce.
type Update interface {
	update()
}

// Result is the tri-state outcome of an asynchronous load.
type Result[T any] struct {
	Ready   bool
	Err     error
	Payload T
}

// Succeeded reports whether the load finished without error.
func (r Result[T]) Succeeded() bool { return r.Ready && r.Err == nil }

// Done wraps a successful payload.
func Done[T any](payload T) Result[T] { return Result[T]{Ready: true, Payload: payload} }

// Failed wraps a failed load.
func Failed[T any](err error) Result[T] { return Result[T]{Ready: true, Err: err} }

// ReplaceAll discards the current state.
type ReplaceAll struct {
	State StakingState
}

// StateFields is a partial state; nil fields are left untouched.
type StateFields struct {
	AllValidators  []string
	Accounts       []StakingAccount
	IsLockup       *bool
	CurrentAccount *StakingAccount
}

// MergeFields overlays the non-nil fields onto the current state.
type MergeFields struct {
	Fields StateFields
}

// ResetToDefault returns to InitialState, used on login and account switch.
type ResetToDefault struct{}

// AccountsListed replaces Accounts with one entry per resolved account id.
type AccountsListed struct {
	Result Result[AccountStakingState]
}

// AccountPatch is a partial account; nil fields are left untouched.
type AccountPatch struct {
	SelectedValidator *string
	TotalPending      *string
	TotalAvailable    *string
	TotalUnstaked     *string
	TotalStaked       *string
	TotalUnclaimed    *string
	Validators        []ValidatorAccountEntry
}

// PatchFromTotals returns a patch setting every field of t.
func PatchFromTotals(t AggregatedAccountTotals) AccountPatch {
	return AccountPatch{
		SelectedValidator: &t.SelectedValidator,
		TotalPending:      &t.TotalPending,
		TotalAvailable:    &t.TotalAvailable,
		TotalUnstaked:     &t.TotalUnstaked,
		TotalStaked:       &t.TotalStaked,
		TotalUnclaimed:    &t.TotalUnclaimed,
		Validators:        slices.Clone(t.Validators),
	}
}

// UpdateAccountByID merges a patch into the account with AccountID.
type UpdateAccountByID struct {
	AccountID string
	Result    Result[AccountPatch]
}

// SelectCurrent points CurrentAccount at the account with AccountID.
type SelectCurrent struct {
	AccountID string
}

func (ReplaceAll) update()        {}
func (MergeFields) update()       {}
func (ResetToDefault) update()    {}
func (AccountsListed) update()    {}
func (UpdateAccountByID) update() {}
func (SelectCurrent) update()     {}

// Reduce applies u to state and returns the next state. The input is never
// modified. A nil update returns a copy of state.
func Reduce(state StakingState, u Update) StakingState {
	switch u := u.(type) {
	case nil:
		return cloneState(state)
	case ReplaceAll:
		return cloneState(u.State)
	case MergeFields:
		next := cloneState(state)
		if u.Fields.AllValidators != nil {
			next.AllValidators = slices.Clone(u.Fields.AllValidators)
		}
		if u.Fields.Accounts != nil {
			next.Accounts = cloneAccounts(u.Fields.Accounts)
		}
		if u.Fields.IsLockup != nil {
			next.IsLockup = *u.Fields.IsLockup
		}
		if u.Fields.CurrentAccount != nil {
			next.CurrentAccount = cloneAccount(*u.Fields.CurrentAccount)
		}
		return next
	case ResetToDefault:
		return InitialState()
	case AccountsListed:
		if !u.Result.Succeeded() {
			return cloneState(state)
		}
		next := cloneState(state)
		ids := u.Result.Payload.IDs()
		next.Accounts = make([]StakingAccount, 0, len(ids))
		for _, id := range ids {
			next.Accounts = append(next.Accounts, NewStakingAccount(id))
		}
		return next
	case UpdateAccountByID:
		next := cloneState(state)
		if !u.Result.Succeeded() {
			return next
		}
		for i := range next.Accounts {
			if next.Accounts[i].AccountID == u.AccountID {
				next.Accounts[i] = applyPatch(next.Accounts[i], u.Result.Payload)
			}
		}
		return next
	case SelectCurrent:
		next := cloneState(state)
		next.CurrentAccount = NewStakingAccount("")
		for _, a := range next.Accounts {
			if a.AccountID == u.AccountID {
				next.CurrentAccount = cloneAccount(a)
				break
			}
		}
		return next
	default:
		panic(fmt.Sprintf("staking: unhandled update %T", u))
	}
}

func applyPatch(a StakingAccount, p AccountPatch) StakingAccount {
	if p.SelectedValidator != nil {
		a.SelectedValidator = *p.SelectedValidator
	}
	if p.TotalPending != nil {
		a.TotalPending = *p.TotalPending
	}
	if p.TotalAvailable != nil {
		a.TotalAvailable = *p.TotalAvailable
	}
	if p.TotalUnstaked != nil {
		a.TotalUnstaked = *p.TotalUnstaked
	}
	if p.TotalStaked != nil {
		a.TotalStaked = *p.TotalStaked
	}
	if p.TotalUnclaimed != nil {
		a.TotalUnclaimed = *p.TotalUnclaimed
	}
	if p.Validators != nil {
		a.Validators = slices.Clone(p.Validators)
	}
	return a
}

func cloneAccount(a StakingAccount) StakingAccount {
	a.Validators = slices.Clone(a.Validators)
	return a
}

func cloneAccounts(in []StakingAccount) []StakingAccount {
	if in == nil {
		return nil
	}
	out := make([]StakingAccount, len(in))
	for i, a := range in {
		out[i] = cloneAccount(a)
	}
	return out
}

func cloneState(s StakingState) StakingState {
	s.AllValidators = slices.Clone(s.AllValidators)
	s.Accounts = cloneAccounts(s.Accounts)
	s.CurrentAccount = cloneAccount(s.CurrentAccount)
	return s
}
