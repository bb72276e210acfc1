package staking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliceLockup = "2dd5dda540767b3a1aa33544bcba38042f4df6de.lockup.near"

func sampleState() StakingState {
	a := NewStakingAccount("alice.near")
	a.TotalStaked = "100"
	a.Validators = []ValidatorAccountEntry{{AccountID: "pool1.near", Staked: "100"}}
	l := NewStakingAccount(aliceLockup)
	return StakingState{
		AllValidators:  []string{"pool1.near", "pool2.near"},
		Accounts:       []StakingAccount{a, l},
		IsLockup:       true,
		CurrentAccount: l,
	}
}

func ptr[T any](v T) *T { return &v }

func TestReduce_ReplaceAllDiscardsPriorState(t *testing.T) {
	replacement := StakingState{
		AllValidators:  []string{"pool9.near"},
		Accounts:       []StakingAccount{NewStakingAccount("bob.near")},
		CurrentAccount: NewStakingAccount("bob.near"),
	}
	for _, prior := range []StakingState{sampleState(), InitialState(), {}} {
		got := Reduce(prior, ReplaceAll{State: replacement})
		assert.Equal(t, replacement, got)
		assert.False(t, got.IsLockup)
	}
}

func TestReduce_MergeFields(t *testing.T) {
	prior := sampleState()
	got := Reduce(prior, MergeFields{Fields: StateFields{IsLockup: ptr(false)}})
	assert.False(t, got.IsLockup)
	assert.Equal(t, prior.Accounts, got.Accounts)
	assert.Equal(t, prior.AllValidators, got.AllValidators)
	assert.Equal(t, prior.CurrentAccount, got.CurrentAccount)
}

func TestReduce_MergeDisjointSequentialEqualsUnion(t *testing.T) {
	first := StateFields{AllValidators: []string{"x.near"}}
	second := StateFields{IsLockup: ptr(false), CurrentAccount: ptr(NewStakingAccount("alice.near"))}
	union := StateFields{
		AllValidators:  first.AllValidators,
		IsLockup:       second.IsLockup,
		CurrentAccount: second.CurrentAccount,
	}

	prior := sampleState()
	seq := Reduce(Reduce(prior, MergeFields{Fields: first}), MergeFields{Fields: second})
	once := Reduce(prior, MergeFields{Fields: union})
	assert.Equal(t, once, seq)
}

func TestReduce_ResetToDefault(t *testing.T) {
	got := Reduce(sampleState(), ResetToDefault{})
	assert.Equal(t, InitialState(), got)
	assert.Empty(t, got.Accounts)
	assert.False(t, got.IsLockup)
	assert.Equal(t, "0", got.CurrentAccount.TotalStaked)
}

func TestReduce_AccountsListed(t *testing.T) {
	prior := sampleState()

	got := Reduce(prior, AccountsListed{Result: Done(AccountStakingState{AccountID: "bob.near", LockupID: "b.lockup.near"})})
	require.Len(t, got.Accounts, 2)
	assert.Equal(t, "bob.near", got.Accounts[0].AccountID)
	assert.Equal(t, "b.lockup.near", got.Accounts[1].AccountID)
	assert.Equal(t, "0", got.Accounts[0].TotalStaked)

	got = Reduce(prior, AccountsListed{Result: Done(AccountStakingState{AccountID: "bob.near"})})
	require.Len(t, got.Accounts, 1)

	assert.Equal(t, prior, Reduce(prior, AccountsListed{Result: Failed[AccountStakingState](errors.New("boom"))}))
	assert.Equal(t, prior, Reduce(prior, AccountsListed{Result: Result[AccountStakingState]{}}))
}

func TestReduce_UpdateAccountByID(t *testing.T) {
	prior := sampleState()
	totals, err := NewAggregatedTotals("pool2.near", []ValidatorAccountEntry{{AccountID: "pool2.near", Staked: "5"}})
	require.NoError(t, err)

	got := Reduce(prior, UpdateAccountByID{AccountID: aliceLockup, Result: Done(PatchFromTotals(totals))})
	assert.Equal(t, prior.Accounts[0], got.Accounts[0])
	assert.Equal(t, aliceLockup, got.Accounts[1].AccountID)
	assert.Equal(t, "5", got.Accounts[1].TotalStaked)
	assert.Equal(t, "pool2.near", got.Accounts[1].SelectedValidator)

	partial := Reduce(prior, UpdateAccountByID{AccountID: "alice.near", Result: Done(AccountPatch{TotalPending: ptr("9")})})
	assert.Equal(t, "9", partial.Accounts[0].TotalPending)
	assert.Equal(t, "100", partial.Accounts[0].TotalStaked)

	assert.Equal(t, prior, Reduce(prior, UpdateAccountByID{AccountID: "alice.near", Result: Failed[AccountPatch](errors.New("x"))}))
	assert.Equal(t, prior, Reduce(prior, UpdateAccountByID{AccountID: "alice.near", Result: Result[AccountPatch]{Payload: AccountPatch{TotalPending: ptr("1")}}}))
	assert.Equal(t, prior, Reduce(prior, UpdateAccountByID{AccountID: "nobody.near", Result: Done(AccountPatch{TotalPending: ptr("1")})}))
}

func TestReduce_SelectCurrent(t *testing.T) {
	prior := sampleState()
	got := Reduce(prior, SelectCurrent{AccountID: "alice.near"})
	assert.Equal(t, prior.Accounts[0], got.CurrentAccount)

	got = Reduce(prior, SelectCurrent{AccountID: "nobody.near"})
	assert.Equal(t, NewStakingAccount(""), got.CurrentAccount)
}

func TestReduce_NilUpdateIsIdentity(t *testing.T) {
	prior := sampleState()
	var got StakingState
	require.NotPanics(t, func() { got = Reduce(prior, nil) })
	assert.Equal(t, prior, got)

	got.Accounts[0].AccountID = "changed.near"
	assert.Equal(t, "alice.near", prior.Accounts[0].AccountID)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	prior := sampleState()
	snapshot := sampleState()

	updates := []Update{
		ReplaceAll{State: InitialState()},
		MergeFields{Fields: StateFields{AllValidators: []string{}, Accounts: []StakingAccount{}}},
		ResetToDefault{},
		AccountsListed{Result: Done(AccountStakingState{AccountID: "z"})},
		UpdateAccountByID{AccountID: "alice.near", Result: Done(AccountPatch{TotalStaked: ptr("1"), Validators: []ValidatorAccountEntry{}})},
		SelectCurrent{AccountID: "alice.near"},
	}
	for _, u := range updates {
		next := Reduce(prior, u)
		assert.Equal(t, snapshot, prior, "%T", u)
		assert.Equal(t, next, Reduce(prior, u), "%T", u)
	}

	next := Reduce(prior, SelectCurrent{AccountID: "alice.near"})
	next.CurrentAccount.Validators[0].Staked = "0"
	next.Accounts[0].Validators[0].Staked = "1"
	assert.Equal(t, snapshot, prior)
}
