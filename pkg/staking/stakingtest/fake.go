// Package stakingtest provides in-memory fakes of the staking collaborators.
package stakingtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/canopy-network/stakex/pkg/rpc"
	"github.com/canopy-network/stakex/pkg/staking"
)

// Journal records the order of side effects across fakes.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) add(format string, args ...any) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
	j.mu.Unlock()
}

// Entries returns a copy of the recorded entries.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// OnStep records step events; it satisfies staking.StepObserver.
func (j *Journal) OnStep(_ context.Context, ev staking.StepEvent) {
	j.add("step:%s:%s", ev.Step, ev.Target)
}

// Call is one submitted transaction.
type Call struct {
	ReceiverID string
	Actions    []staking.Action
}

// Wallet is a scripted staking.Wallet.
type Wallet struct {
	ID      string
	Journal *Journal

	mu           sync.Mutex
	existing     map[string]bool
	accountErrs  map[string]error
	views        map[string]json.RawMessage
	results      map[string]json.RawMessage
	sendErr      error
	calls        []Call
	viewAccounts []string
	nextHash     int
}

// NewWallet returns a wallet signed in as id. Only id exists on chain.
func NewWallet(id string) *Wallet {
	return &Wallet{
		ID:          id,
		existing:    map[string]bool{id: true},
		accountErrs: map[string]error{},
		views:       map[string]json.RawMessage{},
		results:     map[string]json.RawMessage{},
	}
}

// AddAccounts marks ids as existing.
func (w *Wallet) AddAccounts(ids ...string) *Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		w.existing[id] = true
	}
	return w
}

// FailAccount makes ViewAccount(id) return err.
func (w *Wallet) FailAccount(id string, err error) *Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accountErrs[id] = err
	return w
}

// SetView scripts the JSON result of contractID.method.
func (w *Wallet) SetView(contractID, method string, value any) *Wallet {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.views[contractID+"."+method] = raw
	return w
}

// SetResult scripts the raw return value of a change call.
func (w *Wallet) SetResult(receiverID, method, raw string) *Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results[receiverID+"."+method] = json.RawMessage(raw)
	return w
}

// FailSend makes every submission fail with err.
func (w *Wallet) FailSend(err error) *Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sendErr = err
	return w
}

// Calls returns the submitted transactions.
func (w *Wallet) Calls() []Call {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Call(nil), w.calls...)
}

// ViewedAccounts returns the ids passed to ViewAccount in order.
func (w *Wallet) ViewedAccounts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.viewAccounts...)
}

func (w *Wallet) AccountID() string { return w.ID }

func (w *Wallet) ViewAccount(_ context.Context, accountID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.viewAccounts = append(w.viewAccounts, accountID)
	if err, ok := w.accountErrs[accountID]; ok {
		return err
	}
	if !w.existing[accountID] {
		return &rpc.Error{
			Name:    "HANDLER_ERROR",
			Code:    -32000,
			Message: "Server error",
			Cause:   &rpc.ErrorCause{Name: "UNKNOWN_ACCOUNT"},
		}
	}
	return nil
}

func (w *Wallet) ViewFunction(_ context.Context, contractID, method string, _ any) (json.RawMessage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Journal.add("view:%s.%s", contractID, method)
	raw, ok := w.views[contractID+"."+method]
	if !ok {
		return nil, fmt.Errorf("no view scripted for %s.%s", contractID, method)
	}
	return raw, nil
}

func (w *Wallet) SignAndSendTransaction(_ context.Context, receiverID string, actions []staking.Action) (staking.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, Call{ReceiverID: receiverID, Actions: append([]staking.Action(nil), actions...)})
	method := ""
	if len(actions) > 0 {
		method = actions[0].MethodName
	}
	w.Journal.add("send:%s.%s", receiverID, method)
	if w.sendErr != nil {
		return staking.Outcome{}, w.sendErr
	}
	w.nextHash++
	out := staking.Outcome{TxHash: fmt.Sprintf("tx%d", w.nextHash)}
	if raw, ok := w.results[receiverID+"."+method]; ok {
		out.Value = raw
	}
	return out, nil
}

// Waiter records waits and returns immediately.
type Waiter struct {
	Journal *Journal
	Err     error

	mu    sync.Mutex
	waits []time.Duration
}

func (w *Waiter) Wait(_ context.Context, d time.Duration) error {
	w.mu.Lock()
	w.waits = append(w.waits, d)
	w.mu.Unlock()
	w.Journal.add("wait:%s", d)
	return w.Err
}

// Waits returns the recorded durations.
func (w *Waiter) Waits() []time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]time.Duration(nil), w.waits...)
}

// Deposits is a fixed staking.DepositSource.
type Deposits struct {
	Records []rpc.StakingDeposit
	Err     error
}

func (d Deposits) StakingDeposits(context.Context, string) ([]rpc.StakingDeposit, error) {
	return d.Records, d.Err
}

// Validators is a fixed staking.ValidatorSource that counts calls.
type Validators struct {
	mu    sync.Mutex
	View  *rpc.ValidatorsView
	Err   error
	calls int
}

func (v *Validators) Validators(context.Context) (*rpc.ValidatorsView, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	return v.View, v.Err
}

// Calls is the number of Validators calls.
func (v *Validators) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}
