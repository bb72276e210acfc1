package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/canopy-network/stakex/app/worker/activity"
	"github.com/canopy-network/stakex/app/worker/types"
	"github.com/canopy-network/stakex/app/worker/workflow"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/staking/stakingtest"
	"github.com/canopy-network/stakex/pkg/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap/zaptest"
)

const (
	alice       = "alice.near"
	aliceLockup = "2dd5dda540767b3a1aa33544bcba38042f4df6de.lockup.near"
	pool        = "pool1.near"
)

type harness struct {
	env     *testsuite.TestWorkflowEnvironment
	wc      workflow.Context
	svc     *staking.Service
	wallet  *stakingtest.Wallet
	journal *stakingtest.Journal

	mu     sync.Mutex
	timers []time.Duration
}

func newHarness(t *testing.T) *harness {
	journal := &stakingtest.Journal{}
	w := stakingtest.NewWallet(alice).AddAccounts(pool)
	w.Journal = journal
	logger := zaptest.NewLogger(t)
	svc := staking.NewService(staking.Options{Logger: logger, Observer: journal})

	h := &harness{
		wc: workflow.Context{
			TemporalClient: &temporal.Client{StakingQueue: temporal.QueueStaking},
			ActivityContext: &activity.Context{
				Logger:   logger,
				Service:  svc,
				Session:  staking.NewSession(w),
				Observer: journal,
			},
			Config: workflow.Config{IndexingDelay: svc.IndexingDelay()},
		},
		svc:     svc,
		wallet:  w,
		journal: journal,
	}
	h.newEnv()
	return h
}

// newEnv replaces the test environment; the service and wallet are kept.
func (h *harness) newEnv() {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	env.SetOnTimerScheduledListener(func(_ string, d time.Duration) {
		h.mu.Lock()
		h.timers = append(h.timers, d)
		h.mu.Unlock()
	})
	env.RegisterWorkflow(h.wc.WithdrawWorkflow)
	env.RegisterWorkflow(h.wc.UnstakeWorkflow)
	env.RegisterWorkflow(h.wc.SelectPoolWorkflow)
	env.RegisterActivity(h.wc.ActivityContext)
	h.env = env
}

func (h *harness) count(entry string) int {
	n := 0
	for _, e := range h.journal.Entries() {
		if e == entry {
			n++
		}
	}
	return n
}

func (h *harness) timerDurations() []time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]time.Duration(nil), h.timers...)
}

func errorType(t *testing.T, err error) string {
	t.Helper()
	var appErr *sdktemporal.ApplicationError
	require.True(t, errors.As(err, &appErr), "expected application error, got %v", err)
	return appErr.Type()
}

func TestWithdrawWorkflow_DirectWaitsForIndexer(t *testing.T) {
	h := newHarness(t)

	h.env.ExecuteWorkflow(h.wc.WithdrawWorkflow, types.WithdrawInput{
		CurrentAccountID: alice,
		ValidatorID:      pool,
	})

	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	var out types.WithdrawOutput
	require.NoError(t, h.env.GetWorkflowResult(&out))
	assert.Equal(t, "tx1", out.TxHash)
	assert.False(t, out.Plan.IsLockup)
	assert.Equal(t, alice, out.Plan.Owner)

	assert.Equal(t, []time.Duration{2 * time.Second}, h.timerDurations())
	assert.Equal(t, []string{
		"send:pool1.near.withdraw_all",
		"step:submitted:pool1.near",
		"step:indexing_wait:pool1.near",
	}, h.journal.Entries())

	calls := h.wallet.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 7*staking.DefaultGasBase, calls[0].Actions[0].Gas)
}

func TestWithdrawWorkflow_ThroughLockup(t *testing.T) {
	h := newHarness(t)
	h.wallet.AddAccounts(aliceLockup)

	h.env.ExecuteWorkflow(h.wc.WithdrawWorkflow, types.WithdrawInput{
		CurrentAccountID: aliceLockup,
		ValidatorID:      pool,
		Amount:           "2",
		Unit:             staking.UnitNear,
	})

	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	var out types.WithdrawOutput
	require.NoError(t, h.env.GetWorkflowResult(&out))
	assert.True(t, out.Plan.IsLockup)
	assert.Equal(t, aliceLockup, out.Plan.LockupID)
	assert.Equal(t, "2000000000000000000000000", out.Plan.Amount)

	assert.Empty(t, h.timerDurations())
	calls := h.wallet.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, aliceLockup, calls[0].ReceiverID)
	assert.Equal(t, staking.MethodWithdrawFromStakingPool, calls[0].Actions[0].MethodName)
}

func TestWithdrawWorkflow_FalseResultFails(t *testing.T) {
	h := newHarness(t)
	h.wallet.SetResult(pool, staking.MethodWithdrawAll, "false")

	h.env.ExecuteWorkflow(h.wc.WithdrawWorkflow, types.WithdrawInput{
		CurrentAccountID: alice,
		ValidatorID:      pool,
	})

	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	assert.Equal(t, staking.KindNoWithdraw, errorType(t, err))
	assert.Empty(t, h.timerDurations())
	assert.Len(t, h.wallet.Calls(), 1, "submission must not be retried")
}

func TestWithdrawWorkflow_SendFailureIsNotRetried(t *testing.T) {
	h := newHarness(t)
	h.wallet.FailSend(errors.New("broadcast timeout"))

	h.env.ExecuteWorkflow(h.wc.WithdrawWorkflow, types.WithdrawInput{
		CurrentAccountID: alice,
		ValidatorID:      pool,
		Amount:           "1",
	})

	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	assert.Equal(t, "staking_error", errorType(t, err))
	assert.Len(t, h.wallet.Calls(), 1)
}

func TestUnstakeWorkflow_RefreshesAfterWait(t *testing.T) {
	h := newHarness(t)
	h.wallet.SetView(pool, staking.MethodGetAccountStakedBalance, "4000")

	h.env.ExecuteWorkflow(h.wc.UnstakeWorkflow, types.UnstakeInput{
		ValidatorID: pool,
		Amount:      "1",
		Unit:        staking.UnitNear,
	})

	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	var out types.UnstakeOutput
	require.NoError(t, h.env.GetWorkflowResult(&out))
	assert.Equal(t, "tx1", out.TxHash)
	assert.Equal(t, "4000", out.StakedBalance)

	assert.Equal(t, []time.Duration{2 * time.Second}, h.timerDurations())
	assert.Equal(t, []string{
		"send:pool1.near.unstake",
		"step:submitted:pool1.near",
		"step:indexing_wait:pool1.near",
		"view:pool1.near.get_account_staked_balance",
		"step:refreshed:pool1.near",
	}, h.journal.Entries())

	calls := h.wallet.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 5*staking.DefaultGasBase, calls[0].Actions[0].Gas)

	cached, ok, err := h.svc.Cache().Get(context.Background(), pool, alice)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "4000", cached)
}

func TestUnstakeWorkflow_FailedRefreshRunsOnce(t *testing.T) {
	h := newHarness(t)
	// no staked balance scripted: the refresh read fails

	h.env.ExecuteWorkflow(h.wc.UnstakeWorkflow, types.UnstakeInput{ValidatorID: pool, Amount: "1"})

	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	assert.Equal(t, "staking_error", errorType(t, err))
	assert.Equal(t, 1, h.count("view:pool1.near.get_account_staked_balance"))
	assert.Len(t, h.wallet.Calls(), 1)
	assert.Zero(t, h.count("step:refreshed:pool1.near"))
}

func TestWithdrawWorkflow_NonPositiveDelayStillWaits(t *testing.T) {
	h := newHarness(t)
	h.wc.Config.IndexingDelay = -time.Second

	h.env.ExecuteWorkflow(h.wc.WithdrawWorkflow, types.WithdrawInput{CurrentAccountID: alice, ValidatorID: pool})

	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())
	assert.Equal(t, []time.Duration{staking.DefaultIndexingDelay}, h.timerDurations())
}

func TestWithdrawWorkflow_FindsLockupDeployedLater(t *testing.T) {
	h := newHarness(t)

	h.env.ExecuteWorkflow(h.wc.WithdrawWorkflow, types.WithdrawInput{CurrentAccountID: aliceLockup, ValidatorID: pool})
	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	assert.Equal(t, staking.KindNoLockup, errorType(t, err))

	h.wallet.AddAccounts(aliceLockup)
	h.newEnv()
	h.env.ExecuteWorkflow(h.wc.WithdrawWorkflow, types.WithdrawInput{CurrentAccountID: aliceLockup, ValidatorID: pool})
	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	calls := h.wallet.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, aliceLockup, calls[0].ReceiverID)
	assert.Equal(t, staking.MethodWithdrawAllFromStakingPool, calls[0].Actions[0].MethodName)
}

func TestUnstakeWorkflow_InvalidAmount(t *testing.T) {
	h := newHarness(t)

	h.env.ExecuteWorkflow(h.wc.UnstakeWorkflow, types.UnstakeInput{
		ValidatorID: pool,
		Amount:      "lots",
		Unit:        staking.UnitYocto,
	})

	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	assert.Equal(t, "invalid_amount", errorType(t, err))
	assert.Empty(t, h.wallet.Calls())
}

func TestSelectPoolWorkflow_UnselectsFirst(t *testing.T) {
	h := newHarness(t)
	h.wallet.AddAccounts(aliceLockup)

	h.env.ExecuteWorkflow(h.wc.SelectPoolWorkflow, types.SelectPoolInput{
		ValidatorID: pool,
		Unselect:    true,
	})

	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	var out types.SelectPoolOutput
	require.NoError(t, h.env.GetWorkflowResult(&out))
	assert.Equal(t, aliceLockup, out.LockupID)
	assert.Equal(t, "tx2", out.TxHash)

	calls := h.wallet.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, staking.MethodUnselectStakingPool, calls[0].Actions[0].MethodName)
	assert.Equal(t, staking.DefaultGasBase, calls[0].Actions[0].Gas)
	assert.Equal(t, staking.MethodSelectStakingPool, calls[1].Actions[0].MethodName)
	assert.Equal(t, 3*staking.DefaultGasBase, calls[1].Actions[0].Gas)
}

func TestSelectPoolWorkflow_NoLockup(t *testing.T) {
	h := newHarness(t)

	h.env.ExecuteWorkflow(h.wc.SelectPoolWorkflow, types.SelectPoolInput{ValidatorID: pool})

	require.True(t, h.env.IsWorkflowCompleted())
	err := h.env.GetWorkflowError()
	require.Error(t, err)
	assert.Equal(t, staking.KindNoLockup, errorType(t, err))
	assert.Empty(t, h.wallet.Calls())
}
