package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/canopy-network/stakex/pkg/rpc"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/staking/stakingtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const aliceLockup = "2dd5dda540767b3a1aa33544bcba38042f4df6de.lockup.near"

type cli struct {
	wallet *stakingtest.Wallet
	waiter *stakingtest.Waiter
}

func newCLI(t *testing.T) *cli {
	t.Setenv("STAKING_ACCOUNT_ID", "alice.near")
	t.Setenv("STAKING_PRIVATE_KEY", "")
	return &cli{
		wallet: stakingtest.NewWallet("alice.near").AddAccounts("pool1.near"),
		waiter: &stakingtest.Waiter{},
	}
}

func (c *cli) factory(cfg cliConfig, logger *zap.Logger) (*deps, error) {
	return &deps{
		Service: staking.NewService(staking.Options{Logger: logger, Config: cfg.staking(), Waiter: c.waiter}),
		Session: staking.NewSession(c.wallet),
		Registry: staking.NewValidatorRegistry(logger, &stakingtest.Validators{View: &rpc.ValidatorsView{
			Current: []rpc.ValidatorStake{{AccountID: "pool2.near"}},
			Next:    []rpc.ValidatorStake{{AccountID: "pool1.near"}},
		}}),
		Deposits: staking.NewDepositReconciler(stakingtest.Deposits{Records: []rpc.StakingDeposit{
			{ValidatorID: "pool1.near", Deposit: "100"},
		}}),
		Logger: logger,
	}, nil
}

func (c *cli) run(args ...string) (string, error) {
	cmd := newRootCmd(c.factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWithdraw_ExplicitUnit(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("withdraw", "pool1.near", "1", "--unit", "near", "-o", "json")
	require.NoError(t, err)

	var outcome staking.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, "tx1", outcome.TxHash)

	calls := c.wallet.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "pool1.near", calls[0].ReceiverID)
	assert.Equal(t, staking.MethodWithdraw, calls[0].Actions[0].MethodName)
	args, err := json.Marshal(calls[0].Actions[0].Args)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1000000000000000000000000"}`, string(args))
	assert.Equal(t, []time.Duration{staking.DefaultIndexingDelay}, c.waiter.Waits())
}

func TestUnstake_ReportsRefreshedBalance(t *testing.T) {
	c := newCLI(t)
	c.wallet.SetView("pool1.near", staking.MethodGetAccountStakedBalance, "42")

	out, err := c.run("unstake", "pool1.near", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "txHash: tx1")
	assert.Contains(t, out, `stakedBalance: "42"`)

	calls := c.wallet.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, staking.MethodUnstakeAll, calls[0].Actions[0].MethodName)
}

func TestSelectPool_DerivesLockup(t *testing.T) {
	c := newCLI(t)
	c.wallet.AddAccounts(aliceLockup)

	out, err := c.run("select-pool", "pool1.near", "--unselect")
	require.NoError(t, err)
	assert.Equal(t, "select submitted: tx2\n", out)

	calls := c.wallet.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, aliceLockup, calls[0].ReceiverID)
	assert.Equal(t, staking.MethodUnselectStakingPool, calls[0].Actions[0].MethodName)
	assert.Equal(t, staking.MethodSelectStakingPool, calls[1].Actions[0].MethodName)
}

func TestSelectPool_NoLockup(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("select-pool", "pool1.near")
	require.Error(t, err)
	assert.Equal(t, staking.KindNoLockup, staking.ErrorKind(err))
	assert.Empty(t, c.wallet.Calls())
}

func TestValidators_Text(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("validators")
	require.NoError(t, err)
	assert.Equal(t, "pool1.near\npool2.near\n", out)
}

func TestBalance_UsesDeposit(t *testing.T) {
	c := newCLI(t)
	c.wallet.SetView("pool1.near", staking.MethodGetAccountStakedBalance, "100").
		SetView("pool1.near", staking.MethodGetAccountUnstakedBalance, "0").
		SetView("pool1.near", staking.MethodGetAccountTotalBalance, "130").
		SetView("pool1.near", staking.MethodIsAccountUnstakedBalanceAvailable, true)

	out, err := c.run("balance", "pool1.near", "-o", "json")
	require.NoError(t, err)
	var entry staking.ValidatorAccountEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, "30", entry.Unclaimed)
	assert.Equal(t, "100", entry.Staked)
}

func TestRoot_RejectsBadFlags(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("validators", "-o", "xml")
	assert.ErrorContains(t, err, "invalid --output")

	_, err = c.run("withdraw", "pool1.near", "--unit", "wei")
	assert.ErrorContains(t, err, "invalid --unit")
	assert.Empty(t, c.wallet.Calls())
}

func TestRoot_RequiresAccount(t *testing.T) {
	c := newCLI(t)
	t.Setenv("STAKING_ACCOUNT_ID", "")

	_, err := c.run("validators")
	assert.ErrorContains(t, err, "STAKING_ACCOUNT_ID")
}

func TestLoadConfig_OverlaysFile(t *testing.T) {
	t.Setenv("STAKING_ACCOUNT_ID", "env.near")
	t.Setenv("RPC_ENDPOINTS", "https://a,https://b")
	path := filepath.Join(t.TempDir(), "stakectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
accountId: alice.testnet
rpcEndpoints:
  - https://rpc.testnet.near.org
lockupSuffix: lockup.testnet
indexingDelay: 5s
`), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "alice.testnet", cfg.AccountID)
	assert.Equal(t, []string{"https://rpc.testnet.near.org"}, cfg.RPCEndpoints)
	assert.Equal(t, "lockup.testnet", cfg.staking().LockupSuffix)
	assert.Equal(t, 5*time.Second, cfg.staking().IndexingDelay)

	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env.near", cfg.AccountID)
	assert.Equal(t, []string{"https://a", "https://b"}, cfg.RPCEndpoints)
	assert.Equal(t, staking.DefaultLockupSuffix, cfg.LockupSuffix)
}
