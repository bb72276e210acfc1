package staking_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopy-network/stakex/pkg/rpc"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/staking/stakingtest"
)

func TestGetStakingDeposits_LastWins(t *testing.T) {
	r := staking.NewDepositReconciler(stakingtest.Deposits{Records: []rpc.StakingDeposit{
		{ValidatorID: "a", Deposit: "5"},
		{ValidatorID: "b", Deposit: "3"},
		{ValidatorID: "a", Deposit: "9"},
	}})
	got, err := r.GetStakingDeposits(context.Background(), "alice.near")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "9", "b": "3"}, got)
}

func TestGetStakingDeposits_Empty(t *testing.T) {
	got, err := staking.NewDepositReconciler(stakingtest.Deposits{}).GetStakingDeposits(context.Background(), "alice.near")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetStakingDeposits_ErrorsUndecorated(t *testing.T) {
	parseErr := &json.UnmarshalTypeError{Value: "object", Field: "deposit"}
	for _, boom := range []error{errors.New("http 502"), parseErr} {
		_, err := staking.NewDepositReconciler(stakingtest.Deposits{Err: boom}).GetStakingDeposits(context.Background(), "alice.near")
		assert.Same(t, boom, err)
	}
}
