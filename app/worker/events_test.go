package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/canopy-network/stakex/pkg/redis"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/utils"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStepPublisher_PublishesPrefixedChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := zaptest.NewLogger(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := redis.NewFromClient(rdb, logger, "stakex:")
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, utils.StakingStepsChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &StepPublisher{Client: client, AccountID: "alice.near", Logger: logger, now: func() time.Time { return at }}
	p.OnStep(ctx, staking.StepEvent{Operation: staking.OpUnstake, Target: "pool1.near", Step: staking.StepRefreshed})

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stakex:"+utils.StakingStepsChannel, msg.Channel)

	var ev StepEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, StepEvent{
		AccountID: "alice.near",
		Operation: staking.OpUnstake,
		Target:    "pool1.near",
		Step:      staking.StepRefreshed,
		Timestamp: at,
	}, ev)
}

func TestStepPublisher_NilClient(t *testing.T) {
	p := &StepPublisher{Logger: zaptest.NewLogger(t)}
	assert.NotPanics(t, func() {
		p.OnStep(context.Background(), staking.StepEvent{Step: staking.StepSubmitted})
	})
}
