package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/canopy-network/stakex/pkg/redis"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/utils"
	"go.uber.org/zap"
)

// StepEvent is the published form of a staking step.
type StepEvent struct {
	AccountID string            `json:"accountId"`
	Operation staking.Operation `json:"operation"`
	Target    string            `json:"target"`
	Step      staking.Step      `json:"step"`
	Timestamp time.Time         `json:"timestamp"`
}

// StepPublisher publishes step events of one account to Redis.
type StepPublisher struct {
	Client    *redis.Client
	AccountID string
	Logger    *zap.Logger
	now       func() time.Time
}

func (p *StepPublisher) OnStep(ctx context.Context, ev staking.StepEvent) {
	if p.Client == nil {
		return
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	payload, err := json.Marshal(StepEvent{
		AccountID: p.AccountID,
		Operation: ev.Operation,
		Target:    ev.Target,
		Step:      ev.Step,
		Timestamp: now().UTC(),
	})
	if err != nil {
		p.Logger.Warn("Unable to encode step event", zap.Error(err))
		return
	}
	p.Client.Publish(ctx, utils.StakingStepsChannel, payload)
	p.Logger.Debug("Published step event",
		zap.String("operation", string(ev.Operation)),
		zap.String("target", ev.Target),
		zap.String("step", string(ev.Step)))
}
