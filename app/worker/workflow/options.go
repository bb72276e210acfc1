package workflow

import (
	"time"

	"github.com/canopy-network/stakex/pkg/staking"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const defaultActivityTimeout = 2 * time.Minute

// submitContext runs transaction activities exactly once; a resubmission
// could double-spend.
func (wc *Context) submitContext(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: wc.activityTimeout(),
		RetryPolicy: &sdktemporal.RetryPolicy{
			MaximumAttempts: 1,
		},
		TaskQueue: wc.TemporalClient.GetStakingQueue(),
	})
}

// viewContext runs read-only activities. They run once too: a failed read
// fails the workflow and the caller starts a new one.
func (wc *Context) viewContext(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: wc.activityTimeout(),
		RetryPolicy: &sdktemporal.RetryPolicy{
			MaximumAttempts: 1,
		},
		TaskQueue: wc.TemporalClient.GetStakingQueue(),
	})
}

func (wc *Context) activityTimeout() time.Duration {
	if wc.Config.ActivityTimeout > 0 {
		return wc.Config.ActivityTimeout
	}
	return defaultActivityTimeout
}

func (wc *Context) indexingWait(ctx workflow.Context) error {
	delay := wc.Config.IndexingDelay
	if delay <= 0 {
		delay = staking.DefaultIndexingDelay
	}
	return workflow.Sleep(ctx, delay)
}
