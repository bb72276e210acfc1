package staking

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Step labels the stages of a withdraw or unstake.
type Step string

const (
	StepSubmitted    Step = "submitted"
	StepIndexingWait Step = "indexing_wait"
	StepRefreshed    Step = "refreshed"
)

// StepEvent is emitted after each completed step.
type StepEvent struct {
	Operation Operation
	Target    string
	Step      Step
}

// StepObserver receives step events in order.
type StepObserver interface {
	OnStep(ctx context.Context, ev StepEvent)
}

// StepObserverFunc adapts a function to StepObserver.
type StepObserverFunc func(ctx context.Context, ev StepEvent)

func (f StepObserverFunc) OnStep(ctx context.Context, ev StepEvent) { f(ctx, ev) }

// Waiter blocks for the indexing delay.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// ClockWaiter waits on a clock.Clock; the zero value uses the wall clock.
type ClockWaiter struct {
	Clock clock.Clock
}

// Wait returns after d, or early with ctx.Err() if ctx ends first.
func (w ClockWaiter) Wait(ctx context.Context, d time.Duration) error {
	c := w.Clock
	if c == nil {
		c = clock.New()
	}
	t := c.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StepObservers fans an event out to every observer in order.
type StepObservers []StepObserver

func (o StepObservers) OnStep(ctx context.Context, ev StepEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.OnStep(ctx, ev)
		}
	}
}
