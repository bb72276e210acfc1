package workflow

import (
	"time"

	"github.com/canopy-network/stakex/app/worker/activity"
	"github.com/canopy-network/stakex/pkg/temporal"
)

// Config holds the workflow configuration.
type Config struct {
	// IndexingDelay is slept between a direct submission and the next step.
	IndexingDelay time.Duration
	// ActivityTimeout bounds each activity; a commit waits for finality.
	ActivityTimeout time.Duration
}

// Context holds the workflow context.
type Context struct {
	TemporalClient  *temporal.Client
	ActivityContext *activity.Context
	Config          Config
}
