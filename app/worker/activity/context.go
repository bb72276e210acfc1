package activity

import (
	"github.com/canopy-network/stakex/pkg/staking"
	"go.uber.org/zap"
)

// Context holds the dependencies of the staking activities. Every exported
// method is registered as an activity.
type Context struct {
	Logger *zap.Logger
	// Service runs the staking operations.
	Service *staking.Service
	// Session is the authenticated wallet of this worker.
	Session staking.Session
	// Observer receives the steps the workflows report between activities.
	Observer staking.StepObserver
}
