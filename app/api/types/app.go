package types

import (
	"context"
	"net/http"
	"time"

	"github.com/canopy-network/stakex/pkg/kvstore"
	"github.com/canopy-network/stakex/pkg/metrics"
	"github.com/canopy-network/stakex/pkg/redis"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/temporal"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type App struct {
	// Temporal client used to start staking workflows
	TemporalClient *temporal.Client

	// Redis Client (for WebSocket step events)
	RedisClient *redis.Client

	// Staking read side
	Service  *staking.Service
	Registry *staking.ValidatorRegistry
	Deposits *staking.DepositReconciler
	// Store backs the balance cache of Service.
	Store kvstore.Store
	// Viewer returns a read-only session for accountID.
	Viewer func(accountID string) staking.Session

	// OperatorID is the account the worker signs with.
	OperatorID string

	Metrics *metrics.Staking

	// Cron refreshes the validator registry on CronSpec.
	Cron     *cron.Cron
	CronSpec string

	// Zap Logger
	Logger *zap.Logger

	// HTTP Server
	Server *http.Server
}

// Start serves until the context is canceled.
func (a *App) Start(ctx context.Context) {
	if a.Cron != nil {
		a.Cron.Start()
		a.Logger.Info("Validator refresh cron started", zap.String("cronSpec", a.CronSpec))
	}

	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()

	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}

	a.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.Server.Shutdown(shutdownCtx)

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn("Unable to close balance store", zap.Error(err))
		}
	}
	if a.RedisClient != nil {
		_ = a.RedisClient.Close()
	}
	if a.TemporalClient != nil {
		a.TemporalClient.Close()
	}

	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("さようなら!")
}

// Refresh drops the cached validator list and every memoized lockup probe, so
// lockups deployed since the last refresh are found.
func (a *App) Refresh() {
	a.Registry.Invalidate()
	a.Service.Resolver().ForgetAll()
}
