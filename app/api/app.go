package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/canopy-network/stakex/app/api/controller"
	"github.com/canopy-network/stakex/app/api/types"
	"github.com/canopy-network/stakex/pkg/kvstore"
	"github.com/canopy-network/stakex/pkg/logging"
	"github.com/canopy-network/stakex/pkg/metrics"
	"github.com/canopy-network/stakex/pkg/redis"
	"github.com/canopy-network/stakex/pkg/retry"
	"github.com/canopy-network/stakex/pkg/rpc"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/temporal"
	"github.com/canopy-network/stakex/pkg/utils"
	"github.com/canopy-network/stakex/pkg/wallet"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Initialize wires the read side and the workflow client of the API.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr'
		panic(err)
	}
	dialCfg := retry.ConfigFromEnv()

	operatorID := utils.Env("STAKING_ACCOUNT_ID", "")
	if operatorID == "" {
		logger.Fatal("STAKING_ACCOUNT_ID environment variable is required")
	}

	endpoints := strings.Split(utils.Env("RPC_ENDPOINTS", "https://rpc.mainnet.near.org"), ",")
	rpcOpts := rpc.Opts{
		Timeout:         utils.EnvDuration("RPC_TIMEOUT", 15*time.Second),
		RPS:             utils.EnvInt("RPC_RPS", 50),
		Burst:           utils.EnvInt("RPC_BURST", 100),
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
	rpcClient := rpc.NewHTTPFactory(rpcOpts).NewClient(endpoints)
	helper := rpc.NewHelperClient(utils.Env("ACCOUNT_HELPER_URL", "https://api.kitwallet.app"), rpcOpts)

	temporalClient, err := retry.Dial(ctx, dialCfg, logger, "temporal", func(ctx context.Context) (*temporal.Client, error) {
		return temporal.NewClient(ctx, logger)
	})
	if err != nil {
		logger.Fatal("Unable to establish temporal connection", zap.Error(err))
	}

	// Redis is optional; without it /api/ws is unavailable
	var redisClient *redis.Client
	if utils.EnvBool("REDIS_ENABLED", false) {
		redisClient, err = retry.Dial(ctx, dialCfg, logger, "redis", func(ctx context.Context) (*redis.Client, error) {
			return redis.NewClient(ctx, logger)
		})
		if err != nil {
			logger.Warn("Failed to initialize Redis client - WebSocket step events will be disabled", zap.Error(err))
			redisClient = nil
		}
	}

	store, err := kvstore.Open(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to open balance store", zap.Error(err))
	}

	m := metrics.New()
	svc := staking.NewService(staking.Options{
		Logger: logger,
		Config: staking.ConfigFromEnv(),
		Store:  store,
	})

	app := &types.App{
		TemporalClient: temporalClient,
		RedisClient:    redisClient,
		Service:        svc,
		Registry:       staking.NewValidatorRegistry(logger, rpcClient),
		Deposits:       staking.NewDepositReconciler(helper),
		Store:          store,
		Viewer: func(accountID string) staking.Session {
			return staking.NewSession(wallet.NewViewer(accountID, rpcClient, logger))
		},
		OperatorID: operatorID,
		Metrics:    m,
		CronSpec:   utils.Env("VALIDATORS_REFRESH_CRON", "0 */5 * * * *"),
		Logger:     logger,
	}

	if err := SetupScheduler(app, cron.DefaultLogger); err != nil {
		logger.Fatal("Unable to schedule validator refresh", zap.Error(err))
	}
	return app
}

// SetupScheduler refreshes the validator registry and lockup probes on every
// CronSpec tick.
func SetupScheduler(app *types.App, logger cron.Logger) error {
	// Seconds field, optional
	app.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(logger)))
	_, err := app.Cron.AddFunc(app.CronSpec, func() {
		app.Refresh()
		app.Logger.Debug("validator registry invalidated")
	})
	return err
}

// NewServer builds the HTTP server of app.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router, err := ctler.NewRouter()
	if err != nil {
		return err
	}

	// use <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces
	addr := utils.Env("ADDR", ":3000")

	app.Server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.Logger.Info("Starting server", zap.String("addr", addr))

	return nil
}
