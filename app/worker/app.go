package worker

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/canopy-network/stakex/app/worker/activity"
	"github.com/canopy-network/stakex/app/worker/workflow"
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
	"go.temporal.io/sdk/worker"
	temporalworkflow "go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

type App struct {
	Worker         worker.Worker
	TemporalClient *temporal.Client
	RedisClient    *redis.Client
	Store          kvstore.Store
	Metrics        *metrics.Staking
	MetricsServer  *http.Server
	Logger         *zap.Logger
}

// Start starts the worker and blocks until the context is canceled.
func (a *App) Start(ctx context.Context) {
	if err := a.Worker.Start(); err != nil {
		a.Logger.Fatal("Unable to start worker", zap.Error(err))
	}
	go func() {
		if err := a.MetricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()
	<-ctx.Done()
	a.Stop()
}

// Stop stops the worker and releases its connections.
func (a *App) Stop() {
	a.Worker.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.MetricsServer.Shutdown(shutdownCtx)
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("Unable to close balance store", zap.Error(err))
	}
	if a.RedisClient != nil {
		_ = a.RedisClient.Close()
	}
	a.TemporalClient.Close()
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("さようなら!")
}

// Initialize initializes the application.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr'
		panic(err)
	}
	dialCfg := retry.ConfigFromEnv()

	endpoints := strings.Split(utils.Env("RPC_ENDPOINTS", "https://rpc.mainnet.near.org"), ",")
	rpcOpts := rpc.Opts{
		Timeout:         utils.EnvDuration("RPC_TIMEOUT", 30*time.Second),
		RPS:             utils.EnvInt("RPC_RPS", 20),
		Burst:           utils.EnvInt("RPC_BURST", 40),
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
	rpcClient := rpc.NewHTTPFactory(rpcOpts).NewClient(endpoints)

	stakingWallet, err := wallet.FromEnv(rpcClient, logger)
	if err != nil {
		logger.Fatal("Unable to load staking wallet", zap.Error(err))
	}
	if _, err := retry.Dial(ctx, dialCfg, logger, "rpc", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, stakingWallet.ViewAccount(ctx, stakingWallet.AccountID())
	}); err != nil {
		logger.Fatal("Unable to reach RPC node", zap.Error(err))
	}

	temporalClient, err := retry.Dial(ctx, dialCfg, logger, "temporal", func(ctx context.Context) (*temporal.Client, error) {
		return temporal.NewClient(ctx, logger)
	})
	if err != nil {
		logger.Fatal("Unable to establish temporal connection", zap.Error(err))
	}

	var redisClient *redis.Client
	if utils.EnvBool("REDIS_ENABLED", false) {
		redisClient, err = retry.Dial(ctx, dialCfg, logger, "redis", func(ctx context.Context) (*redis.Client, error) {
			return redis.NewClient(ctx, logger)
		})
		if err != nil {
			logger.Fatal("Unable to connect to redis", zap.Error(err))
		}
	}

	store, err := kvstore.Open(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to open balance store", zap.Error(err))
	}

	m := metrics.New()
	observer := staking.StepObservers{
		m,
		&StepPublisher{Client: redisClient, AccountID: stakingWallet.AccountID(), Logger: logger},
	}
	svc := staking.NewService(staking.Options{
		Logger:      logger,
		Config:      staking.ConfigFromEnv(),
		Store:       store,
		Observer:    observer,
		Submissions: m,
	})

	activityContext := &activity.Context{
		Logger:   logger,
		Service:  svc,
		Session:  staking.NewSession(stakingWallet),
		Observer: observer,
	}
	workflowContext := workflow.Context{
		TemporalClient:  temporalClient,
		ActivityContext: activityContext,
		Config: workflow.Config{
			IndexingDelay:   svc.IndexingDelay(),
			ActivityTimeout: utils.EnvDuration("ACTIVITY_TIMEOUT", 2*time.Minute),
		},
	}

	// Transactions share one signing key, so nonces are serialized by the
	// wallet; a small executor pool is enough.
	wkr := worker.New(
		temporalClient.TClient,
		temporalClient.GetStakingQueue(),
		worker.Options{
			MaxConcurrentWorkflowTaskPollers:       4,
			MaxConcurrentActivityTaskPollers:       4,
			MaxConcurrentActivityExecutionSize:     utils.EnvInt("WORKER_MAX_ACTIVITIES", 16),
			MaxConcurrentWorkflowTaskExecutionSize: 64,
			WorkerStopTimeout:                      1 * time.Minute,
		},
	)

	wkr.RegisterWorkflowWithOptions(
		workflowContext.WithdrawWorkflow,
		temporalworkflow.RegisterOptions{Name: temporal.WithdrawWorkflowName},
	)
	wkr.RegisterWorkflowWithOptions(
		workflowContext.UnstakeWorkflow,
		temporalworkflow.RegisterOptions{Name: temporal.UnstakeWorkflowName},
	)
	wkr.RegisterWorkflowWithOptions(
		workflowContext.SelectPoolWorkflow,
		temporalworkflow.RegisterOptions{Name: temporal.SelectPoolWorkflowName},
	)
	// Register all the activities
	wkr.RegisterActivity(activityContext.PlanWithdraw)
	wkr.RegisterActivity(activityContext.SubmitLockupWithdraw)
	wkr.RegisterActivity(activityContext.SubmitAccountWithdraw)
	wkr.RegisterActivity(activityContext.SubmitAccountUnstake)
	wkr.RegisterActivity(activityContext.RefreshStakedBalance)
	wkr.RegisterActivity(activityContext.ResolveLockup)
	wkr.RegisterActivity(activityContext.SelectPool)
	wkr.RegisterActivity(activityContext.ReportStep)

	logger.Info("Staking worker ready",
		zap.String("account", stakingWallet.AccountID()),
		zap.String("queue", temporalClient.GetStakingQueue()),
		zap.Strings("rpc", endpoints))

	return &App{
		Worker:         wkr,
		TemporalClient: temporalClient,
		RedisClient:    redisClient,
		Store:          store,
		Metrics:        m,
		MetricsServer: &http.Server{
			Addr:              utils.Env("METRICS_ADDR", ":9090"),
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		Logger: logger,
	}
}
