package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/canopy-network/stakex/pkg/utils"
	"go.uber.org/zap"
)

// Config defines how startup dependencies are re-dialed.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// ConfigFromEnv reads DIAL_MAX_ATTEMPTS, DIAL_INITIAL_DELAY and DIAL_MAX_DELAY.
func ConfigFromEnv() Config {
	return Config{
		MaxAttempts:  utils.EnvInt("DIAL_MAX_ATTEMPTS", 10),
		InitialDelay: utils.EnvDuration("DIAL_INITIAL_DELAY", 2*time.Second),
		MaxDelay:     utils.EnvDuration("DIAL_MAX_DELAY", 60*time.Second),
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Dial calls fn until it succeeds, ctx ends or the attempts run out.
// It is meant for connecting to Temporal, Redis and the RPC node at startup,
// never for staking transactions.
func Dial[T any](ctx context.Context, cfg Config, logger *zap.Logger, name string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("dial %s cancelled: %w", name, err)
		}

		v, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("Dependency reachable after retries",
					zap.String("dependency", name),
					zap.Int("attempts", attempt))
			}
			return v, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := Backoff(cfg, attempt)
		logger.Warn("Dependency unreachable, retrying",
			zap.String("dependency", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("retry_in", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("dial %s cancelled: %w", name, ctx.Err())
		case <-time.After(delay):
		}
	}
	return zero, fmt.Errorf("dial %s failed after %d attempts: %w", name, cfg.MaxAttempts, lastErr)
}

// Backoff is the delay before retry number attempt (1-based).
func Backoff(cfg Config, attempt int) time.Duration {
	multiplier := cfg.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := float64(cfg.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		// +/-15%
		delay += rand.Float64()*0.3*delay - 0.15*delay
	}
	return time.Duration(delay)
}
