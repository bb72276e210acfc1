package staking

import (
	"time"

	"github.com/canopy-network/stakex/pkg/utils"
)

// DefaultIndexingDelay is how long the indexer lags behind finality.
const DefaultIndexingDelay = 2 * time.Second

// DefaultLockupSuffix is the parent account of derived lockup ids.
const DefaultLockupSuffix = "lockup.near"

// Config holds the tunables of the staking core.
type Config struct {
	GasBase          Gas
	IndexingDelay    time.Duration
	LockupSuffix     string
	UseTestingLockup bool
}

// ConfigFromEnv reads STAKING_GAS_BASE, STAKING_INDEXING_DELAY,
// LOCKUP_ACCOUNT_SUFFIX and USE_TESTING_LOCKUP.
func ConfigFromEnv() Config {
	return Config{
		GasBase:          Gas(utils.EnvInt64("STAKING_GAS_BASE", int64(DefaultGasBase))),
		IndexingDelay:    utils.EnvDuration("STAKING_INDEXING_DELAY", DefaultIndexingDelay),
		LockupSuffix:     utils.Env("LOCKUP_ACCOUNT_SUFFIX", DefaultLockupSuffix),
		UseTestingLockup: utils.EnvBool("USE_TESTING_LOCKUP", false),
	}
}

func (c Config) withDefaults() Config {
	if c.GasBase == 0 {
		c.GasBase = DefaultGasBase
	}
	if c.IndexingDelay <= 0 {
		c.IndexingDelay = DefaultIndexingDelay
	}
	if c.LockupSuffix == "" {
		c.LockupSuffix = DefaultLockupSuffix
	}
	return c
}
