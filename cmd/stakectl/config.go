package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/utils"
	"gopkg.in/yaml.v3"
)

// cliConfig is read from the environment and then overlaid with --config.
type cliConfig struct {
	AccountID     string        `yaml:"accountId"`
	PrivateKey    string        `yaml:"privateKey"`
	RPCEndpoints  []string      `yaml:"rpcEndpoints"`
	RPCTimeout    time.Duration `yaml:"rpcTimeout"`
	HelperURL     string        `yaml:"helperUrl"`
	LockupSuffix  string        `yaml:"lockupSuffix"`
	TestingLockup bool          `yaml:"testingLockup"`
	IndexingDelay time.Duration `yaml:"indexingDelay"`
}

func loadConfig(path string) (cliConfig, error) {
	core := staking.ConfigFromEnv()
	cfg := cliConfig{
		AccountID:     utils.Env("STAKING_ACCOUNT_ID", ""),
		PrivateKey:    utils.Env("STAKING_PRIVATE_KEY", ""),
		RPCEndpoints:  strings.Split(utils.Env("RPC_ENDPOINTS", "https://rpc.mainnet.near.org"), ","),
		RPCTimeout:    utils.EnvDuration("RPC_TIMEOUT", 30*time.Second),
		HelperURL:     utils.Env("ACCOUNT_HELPER_URL", "https://api.kitwallet.app"),
		LockupSuffix:  core.LockupSuffix,
		TestingLockup: core.UseTestingLockup,
		IndexingDelay: core.IndexingDelay,
	}
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cliConfig{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cliConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c cliConfig) staking() staking.Config {
	return staking.Config{
		GasBase:          staking.Gas(utils.EnvInt64("STAKING_GAS_BASE", int64(staking.DefaultGasBase))),
		IndexingDelay:    c.IndexingDelay,
		LockupSuffix:     c.LockupSuffix,
		UseTestingLockup: c.TestingLockup,
	}
}
