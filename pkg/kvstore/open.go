package kvstore

import (
	"context"

	"github.com/canopy-network/stakex/pkg/redis"
	"github.com/canopy-network/stakex/pkg/utils"
	"go.uber.org/zap"
)

// Open builds the Store named by BALANCE_STORE (leveldb|redis|memory).
// leveldb reads BALANCE_STORE_PATH; redis reads the REDIS_* variables.
func Open(ctx context.Context, logger *zap.Logger) (Store, error) {
	backend := utils.Env("BALANCE_STORE", BackendLevelDB)
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendLevelDB:
		path := utils.Env("BALANCE_STORE_PATH", "./data/balances")
		logger.Info("Opening balance store", zap.String("backend", backend), zap.String("path", path))
		return OpenLevelDB(path, LevelDBOptions{CacheSize: utils.EnvInt("BALANCE_STORE_CACHE_MB", 16)})
	case BackendRedis:
		client, err := redis.NewClient(ctx, logger)
		if err != nil {
			return nil, err
		}
		return NewRedis(client), nil
	default:
		return nil, ErrUnknownBackend(backend)
	}
}
