// Package kvstore holds the string key-value backends behind the balance cache.
package kvstore

import (
	"context"
	"fmt"
)

// Store is a string keyed, string valued store. Writes are last-writer-wins.
type Store interface {
	// Get returns the value of key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendRedis   = "redis"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
type ErrUnknownBackend string

func (e ErrUnknownBackend) Error() string {
	return fmt.Sprintf("unknown balance store backend %q", string(e))
}
