package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// LevelDBOptions tunes the on-disk store.
type LevelDBOptions struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

// LevelDB is a durable Store on a local leveldb directory.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens path, creating the database if missing.
func OpenLevelDB(path string, opts LevelDBOptions) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("open leveldb storage %s: %w", path, err)
	}
	return openLevelDB(stg, opts)
}

// NewMemLevelDB returns a leveldb backed by memory storage.
func NewMemLevelDB() (*LevelDB, error) {
	return openLevelDB(storage.NewMemStorage(), LevelDBOptions{})
}

func openLevelDB(stg storage.Storage, opts LevelDBOptions) (*LevelDB, error) {
	if opts.CacheSize < 16 {
		opts.CacheSize = 16
	}
	if opts.OpenFilesCacheCapacity < 16 {
		opts.OpenFilesCacheCapacity = 16
	}
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
		BlockCacheCapacity:     opts.CacheSize / 2 * opt.MiB,
		WriteBuffer:            opts.CacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		_ = stg.Close()
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &LevelDB{db: db}, nil
}

func (s *LevelDB) Get(_ context.Context, key string) (string, bool, error) {
	v, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (s *LevelDB) Set(_ context.Context, key, value string) error {
	return s.db.Put([]byte(key), []byte(value), nil)
}

// Close closes the database. Later operations fail.
func (s *LevelDB) Close() error {
	return s.db.Close()
}
