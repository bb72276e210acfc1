package staking

import (
	"context"
	"slices"
	"sync"

	"github.com/canopy-network/stakex/pkg/logging"
	"github.com/canopy-network/stakex/pkg/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ValidatorSource returns the current and next validator sets.
type ValidatorSource interface {
	Validators(ctx context.Context) (*rpc.ValidatorsView, error)
}

// ValidatorRegistry is the process-wide validator list. It loads on first
// use and again after Invalidate.
type ValidatorRegistry struct {
	logger *zap.Logger
	source ValidatorSource
	group  singleflight.Group

	mu     sync.RWMutex
	ids    []string
	loaded bool
	gen    uint64
}

// NewValidatorRegistry returns an empty registry over source.
func NewValidatorRegistry(logger *zap.Logger, source ValidatorSource) *ValidatorRegistry {
	return &ValidatorRegistry{logger: logging.OrNop(logger), source: source}
}

// All returns the sorted union of current and next validators.
func (r *ValidatorRegistry) All(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	if r.loaded {
		ids := slices.Clone(r.ids)
		r.mu.RUnlock()
		return ids, nil
	}
	gen := r.gen
	r.mu.RUnlock()

	v, err, _ := r.group.Do("validators", func() (any, error) {
		view, err := r.source.Validators(ctx)
		if err != nil {
			return nil, err
		}
		ids := validatorIDs(view)
		r.mu.Lock()
		if r.gen == gen {
			r.ids = ids
			r.loaded = true
		}
		r.mu.Unlock()
		r.logger.Debug("validators loaded", zap.Int("count", len(ids)))
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}

// Invalidate forces the next All to reload.
func (r *ValidatorRegistry) Invalidate() {
	r.mu.Lock()
	r.loaded = false
	r.ids = nil
	r.gen++
	r.mu.Unlock()
	r.group.Forget("validators")
}

func validatorIDs(view *rpc.ValidatorsView) []string {
	seen := map[string]struct{}{}
	for _, v := range view.Current {
		seen[v.AccountID] = struct{}{}
	}
	for _, v := range view.Next {
		seen[v.AccountID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
