package staking

import (
	"context"
	"errors"

	"github.com/canopy-network/stakex/pkg/logging"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

type lockupProbe struct {
	id     string
	exists bool
}

// AccountResolver determines the owner of a session and its lockup contract.
type AccountResolver struct {
	logger *zap.Logger
	binder *ContractBinder
	derive LockupDeriver
	probes *xsync.Map[string, lockupProbe]
}

// NewAccountResolver returns a resolver with an empty lockup memo.
func NewAccountResolver(logger *zap.Logger, binder *ContractBinder, derive LockupDeriver) *AccountResolver {
	return &AccountResolver{
		logger: logging.OrNop(logger),
		binder: binder,
		derive: derive,
		probes: xsync.NewMap[string, lockupProbe](),
	}
}

// Accounts resolves the session account and its lockup, if one exists.
func (r *AccountResolver) Accounts(ctx context.Context, sess Session) (AccountStakingState, error) {
	accountID := sess.AccountID()
	lockupID, exists, err := r.CheckLockupExists(ctx, sess, accountID)
	if err != nil {
		return AccountStakingState{}, err
	}
	state := AccountStakingState{AccountID: accountID}
	if exists {
		state.LockupID = lockupID
	}
	return state, nil
}

// CheckLockupExists reports whether the lockup of accountID is deployed. A
// missing contract is a negative answer; every other error is returned.
func (r *AccountResolver) CheckLockupExists(ctx context.Context, sess Session, accountID string) (string, bool, error) {
	if p, ok := r.probes.Load(accountID); ok {
		return p.id, p.exists, nil
	}
	_, lockupID, err := r.Lockup(ctx, sess, accountID)
	if err != nil {
		var noContract *NoContractError
		if !errors.As(err, &noContract) {
			return "", false, err
		}
		r.logger.Debug("no lockup", zap.String("account", accountID), zap.String("lockup", lockupID))
		r.probes.Store(accountID, lockupProbe{id: lockupID})
		return lockupID, false, nil
	}
	r.probes.Store(accountID, lockupProbe{id: lockupID, exists: true})
	return lockupID, true, nil
}

// Lockup binds the lockup contract of accountID.
func (r *AccountResolver) Lockup(ctx context.Context, sess Session, accountID string) (*Contract, string, error) {
	lockupID := r.derive.LockupID(accountID)
	contract, err := r.binder.Bind(ctx, sess, lockupID, LockupMethods, accountID)
	if err != nil {
		return nil, lockupID, err
	}
	return contract, lockupID, nil
}

// Forget drops the memoized lockup probe of accountID.
func (r *AccountResolver) Forget(accountID string) {
	r.probes.Delete(accountID)
}

// ForgetAll drops every memoized lockup probe.
func (r *AccountResolver) ForgetAll() {
	r.probes.Clear()
}
