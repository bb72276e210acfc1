package staking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/canopy-network/stakex/pkg/logging"
	"github.com/canopy-network/stakex/pkg/rpc"
	"go.uber.org/zap"
)

// ContractBinder verifies that a contract exists and returns a typed handle.
type ContractBinder struct {
	logger   *zap.Logger
	executor *TransactionExecutor
}

// NewContractBinder returns a binder whose handles submit through executor.
func NewContractBinder(logger *zap.Logger, executor *TransactionExecutor) *ContractBinder {
	return &ContractBinder{logger: logging.OrNop(logger), executor: executor}
}

// Bind checks that contractID exists and returns a handle limited to methods.
// An empty accountID defaults to the session account.
func (b *ContractBinder) Bind(ctx context.Context, sess Session, contractID string, methods MethodSet, accountID string) (*Contract, error) {
	if accountID == "" {
		accountID = sess.AccountID()
	}
	if err := sess.Wallet.ViewAccount(ctx, contractID); err != nil {
		if errors.Is(err, rpc.ErrUnknownAccount) {
			kind := KindNoContract
			if methods.lockup {
				kind = KindNoLockup
			}
			b.logger.Debug("contract not found", zap.String("contract", contractID), zap.String("kind", kind))
			return nil, &NoContractError{ContractID: contractID, kind: kind, Err: err}
		}
		return nil, err
	}
	return &Contract{
		ID:        contractID,
		AccountID: accountID,
		methods:   methods,
		sess:      sess,
		executor:  b.executor,
	}, nil
}

// Contract is a bound contract handle.
type Contract struct {
	ID        string
	AccountID string

	methods  MethodSet
	sess     Session
	executor *TransactionExecutor
}

// View calls a declared view method and decodes the result into out.
func (c *Contract) View(ctx context.Context, method string, args any, out any) error {
	if !c.methods.hasView(method) {
		return fmt.Errorf("%w: %s.%s", ErrUndeclaredMethod, c.methods.Name, method)
	}
	raw, err := c.sess.Wallet.ViewFunction(ctx, c.ID, method, args)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Call submits a declared change method signed by the session account.
func (c *Contract) Call(ctx context.Context, method string, args any, gas Gas, deposit string) (Outcome, error) {
	if !c.methods.hasChange(method) {
		return Outcome{}, fmt.Errorf("%w: %s.%s", ErrUndeclaredMethod, c.methods.Name, method)
	}
	return c.executor.SignAndSend(ctx, c.sess, c.ID, []Action{{
		MethodName: method,
		Args:       args,
		Gas:        gas,
		Deposit:    deposit,
	}})
}
