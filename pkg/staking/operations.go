package staking

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/canopy-network/stakex/pkg/kvstore"
	"github.com/canopy-network/stakex/pkg/logging"
	"go.uber.org/zap"
)

// Options configures a Service.
type Options struct {
	Logger *zap.Logger
	Config Config
	Store  kvstore.Store
	// Waiter defaults to a wall-clock ClockWaiter.
	Waiter      Waiter
	Observer    StepObserver
	Submissions SubmissionObserver
	// Pool runs the per-validator reads of AccountTotals.
	Pool pond.Pool
}

// Service runs the staking operations of a session.
type Service struct {
	logger        *zap.Logger
	resolver      *AccountResolver
	binder        *ContractBinder
	executor      *TransactionExecutor
	cache         *BalanceCache
	pool          pond.Pool
	waiter        Waiter
	observer      StepObserver
	gas           GasPolicy
	indexingDelay time.Duration
}

// NewService wires the resolver, binder, executor and cache of a Service.
func NewService(opts Options) *Service {
	cfg := opts.Config.withDefaults()
	logger := logging.OrNop(opts.Logger)
	if opts.Store == nil {
		opts.Store = kvstore.NewMemory()
	}
	if opts.Pool == nil {
		opts.Pool = pond.NewPool(8)
	}
	if opts.Waiter == nil {
		opts.Waiter = ClockWaiter{}
	}
	executor := NewTransactionExecutor(logger, opts.Submissions)
	binder := NewContractBinder(logger, executor)
	return &Service{
		logger:        logger,
		resolver:      NewAccountResolver(logger, binder, LockupDeriver{Suffix: cfg.LockupSuffix, UseTesting: cfg.UseTestingLockup}),
		binder:        binder,
		executor:      executor,
		cache:         NewBalanceCache(opts.Store),
		pool:          opts.Pool,
		waiter:        opts.Waiter,
		observer:      opts.Observer,
		gas:           GasPolicy{Base: cfg.GasBase},
		indexingDelay: cfg.IndexingDelay,
	}
}

// Resolver exposes the account resolver.
func (s *Service) Resolver() *AccountResolver { return s.resolver }

// Binder exposes the contract binder.
func (s *Service) Binder() *ContractBinder { return s.binder }

// Cache exposes the balance cache.
func (s *Service) Cache() *BalanceCache { return s.cache }

// Gas exposes the gas policy.
func (s *Service) Gas() GasPolicy { return s.gas }

// IndexingDelay is the wait applied after direct withdraw and unstake.
func (s *Service) IndexingDelay() time.Duration { return s.indexingDelay }

// WithdrawPlan is the routing decision of a withdraw.
type WithdrawPlan struct {
	Owner       string `json:"owner"`
	IsLockup    bool   `json:"isLockup"`
	LockupID    string `json:"lockupId,omitempty"`
	ValidatorID string `json:"validatorId"`
	// Amount is in yocto; empty withdraws everything.
	Amount string `json:"amount,omitempty"`
}

// PlanWithdraw resolves the owner of the session and decides whether the
// withdraw goes through the lockup. amount is converted according to unit;
// UnitAuto applies the length heuristic.
func (s *Service) PlanWithdraw(ctx context.Context, sess Session, currentAccountID, validatorID, amount string, unit Unit) (WithdrawPlan, error) {
	accounts, err := s.resolver.Accounts(ctx, sess)
	if err != nil {
		return WithdrawPlan{}, err
	}
	normalized, err := ToYocto(amount, unit)
	if err != nil {
		return WithdrawPlan{}, err
	}
	plan := WithdrawPlan{
		Owner:       accounts.AccountID,
		IsLockup:    currentAccountID != accounts.AccountID,
		ValidatorID: validatorID,
		Amount:      normalized,
	}
	if plan.IsLockup {
		_, lockupID, err := s.resolver.Lockup(ctx, sess, accounts.AccountID)
		if err != nil {
			return WithdrawPlan{}, err
		}
		plan.LockupID = lockupID
	}
	return plan, nil
}

// Withdraw withdraws amount (all when empty) from validatorID, through the
// lockup when currentAccountID is not the session owner.
func (s *Service) Withdraw(ctx context.Context, sess Session, currentAccountID, validatorID, amount string) (Outcome, error) {
	return s.WithdrawUnit(ctx, sess, currentAccountID, validatorID, amount, UnitAuto)
}

// WithdrawUnit is Withdraw with an explicit amount unit.
func (s *Service) WithdrawUnit(ctx context.Context, sess Session, currentAccountID, validatorID, amount string, unit Unit) (Outcome, error) {
	plan, err := s.PlanWithdraw(ctx, sess, currentAccountID, validatorID, amount, unit)
	if err != nil {
		return Outcome{}, err
	}
	if plan.IsLockup {
		return s.LockupWithdraw(ctx, sess, plan.LockupID, plan.Amount)
	}
	return s.AccountWithdraw(ctx, sess, plan.ValidatorID, plan.Amount)
}

// LockupWithdraw withdraws from the lockup's selected staking pool.
func (s *Service) LockupWithdraw(ctx context.Context, sess Session, lockupID, amount string) (Outcome, error) {
	return s.submitWithdraw(ctx, sess, lockupID, MethodWithdrawFromStakingPool, MethodWithdrawAllFromStakingPool, amount)
}

// SubmitAccountWithdraw submits a direct withdraw without the indexing wait.
func (s *Service) SubmitAccountWithdraw(ctx context.Context, sess Session, validatorID, amount string) (Outcome, error) {
	return s.submitWithdraw(ctx, sess, validatorID, MethodWithdraw, MethodWithdrawAll, amount)
}

// AccountWithdraw withdraws from validatorID and waits for the indexer.
func (s *Service) AccountWithdraw(ctx context.Context, sess Session, validatorID, amount string) (Outcome, error) {
	out, err := s.SubmitAccountWithdraw(ctx, sess, validatorID, amount)
	if err != nil {
		return Outcome{}, err
	}
	if err := s.indexingWait(ctx, withdrawOp(amount), validatorID); err != nil {
		return out, err
	}
	return out, nil
}

// SubmitAccountUnstake submits a direct unstake without the indexing wait.
func (s *Service) SubmitAccountUnstake(ctx context.Context, sess Session, validatorID, amount string) (Outcome, error) {
	var action Action
	if amount != "" {
		action = Action{MethodName: MethodUnstake, Args: amountArgs{Amount: amount}, Gas: s.gas.For(OpUnstake), Deposit: ZeroDeposit}
	} else {
		action = Action{MethodName: MethodUnstakeAll, Args: struct{}{}, Gas: s.gas.For(OpUnstakeAll), Deposit: ZeroDeposit}
	}
	out, err := s.executor.SignAndSend(ctx, sess, validatorID, []Action{action})
	if err != nil {
		return Outcome{}, err
	}
	s.step(ctx, unstakeOp(amount), validatorID, StepSubmitted)
	return out, nil
}

// AccountUnstake unstakes from validatorID, waits for the indexer and then
// refreshes the cached staked balance.
func (s *Service) AccountUnstake(ctx context.Context, sess Session, validatorID, amount string) (Outcome, error) {
	out, err := s.SubmitAccountUnstake(ctx, sess, validatorID, amount)
	if err != nil {
		return Outcome{}, err
	}
	if err := s.indexingWait(ctx, unstakeOp(amount), validatorID); err != nil {
		return out, err
	}
	if _, err := s.UpdateStakedBalance(ctx, sess, validatorID); err != nil {
		return out, err
	}
	s.step(ctx, unstakeOp(amount), validatorID, StepRefreshed)
	return out, nil
}

// UpdateStakedBalance reads the owner's staked balance at validatorID and
// stores it in the balance cache.
func (s *Service) UpdateStakedBalance(ctx context.Context, sess Session, validatorID string) (string, error) {
	accounts, err := s.resolver.Accounts(ctx, sess)
	if err != nil {
		return "", err
	}
	pool, err := s.binder.Bind(ctx, sess, validatorID, StakingPoolViewMethods, accounts.AccountID)
	if err != nil {
		return "", err
	}
	var balance string
	if err := pool.View(ctx, MethodGetAccountStakedBalance, accountArgs{AccountID: accounts.AccountID}, &balance); err != nil {
		return "", err
	}
	if err := s.cache.Put(ctx, validatorID, accounts.AccountID, balance); err != nil {
		return "", err
	}
	s.logger.Debug("staked balance refreshed",
		zap.String("validator", validatorID),
		zap.String("account", accounts.AccountID),
		zap.String("balance", balance),
	)
	return balance, nil
}

// LockupSelect points the lockup at validatorID, first unselecting the
// current pool when unselect is set.
func (s *Service) LockupSelect(ctx context.Context, sess Session, validatorID, lockupID string, unselect bool) (Outcome, error) {
	if unselect {
		_, err := s.executor.SignAndSend(ctx, sess, lockupID, []Action{{
			MethodName: MethodUnselectStakingPool,
			Args:       struct{}{},
			Gas:        s.gas.For(OpUnselectPool),
			Deposit:    ZeroDeposit,
		}})
		if err != nil {
			return Outcome{}, err
		}
	}
	return s.executor.SignAndSend(ctx, sess, lockupID, []Action{{
		MethodName: MethodSelectStakingPool,
		Args:       selectPoolArgs{StakingPoolAccountID: validatorID},
		Gas:        s.gas.For(OpSelectPool),
		Deposit:    ZeroDeposit,
	}})
}

// Ping asks validatorID to distribute pending rewards.
func (s *Service) Ping(ctx context.Context, sess Session, validatorID string) (Outcome, error) {
	pool, err := s.binder.Bind(ctx, sess, validatorID, StakingPoolMethods, "")
	if err != nil {
		return Outcome{}, err
	}
	return pool.Call(ctx, MethodPing, struct{}{}, s.gas.For(OpPing), ZeroDeposit)
}

func (s *Service) submitWithdraw(ctx context.Context, sess Session, receiverID, amountMethod, allMethod, amount string) (Outcome, error) {
	var action Action
	if amount != "" {
		action = Action{MethodName: amountMethod, Args: amountArgs{Amount: amount}, Gas: s.gas.For(OpWithdraw), Deposit: ZeroDeposit}
	} else {
		action = Action{MethodName: allMethod, Args: struct{}{}, Gas: s.gas.For(OpWithdrawAll), Deposit: ZeroDeposit}
	}
	out, err := s.executor.SignAndSend(ctx, sess, receiverID, []Action{action})
	if err != nil {
		return Outcome{}, err
	}
	if out.IsFalse() {
		return Outcome{}, &WithdrawFailedError{ReceiverID: receiverID, TxHash: out.TxHash}
	}
	s.step(ctx, withdrawOp(amount), receiverID, StepSubmitted)
	return out, nil
}

func (s *Service) indexingWait(ctx context.Context, op Operation, target string) error {
	if err := s.waiter.Wait(ctx, s.indexingDelay); err != nil {
		return err
	}
	s.step(ctx, op, target, StepIndexingWait)
	return nil
}

func (s *Service) step(ctx context.Context, op Operation, target string, step Step) {
	s.logger.Debug("staking step", zap.String("op", string(op)), zap.String("target", target), zap.String("step", string(step)))
	if s.observer != nil {
		s.observer.OnStep(ctx, StepEvent{Operation: op, Target: target, Step: step})
	}
}

func withdrawOp(amount string) Operation {
	if amount == "" {
		return OpWithdrawAll
	}
	return OpWithdraw
}

func unstakeOp(amount string) Operation {
	if amount == "" {
		return OpUnstakeAll
	}
	return OpUnstake
}

type amountArgs struct {
	Amount string `json:"amount"`
}

type accountArgs struct {
	AccountID string `json:"account_id"`
}

type selectPoolArgs struct {
	StakingPoolAccountID string `json:"staking_pool_account_id"`
}
