package activity

import (
	"context"

	"github.com/canopy-network/stakex/app/worker/types"
	"github.com/canopy-network/stakex/pkg/staking"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"
)

// PlanWithdraw resolves the owner and decides whether the withdraw goes
// through the lockup.
func (c *Context) PlanWithdraw(ctx context.Context, in types.WithdrawInput) (staking.WithdrawPlan, error) {
	// each withdraw probes the lockup again; it may have been deployed since
	c.Service.Resolver().Forget(c.Session.AccountID())
	plan, err := c.Service.PlanWithdraw(ctx, c.Session, in.CurrentAccountID, in.ValidatorID, in.Amount, in.Unit)
	if err != nil {
		return staking.WithdrawPlan{}, applicationError("unable to plan withdraw", err)
	}
	c.Logger.Info("withdraw planned",
		zap.String("owner", plan.Owner),
		zap.Bool("lockup", plan.IsLockup),
		zap.String("validator", plan.ValidatorID),
		zap.String("amount", plan.Amount),
	)
	return plan, nil
}

// SubmitLockupWithdraw withdraws from the staking pool selected by the lockup.
func (c *Context) SubmitLockupWithdraw(ctx context.Context, in types.SubmitInput) (types.SubmitOutput, error) {
	out, err := c.Service.LockupWithdraw(ctx, c.Session, in.ReceiverID, in.Amount)
	if err != nil {
		return types.SubmitOutput{}, applicationError("unable to withdraw through lockup", err)
	}
	return types.SubmitOutput{TxHash: out.TxHash}, nil
}

// SubmitAccountWithdraw withdraws directly from a staking pool.
func (c *Context) SubmitAccountWithdraw(ctx context.Context, in types.SubmitInput) (types.SubmitOutput, error) {
	out, err := c.Service.SubmitAccountWithdraw(ctx, c.Session, in.ReceiverID, in.Amount)
	if err != nil {
		return types.SubmitOutput{}, applicationError("unable to withdraw", err)
	}
	return types.SubmitOutput{TxHash: out.TxHash}, nil
}

// SubmitAccountUnstake unstakes directly from a staking pool.
func (c *Context) SubmitAccountUnstake(ctx context.Context, in types.SubmitInput) (types.SubmitOutput, error) {
	amount, err := staking.ToYocto(in.Amount, in.Unit)
	if err != nil {
		return types.SubmitOutput{}, temporal.NewNonRetryableApplicationError("invalid amount", "invalid_amount", err)
	}
	out, err := c.Service.SubmitAccountUnstake(ctx, c.Session, in.ReceiverID, amount)
	if err != nil {
		return types.SubmitOutput{}, applicationError("unable to unstake", err)
	}
	return types.SubmitOutput{TxHash: out.TxHash}, nil
}

// RefreshStakedBalance re-reads the staked balance at validatorID into the
// balance cache.
func (c *Context) RefreshStakedBalance(ctx context.Context, validatorID string) (string, error) {
	balance, err := c.Service.UpdateStakedBalance(ctx, c.Session, validatorID)
	if err != nil {
		return "", applicationError("unable to refresh staked balance", err)
	}
	return balance, nil
}

// ResolveLockup returns the lockup of the signing account. It fails with
// staking.noLockup when there is none.
func (c *Context) ResolveLockup(ctx context.Context) (string, error) {
	_, lockupID, err := c.Service.Resolver().Lockup(ctx, c.Session, c.Session.AccountID())
	if err != nil {
		return "", applicationError("unable to resolve lockup", err)
	}
	return lockupID, nil
}

// SelectPool points a lockup at a staking pool.
func (c *Context) SelectPool(ctx context.Context, in types.SelectPoolInput) (types.SubmitOutput, error) {
	out, err := c.Service.LockupSelect(ctx, c.Session, in.ValidatorID, in.LockupID, in.Unselect)
	if err != nil {
		return types.SubmitOutput{}, applicationError("unable to select staking pool", err)
	}
	return types.SubmitOutput{TxHash: out.TxHash}, nil
}

// ReportStep forwards a workflow step to the observer.
func (c *Context) ReportStep(ctx context.Context, in types.StepInput) error {
	if c.Observer != nil {
		c.Observer.OnStep(ctx, staking.StepEvent{Operation: in.Operation, Target: in.Target, Step: in.Step})
	}
	return nil
}

// applicationError keeps the staking kind as the error type. Every failure is
// final; staking calls are never retried.
func applicationError(msg string, err error) error {
	kind := staking.ErrorKind(err)
	if kind == "" {
		kind = "staking_error"
	}
	return temporal.NewNonRetryableApplicationError(msg, kind, err)
}
