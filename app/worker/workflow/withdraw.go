package workflow

import (
	"github.com/canopy-network/stakex/app/worker/types"
	"github.com/canopy-network/stakex/pkg/staking"
	"go.temporal.io/sdk/workflow"
)

// WithdrawWorkflow withdraws from a validator. When the current account is the
// signer's lockup the withdraw goes through the lockup contract and returns
// once committed; a direct withdraw also waits for the indexer.
func (wc *Context) WithdrawWorkflow(ctx workflow.Context, in types.WithdrawInput) (types.WithdrawOutput, error) {
	logger := workflow.GetLogger(ctx)
	viewCtx := wc.viewContext(ctx)
	submitCtx := wc.submitContext(ctx)

	var plan staking.WithdrawPlan
	if err := workflow.ExecuteActivity(viewCtx, wc.ActivityContext.PlanWithdraw, in).Get(viewCtx, &plan); err != nil {
		return types.WithdrawOutput{}, err
	}

	var sub types.SubmitOutput
	if plan.IsLockup {
		req := types.SubmitInput{ReceiverID: plan.LockupID, Amount: plan.Amount, Unit: staking.UnitYocto}
		if err := workflow.ExecuteActivity(submitCtx, wc.ActivityContext.SubmitLockupWithdraw, req).Get(submitCtx, &sub); err != nil {
			return types.WithdrawOutput{}, err
		}
		logger.Info("lockup withdraw committed", "lockup", plan.LockupID, "tx", sub.TxHash)
		return types.WithdrawOutput{Plan: plan, TxHash: sub.TxHash}, nil
	}

	req := types.SubmitInput{ReceiverID: plan.ValidatorID, Amount: plan.Amount, Unit: staking.UnitYocto}
	if err := workflow.ExecuteActivity(submitCtx, wc.ActivityContext.SubmitAccountWithdraw, req).Get(submitCtx, &sub); err != nil {
		return types.WithdrawOutput{}, err
	}
	if err := wc.indexingWait(ctx); err != nil {
		return types.WithdrawOutput{}, err
	}
	step := types.StepInput{Operation: withdrawOp(plan.Amount), Target: plan.ValidatorID, Step: staking.StepIndexingWait}
	if err := workflow.ExecuteActivity(viewCtx, wc.ActivityContext.ReportStep, step).Get(viewCtx, nil); err != nil {
		return types.WithdrawOutput{}, err
	}

	logger.Info("withdraw committed", "validator", plan.ValidatorID, "tx", sub.TxHash)
	return types.WithdrawOutput{Plan: plan, TxHash: sub.TxHash}, nil
}

func withdrawOp(amount string) staking.Operation {
	if amount == "" {
		return staking.OpWithdrawAll
	}
	return staking.OpWithdraw
}
