package workflow

import (
	"github.com/canopy-network/stakex/app/worker/types"
	"github.com/canopy-network/stakex/pkg/staking"
	"go.temporal.io/sdk/workflow"
)

// UnstakeWorkflow unstakes from a validator, waits for the indexer and then
// refreshes the cached staked balance.
func (wc *Context) UnstakeWorkflow(ctx workflow.Context, in types.UnstakeInput) (types.UnstakeOutput, error) {
	logger := workflow.GetLogger(ctx)
	viewCtx := wc.viewContext(ctx)
	submitCtx := wc.submitContext(ctx)

	op := staking.OpUnstake
	if in.Amount == "" {
		op = staking.OpUnstakeAll
	}

	var sub types.SubmitOutput
	req := types.SubmitInput{ReceiverID: in.ValidatorID, Amount: in.Amount, Unit: in.Unit}
	if err := workflow.ExecuteActivity(submitCtx, wc.ActivityContext.SubmitAccountUnstake, req).Get(submitCtx, &sub); err != nil {
		return types.UnstakeOutput{}, err
	}
	if err := wc.indexingWait(ctx); err != nil {
		return types.UnstakeOutput{}, err
	}
	if err := workflow.ExecuteActivity(viewCtx, wc.ActivityContext.ReportStep,
		types.StepInput{Operation: op, Target: in.ValidatorID, Step: staking.StepIndexingWait}).Get(viewCtx, nil); err != nil {
		return types.UnstakeOutput{}, err
	}

	var balance string
	if err := workflow.ExecuteActivity(viewCtx, wc.ActivityContext.RefreshStakedBalance, in.ValidatorID).Get(viewCtx, &balance); err != nil {
		return types.UnstakeOutput{}, err
	}
	if err := workflow.ExecuteActivity(viewCtx, wc.ActivityContext.ReportStep,
		types.StepInput{Operation: op, Target: in.ValidatorID, Step: staking.StepRefreshed}).Get(viewCtx, nil); err != nil {
		return types.UnstakeOutput{}, err
	}

	logger.Info("unstake committed", "validator", in.ValidatorID, "tx", sub.TxHash, "staked", balance)
	return types.UnstakeOutput{TxHash: sub.TxHash, StakedBalance: balance}, nil
}
