package workflow

import (
	"github.com/canopy-network/stakex/app/worker/types"
	"go.temporal.io/sdk/workflow"
)

// SelectPoolWorkflow points the signer's lockup at a staking pool, first
// unselecting the current one when asked to.
func (wc *Context) SelectPoolWorkflow(ctx workflow.Context, in types.SelectPoolInput) (types.SelectPoolOutput, error) {
	viewCtx := wc.viewContext(ctx)
	submitCtx := wc.submitContext(ctx)

	if in.LockupID == "" {
		if err := workflow.ExecuteActivity(viewCtx, wc.ActivityContext.ResolveLockup).Get(viewCtx, &in.LockupID); err != nil {
			return types.SelectPoolOutput{}, err
		}
	}

	var sub types.SubmitOutput
	if err := workflow.ExecuteActivity(submitCtx, wc.ActivityContext.SelectPool, in).Get(submitCtx, &sub); err != nil {
		return types.SelectPoolOutput{}, err
	}
	workflow.GetLogger(ctx).Info("staking pool selected", "lockup", in.LockupID, "validator", in.ValidatorID, "tx", sub.TxHash)
	return types.SelectPoolOutput{LockupID: in.LockupID, TxHash: sub.TxHash}, nil
}
