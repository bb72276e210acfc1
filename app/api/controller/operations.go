package controller

import (
	"errors"
	"net/http"

	"github.com/canopy-network/stakex/app/api/types"
	workertypes "github.com/canopy-network/stakex/app/worker/types"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/temporal"
	"github.com/go-jose/go-jose/v4/json"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

// HandleWithdraw starts a WithdrawWorkflow.
func (c *Controller) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	var in types.WithdrawRequest
	if !decode(w, r, &in) || !validAmount(w, in.Amount, in.Unit) {
		return
	}
	if in.ValidatorID == "" {
		writeError(w, http.StatusBadRequest, "validatorId is required")
		return
	}
	if in.CurrentAccountID == "" {
		in.CurrentAccountID = c.App.OperatorID
	}
	c.startWorkflow(w, r, temporal.WithdrawWorkflowID(in.CurrentAccountID, in.ValidatorID), temporal.WithdrawWorkflowName,
		workertypes.WithdrawInput{
			CurrentAccountID: in.CurrentAccountID,
			ValidatorID:      in.ValidatorID,
			Amount:           in.Amount,
			Unit:             in.Unit,
		})
}

// HandleUnstake starts an UnstakeWorkflow.
func (c *Controller) HandleUnstake(w http.ResponseWriter, r *http.Request) {
	var in types.UnstakeRequest
	if !decode(w, r, &in) || !validAmount(w, in.Amount, in.Unit) {
		return
	}
	if in.ValidatorID == "" {
		writeError(w, http.StatusBadRequest, "validatorId is required")
		return
	}
	c.startWorkflow(w, r, temporal.UnstakeWorkflowID(c.App.OperatorID, in.ValidatorID), temporal.UnstakeWorkflowName,
		workertypes.UnstakeInput{ValidatorID: in.ValidatorID, Amount: in.Amount, Unit: in.Unit})
}

// HandleSelectPool starts a SelectPoolWorkflow.
func (c *Controller) HandleSelectPool(w http.ResponseWriter, r *http.Request) {
	var in types.SelectPoolRequest
	if !decode(w, r, &in) {
		return
	}
	if in.ValidatorID == "" {
		writeError(w, http.StatusBadRequest, "validatorId is required")
		return
	}
	lockupKey := in.LockupID
	if lockupKey == "" {
		lockupKey = c.App.OperatorID
	}
	c.startWorkflow(w, r, temporal.SelectPoolWorkflowID(lockupKey, in.ValidatorID), temporal.SelectPoolWorkflowName,
		workertypes.SelectPoolInput{ValidatorID: in.ValidatorID, LockupID: in.LockupID, Unselect: in.Unselect})
}

// startWorkflow refuses to start a second run of an operation that is still
// in flight.
func (c *Controller) startWorkflow(w http.ResponseWriter, r *http.Request, id, name string, input any) {
	run, err := c.App.TemporalClient.TClient.ExecuteWorkflow(r.Context(), client.StartWorkflowOptions{
		ID:                                       id,
		TaskQueue:                                c.App.TemporalClient.GetStakingQueue(),
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, name, input)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			writeError(w, http.StatusConflict, "operation already running")
			return
		}
		c.App.Logger.Error("Unable to start workflow", zap.String("workflow", name), zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "unable to start workflow")
		return
	}
	c.App.Logger.Info("Workflow started", zap.String("workflow", name), zap.String("id", run.GetID()), zap.String("runId", run.GetRunID()))
	writeJSON(w, http.StatusAccepted, types.OperationResponse{WorkflowID: run.GetID(), RunID: run.GetRunID()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

func validAmount(w http.ResponseWriter, amount string, unit staking.Unit) bool {
	if _, err := staking.ToYocto(amount, unit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
