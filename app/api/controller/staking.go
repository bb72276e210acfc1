package controller

import (
	"errors"
	"net/http"

	"github.com/canopy-network/stakex/app/api/types"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HandleValidators lists the current and next validators.
func (c *Controller) HandleValidators(w http.ResponseWriter, r *http.Request) {
	ids, err := c.App.Registry.All(r.Context())
	if err != nil {
		c.App.Logger.Warn("validators unavailable", zap.Error(err))
		writeError(w, http.StatusBadGateway, "validators unavailable")
		return
	}
	writeJSON(w, http.StatusOK, types.ValidatorsResponse{Validators: ids})
}

// HandleValidatorsRefresh drops the cached validator list and lockup probes.
func (c *Controller) HandleValidatorsRefresh(w http.ResponseWriter, _ *http.Request) {
	c.App.Refresh()
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeposits returns the indexer's deposit per validator for an account.
func (c *Controller) HandleDeposits(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deposits, err := c.App.Deposits.GetStakingDeposits(r.Context(), id)
	if err != nil {
		c.App.Logger.Warn("deposits unavailable", zap.String("account", id), zap.Error(err))
		writeError(w, http.StatusBadGateway, "deposits unavailable")
		return
	}
	writeJSON(w, http.StatusOK, types.DepositsResponse{AccountID: id, Deposits: deposits})
}

// HandleStakingState loads the staking view of an account and its lockup.
// ?current= selects the current account.
func (c *Controller) HandleStakingState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	validators, err := c.App.Registry.All(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "validators unavailable")
		return
	}
	state, err := c.App.Service.LoadState(ctx, c.App.Viewer(id), r.URL.Query().Get("current"), validators, c.App.Deposits)
	if err != nil {
		c.App.Logger.Warn("staking state incomplete", zap.String("account", id), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error(), "state": state})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleValidatorBalance returns the position of an account at one validator.
func (c *Controller) HandleValidatorBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id, validatorID := vars["id"], vars["validator"]

	deposits, err := c.App.Deposits.GetStakingDeposits(ctx, id)
	if err != nil {
		writeError(w, http.StatusBadGateway, "deposits unavailable")
		return
	}
	entry, err := c.App.Service.ValidatorBalance(ctx, c.App.Viewer(id), validatorID, id, deposits[validatorID])
	if err != nil {
		var noContract *staking.NoContractError
		if errors.As(err, &noContract) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	out := types.BalanceResponse{ValidatorAccountEntry: entry}
	if cached, ok, err := c.App.Service.Cache().Get(ctx, validatorID, id); err == nil && ok {
		out.Cached = cached
	}
	writeJSON(w, http.StatusOK, out)
}
