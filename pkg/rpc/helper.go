package rpc

import (
	"context"
	"net/http"
	"net/url"
)

// StakingDeposit is one record of the helper's staking-deposits index.
type StakingDeposit struct {
	ValidatorID string `json:"validator_id"`
	Deposit     string `json:"deposit"`
}

// HelperClient talks to the account helper (indexer) service.
type HelperClient struct {
	http *HTTPClient
}

// NewHelperClient returns a helper client for baseURL. Only the first
// endpoint is used: helper reads are not replayed elsewhere.
func NewHelperClient(baseURL string, o Opts) *HelperClient {
	o.Endpoints = []string{baseURL}
	return &HelperClient{http: NewHTTPWithOpts(o)}
}

// StakingDeposits returns the flat deposit records of accountID, in the helper's order.
func (h *HelperClient) StakingDeposits(ctx context.Context, accountID string) ([]StakingDeposit, error) {
	var out []StakingDeposit
	if err := h.http.doJSON(ctx, http.MethodGet, stakingDepositsPath+url.PathEscape(accountID), nil, &out, 1); err != nil {
		return nil, err
	}
	return out, nil
}
