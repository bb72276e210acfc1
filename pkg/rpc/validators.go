package rpc

import (
	"context"
)

// ValidatorStake is a validator entry of the validators RPC.
type ValidatorStake struct {
	AccountID string `json:"account_id"`
	Stake     string `json:"stake"`
}

// ValidatorsView lists the current and next epoch validators.
type ValidatorsView struct {
	Current []ValidatorStake `json:"current_validators"`
	Next    []ValidatorStake `json:"next_validators"`
}

// Validators returns the validator set of the latest epoch.
func (c *HTTPClient) Validators(ctx context.Context) (*ValidatorsView, error) {
	var out ValidatorsView
	if err := c.call(ctx, methodValidators, []any{nil}, &out, 0); err != nil {
		return nil, err
	}
	return &out, nil
}
