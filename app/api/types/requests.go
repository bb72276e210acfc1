package types

import "github.com/canopy-network/stakex/pkg/staking"

// LoginRequest contains credentials for operator authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// WithdrawRequest starts a withdraw. CurrentAccountID defaults to the operator.
type WithdrawRequest struct {
	CurrentAccountID string       `json:"currentAccountId"`
	ValidatorID      string       `json:"validatorId"`
	Amount           string       `json:"amount"`
	Unit             staking.Unit `json:"unit"`
}

// UnstakeRequest starts an unstake.
type UnstakeRequest struct {
	ValidatorID string       `json:"validatorId"`
	Amount      string       `json:"amount"`
	Unit        staking.Unit `json:"unit"`
}

// SelectPoolRequest starts a pool selection on the operator's lockup.
type SelectPoolRequest struct {
	ValidatorID string `json:"validatorId"`
	LockupID    string `json:"lockupId"`
	Unselect    bool   `json:"unselect"`
}

// OperationResponse identifies a started workflow.
type OperationResponse struct {
	WorkflowID string `json:"workflowId"`
	RunID      string `json:"runId"`
}

// DepositsResponse maps validator id to deposited principal.
type DepositsResponse struct {
	AccountID string            `json:"accountId"`
	Deposits  map[string]string `json:"deposits"`
}

// ValidatorsResponse lists the known validators.
type ValidatorsResponse struct {
	Validators []string `json:"validators"`
}

// BalanceResponse is the position of an account at one validator.
type BalanceResponse struct {
	staking.ValidatorAccountEntry
	// Cached is the staked balance recorded after the last unstake, if any.
	Cached string `json:"cached,omitempty"`
}

// User is an operator allowed to start workflows.
type User struct {
	Username string `json:"username"`
	Hash     []byte `json:"hash"`
}
