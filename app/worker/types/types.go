package types

import "github.com/canopy-network/stakex/pkg/staking"

// WithdrawInput starts a WithdrawWorkflow.
type WithdrawInput struct {
	// CurrentAccountID is the account selected by the caller; a value other
	// than the signing account routes the withdraw through its lockup.
	CurrentAccountID string       `json:"currentAccountId"`
	ValidatorID      string       `json:"validatorId"`
	Amount           string       `json:"amount,omitempty"`
	Unit             staking.Unit `json:"unit,omitempty"`
}

// WithdrawOutput is the result of a WithdrawWorkflow.
type WithdrawOutput struct {
	Plan   staking.WithdrawPlan `json:"plan"`
	TxHash string               `json:"txHash"`
}

// UnstakeInput starts an UnstakeWorkflow.
type UnstakeInput struct {
	ValidatorID string       `json:"validatorId"`
	Amount      string       `json:"amount,omitempty"`
	Unit        staking.Unit `json:"unit,omitempty"`
}

// UnstakeOutput is the result of an UnstakeWorkflow.
type UnstakeOutput struct {
	TxHash        string `json:"txHash"`
	StakedBalance string `json:"stakedBalance"`
}

// SelectPoolInput starts a SelectPoolWorkflow.
type SelectPoolInput struct {
	ValidatorID string `json:"validatorId"`
	// LockupID defaults to the lockup of the signing account.
	LockupID string `json:"lockupId,omitempty"`
	Unselect bool   `json:"unselect,omitempty"`
}

// SelectPoolOutput is the result of a SelectPoolWorkflow.
type SelectPoolOutput struct {
	LockupID string `json:"lockupId"`
	TxHash   string `json:"txHash"`
}

// SubmitInput is the input of the submit activities.
type SubmitInput struct {
	ReceiverID string `json:"receiverId"`
	// Amount is converted according to Unit; empty means all.
	Amount string       `json:"amount,omitempty"`
	Unit   staking.Unit `json:"unit,omitempty"`
}

// SubmitOutput is the committed transaction of a submit activity.
type SubmitOutput struct {
	TxHash string `json:"txHash"`
}

// StepInput reports a workflow step to the observers.
type StepInput struct {
	Operation staking.Operation `json:"operation"`
	Target    string            `json:"target"`
	Step      staking.Step      `json:"step"`
}
