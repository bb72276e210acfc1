package temporal

import "fmt"

// DefaultNamespace is used when TEMPORAL_NAMESPACE is unset.
const DefaultNamespace = "stakex"

// Queue names
const (
	QueueStaking = "staking"
)

// Workflow names
const (
	WithdrawWorkflowName   = "WithdrawWorkflow"
	UnstakeWorkflowName    = "UnstakeWorkflow"
	SelectPoolWorkflowName = "SelectPoolWorkflow"
)

// Workflow ID patterns: operation:account:validator
const (
	WorkflowIDWithdraw   = "withdraw:%s:%s"
	WorkflowIDUnstake    = "unstake:%s:%s"
	WorkflowIDSelectPool = "select:%s:%s"
)

// WithdrawWorkflowID returns the workflow id of a withdraw from validatorID.
func WithdrawWorkflowID(accountID, validatorID string) string {
	return fmt.Sprintf(WorkflowIDWithdraw, accountID, validatorID)
}

// UnstakeWorkflowID returns the workflow id of an unstake from validatorID.
func UnstakeWorkflowID(accountID, validatorID string) string {
	return fmt.Sprintf(WorkflowIDUnstake, accountID, validatorID)
}

// SelectPoolWorkflowID returns the workflow id of a pool selection on lockupID.
func SelectPoolWorkflowID(lockupID, validatorID string) string {
	return fmt.Sprintf(WorkflowIDSelectPool, lockupID, validatorID)
}
