package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAccount matches (via errors.Is) any RPC error reporting that the
// queried account does not exist on chain.
var ErrUnknownAccount = errors.New("rpc: unknown account")

// Error is a JSON-RPC error object as returned by NEAR nodes.
type Error struct {
	Name    string          `json:"name"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Cause   *ErrorCause     `json:"cause"`
}

// ErrorCause carries the structured reason for handler errors.
type ErrorCause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info"`
}

func (e *Error) Error() string {
	cause := ""
	if e.Cause != nil {
		cause = e.Cause.Name
	}
	return fmt.Sprintf("rpc error %d %s/%s: %s %s", e.Code, e.Name, cause, e.Message, string(e.Data))
}

// Is reports unknown-account errors as ErrUnknownAccount. Older nodes only
// describe the condition in the data string.
func (e *Error) Is(target error) bool {
	if target != ErrUnknownAccount {
		return false
	}
	if e.Cause != nil && e.Cause.Name == "UNKNOWN_ACCOUNT" {
		return true
	}
	return strings.Contains(string(e.Data), "does not exist while viewing")
}

// ExecutionError is returned when a committed transaction finished with a Failure status.
type ExecutionError struct {
	TxHash  string
	Failure json.RawMessage
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.TxHash, string(e.Failure))
}
