package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// TxOutcome is the final execution outcome of a committed transaction.
type TxOutcome struct {
	Status      json.RawMessage `json:"status"`
	Transaction struct {
		Hash       string `json:"hash"`
		SignerID   string `json:"signer_id"`
		ReceiverID string `json:"receiver_id"`
	} `json:"transaction"`
}

type executionStatus struct {
	SuccessValue *string         `json:"SuccessValue"`
	Failure      json.RawMessage `json:"Failure"`
}

// BroadcastTxCommit submits a borsh-encoded signed transaction and waits for
// its final outcome. It is sent to a single endpoint: a failed broadcast is
// never replayed against another node.
func (c *HTTPClient) BroadcastTxCommit(ctx context.Context, signedTx []byte) (*TxOutcome, error) {
	params := []string{base64.StdEncoding.EncodeToString(signedTx)}
	var out TxOutcome
	if err := c.call(ctx, methodBroadcastTxCommit, params, &out, 1); err != nil {
		return nil, err
	}
	return &out, nil
}

// Value decodes the return value of the transaction's last receipt. An empty
// slice means the call returned nothing. A Failure status is an *ExecutionError.
func (o *TxOutcome) Value() ([]byte, error) {
	if len(o.Status) == 0 || bytes.Equal(o.Status, []byte("null")) {
		return nil, fmt.Errorf("transaction %s has no status", o.Transaction.Hash)
	}
	var st executionStatus
	if err := json.Unmarshal(o.Status, &st); err != nil {
		// Plain string statuses (Unknown, NotStarted, Started) are not final.
		return nil, fmt.Errorf("transaction %s not final: %s", o.Transaction.Hash, string(o.Status))
	}
	if len(st.Failure) > 0 {
		return nil, &ExecutionError{TxHash: o.Transaction.Hash, Failure: st.Failure}
	}
	if st.SuccessValue == nil {
		return nil, fmt.Errorf("transaction %s not final: %s", o.Transaction.Hash, string(o.Status))
	}
	return base64.StdEncoding.DecodeString(*st.SuccessValue)
}
