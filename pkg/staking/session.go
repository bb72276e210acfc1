package staking

import (
	"bytes"
	"context"
	"encoding/json"
)

// Action is a single function call inside a transaction.
type Action struct {
	MethodName string
	// Args is JSON encoded by the wallet; nil encodes as {}.
	Args    any
	Gas     Gas
	Deposit string
}

// Outcome is the committed result of a transaction.
type Outcome struct {
	TxHash string          `json:"txHash"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// IsFalse reports whether the call returned the JSON literal false.
func (o Outcome) IsFalse() bool {
	return bytes.Equal(bytes.TrimSpace(o.Value), []byte("false"))
}

// Wallet is the signing and query capability of an authenticated account.
type Wallet interface {
	// AccountID is the account every transaction is signed by.
	AccountID() string
	// ViewAccount fails with an error matching rpc.ErrUnknownAccount when the
	// account does not exist.
	ViewAccount(ctx context.Context, accountID string) error
	ViewFunction(ctx context.Context, contractID, method string, args any) (json.RawMessage, error)
	SignAndSendTransaction(ctx context.Context, receiverID string, actions []Action) (Outcome, error)
}

// Session carries the authenticated wallet through every operation.
type Session struct {
	Wallet Wallet
}

// NewSession binds a session to w.
func NewSession(w Wallet) Session {
	return Session{Wallet: w}
}

// AccountID is the authenticated account of the session.
func (s Session) AccountID() string {
	return s.Wallet.AccountID()
}
