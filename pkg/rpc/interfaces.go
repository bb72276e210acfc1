package rpc

import (
	"context"
)

// Client captures the node RPC calls used by the wallet and the staking core.
type Client interface {
	ViewAccount(ctx context.Context, accountID string) (*AccountView, error)
	ViewAccessKey(ctx context.Context, accountID, publicKey string) (*AccessKeyView, error)
	CallFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error)
	BroadcastTxCommit(ctx context.Context, signedTx []byte) (*TxOutcome, error)
	Validators(ctx context.Context) (*ValidatorsView, error)
}

// Factory produces RPC clients for a given set of endpoints.
type Factory interface {
	NewClient(endpoints []string) Client
}

type httpFactory struct {
	opts Opts
}

// NewHTTPFactory returns a factory that builds HTTP clients with shared defaults.
func NewHTTPFactory(opts Opts) Factory {
	return &httpFactory{opts: opts}
}

func (f *httpFactory) NewClient(endpoints []string) Client {
	o := f.opts
	o.Endpoints = endpoints
	return NewHTTPWithOpts(o)
}
