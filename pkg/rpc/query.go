package rpc

import (
	"context"
	"encoding/base64"
	"fmt"
)

// AccountView is the state of an account as returned by view_account.
type AccountView struct {
	Amount        string `json:"amount"`
	Locked        string `json:"locked"`
	CodeHash      string `json:"code_hash"`
	StorageUsage  uint64 `json:"storage_usage"`
	StoragePaidAt uint64 `json:"storage_paid_at"`
	BlockHeight   uint64 `json:"block_height"`
	BlockHash     string `json:"block_hash"`
}

// AccessKeyView is the nonce and reference block of an access key.
type AccessKeyView struct {
	Nonce       uint64 `json:"nonce"`
	BlockHeight uint64 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
}

type callFunctionResult struct {
	Result      []int    `json:"result"`
	Logs        []string `json:"logs"`
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash"`
	// Legacy nodes report contract failures inside the result object.
	Error string `json:"error"`
}

// ViewAccount returns the on-chain state of accountID. A missing account
// yields an error matching ErrUnknownAccount.
func (c *HTTPClient) ViewAccount(ctx context.Context, accountID string) (*AccountView, error) {
	params := map[string]any{
		"request_type": requestViewAccount,
		"finality":     finalityFinal,
		"account_id":   accountID,
	}
	var out AccountView
	if err := c.call(ctx, methodQuery, params, &out, 0); err != nil {
		return nil, err
	}
	return &out, nil
}

// ViewAccessKey returns the current nonce of publicKey on accountID.
func (c *HTTPClient) ViewAccessKey(ctx context.Context, accountID, publicKey string) (*AccessKeyView, error) {
	params := map[string]any{
		"request_type": requestViewAccessKey,
		"finality":     finalityFinal,
		"account_id":   accountID,
		"public_key":   publicKey,
	}
	var out AccessKeyView
	if err := c.call(ctx, methodQuery, params, &out, 0); err != nil {
		return nil, err
	}
	return &out, nil
}

// CallFunction runs a read-only contract method and returns its raw (usually JSON) result.
func (c *HTTPClient) CallFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error) {
	if args == nil {
		args = []byte("{}")
	}
	params := map[string]any{
		"request_type": requestCallFunction,
		"finality":     finalityOptimistic,
		"account_id":   contractID,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(args),
	}
	var out callFunctionResult
	if err := c.call(ctx, methodQuery, params, &out, 0); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &Error{Name: "CONTRACT_EXECUTION_ERROR", Message: fmt.Sprintf("%s.%s: %s", contractID, method, out.Error)}
	}
	bz := make([]byte, len(out.Result))
	for i, b := range out.Result {
		bz[i] = byte(b)
	}
	return bz, nil
}
