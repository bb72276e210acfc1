package rpc_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/canopy-network/stakex/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewAccount_Success(t *testing.T) {
	client := newTestRPCClient(jsonRPCHandler(t, func(req jsonRPCRequest) any {
		assert.Equal(t, "query", req.Method)
		var params map[string]string
		require.NoError(t, json.Unmarshal(req.Params, &params))
		assert.Equal(t, "view_account", params["request_type"])
		assert.Equal(t, "pool.poolv1.near", params["account_id"])
		return map[string]any{"amount": "100", "code_hash": "abc", "block_height": 10}
	}))

	view, err := client.ViewAccount(context.Background(), "pool.poolv1.near")
	require.NoError(t, err)
	assert.Equal(t, "100", view.Amount)
	assert.Equal(t, uint64(10), view.BlockHeight)
}

func TestViewAccount_UnknownAccount(t *testing.T) {
	client := newTestRPCClient(jsonRPCHandler(t, func(jsonRPCRequest) any {
		return map[string]any{"error": map[string]any{
			"name":    "HANDLER_ERROR",
			"code":    -32000,
			"message": "Server error",
			"cause":   map[string]any{"name": "UNKNOWN_ACCOUNT", "info": map[string]any{}},
		}}
	}))

	_, err := client.ViewAccount(context.Background(), "nobody.near")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rpc.ErrUnknownAccount))

	var rpcErr *rpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "HANDLER_ERROR", rpcErr.Name)
}

func TestViewAccount_LegacyUnknownAccount(t *testing.T) {
	client := newTestRPCClient(jsonRPCHandler(t, func(jsonRPCRequest) any {
		return map[string]any{"error": map[string]any{
			"code":    -32000,
			"message": "Server error",
			"data":    "account nobody.near does not exist while viewing",
		}}
	}))

	_, err := client.ViewAccount(context.Background(), "nobody.near")
	assert.ErrorIs(t, err, rpc.ErrUnknownAccount)
}

func TestViewAccount_OtherErrorIsNotUnknownAccount(t *testing.T) {
	client := newTestRPCClient(jsonRPCHandler(t, func(jsonRPCRequest) any {
		return map[string]any{"error": map[string]any{
			"name":  "HANDLER_ERROR",
			"code":  -32000,
			"cause": map[string]any{"name": "UNAVAILABLE_SHARD"},
		}}
	}))

	_, err := client.ViewAccount(context.Background(), "alice.near")
	require.Error(t, err)
	assert.False(t, errors.Is(err, rpc.ErrUnknownAccount))
}

func TestCallFunction_DecodesByteArray(t *testing.T) {
	client := newTestRPCClient(jsonRPCHandler(t, func(req jsonRPCRequest) any {
		var params map[string]string
		require.NoError(t, json.Unmarshal(req.Params, &params))
		assert.Equal(t, "call_function", params["request_type"])
		assert.Equal(t, "get_account_staked_balance", params["method_name"])
		args, err := base64.StdEncoding.DecodeString(params["args_base64"])
		require.NoError(t, err)
		assert.JSONEq(t, `{"account_id":"alice.near"}`, string(args))

		result := []int{}
		for _, b := range []byte(`"1000"`) {
			result = append(result, int(b))
		}
		return map[string]any{"result": result, "logs": []string{}}
	}))

	out, err := client.CallFunction(context.Background(), "pool.near", "get_account_staked_balance", []byte(`{"account_id":"alice.near"}`))
	require.NoError(t, err)
	assert.Equal(t, `"1000"`, string(out))
}

func TestCallFunction_LegacyExecutionError(t *testing.T) {
	client := newTestRPCClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"error":"wasm execution failed with error: CodeDoesNotExist","logs":[]}}`))
	}))
	_, err := client.CallFunction(context.Background(), "pool.near", "get_owner_id", nil)
	var rpcErr *rpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "CONTRACT_EXECUTION_ERROR", rpcErr.Name)
}

func TestValidators(t *testing.T) {
	client := newTestRPCClient(jsonRPCHandler(t, func(req jsonRPCRequest) any {
		assert.Equal(t, "validators", req.Method)
		assert.JSONEq(t, `[null]`, string(req.Params))
		return map[string]any{
			"current_validators": []map[string]string{{"account_id": "a.poolv1.near", "stake": "1"}},
			"next_validators":    []map[string]string{{"account_id": "b.poolv1.near", "stake": "2"}},
		}
	}))

	view, err := client.Validators(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Current, 1)
	assert.Equal(t, "a.poolv1.near", view.Current[0].AccountID)
	assert.Equal(t, "b.poolv1.near", view.Next[0].AccountID)
}

func TestHTTPClient_FailsOverOnServerError(t *testing.T) {
	calls := map[string]int{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls[r.Host]++
		if r.Host == "bad" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"current_validators":[],"next_validators":[]}}`))
	})
	client := newTestRPCClientWithOpts(handler, rpc.Opts{Endpoints: []string{"http://bad", "http://good"}})

	_, err := client.Validators(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls["bad"])
	assert.Equal(t, 1, calls["good"])
}
