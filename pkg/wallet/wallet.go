// Package wallet signs and submits staking transactions for a single account.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/canopy-network/stakex/pkg/logging"
	"github.com/canopy-network/stakex/pkg/rpc"
	"github.com/canopy-network/stakex/pkg/signer"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/utils"
	"go.uber.org/zap"
)

// Wallet implements staking.Wallet over a node RPC client and a full access key.
type Wallet struct {
	accountID string
	key       *signer.KeyPair
	client    rpc.Client
	logger    *zap.Logger

	// serializes nonce reads and broadcasts
	mu sync.Mutex
}

var _ staking.Wallet = (*Wallet)(nil)

// ErrReadOnly is returned when a viewer is asked to sign.
var ErrReadOnly = errors.New("wallet has no signing key")

// NewViewer returns a wallet that can only query on behalf of accountID.
func NewViewer(accountID string, client rpc.Client, logger *zap.Logger) *Wallet {
	return New(accountID, nil, client, logger)
}

// New returns a wallet signing as accountID with key.
func New(accountID string, key *signer.KeyPair, client rpc.Client, logger *zap.Logger) *Wallet {
	return &Wallet{accountID: accountID, key: key, client: client, logger: logging.OrNop(logger)}
}

// FromEnv builds a wallet from STAKING_ACCOUNT_ID and STAKING_PRIVATE_KEY.
func FromEnv(client rpc.Client, logger *zap.Logger) (*Wallet, error) {
	accountID := utils.Env("STAKING_ACCOUNT_ID", "")
	if accountID == "" {
		return nil, fmt.Errorf("STAKING_ACCOUNT_ID is not set")
	}
	key, err := signer.ParseKeyPair(utils.Env("STAKING_PRIVATE_KEY", ""))
	if err != nil {
		return nil, fmt.Errorf("STAKING_PRIVATE_KEY: %w", err)
	}
	return New(accountID, key, client, logger), nil
}

func (w *Wallet) AccountID() string { return w.accountID }

func (w *Wallet) ViewAccount(ctx context.Context, accountID string) error {
	_, err := w.client.ViewAccount(ctx, accountID)
	return err
}

func (w *Wallet) ViewFunction(ctx context.Context, contractID, method string, args any) (json.RawMessage, error) {
	encoded, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	return w.client.CallFunction(ctx, contractID, method, encoded)
}

// SignAndSendTransaction signs actions with the next nonce of the wallet key
// and waits for the committed outcome. Nothing is retried.
func (w *Wallet) SignAndSendTransaction(ctx context.Context, receiverID string, actions []staking.Action) (staking.Outcome, error) {
	if w.key == nil {
		return staking.Outcome{}, ErrReadOnly
	}
	calls := make([]signer.FunctionCall, 0, len(actions))
	for _, a := range actions {
		args, err := encodeArgs(a.Args)
		if err != nil {
			return staking.Outcome{}, fmt.Errorf("encode %s args: %w", a.MethodName, err)
		}
		calls = append(calls, signer.FunctionCall{
			MethodName: a.MethodName,
			Args:       args,
			Gas:        uint64(a.Gas),
			Deposit:    a.Deposit,
		})
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ak, err := w.client.ViewAccessKey(ctx, w.accountID, w.key.PublicKeyString())
	if err != nil {
		return staking.Outcome{}, err
	}
	blockHash, err := signer.DecodeBlockHash(ak.BlockHash)
	if err != nil {
		return staking.Outcome{}, err
	}

	signed, hash, err := signer.Sign(w.key, &signer.Transaction{
		SignerID:   w.accountID,
		PublicKey:  w.key.PublicKey(),
		Nonce:      ak.Nonce + 1,
		ReceiverID: receiverID,
		BlockHash:  blockHash,
		Actions:    calls,
	})
	if err != nil {
		return staking.Outcome{}, err
	}

	w.logger.Debug("broadcasting transaction",
		zap.String("receiver", receiverID),
		zap.Uint64("nonce", ak.Nonce+1),
		zap.String("tx_hash", hash))

	outcome, err := w.client.BroadcastTxCommit(ctx, signed)
	if err != nil {
		return staking.Outcome{}, err
	}
	if outcome.Transaction.Hash != "" {
		hash = outcome.Transaction.Hash
	}
	value, err := outcome.Value()
	if err != nil {
		return staking.Outcome{TxHash: hash}, err
	}
	out := staking.Outcome{TxHash: hash}
	if len(value) > 0 {
		out.Value = value
	}
	return out, nil
}

func encodeArgs(args any) ([]byte, error) {
	if args == nil {
		return []byte("{}"), nil
	}
	if raw, ok := args.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(args)
}
