package staking

import (
	"context"
	"time"

	"github.com/canopy-network/stakex/pkg/logging"
	"go.uber.org/zap"
)

// SubmissionObserver is told about every transaction the executor submits.
type SubmissionObserver interface {
	ObserveSubmission(receiverID, method string, elapsed time.Duration, err error)
}

// TransactionExecutor signs and submits action batches. It never retries.
type TransactionExecutor struct {
	logger   *zap.Logger
	observer SubmissionObserver
}

// NewTransactionExecutor returns an executor; observer may be nil.
func NewTransactionExecutor(logger *zap.Logger, observer SubmissionObserver) *TransactionExecutor {
	return &TransactionExecutor{logger: logging.OrNop(logger), observer: observer}
}

// SignAndSend submits actions to receiverID as the session account.
func (e *TransactionExecutor) SignAndSend(ctx context.Context, sess Session, receiverID string, actions []Action) (Outcome, error) {
	method := ""
	if len(actions) > 0 {
		method = actions[0].MethodName
	}
	start := time.Now()
	out, err := sess.Wallet.SignAndSendTransaction(ctx, receiverID, actions)
	if e.observer != nil {
		e.observer.ObserveSubmission(receiverID, method, time.Since(start), err)
	}
	if err != nil {
		e.logger.Warn("transaction failed",
			zap.String("signer", sess.AccountID()),
			zap.String("receiver", receiverID),
			zap.String("method", method),
			zap.Error(err),
		)
		return Outcome{}, err
	}
	e.logger.Info("transaction committed",
		zap.String("signer", sess.AccountID()),
		zap.String("receiver", receiverID),
		zap.String("method", method),
		zap.String("tx_hash", out.TxHash),
	)
	return out, nil
}
