// Package execution routes verified commands to the execution engine. The
// engine itself is an external collaborator injected through the Executor
// interface; this package owns mode dispatch, timeouts, result plumbing and
// observability around it.
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KonnerEL/pact/logger"
	"github.com/KonnerEL/pact/metrics"
	"github.com/KonnerEL/pact/types"
)

// Executor runs a verified command under an execution mode and reports the
// result and its gas cost.
type Executor interface {
	Execute(ctx context.Context, cmd *types.VerifiedCommand, mode types.ExecutionMode) (*types.CommandResult, error)
}

// Service manages command execution through an injected Executor.
type Service struct {
	executor Executor
	timeout  time.Duration
	log      logger.Logger
	metrics  metrics.Recorder
}

// NewService creates an execution service. A zero timeout disables the
// per-call deadline; nil logger and recorder are no-ops.
func NewService(exec Executor, timeout time.Duration, log logger.Logger, rec metrics.Recorder) *Service {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{executor: exec, timeout: timeout, log: log, metrics: rec}
}

// Execute runs one verified command. The returned CommandResult always
// carries the command's request key; under a transactional mode it also
// carries the transaction id.
func (s *Service) Execute(ctx context.Context, cmd *types.VerifiedCommand, mode types.ExecutionMode) (*types.CommandResult, error) {
	if s.executor == nil {
		return nil, &types.PactError{
			Code:    types.ErrNoExecutor,
			Message: "no execution engine configured",
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reqKey := types.RequestKey{CommandHash: cmd.Hash}

	start := time.Now()
	result, err := s.executor.Execute(ctx, cmd, mode)
	s.metrics.ObserveLatency("execute", time.Since(start), map[string]string{})

	if err != nil {
		s.metrics.IncCounter("execute_failure", map[string]string{})
		s.log.Error("execution failed", map[string]any{
			"reqKey": reqKey.String(),
			"mode":   mode.String(),
			"error":  err.Error(),
		})
		return nil, &types.PactError{
			Code:    types.ErrExecutionFailed,
			Message: fmt.Sprintf("execute command %s: %v", reqKey, err),
		}
	}

	result.ReqKey = reqKey
	if txID, ok := mode.TxID(); ok {
		result.TxID = &txID
	} else {
		result.TxID = nil
	}

	s.metrics.IncCounter("execute_success", map[string]string{})
	s.log.Debug("command executed", map[string]any{
		"reqKey": reqKey.String(),
		"mode":   mode.String(),
		"gas":    result.Gas.String(),
	})
	return result, nil
}

// FailureResult builds the CommandResult reported for a command that was
// rejected before reaching the engine. Gas is zero; nothing ran.
func FailureResult(cmd *types.Command, reason string) *types.CommandResult {
	return &types.CommandResult{
		ReqKey: types.RequestKeyOf(cmd),
		Result: types.ResultFailure("command verification failed", reason),
		Gas:    decimal.Zero,
	}
}
