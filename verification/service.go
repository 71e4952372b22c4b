package verification

import (
	"context"
	"time"

	"github.com/KonnerEL/pact/logger"
	"github.com/KonnerEL/pact/metrics"
	"github.com/KonnerEL/pact/parser"
	"github.com/KonnerEL/pact/types"
)

// Service wraps the pure verifier with a code parser, logging and metrics.
// Verification reads only its own input, so a single Service may process any
// number of commands concurrently.
type Service struct {
	parser  parser.Parser
	log     logger.Logger
	metrics metrics.Recorder
}

// NewService creates a verification service. A nil parser uses the built-in
// s-expression reader; nil logger and recorder are no-ops.
func NewService(p parser.Parser, log logger.Logger, rec metrics.Recorder) *Service {
	if p == nil {
		p = parser.Default()
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{parser: p, log: log, metrics: rec}
}

// ProcessCommand verifies one command and reports the outcome.
func (s *Service) ProcessCommand(cmd *types.Command) *types.ProcessedCommand {
	start := time.Now()
	proc := VerifyCommand(cmd, s.parser)
	s.metrics.ObserveLatency("verify", time.Since(start), map[string]string{})

	if proc.Ok() {
		s.metrics.IncCounter("verify_success", map[string]string{})
		s.log.Debug("command verified", map[string]any{
			"reqKey": types.RequestKeyOf(cmd).String(),
			"sigs":   len(cmd.Sigs),
		})
	} else {
		s.metrics.IncCounter("verify_failure", map[string]string{})
		s.log.Warn("command rejected", map[string]any{
			"reqKey": types.RequestKeyOf(cmd).String(),
			"reason": proc.InvalidReason,
		})
	}
	return proc
}

// BatchVerify verifies multiple commands concurrently, preserving input
// order in the results.
func (s *Service) BatchVerify(ctx context.Context, cmds []*types.Command) ([]*types.ProcessedCommand, error) {
	if len(cmds) == 0 {
		return nil, &types.PactError{
			Code:    types.ErrInvalidCommand,
			Message: "no commands to verify",
		}
	}

	results := make([]*types.ProcessedCommand, len(cmds))

	type verifyResult struct {
		index int
		proc  *types.ProcessedCommand
	}

	resultChan := make(chan verifyResult, len(cmds))

	for i, cmd := range cmds {
		go func(index int, c *types.Command) {
			resultChan <- verifyResult{index: index, proc: s.ProcessCommand(c)}
		}(i, cmd)
	}

	for range cmds {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-resultChan:
			results[r.index] = r.proc
		}
	}

	return results, nil
}
