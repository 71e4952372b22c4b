// Package pact implements the authentication envelope for a command execution
// platform: it builds, hashes, signs and verifies the signed command object
// that carries smart-contract code from a client to a validating node, across
// multiple signature schemes in a single transaction.
package pact

import (
	"context"
	"time"

	"github.com/KonnerEL/pact/crypto"
	"github.com/KonnerEL/pact/execution"
	"github.com/KonnerEL/pact/logger"
	"github.com/KonnerEL/pact/metrics"
	"github.com/KonnerEL/pact/parser"
	"github.com/KonnerEL/pact/types"
	"github.com/KonnerEL/pact/verification"
)

// Pact is the library facade: verification plus execution dispatch behind one
// handle. A single instance is safe for concurrent use.
type Pact struct {
	verifier *verification.Service
	execSvc  *execution.Service

	parser   parser.Parser
	executor execution.Executor
	log      logger.Logger
	metrics  metrics.Recorder
	timeout  time.Duration
	config   *types.Config
}

// New creates a Pact instance with the given configuration and options.
func New(config *types.Config, opts ...Option) *Pact {
	timeout := 30 * time.Second
	if config != nil && config.DefaultTimeout > 0 {
		timeout = config.DefaultTimeout
	}

	p := &Pact{
		parser:  parser.Default(),
		log:     logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
		timeout: timeout,
		config:  config,
	}

	if config != nil && config.LogLevel != "" {
		p.log = logger.NewZapLogger(config.LogLevel)
	}
	if config != nil && config.EnableMetrics {
		p.metrics = metrics.NewPrometheusRecorder()
	}

	for _, opt := range opts {
		opt(p)
	}

	p.verifier = verification.NewService(p.parser, p.log, p.metrics)
	p.execSvc = execution.NewService(p.executor, p.timeout, p.log, p.metrics)

	return p
}

// NewWithDefaults creates a Pact instance with default configuration.
func NewWithDefaults() *Pact {
	return New(&types.Config{
		DefaultTimeout: 30 * time.Second,
		LogLevel:       "",
		EnableMetrics:  false,
	})
}

// Verify authenticates one command.
func (p *Pact) Verify(cmd *types.Command) *types.ProcessedCommand {
	return p.verifier.ProcessCommand(cmd)
}

// BatchVerify authenticates multiple commands concurrently.
func (p *Pact) BatchVerify(ctx context.Context, cmds []*types.Command) ([]*types.ProcessedCommand, error) {
	return p.verifier.BatchVerify(ctx, cmds)
}

// Submit verifies a command and, on success, hands it to the execution engine
// under the given mode. A command that fails verification yields a failure
// CommandResult keyed by its request key; nothing is executed for it.
func (p *Pact) Submit(ctx context.Context, cmd *types.Command, mode types.ExecutionMode) (*types.CommandResult, error) {
	proc := p.verifier.ProcessCommand(cmd)
	if !proc.Ok() {
		return execution.FailureResult(cmd, proc.InvalidReason), nil
	}
	return p.execSvc.Execute(ctx, proc.Command, mode)
}

// SubmitLocal verifies and executes a command in local mode, without a
// transaction id.
func (p *Pact) SubmitLocal(ctx context.Context, cmd *types.Command) (*types.CommandResult, error) {
	return p.Submit(ctx, cmd, types.Local())
}

// SupportedSchemes returns the closed set of signature schemes.
func (p *Pact) SupportedSchemes() []crypto.SchemeID {
	return crypto.Schemes()
}

// Version information
const (
	Version         = "1.0.0"
	ProtocolVersion = 1
)

// GetVersion returns version information.
func GetVersion() map[string]interface{} {
	schemes := make([]string, 0, len(crypto.Schemes()))
	for _, s := range crypto.Schemes() {
		schemes = append(schemes, s.String())
	}
	return map[string]interface{}{
		"library_version":   Version,
		"protocol_version":  ProtocolVersion,
		"supported_schemes": schemes,
		"hash":              "blake2b-256",
	}
}
