package pact

import (
	"time"

	"github.com/KonnerEL/pact/execution"
	"github.com/KonnerEL/pact/logger"
	"github.com/KonnerEL/pact/metrics"
	"github.com/KonnerEL/pact/parser"
)

type Option func(*Pact)

func WithLogger(l logger.Logger) Option {
	return func(p *Pact) {
		p.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(p *Pact) {
		p.metrics = r
	}
}

// WithParser replaces the built-in s-expression reader with an external
// language frontend.
func WithParser(cp parser.Parser) Option {
	return func(p *Pact) {
		p.parser = cp
	}
}

// WithExecutor wires in the execution engine that verified commands are
// handed to. Without one, Submit fails with NO_EXECUTOR.
func WithExecutor(e execution.Executor) Option {
	return func(p *Pact) {
		p.executor = e
	}
}

func WithTimeout(t time.Duration) Option {
	return func(p *Pact) {
		p.timeout = t
	}
}
