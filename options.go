package lockstep

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Option configures the delivery pipeline for a Pump. Pipeline options wrap
// the result handler with middleware for retry, timeout, and other
// reliability patterns.
//
// Instance configuration (interval, clock, feeds) is handled via chainable
// methods on the Pump before calling Run().
type Option[T any] func(pipz.Chainable[*Result[T]]) pipz.Chainable[*Result[T]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[T any](terminal pipz.Chainable[*Result[T]], opts []Option[T]) pipz.Chainable[*Result[T]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------
// These options wrap the entire pipeline, providing protection at the boundary.

// WithRetry wraps the pipeline with retry logic.
// Failed deliveries are retried immediately up to maxAttempts times.
// For exponential backoff between retries, use WithBackoff instead.
func WithRetry[T any](maxAttempts int) Option[T] {
	return func(p pipz.Chainable[*Result[T]]) pipz.Chainable[*Result[T]] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff wraps the pipeline with exponential backoff retry logic.
// Failed deliveries are retried with increasing delays: baseDelay,
// 2*baseDelay, 4*baseDelay, etc.
func WithBackoff[T any](maxAttempts int, baseDelay time.Duration) Option[T] {
	return func(p pipz.Chainable[*Result[T]]) pipz.Chainable[*Result[T]] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout wraps the pipeline with a timeout.
// If delivery takes longer than the specified duration, the operation fails
// with a timeout error.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(p pipz.Chainable[*Result[T]]) pipz.Chainable[*Result[T]] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithErrorHandler adds error observation to the pipeline.
// Errors are passed to the handler for logging, metrics, or alerting,
// but the error still propagates. Use this for observability, not recovery.
func WithErrorHandler[T any](handler pipz.Chainable[*pipz.Error[*Result[T]]]) Option[T] {
	return func(p pipz.Chainable[*Result[T]]) pipz.Chainable[*Result[T]] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// -----------------------------------------------------------------------------
// Pipeline Options - Middleware Composition
// -----------------------------------------------------------------------------

// WithMiddleware wraps the pipeline with a sequence of processors.
// Processors execute in order, with the wrapped pipeline (handler) last.
//
// Use the Use* functions to create processors for common patterns,
// or provide custom pipz.Chainable implementations directly.
func WithMiddleware[T any](processors ...pipz.Chainable[*Result[T]]) Option[T] {
	return func(p pipz.Chainable[*Result[T]]) pipz.Chainable[*Result[T]] {
		all := make([]pipz.Chainable[*Result[T]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors - Adapters (Use*)
// -----------------------------------------------------------------------------
// These create processors for use inside WithMiddleware.

// UseTransform creates a processor that transforms the result.
// Cannot fail. Use for pure transformations that always succeed.
func UseTransform[T any](name string, fn func(context.Context, *Result[T]) *Result[T]) pipz.Chainable[*Result[T]] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a processor that can transform the result and fail.
// Use for operations like enrichment or downstream validation that may
// produce errors.
func UseApply[T any](name string, fn func(context.Context, *Result[T]) (*Result[T], error)) pipz.Chainable[*Result[T]] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a processor that performs a side effect.
// The result passes through unchanged. Use for logging, metrics, or
// notifications that should not affect the captured data.
func UseEffect[T any](name string, fn func(context.Context, *Result[T]) error) pipz.Chainable[*Result[T]] {
	return pipz.Effect(pipz.Name(name), fn)
}
