package ops

import (
	"context"
	"fmt"
	"time"
)

// LoggingWrapper wraps an op and emits three structured trace events
// around Perform: start, success (with wall-clock duration), and failure
// (with duration and error message). On failure it re-throws
// wrapNestedOpException(triggerName, executionFailed(innerDescription)).
// The internal loop continue/break signals are returned unchanged, together
// with the wrapped op's result.
type LoggingWrapper[T any] struct {
	inner       AnyOp[T]
	triggerName string
	sink        TraceSink
}

// NewLoggingWrapper wraps inner, naming the trigger triggerName and
// emitting events to sink.
func NewLoggingWrapper[T any](inner AnyOp[T], triggerName string, sink TraceSink) *LoggingWrapper[T] {
	if sink == nil {
		sink = NoopSink{}
	}
	return &LoggingWrapper[T]{inner: inner, triggerName: triggerName, sink: sink}
}

// NewContextAwareLoggingWrapper names the trigger for the call site that
// invoked it, via createContextAwareLogger.
func NewContextAwareLoggingWrapper[T any](inner AnyOp[T], sink TraceSink) *LoggingWrapper[T] {
	return NewLoggingWrapper(inner, createContextAwareLogger(), sink)
}

// Metadata implements Op.
func (l *LoggingWrapper[T]) Metadata() OpMetadata {
	return l.inner.Metadata()
}

// Rollback implements Op by delegating to the wrapped op.
func (l *LoggingWrapper[T]) Rollback(ctx context.Context, dry *DryContext, wet *WetContext) error {
	return l.inner.Rollback(ctx, dry, wet)
}

// Perform implements Op, emitting start/success/failure trace events
// around the wrapped op's Perform.
func (l *LoggingWrapper[T]) Perform(ctx context.Context, dry *DryContext, wet *WetContext) (T, error) {
	name := l.inner.Name()
	if name == "" {
		name = l.inner.Metadata().Name
	}

	l.sink.Emit(TraceEvent{Message: fmt.Sprintf("Starting op: %s", name), Level: TraceInfo})

	start := time.Now()
	result, err := l.inner.Perform(ctx, dry, wet)
	elapsed := time.Since(start)

	if err != nil {
		l.sink.Emit(TraceEvent{
			Message: fmt.Sprintf("Op '%s' failed after %.3f seconds: %s", name, elapsed.Seconds(), err.Error()),
			Level:   TraceError,
		})
		if isLoopContinue(err) || isLoopBreak(err) {
			return result, err
		}
		var zero T
		return zero, wrapNestedOpException(l.triggerName, NewExecutionFailed(err.Error()))
	}

	l.sink.Emit(TraceEvent{
		Message: fmt.Sprintf("Op '%s' completed in %.3f seconds", name, elapsed.Seconds()),
		Level:   TraceInfo,
	})
	return result, nil
}
