package ops

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the variant of an OpError.
type ErrorKind int

const (
	// ExecutionFailed indicates an op's ordinary business logic failed.
	ExecutionFailed ErrorKind = iota
	// Timeout indicates a TimeBoundWrapper deadline was exceeded.
	Timeout
	// Context indicates a DryContext/WetContext or validation error.
	Context
	// BatchFailed indicates a BatchOp failed after rolling back.
	BatchFailed
	// Aborted indicates cooperative cancellation via the abort flag.
	Aborted
	// Trigger indicates a trigger error built with NewTrigger; the wrappers
	// in this package do not produce it themselves.
	Trigger
	// Other wraps an error this taxonomy doesn't otherwise model.
	Other

	// loopContinue and loopBreak are internal control signals. LoopOp must
	// catch both; any other catcher must rethrow them unchanged.
	loopContinue
	loopBreak
)

// OpError is the unified failure type returned by every Op. Two of its
// variants (loopContinue, loopBreak) are internal control signals and must
// never escape a LoopOp.
type OpError struct {
	Kind   ErrorKind
	Msg    string
	Millis int64
	Reason string
	Wrapped error
}

// Error implements the error interface with the display strings fixed by
// the specification.
func (e *OpError) Error() string {
	switch e.Kind {
	case ExecutionFailed:
		return fmt.Sprintf("Op execution failed: %s", e.Msg)
	case Timeout:
		return fmt.Sprintf("Op timeout after %dms", e.Millis)
	case Context:
		return fmt.Sprintf("Context error: %s", e.Msg)
	case BatchFailed:
		return fmt.Sprintf("Batch op failed: %s", e.Msg)
	case Aborted:
		return fmt.Sprintf("Op aborted: %s", e.Reason)
	case Trigger:
		return fmt.Sprintf("Trigger error: %s", e.Msg)
	case loopContinue:
		return "Loop continue"
	case loopBreak:
		return "Loop break"
	default:
		if e.Wrapped != nil {
			return e.Wrapped.Error()
		}
		return e.Msg
	}
}

// Unwrap exposes the wrapped error (used by Other) to errors.Is/errors.As.
func (e *OpError) Unwrap() error {
	return e.Wrapped
}

// Is supports errors.Is by comparing kind only; payloads (message, millis,
// reason) are not compared.
func (e *OpError) Is(target error) bool {
	other, ok := target.(*OpError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// NewExecutionFailed constructs an ExecutionFailed OpError.
func NewExecutionFailed(msg string) error {
	return &OpError{Kind: ExecutionFailed, Msg: msg}
}

// NewTimeout constructs a Timeout OpError for the given millisecond budget.
func NewTimeout(ms int64) error {
	return &OpError{Kind: Timeout, Millis: ms}
}

// NewContextError constructs a Context OpError.
func NewContextError(msg string) error {
	return &OpError{Kind: Context, Msg: msg}
}

// NewBatchFailed constructs a BatchFailed OpError.
func NewBatchFailed(msg string) error {
	return &OpError{Kind: BatchFailed, Msg: msg}
}

// NewAborted constructs an Aborted OpError with the given reason. An empty
// reason is rendered as "Operation aborted".
func NewAborted(reason string) error {
	if reason == "" {
		reason = "Operation aborted"
	}
	return &OpError{Kind: Aborted, Reason: reason}
}

// NewTrigger constructs a Trigger OpError.
func NewTrigger(msg string) error {
	return &OpError{Kind: Trigger, Msg: msg}
}

// NewOther wraps an arbitrary error that doesn't fit the named variants.
func NewOther(err error) error {
	return &OpError{Kind: Other, Wrapped: err}
}

func newLoopContinue() error { return &OpError{Kind: loopContinue} }
func newLoopBreak() error    { return &OpError{Kind: loopBreak} }

// isLoopContinue reports whether err is the internal loop-continue signal.
func isLoopContinue(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Kind == loopContinue
}

// isLoopBreak reports whether err is the internal loop-break signal.
func isLoopBreak(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Kind == loopBreak
}

// AsAborted reports whether err is an Aborted OpError and returns its
// reason.
func AsAborted(err error) (string, bool) {
	var oe *OpError
	if errors.As(err, &oe) && oe.Kind == Aborted {
		return oe.Reason, true
	}
	return "", false
}

// wrapNestedOpException rewrites err's message to embed the enclosing op's
// name, preserving its variant. Timeout and Aborted errors keep their
// display text unchanged (the name is not shown), loop control signals are
// returned as is, and an Other or non-OpError err becomes ExecutionFailed.
func wrapNestedOpException(name string, err error) error {
	var oe *OpError
	if !errors.As(err, &oe) {
		return NewExecutionFailed(fmt.Sprintf("%s: %s", name, err.Error()))
	}

	switch oe.Kind {
	case ExecutionFailed:
		return NewExecutionFailed(fmt.Sprintf("%s: %s", name, oe.Msg))
	case Timeout:
		return &OpError{Kind: Timeout, Millis: oe.Millis, Msg: name}
	case Context:
		return NewContextError(fmt.Sprintf("%s: %s", name, oe.Msg))
	case BatchFailed:
		return NewBatchFailed(fmt.Sprintf("%s: %s", name, oe.Msg))
	case Aborted:
		return NewAborted(oe.Reason)
	case Trigger:
		return NewTrigger(fmt.Sprintf("%s: %s", name, oe.Msg))
	case loopContinue, loopBreak:
		return err
	default:
		return NewExecutionFailed(fmt.Sprintf("%s: Runtime error: %s", name, err.Error()))
	}
}

// wrapRuntimeException converts an arbitrary error (e.g. a recovered panic)
// into an ExecutionFailed OpError with a "Runtime error:" prefix.
func wrapRuntimeException(err error) error {
	return NewExecutionFailed(fmt.Sprintf("Runtime error: %s", err.Error()))
}
