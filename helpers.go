package ops

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// DryPut stores v under k in dry. It is a thin, intention-revealing
// alias over DryContext.Insert for use inside op bodies.
func DryPut(dry *DryContext, k string, v any) {
	dry.Insert(v, k)
}

// DryGet retrieves the value at k decoded into T.
func DryGet[T any](dry *DryContext, k string) (T, error) {
	return Get[T](dry, k)
}

// DryRequire retrieves the value at k decoded into T, failing with a
// Context error if absent or mismatched.
func DryRequire[T any](dry *DryContext, k string) (T, error) {
	return GetRequired[T](dry, k)
}

// DryResult stores v under both opName and the well-known "result" key,
// matching the convention used by ops that want their latest output
// addressable generically as well as by name.
func DryResult(dry *DryContext, v any, opName string) {
	dry.Insert(v, opName)
	dry.Insert(v, "result")
}

// WetPutRef stores v under k in wet.
func WetPutRef(wet *WetContext, k string, v any) {
	wet.PutRef(k, v)
}

// WetRequireRefT retrieves the reference at k asserted to type T.
func WetRequireRefT[T any](wet *WetContext, k string) (T, error) {
	return WetRequireRef[T](wet, k)
}

// Abort sets dry's abort flag and returns the corresponding Aborted
// OpError. An empty reason becomes "Operation aborted".
func Abort(dry *DryContext, reason string) error {
	if reason == "" {
		reason = "Operation aborted"
	}
	dry.SetAbort(reason)
	return NewAborted(reason)
}

// CheckAbort returns an Aborted OpError if dry's abort flag is set, else
// nil.
func CheckAbort(dry *DryContext) error {
	if dry.IsAborted() {
		return NewAborted(dry.AbortReason())
	}
	return nil
}

// continueVarKey and breakVarKey compute the well-known per-loop flag keys
// from a loop id.
func continueVarKey(loopID string) string { return fmt.Sprintf("__continue_loop_%s", loopID) }
func breakVarKey(loopID string) string    { return fmt.Sprintf("__break_loop_%s", loopID) }

// currentLoopID reads the well-known "__current_loop_id" key, returning ""
// if unset or of the wrong type.
func currentLoopID(dry *DryContext) string {
	id, err := Get[string](dry, "__current_loop_id")
	if err != nil {
		return ""
	}
	return id
}

// ContinueLoop sets the enclosing loop's continue flag and returns the
// internal loopContinue control signal. It determines the enclosing loop
// from dry's "__current_loop_id" key, which LoopOp maintains; if no loop
// is active the flag write is skipped but the signal is still returned.
// Composite operators and wrappers other than LoopOp pass it through
// unchanged.
func ContinueLoop(dry *DryContext) error {
	if id := currentLoopID(dry); id != "" {
		dry.Insert(true, continueVarKey(id))
	}
	return newLoopContinue()
}

// BreakLoop is the whole-loop-terminating counterpart of ContinueLoop.
func BreakLoop(dry *DryContext) error {
	if id := currentLoopID(dry); id != "" {
		dry.Insert(true, breakVarKey(id))
	}
	return newLoopBreak()
}

// callerName captures the "{filenameWithoutExt}::{line}" location of the
// stack frame skip levels above callerName itself (skip=2 is the site that
// invoked callerName's caller, e.g. the caller of Perform), matching the
// caller-name format fixed in the specification.
func callerName(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown::0"
	}
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s::%d", base, line)
}

// createContextAwareLogger returns a trigger name derived from the source
// location of its caller's caller (the code that called
// NewContextAwareLoggingWrapper), for use as the LoggingWrapper name when
// the caller doesn't want to name the op explicitly.
func createContextAwareLogger() string {
	return callerName(3)
}

// Perform is a façade that wraps op with a LoggingWrapper named for the
// call site and runs it. It's meant for ad hoc invocation of a single op
// outside of a BatchOp/LoopOp.
func Perform[T any](ctx context.Context, op AnyOp[T], dry *DryContext, wet *WetContext) (T, error) {
	name := callerName(2)
	wrapped := Wrap[T](NewLoggingWrapper(op, name, defaultTraceSink()))
	return wrapped.Perform(ctx, dry, wet)
}
