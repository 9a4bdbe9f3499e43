package ops

import "context"

// PerformFunc is the function-typed shape of Op.Perform.
type PerformFunc[T any] func(ctx context.Context, dry *DryContext, wet *WetContext) (T, error)

// RollbackFunc is the function-typed shape of Op.Rollback.
type RollbackFunc func(ctx context.Context, dry *DryContext, wet *WetContext) error

// FuncOp is an Op implementation backed by ordinary functions, for callers
// who don't want to declare a named type per op.
type FuncOp[T any] struct {
	name     string
	meta     OpMetadata
	perform  PerformFunc[T]
	rollback RollbackFunc
}

// NewFuncOp constructs a FuncOp from a perform function and an optional
// rollback function (nil means no-op).
func NewFuncOp[T any](name string, perform PerformFunc[T], rollback RollbackFunc) *FuncOp[T] {
	if rollback == nil {
		rollback = func(context.Context, *DryContext, *WetContext) error { return nil }
	}
	return &FuncOp[T]{
		name:     name,
		meta:     OpMetadata{Name: name},
		perform:  perform,
		rollback: rollback,
	}
}

// NewFuncOpWithMetadata is like NewFuncOp but lets the caller supply full
// metadata (schemas included) instead of just a name.
func NewFuncOpWithMetadata[T any](meta OpMetadata, perform PerformFunc[T], rollback RollbackFunc) *FuncOp[T] {
	if rollback == nil {
		rollback = func(context.Context, *DryContext, *WetContext) error { return nil }
	}
	return &FuncOp[T]{name: meta.Name, meta: meta, perform: perform, rollback: rollback}
}

// Perform implements Op.
func (f *FuncOp[T]) Perform(ctx context.Context, dry *DryContext, wet *WetContext) (T, error) {
	return f.perform(ctx, dry, wet)
}

// Metadata implements Op.
func (f *FuncOp[T]) Metadata() OpMetadata {
	return f.meta
}

// Rollback implements Op.
func (f *FuncOp[T]) Rollback(ctx context.Context, dry *DryContext, wet *WetContext) error {
	return f.rollback(ctx, dry, wet)
}
