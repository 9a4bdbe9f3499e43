package ops

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// OpConstructor builds a fresh AnyOp[T] instance, e.g. from a node
// description loaded out of a config file or a persisted run.
type OpConstructor[T any] func() AnyOp[T]

// OpRegistry is a registry of named op constructors that can be used
// across multiple batches/loops, generalizing the teacher's
// ActionRegistry[T,S] (itself xsync.MapOf-backed) to this package's
// name-erased Op contract.
type OpRegistry[T any] struct {
	ctors *xsync.MapOf[string, OpConstructor[T]]
}

// NewOpRegistry creates an empty OpRegistry.
func NewOpRegistry[T any]() *OpRegistry[T] {
	return &OpRegistry[T]{ctors: xsync.NewMapOf[string, OpConstructor[T]]()}
}

// Register adds a constructor under name. Registering the same name twice
// is an error.
func (r *OpRegistry[T]) Register(name string, ctor OpConstructor[T]) error {
	if _, loaded := r.ctors.LoadOrStore(name, ctor); loaded {
		return fmt.Errorf("op with name '%s' already registered", name)
	}
	return nil
}

// Build looks up name and invokes its constructor, or returns a
// not-found error.
func (r *OpRegistry[T]) Build(name string) (AnyOp[T], error) {
	ctor, ok := r.ctors.Load(name)
	if !ok {
		var zero AnyOp[T]
		return zero, fmt.Errorf("op not found: %s", name)
	}
	return ctor(), nil
}

// Names returns a snapshot of the currently registered op names.
func (r *OpRegistry[T]) Names() []string {
	names := make([]string, 0, r.ctors.Size())
	r.ctors.Range(func(name string, _ OpConstructor[T]) bool {
		names = append(names, name)
		return true
	})
	return names
}
