package ops

import (
	"fmt"
	"sync"
)

// WetContext is a thread-safe mapping from string keys to opaque typed
// references (services, connections, handles). Values are never
// serialized and the framework never copies them.
type WetContext struct {
	mu   sync.Mutex
	refs map[string]any
}

// NewWetContext creates an empty WetContext.
func NewWetContext() *WetContext {
	return &WetContext{refs: make(map[string]any)}
}

// PutRef stores v under k.
func (w *WetContext) PutRef(k string, v any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.refs[k] = v
}

// Contains reports whether a reference is present for k.
func (w *WetContext) Contains(k string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.refs[k]
	return ok
}

// Keys returns a snapshot of the currently stored keys.
func (w *WetContext) Keys() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]string, 0, len(w.refs))
	for k := range w.refs {
		keys = append(keys, k)
	}
	return keys
}

// WetGet retrieves the reference at k asserted to type T, distinguishing
// "not found" from "type mismatch".
func WetGet[T any](w *WetContext, k string) (T, error) {
	var zero T

	w.mu.Lock()
	raw, ok := w.refs[k]
	w.mu.Unlock()

	if !ok {
		return zero, NewContextError(fmt.Sprintf("Reference '%s' not found in WetContext", k))
	}

	typed, ok := raw.(T)
	if !ok {
		return zero, NewContextError(fmt.Sprintf("Type mismatch for wet context key '%s': expected '%T', but found '%T'", k, zero, raw))
	}
	return typed, nil
}

// WetRequireRef is an alias for WetGet kept for symmetry with
// DryContext.GetRequired at call sites that want to make the "required"
// intent explicit.
func WetRequireRef[T any](w *WetContext, k string) (T, error) {
	return WetGet[T](w, k)
}

// Merge overwrites self's references with other's.
func (w *WetContext) Merge(other *WetContext) {
	other.mu.Lock()
	otherRefs := make(map[string]any, len(other.refs))
	for k, v := range other.refs {
		otherRefs[k] = v
	}
	other.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	for k, v := range otherRefs {
		w.refs[k] = v
	}
}
