package ops

import (
	"encoding/json"
	"fmt"
	"sync"
)

// ControlFlags carries the cooperative-cancellation state shared by the
// composite operators.
type ControlFlags struct {
	Aborted     bool
	AbortReason string
}

// DryContext is a process-local, thread-safe mapping from string keys to
// JSON-compatible values, plus a set of control flags. Values are
// canonicalized to a JSON value tree at insertion time so that round
// tripping through the store yields a stable representation.
type DryContext struct {
	mu     sync.Mutex
	values map[string]any
	flags  ControlFlags
}

// NewDryContext creates an empty DryContext.
func NewDryContext() *DryContext {
	return &DryContext{values: make(map[string]any)}
}

// Insert stores v under k, canonicalizing it to a JSON value tree. A value
// that cannot be serialized is a programmer error and panics rather than
// being silently accepted.
func (d *DryContext) Insert(v any, k string) {
	canon, err := canonicalize(v)
	if err != nil {
		panic(fmt.Sprintf("DryContext.Insert: value for key %q is not serializable: %v", k, err))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[k] = canon
}

// With is the builder-style form of Insert; it returns d for chaining.
func (d *DryContext) With(v any, k string) *DryContext {
	d.Insert(v, k)
	return d
}

// Contains reports whether a value is present for k.
func (d *DryContext) Contains(k string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.values[k]
	return ok
}

// Keys returns a snapshot of the currently stored keys.
func (d *DryContext) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	return keys
}

// Get retrieves the value at k decoded into T. It returns (zero, nil) if
// the key is absent, and a type-mismatch error if the stored JSON shape
// cannot be decoded into T.
func Get[T any](d *DryContext, k string) (T, error) {
	var zero T

	d.mu.Lock()
	raw, ok := d.values[k]
	d.mu.Unlock()

	if !ok {
		return zero, nil
	}
	return decodeInto[T](k, raw)
}

// GetRequired retrieves the value at k decoded into T, or a Context error
// distinguishing "not found" from "type mismatch".
func GetRequired[T any](d *DryContext, k string) (T, error) {
	var zero T

	d.mu.Lock()
	raw, ok := d.values[k]
	d.mu.Unlock()

	if !ok {
		return zero, NewContextError(fmt.Sprintf("Required dry context key '%s' not found", k))
	}
	return decodeInto[T](k, raw)
}

// decodeInto decodes a canonicalized JSON value into T, reporting a
// type-mismatch error in the specified format on failure.
func decodeInto[T any](k string, raw any) (T, error) {
	var zero T

	data, err := json.Marshal(raw)
	if err != nil {
		return zero, NewContextError(fmt.Sprintf("Type mismatch for dry context key '%s': expected '%T', but found '%s' value: %v", k, zero, jsonKind(raw), raw))
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, NewContextError(fmt.Sprintf("Type mismatch for dry context key '%s': expected '%T', but found '%s' value: %v", k, zero, jsonKind(raw), raw))
	}
	return out, nil
}

// jsonKind names the JSON shape of a decoded value, one of
// {null,boolean,number,string,array,object}.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "object"
	}
}

// canonicalize round-trips v through JSON so the stored representation is
// stable regardless of the concrete Go type v was given as.
func canonicalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrInsert returns the current value at k, inserting factory() first if
// absent.
func GetOrInsert[T any](d *DryContext, k string, factory func() T) (T, error) {
	if !d.Contains(k) {
		d.Insert(factory(), k)
	}
	return Get[T](d, k)
}

// GetOrCompute returns the current value at k, computing and inserting
// fn(d, k) first if absent.
func GetOrCompute[T any](d *DryContext, k string, fn func(*DryContext, string) T) (T, error) {
	if !d.Contains(k) {
		d.Insert(fn(d, k), k)
	}
	return Get[T](d, k)
}

// Ensure returns the current value at k, calling the supplied async
// factory first if absent. wet is threaded through so the factory may need
// live references to produce its value.
func Ensure[T any](d *DryContext, k string, wet *WetContext, factory func(*DryContext, *WetContext) (T, error)) (T, error) {
	if d.Contains(k) {
		return Get[T](d, k)
	}
	v, err := factory(d, wet)
	if err != nil {
		var zero T
		return zero, err
	}
	d.Insert(v, k)
	return v, nil
}

// Merge overwrites self's values with other's (last-writer-wins). The
// abort flag does not override an existing abort: it is only copied across
// when self is not already aborted.
func (d *DryContext) Merge(other *DryContext) {
	other.mu.Lock()
	otherValues := make(map[string]any, len(other.values))
	for k, v := range other.values {
		otherValues[k] = v
	}
	otherFlags := other.flags
	other.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range otherValues {
		d.values[k] = v
	}
	if !d.flags.Aborted && otherFlags.Aborted {
		d.flags.Aborted = true
		d.flags.AbortReason = otherFlags.AbortReason
	}
}

// Copy produces an independent clone, including control flags.
func (d *DryContext) Copy() *DryContext {
	d.mu.Lock()
	defer d.mu.Unlock()

	values := make(map[string]any, len(d.values))
	for k, v := range d.values {
		values[k] = v
	}
	return &DryContext{values: values, flags: d.flags}
}

// SetAbort sets the abort flag with an optional reason.
func (d *DryContext) SetAbort(reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flags.Aborted = true
	d.flags.AbortReason = reason
}

// IsAborted reports the current abort flag.
func (d *DryContext) IsAborted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flags.Aborted
}

// AbortReason returns the current abort reason, if any.
func (d *DryContext) AbortReason() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flags.AbortReason
}

// ClearControlFlags resets the abort flag and reason.
func (d *DryContext) ClearControlFlags() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flags = ControlFlags{}
}

// snapshot returns a plain map[string]any copy of the stored values, used
// by ValidatingWrapper to validate against a schema without holding the
// lock during validation.
func (d *DryContext) snapshot() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]any, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}
