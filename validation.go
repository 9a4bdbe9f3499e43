package ops

import (
	"fmt"
	"sort"
)

// validationFailure is one leaf violation found while checking a value
// against a Schema, rendered as "/field: <message>" to match the
// specification's error text shape verbatim.
type validationFailure struct {
	pointer string
	message string
}

func (f validationFailure) String() string {
	return fmt.Sprintf("%s: %s", f.pointer, f.message)
}

// validateAgainstSchema checks value's top-level fields against schema,
// covering the spec-required surface: "required" on objects,
// type∈{integer,number,string,boolean}, and minimum/maximum on numbers.
// Any stricter or unrecognized constraint is ignored — a full JSON Schema
// engine is an explicit non-goal (see SPEC_FULL.md §4.10).
func validateAgainstSchema(schema Schema, value map[string]any) []validationFailure {
	var failures []validationFailure

	for _, field := range schema.Required() {
		if _, ok := value[field]; !ok {
			failures = append(failures, validationFailure{
				pointer: "/" + field,
				message: fmt.Sprintf("'%s' is a required property", field),
			})
		}
	}

	props := schema.Properties()
	fieldNames := make([]string, 0, len(props))
	for field := range props {
		fieldNames = append(fieldNames, field)
	}
	sort.Strings(fieldNames)

	for _, field := range fieldNames {
		fieldSchema := props[field]
		v, present := value[field]
		if !present {
			continue
		}
		failures = append(failures, validateFieldConstraints(field, fieldSchema, v)...)
	}

	return failures
}

func validateFieldConstraints(field string, schema Schema, v any) []validationFailure {
	var failures []validationFailure
	pointer := "/" + field

	if t, ok := schema["type"]; ok {
		if !matchesType(t, v) {
			failures = append(failures, validationFailure{
				pointer: pointer,
				message: fmt.Sprintf("expected type '%v' but found %s", t, jsonKind(v)),
			})
		}
	}

	num, isNum := asFloat(v)
	if isNum {
		if min, ok := schema["minimum"]; ok {
			if minF, ok := asFloat(min); ok && num < minF {
				failures = append(failures, validationFailure{
					pointer: pointer,
					message: fmt.Sprintf("%v is less than the minimum of %v", v, min),
				})
			}
		}
		if max, ok := schema["maximum"]; ok {
			if maxF, ok := asFloat(max); ok && num > maxF {
				failures = append(failures, validationFailure{
					pointer: pointer,
					message: fmt.Sprintf("%v exceeds the maximum of %v", v, max),
				})
			}
		}
	}

	return failures
}

func matchesType(t any, v any) bool {
	name, ok := t.(string)
	if !ok {
		return true
	}
	switch name {
	case "integer":
		f, ok := asFloat(v)
		return ok && f == float64(int64(f))
	case "number":
		_, ok := asFloat(v)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	default:
		return true
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// formatFailures joins failures into the "/field: msg, /field: msg, ..."
// tail used by ValidatingWrapper's error messages.
func formatFailures(failures []validationFailure) string {
	out := ""
	for i, f := range failures {
		if i > 0 {
			out += ", "
		}
		out += f.String()
	}
	return out
}
