// Package pathwalk applies accessor projection steps to arbitrary
// values through reflection.
package pathwalk

import (
	"errors"
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// ErrNotApplicable is returned when a step cannot be applied to the
// value produced by the previous step.
var ErrNotApplicable = errors.New("step not applicable")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Step is one projection step: a named accessor or an index key.
type Step struct {
	name  string
	key   any
	byKey bool
}

// Attr returns a named accessor step. Application tries, in order, a
// niladic method, an exported struct field, and a string map key, each
// under the exact name first and its exported spelling second.
func Attr(name string) Step {
	return Step{name: name}
}

// Key returns an index step. Maps are indexed by the key, slices and
// arrays by integer position.
func Key(key any) Step {
	return Step{key: key, byKey: true}
}

// String renders the step for fault messages.
func (s Step) String() string {
	if s.byKey {
		return fmt.Sprintf("[%v]", s.key)
	}

	return s.name
}

// Walk applies steps left to right to value and returns the final
// result. The first step that cannot be applied stops the walk with an
// error naming that step.
func Walk(value any, steps []Step) (any, error) {
	cur := value

	for i, step := range steps {
		next, err := apply(cur, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}

		cur = next
	}

	return cur, nil
}

func apply(value any, step Step) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("cannot descend into nil: %w", ErrNotApplicable)
	}

	if step.byKey {
		return applyKey(value, step.key)
	}

	return applyAttr(value, step.name)
}

func applyAttr(value any, name string) (any, error) {
	rv := reflect.ValueOf(value)

	for _, candidate := range []string{name, exported(name)} {
		if m := rv.MethodByName(candidate); m.IsValid() {
			return callAccessor(m, candidate)
		}
	}

	elem := indirect(rv)

	if elem.Kind() == reflect.Struct {
		for _, candidate := range []string{name, exported(name)} {
			f := elem.FieldByName(candidate)
			if f.IsValid() && f.CanInterface() {
				return f.Interface(), nil
			}
		}
	}

	if elem.Kind() == reflect.Map && elem.Type().Key().Kind() == reflect.String {
		mv := elem.MapIndex(reflect.ValueOf(name).Convert(elem.Type().Key()))
		if mv.IsValid() {
			return mv.Interface(), nil
		}

		return nil, fmt.Errorf("map has no key %q: %w", name, ErrNotApplicable)
	}

	return nil, fmt.Errorf("no accessor %q on %T: %w", name, value, ErrNotApplicable)
}

// callAccessor invokes a niladic method with one result, or two where
// the second is an error. A non-nil error result propagates as is, so a
// failing accessor is distinguishable from a missing one.
func callAccessor(m reflect.Value, name string) (any, error) {
	t := m.Type()

	if t.NumIn() != 0 {
		return nil, fmt.Errorf("accessor %q takes arguments: %w", name, ErrNotApplicable)
	}

	switch t.NumOut() {
	case 1:
		return m.Call(nil)[0].Interface(), nil
	case 2:
		if !t.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("accessor %q second result is not an error: %w", name, ErrNotApplicable)
		}

		out := m.Call(nil)
		if !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}

		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("accessor %q returns %d values: %w", name, t.NumOut(), ErrNotApplicable)
	}
}

func applyKey(value any, key any) (any, error) {
	elem := indirect(reflect.ValueOf(value))

	switch elem.Kind() {
	case reflect.Map:
		kv := reflect.ValueOf(key)
		if !kv.IsValid() {
			return nil, fmt.Errorf("nil key does not index %T: %w", value, ErrNotApplicable)
		}

		kt := elem.Type().Key()
		if kv.Type() != kt {
			if !kv.Type().ConvertibleTo(kt) {
				return nil, fmt.Errorf("key %v does not index %T: %w", key, value, ErrNotApplicable)
			}

			kv = kv.Convert(kt)
		}

		mv := elem.MapIndex(kv)
		if !mv.IsValid() {
			return nil, fmt.Errorf("map has no key %v: %w", key, ErrNotApplicable)
		}

		return mv.Interface(), nil
	case reflect.Slice, reflect.Array:
		idx, ok := intKey(key)
		if !ok {
			return nil, fmt.Errorf("index %v is not an integer: %w", key, ErrNotApplicable)
		}

		if idx < 0 || idx >= elem.Len() {
			return nil, fmt.Errorf("index %d out of range for length %d: %w", idx, elem.Len(), ErrNotApplicable)
		}

		return elem.Index(idx).Interface(), nil
	default:
		return nil, fmt.Errorf("cannot index %T: %w", value, ErrNotApplicable)
	}
}

func intKey(key any) (int, bool) {
	kv := reflect.ValueOf(key)
	if !kv.IsValid() {
		return 0, false
	}

	switch kv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(kv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(kv.Uint()), true
	default:
		return 0, false
	}
}

// indirect unwraps pointers and interfaces. A nil pointer is returned as
// is so the caller reports it as not applicable.
func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return rv
		}

		rv = rv.Elem()
	}

	return rv
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
