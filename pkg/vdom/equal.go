package vdom

import "reflect"

// DeepEqual reports whether two prop values are structurally equal.
//
// Primitives compare by value, with all Go numeric types treated as one
// number type. Maps are equal when they hold the same key set and every
// value is recursively equal. Slices and arrays compare element by element.
// Pointers are equal when they are identical or point at equal values.
// Two functions of the same type are equal, so a re-rendered handler does
// not force a replace. The update path installs the new handler.
func DeepEqual(a, b any) bool {
	return deepEqual(reflect.ValueOf(a), reflect.ValueOf(b), 0)
}

// maxDepth bounds recursion on self-referencing values.
const maxDepth = 64

func deepEqual(a, b reflect.Value, depth int) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if depth > maxDepth {
		return false
	}

	// Unwrap interfaces so map[string]any values compare by content.
	for a.Kind() == reflect.Interface {
		if a.IsNil() {
			return b.Kind() == reflect.Interface && b.IsNil()
		}
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface {
		if b.IsNil() {
			return false
		}
		b = b.Elem()
	}

	if isNumber(a.Kind()) && isNumber(b.Kind()) {
		return numbersEqual(a, b)
	}

	switch a.Kind() {
	case reflect.String:
		return b.Kind() == reflect.String && a.String() == b.String()

	case reflect.Bool:
		return b.Kind() == reflect.Bool && a.Bool() == b.Bool()

	case reflect.Map:
		if b.Kind() != reflect.Map {
			return false
		}
		// A nil map reads as empty, so nil Props and Props{} are equal.
		if a.IsNil() || b.IsNil() {
			return a.Len() == 0 && b.Len() == 0
		}
		if a.UnsafePointer() == b.UnsafePointer() {
			return true
		}
		if a.Len() != b.Len() {
			return false
		}
		if a.Type().Key() != b.Type().Key() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() {
				return false
			}
			if !deepEqual(iter.Value(), bv, depth+1) {
				return false
			}
		}
		return true

	case reflect.Slice, reflect.Array:
		if b.Kind() != reflect.Slice && b.Kind() != reflect.Array {
			return false
		}
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !deepEqual(a.Index(i), b.Index(i), depth+1) {
				return false
			}
		}
		return true

	case reflect.Pointer:
		if b.Kind() != reflect.Pointer {
			return false
		}
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		return deepEqual(a.Elem(), b.Elem(), depth+1)

	case reflect.Func:
		return b.Kind() == reflect.Func && a.Type() == b.Type() && a.IsNil() == b.IsNil()

	case reflect.Struct:
		if a.Type() != b.Type() {
			return false
		}
		for i := 0; i < a.NumField(); i++ {
			if !a.Type().Field(i).IsExported() {
				continue
			}
			if !deepEqual(a.Field(i), b.Field(i), depth+1) {
				return false
			}
		}
		return true

	default:
		if a.Type() != b.Type() || !a.Type().Comparable() {
			return false
		}
		return a.Interface() == b.Interface()
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numbersEqual(a, b reflect.Value) bool {
	switch {
	case a.CanInt() && b.CanInt():
		return a.Int() == b.Int()
	case a.CanUint() && b.CanUint():
		return a.Uint() == b.Uint()
	case a.CanInt() && b.CanUint():
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	case a.CanUint() && b.CanInt():
		return b.Int() >= 0 && a.Uint() == uint64(b.Int())
	default:
		return toFloat(a) == toFloat(b)
	}
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
