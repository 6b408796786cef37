// Package nilcheck reports nil-ness of interface values, typed nils included.
package nilcheck

import "reflect"

// Interface reports whether value is nil or an interface holding a nil
// pointer, slice, map, channel, or func.
func Interface(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}

	return false
}
