// Package sanitize narrows untrusted request data before handlers see
// it. It removes query-operator style keys and neutralizes characters
// that are significant to injection attacks. Sanitization never fails.
package sanitize

import (
	"net/url"
	"reflect"
	"strings"
)

var valueReplacer = strings.NewReplacer(
	"$", "",
	"<", "&lt;",
	">", "&gt;",
)

// String strips operator characters and HTML-escapes angle brackets.
func String(s string) string {
	return valueReplacer.Replace(s)
}

// unsafeKey reports whether a key looks like a query operator or a
// dotted field path.
func unsafeKey(key string) bool {
	return strings.HasPrefix(key, "$") || strings.Contains(key, ".")
}

// Values sanitizes a query-string map in place. Operator keys are
// dropped entirely; every remaining value is narrowed with String.
func Values(values url.Values) {
	for key, vals := range values {
		if unsafeKey(key) {
			delete(values, key)
			continue
		}

		for i, v := range vals {
			vals[i] = String(v)
		}
	}
}

// Map sanitizes decoded JSON objects in place, recursing into nested
// objects and arrays.
func Map(m map[string]any) {
	for key, val := range m {
		if unsafeKey(key) {
			delete(m, key)
			continue
		}

		m[key] = value(val)
	}
}

func value(v any) any {
	switch t := v.(type) {
	case string:
		return String(t)
	case map[string]any:
		Map(t)
		return t
	case []any:
		for i, e := range t {
			t[i] = value(e)
		}
		return t
	default:
		return v
	}
}

// Struct walks an already-decoded input struct and narrows every
// settable string field, including strings reached through pointers,
// slices and nested structs. v must be a pointer.
func Struct(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}

	walk(rv.Elem())
}

func walk(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(String(rv.String()))
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			walk(rv.Elem())
		}
	case reflect.Struct:
		for i := range rv.NumField() {
			walk(rv.Field(i))
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			walk(rv.Index(i))
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return
		}
		if rv.Type().Elem().Kind() != reflect.Interface {
			return
		}
		if m, ok := rv.Interface().(map[string]any); ok {
			Map(m)
		}
	}
}
