package core

import (
	"reflect"
	"strings"

	"github.com/kat-co/vala"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ValueOr returns `s` trimmed, or `def` when `s` is blank.
func ValueOr(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// NotNil is a vala.Checker like vala.IsNotNil that also accepts values which cannot be nil
// (structs, strings...) instead of panicking on them.
func NotNil(obtained interface{}, paramName string) vala.Checker {
	return func() (bool, string) {
		ok := obtained != nil
		if ok {
			switch v := reflect.ValueOf(obtained); v.Kind() {
			case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
				ok = !v.IsNil()
			}
		}
		return ok, "Parameter was nil: " + paramName
	}
}
