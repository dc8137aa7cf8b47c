package form

import (
	"reflect"
	"strings"
	"unicode"
)

var sanitizers = map[string]func(string) string{
	"trim":  strings.TrimSpace,
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"email": func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	},
	"single_line": func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	},
	"no_control": func(s string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, s)
	},
}

// Sanitize applies `sanitize:"trim,lower"` style tags to the string fields of v.
// Unknown sanitizer names are ignored.
func Sanitize(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		tag := rt.Field(i).Tag.Get("sanitize")
		if tag == "" || tag == "-" || !field.CanSet() || field.Kind() != reflect.String {
			continue
		}

		s := field.String()
		for _, name := range strings.Split(tag, ",") {
			if fn, ok := sanitizers[strings.TrimSpace(name)]; ok {
				s = fn(s)
			}
		}
		field.SetString(s)
	}
	return nil
}
