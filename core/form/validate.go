package form

import (
	"fmt"
	"mime/multipart"
	"net/mail"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

type rule func(value reflect.Value, param string) (ok bool, message string)

var rules = map[string]rule{
	"required": func(v reflect.Value, _ string) (bool, string) {
		switch v.Kind() {
		case reflect.String:
			return strings.TrimSpace(v.String()) != "", "Ce champ est obligatoire."
		case reflect.Pointer, reflect.Interface, reflect.Slice:
			return !v.IsNil(), "Ce champ est obligatoire."
		default:
			return !v.IsZero(), "Ce champ est obligatoire."
		}
	},
	"email": func(v reflect.Value, _ string) (bool, string) {
		s := v.String()
		if s == "" {
			return true, ""
		}
		addr, err := mail.ParseAddress(s)
		return err == nil && addr.Address == s, "Adresse email invalide."
	},
	"min": func(v reflect.Value, param string) (bool, string) {
		n, _ := strconv.Atoi(param)
		if isNumber(v) {
			return length(v) >= n, fmt.Sprintf("La valeur doit être au moins %d.", n)
		}
		return length(v) >= n, fmt.Sprintf("Au moins %d caractères.", n)
	},
	"max": func(v reflect.Value, param string) (bool, string) {
		n, _ := strconv.Atoi(param)
		if isNumber(v) {
			return length(v) <= n, fmt.Sprintf("La valeur doit être au plus %d.", n)
		}
		return length(v) <= n, fmt.Sprintf("Au plus %d caractères.", n)
	},
	"in": func(v reflect.Value, param string) (bool, string) {
		s := fmt.Sprint(v.Interface())
		return s == "" || slices.Contains(strings.Split(param, ","), s), "Valeur non autorisée."
	},
	"ext": func(v reflect.Value, param string) (bool, string) {
		fh, ok := v.Interface().(*multipart.FileHeader)
		if !ok || fh == nil {
			return true, ""
		}
		name := strings.ToLower(fh.Filename)
		for _, ext := range strings.Split(param, ",") {
			if strings.HasSuffix(name, "."+strings.TrimPrefix(ext, ".")) {
				return true, ""
			}
		}
		return false, "Type de fichier non autorisé (" + param + ")."
	},
}

func isNumber(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func length(v reflect.Value) int {
	switch v.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(v.String())
	case reflect.Slice, reflect.Map:
		return v.Len()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int())
	default:
		return 0
	}
}

// Validate checks `validate:"required;email;max:255"` tags on v and returns
// ValidationErrors keyed by the field's form name.
func Validate(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	rt := rv.Type()

	var errs ValidationErrors
	for i := range rv.NumField() {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}

		name := tagName(sf, "form")
		if name == "" {
			name = tagName(sf, "file")
		}
		if name == "" {
			name = sf.Name
		}

		for _, raw := range strings.Split(tag, ";") {
			ruleName, param, _ := strings.Cut(strings.TrimSpace(raw), ":")
			fn, ok := rules[ruleName]
			if !ok {
				continue
			}
			if valid, msg := fn(rv.Field(i), param); !valid {
				errs = append(errs, FieldError{Field: name, Rule: ruleName, Message: msg})
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
