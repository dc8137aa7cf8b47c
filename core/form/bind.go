package form

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// DefaultMaxMemory is the memory budget for multipart parsing; larger parts spill to disk.
const DefaultMaxMemory = 10 << 20

// Bind decodes a urlencoded or multipart form into v.
//
// Struct tags:
//   - `form:"name"` binds the form field "name"
//   - `file:"name"` binds the uploaded file "name" to a *multipart.FileHeader
//   - `form:"-"` skips the field
//
// Supported field types are string, bool, the int and float kinds, and
// slices of those for multi-value fields.
func Bind(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}

	var (
		values map[string][]string
		files  map[string][]*multipart.FileHeader
	)
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
		}
		values = r.PostForm
	case "multipart/form-data":
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
		}
		values = r.MultipartForm.Value
		files = r.MultipartForm.File
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	return bindValues(v, values, files)
}

func bindValues(v any, values map[string][]string, files map[string][]*multipart.FileHeader) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		if name := tagName(sf, "form"); name != "" {
			if vals := values[name]; len(vals) > 0 {
				if err := setField(field, vals); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrFailedToParseForm, name, err)
				}
			}
		}

		if name := tagName(sf, "file"); name != "" && files != nil {
			if fhs := files[name]; len(fhs) > 0 && sf.Type == reflect.TypeFor[*multipart.FileHeader]() {
				fh := fhs[0]
				fh.Filename = filepath.Base(strings.ReplaceAll(fh.Filename, `\`, "/"))
				field.Set(reflect.ValueOf(fh))
			}
		}
	}
	return nil
}

func tagName(sf reflect.StructField, key string) string {
	tag := sf.Tag.Get(key)
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

func setField(field reflect.Value, vals []string) error {
	if field.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(field.Type(), len(vals), len(vals))
		for i, s := range vals {
			if err := setScalar(slice.Index(i), s); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}
	return setScalar(field, vals[0])
}

func setScalar(field reflect.Value, s string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		if s == "" || s == "on" {
			field.SetBool(s == "on")
			return nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
