// Package validation turns untyped request bodies into validated entities.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"artlink/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

type presenceKey struct{}

// Validator returns the shared validator. Field errors are reported under their JSON names.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return jsonName(fld)
		})
		// present: the key was supplied (an empty string is a value). Without
		// key information the value was built in code and counts as supplied.
		_ = v.RegisterValidationCtx("present", func(ctx context.Context, fl validator.FieldLevel) bool {
			keys, ok := ctx.Value(presenceKey{}).(map[string]bool)
			if !ok {
				return true
			}
			return keys[fl.FieldName()]
		}, true)
		instance = v
	})
	return instance
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Decode reads a JSON object into dst, which should already hold the entity
// defaults, and validates the result. Each field is decoded on its own so that
// every type mismatch is reported, not just the first. Unknown fields and the
// document id are ignored. Every failing field is reported in a single
// VALIDATION_ERROR.
func Decode(body []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		msg := "expected a JSON object"
		if err != nil {
			msg = err.Error()
		}
		return models.NewValidationError("Request body must be a JSON object", models.FieldError{
			Field:   "body",
			Message: msg,
		})
	}

	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: Decode needs a pointer to a struct, got %T", dst)
	}
	fields, present := decodeFields(raw, target.Elem())

	if n, ok := dst.(models.Normalizer); ok {
		n.Normalize()
	}

	fields = mergeFields(fields, structFields(withPresence(context.Background(), present), dst, ""))
	if len(fields) > 0 {
		return models.NewValidationError("Invalid input", fields...)
	}
	return nil
}

// decodeFields sets each supplied field of v and returns the type errors and
// the set of keys that carry a value.
func decodeFields(raw map[string]json.RawMessage, v reflect.Value) ([]models.FieldError, map[string]bool) {
	var fields []models.FieldError
	present := make(map[string]bool, len(raw))

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		msg, ok := raw[name]
		if name == "" || !ok {
			continue
		}
		fv := v.Field(i)

		if isNull(msg) {
			switch fv.Kind() {
			case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
				fv.SetZero()
				present[name] = true
			default:
				if !hasRule(sf, "present") {
					fields = append(fields, models.FieldError{
						Field:   name,
						Message: fmt.Sprintf("must be of type %s, got null", typeName(sf.Type)),
					})
				}
			}
			continue
		}

		present[name] = true
		decoded := reflect.New(sf.Type)
		if err := json.Unmarshal(msg, decoded.Interface()); err != nil {
			fields = append(fields, typeError(name, sf.Type, err))
			continue
		}
		fv.Set(decoded.Elem())
	}
	return fields, present
}

func isNull(msg json.RawMessage) bool {
	return string(bytes.TrimSpace(msg)) == "null"
}

func hasRule(sf reflect.StructField, rule string) bool {
	for _, r := range strings.Split(sf.Tag.Get("validate"), ",") {
		if r == rule {
			return true
		}
	}
	return false
}

func typeError(name string, t reflect.Type, err error) models.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return models.FieldError{
			Field:   name,
			Message: fmt.Sprintf("must be of type %s, got %s", typeName(t), typeErr.Value),
		}
	}
	return models.FieldError{
		Field:   name,
		Message: fmt.Sprintf("must be of type %s", typeName(t)),
	}
}

func withPresence(ctx context.Context, keys map[string]bool) context.Context {
	return context.WithValue(ctx, presenceKey{}, keys)
}

// Struct validates v. Field paths are prefixed with prefix, e.g. "items[2]".
func Struct(v any, prefix string) error {
	return fieldsError(structFields(context.Background(), v, prefix))
}

// StructKeys validates v like Struct. keys lists the input keys that carried
// a value, so that "present" fields missing from it are reported as required.
func StructKeys(v any, prefix string, keys map[string]bool) error {
	return fieldsError(structFields(withPresence(context.Background(), keys), v, prefix))
}

func fieldsError(fields []models.FieldError) error {
	if len(fields) > 0 {
		return models.NewValidationError("Invalid input", fields...)
	}
	return nil
}

func structFields(ctx context.Context, v any, prefix string) []models.FieldError {
	err := Validator().StructCtx(ctx, v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Field: prefix, Message: err.Error()}}
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Field:   joinPath(prefix, trimRoot(fe.Namespace())),
			Message: message(fe),
		})
	}
	return out
}

// mergeFields appends extra, skipping fields that already have an error.
func mergeFields(fields, extra []models.FieldError) []models.FieldError {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		seen[f.Field] = struct{}{}
	}
	for _, f := range extra {
		if _, dup := seen[f.Field]; dup {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func trimRoot(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func joinPath(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		if t.String() == "time.Time" {
			return "datetime"
		}
		return "object"
	default:
		return t.String()
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "present":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "http_url", "url":
		return "must be an absolute http(s) URL"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
