package logging

import (
	"reflect"
	"runtime/debug"
	"strings"
)

// stackCarrier is implemented by errors that captured their own stack.
type stackCarrier interface {
	Stack() string
}

// errorCoder exposes a machine-readable error code, e.g. dberr.NormalizedError.
type errorCoder interface {
	ErrorCode() string
}

// errorMetaCarrier exposes extra structured detail about an error.
type errorMetaCarrier interface {
	ErrorMeta() any
}

// safeNormalize converts an arbitrary value into error fields. A panic raised
// while inspecting the value (e.g. an Error method on a nil receiver) yields
// an empty result.
func safeNormalize(v any) (fields Fields) {
	defer func() {
		if r := recover(); r != nil {
			fields = nil
		}
	}()
	return normalize(v)
}

func normalize(v any) Fields {
	switch val := v.(type) {
	case nil:
		return nil
	case error:
		return errorFields(val)
	case string:
		return Fields{FieldMessage: val}
	case Fields:
		return val.clone()
	case map[string]any:
		return Fields(val).clone()
	default:
		return structuredFields(val)
	}
}

func errorFields(err error) Fields {
	if isNilValue(err) {
		return nil
	}

	fields := Fields{
		FieldMessage: err.Error(),
		FieldStack:   stackOf(err),
	}

	if code := ErrorCode(err); code != emptyString {
		fields[FieldCode] = code
	}
	if meta, ok := asInChain[errorMetaCarrier](err); ok {
		if m := meta.ErrorMeta(); m != nil {
			fields[FieldMeta] = m
		}
	}

	addErrorChain(fields, err)
	return fields
}

// stackOf returns the stack recorded by the error chain, or the current
// goroutine's stack when no error in the chain carries one.
func stackOf(err error) string {
	if sc, ok := asInChain[stackCarrier](err); ok {
		if s := sc.Stack(); s != emptyString {
			return s
		}
	}
	return string(debug.Stack())
}

// structuredFields shallow-copies the own fields of a map with string keys or
// a struct. Exported struct fields are keyed by their json name when tagged.
func structuredFields(v any) Fields {
	val := reflect.ValueOf(v)

	// Unwrap interfaces and pointers; nil yields nothing.
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil
		}
		out := make(Fields, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			if !iter.Value().CanInterface() {
				continue
			}
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out

	case reflect.Struct:
		typ := val.Type()
		out := make(Fields, val.NumField())
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			fieldVal := val.Field(i)

			// Skip unexported fields
			if !field.IsExported() || !fieldVal.CanInterface() {
				continue
			}

			name := field.Name
			if tag, ok := field.Tag.Lookup("json"); ok {
				tagName, _, _ := strings.Cut(tag, ",")
				if tagName == "-" {
					continue
				}
				if tagName != emptyString {
					name = tagName
				}
			}
			out[name] = fieldVal.Interface()
		}
		return out

	default:
		return nil
	}
}

// isNilValue reports whether v is nil or a typed nil pointer, map, slice,
// func, chan or interface.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return val.IsNil()
	default:
		return false
	}
}
