package vskema

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	json "github.com/goccy/go-json"
)

// Plain returns a deep copy of v built only from map[string]any, []any and
// scalars. Structs and typed containers go through a JSON round trip, so
// their json tags decide the keys. The copy is owned by the caller.
func Plain(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, json.Number, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			pe, err := Plain(e)
			if err != nil {
				return nil, err
			}
			out[k] = pe
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			pe, err := Plain(e)
			if err != nil {
				return nil, err
			}
			out[i] = pe
		}
		return out, nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return *t, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Plain(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				pe, err := Plain(iter.Value().Interface())
				if err != nil {
					return nil, err
				}
				out[iter.Key().String()] = pe
			}
			return out, nil
		}
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() != reflect.Uint8 {
			out := make([]any, rv.Len())
			for i := range out {
				pe, err := Plain(rv.Index(i).Interface())
				if err != nil {
					return nil, err
				}
				out[i] = pe
			}
			return out, nil
		}
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return viaJSON(v)
}

func viaJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("vskema: normalize %T: %w", v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("vskema: normalize %T: %w", v, err)
	}
	return out, nil
}

// IsEmpty reports whether v counts as missing: nil, "", an empty slice or
// an empty map.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}

// IsMissing is the presence test engines use for required and optional
// fields: nil, "" or an empty array. An empty object is present.
func IsMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}
