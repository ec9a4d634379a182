package orchestrator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Sanitize rewrites v into plain values: map[string]any, []any, float64,
// int, int64, uint64, bool, string and nil. Named types are reduced to their
// underlying kind, json.Number to a number and structs to their JSON form.
// NaN and infinities become nil. Plain values pass through untouched, so
// Sanitize(Sanitize(v)) equals Sanitize(v).
func Sanitize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case float64:
		return finite(x)
	case int, int64, uint64, bool, string:
		return x
	}
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Sanitize(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int:
		return int(rv.Int())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32:
		// Go through the decimal form so 0.1 stays 0.1.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return finite(f)
	case reflect.Float64:
		return finite(rv.Float())
	case reflect.String:
		return rv.String()
	case reflect.Slice:
		if rv.IsNil() {
			return []any{}
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Sanitize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = Sanitize(iter.Value().Interface())
		}
		return out
	case reflect.Struct:
		return sanitizeStruct(rv)
	default:
		return fmt.Sprint(rv.Interface())
	}
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func sanitizeStruct(rv reflect.Value) any {
	b, err := json.Marshal(rv.Interface())
	if err != nil {
		return structFields(rv)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return structFields(rv)
	}
	return Sanitize(out)
}

// structFields walks the exported fields under their JSON names. It is the
// fallback for structs encoding/json refuses, such as ones holding NaN.
func structFields(rv reflect.Value) map[string]any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = Sanitize(rv.Field(i).Interface())
	}
	return out
}
