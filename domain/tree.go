package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
)

// DecodeTree reads one JSON object from r into an untyped tree. Numbers are
// kept as json.Number so integer fields do not lose precision.
func DecodeTree(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode json object: %w", err)
	}
	return tree, nil
}

func decodeTreeBytes(data []byte) (map[string]any, error) {
	return DecodeTree(bytes.NewReader(data))
}

func lookup(m map[string]any, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, apperrors.MissingField(key)
	}
	return v, nil
}

func getString(m map[string]any, key string) (string, error) {
	v, err := lookup(m, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.InvalidType(key, "string", v)
	}
	return s, nil
}

func getOptString(m map[string]any, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperrors.InvalidType(key, "string", v)
	}
	return &s, nil
}

func getBool(m map[string]any, key string) (bool, error) {
	v, err := lookup(m, key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, apperrors.InvalidType(key, "bool", v)
	}
	return b, nil
}

func getInt(m map[string]any, key string) (int64, error) {
	v, err := lookup(m, key)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, apperrors.InvalidType(key, "integer", v)
	}
	return n, nil
}

func getOptInt(m map[string]any, key string) (*int64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil, apperrors.InvalidType(key, "integer", v)
	}
	return &n, nil
}

func getFloat(m map[string]any, key string) (float64, error) {
	v, err := lookup(m, key)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat64(v)
	if !ok {
		return 0, apperrors.InvalidType(key, "number", v)
	}
	return f, nil
}

func getOptFloat(m map[string]any, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := toFloat64(v)
	if !ok {
		return nil, apperrors.InvalidType(key, "number", v)
	}
	return &f, nil
}

func getObject(m map[string]any, key string) (map[string]any, error) {
	v, err := lookup(m, key)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.InvalidType(key, "object", v)
	}
	return obj, nil
}

// getList returns the elements of a required array. A null value yields a nil
// slice so that a nil Go slice survives a round trip.
func getList(m map[string]any, key string) ([]any, error) {
	v, err := lookup(m, key)
	if err != nil {
		return nil, err
	}
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []any:
		if list == nil {
			return nil, nil
		}
		return list, nil
	case []map[string]any:
		if list == nil {
			return nil, nil
		}
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out, nil
	case []string:
		if list == nil {
			return nil, nil
		}
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out, nil
	default:
		return nil, apperrors.InvalidType(key, "array", v)
	}
}

func getStrings(m map[string]any, key string) ([]string, error) {
	list, err := getList(m, key)
	if err != nil || list == nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, apperrors.InvalidType(fmt.Sprintf("%s[%d]", key, i), "string", item)
		}
		out[i] = s
	}
	return out, nil
}

// getRecords decodes every element of a required array of objects with conv.
func getRecords[T any](m map[string]any, key string, conv func(map[string]any) (T, error)) ([]T, error) {
	list, err := getList(m, key)
	if err != nil || list == nil {
		return nil, err
	}
	out := make([]T, len(list))
	for i, item := range list {
		index := "[" + strconv.Itoa(i) + "]"
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, apperrors.InvalidType(key+index, "object", item)
		}
		rec, err := conv(obj)
		if err != nil {
			return nil, apperrors.Nest(apperrors.Nest(err, index), key)
		}
		out[i] = rec
	}
	return out, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		if i, ok := toInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
