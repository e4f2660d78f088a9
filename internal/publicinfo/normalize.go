package publicinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smolensk-traffic/portal/internal/apiclient"
)

var (
	errNotArray  = errors.New("payload is not an array")
	errNotObject = errors.New("payload is not an object")
	errNoKnown   = errors.New("no recognized envelope key or field")
)

// isAbsent reports an empty body, null, or an empty object
func isAbsent(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return true
	}
	return len(t) >= 2 && t[0] == '{' && t[len(t)-1] == '}' &&
		len(bytes.TrimSpace(t[1:len(t)-1])) == 0
}

// decodeList unwraps a collection resource. Shapes are tried in order:
// a bare array, then an object holding the array under key. An absent
// payload yields an empty slice and no error. Anything else yields an
// empty slice and a shape error.
func decodeList[T any](path, key string, raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if isAbsent(trimmed) {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		return decodeArray[T](path, trimmed)
	case '{':
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return []T{}, apiclient.ShapeError(path, err)
		}
		inner, ok := env[key]
		if !ok {
			return []T{}, apiclient.ShapeError(path, fmt.Errorf("%w (want %q)", errNoKnown, key))
		}
		inner = bytes.TrimSpace(inner)
		if isAbsent(inner) {
			return []T{}, nil
		}
		if inner[0] != '[' {
			return []T{}, apiclient.ShapeError(path, fmt.Errorf("%q: %w", key, errNotArray))
		}
		return decodeArray[T](path, inner)
	default:
		return []T{}, apiclient.ShapeError(path, errNotArray)
	}
}

func decodeArray[T any](path string, raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return []T{}, apiclient.ShapeError(path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeObject unwraps a single-object resource. Envelope keys are tried in
// the given order, then the payload itself is accepted when it carries at
// least one of fields. An absent payload yields nil and no error.
func decodeObject[T any](path string, raw []byte, keys, fields []string) (*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if isAbsent(trimmed) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, apiclient.ShapeError(path, errNotObject)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, apiclient.ShapeError(path, err)
	}

	sawEnvelope := false
	for _, key := range keys {
		inner, ok := env[key]
		if !ok {
			continue
		}
		sawEnvelope = true
		inner = bytes.TrimSpace(inner)
		if isAbsent(inner) {
			continue
		}
		if inner[0] != '{' {
			return nil, apiclient.ShapeError(path, fmt.Errorf("%q: %w", key, errNotObject))
		}
		return decodeInto[T](path, inner)
	}

	for _, field := range fields {
		if _, ok := env[field]; ok {
			return decodeInto[T](path, trimmed)
		}
	}

	if sawEnvelope {
		return nil, nil
	}
	return nil, apiclient.ShapeError(path, errNoKnown)
}

func decodeInto[T any](path string, raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apiclient.ShapeError(path, err)
	}
	return &v, nil
}
