// Package value converts between token trees and Go values.
//
// Decoding produces map[string]any, []any, string, int64, float64, bool and
// nil. Ordered decoding keeps object member order by producing
// yaml.MapSlice instead of maps.
package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jtok/internal/jsontok"
)

var (
	// ErrMalformed indicates a token tree that does not describe a value.
	ErrMalformed = errors.New("value: malformed token tree")

	// ErrPrimitive indicates a primitive that is not a number, true, false or null.
	ErrPrimitive = errors.New("value: invalid primitive")

	// ErrUnsupported indicates a Go value with no JSON representation.
	ErrUnsupported = errors.New("value: unsupported type")
)

// FromTokens decodes the tree rooted at tokens[0] and returns the value and
// the number of tokens it spans.
func FromTokens(tokens []jsontok.Token) (any, int, error) {
	return decode(tokens, 0, false)
}

// Ordered is FromTokens with objects decoded to yaml.MapSlice.
func Ordered(tokens []jsontok.Token) (any, int, error) {
	return decode(tokens, 0, true)
}

func decode(tokens []jsontok.Token, i int, ordered bool) (any, int, error) {
	if i >= len(tokens) {
		return nil, 0, fmt.Errorf("%w: token %d missing", ErrMalformed, i)
	}

	t := &tokens[i]
	switch t.Type {
	case jsontok.Primitive:
		v, err := primitive(t.Data)
		return v, 1, err

	case jsontok.String, jsontok.Label:
		s, err := Unquote(t.Data)
		return s, 1, err

	case jsontok.Array:
		out := make([]any, 0, t.Size)
		j := i + 1
		for range t.Size {
			v, n, err := decode(tokens, j, ordered)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, v)
			j += n
		}
		return out, j - i, nil

	case jsontok.Object:
		var (
			members = make(map[string]any, t.Size)
			items   = make(yaml.MapSlice, 0, t.Size)
		)
		j := i + 1
		for range t.Size {
			if j >= len(tokens) || tokens[j].Type != jsontok.Label {
				return nil, 0, fmt.Errorf("%w: object member %d is not a label", ErrMalformed, j)
			}
			key, err := Unquote(tokens[j].Data)
			if err != nil {
				return nil, 0, err
			}
			v, n, err := decode(tokens, j+1, ordered)
			if err != nil {
				return nil, 0, err
			}
			if ordered {
				items = append(items, yaml.MapItem{Key: key, Value: v})
			} else {
				members[key] = v
			}
			j += 1 + n
		}
		if ordered {
			return items, j - i, nil
		}
		return members, j - i, nil
	}

	return nil, 0, fmt.Errorf("%w: token %d has type %s", ErrMalformed, i, t.Type)
}

func primitive(data []byte) (any, error) {
	switch string(data) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "":
		return nil, nil
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %q", ErrPrimitive, data)
	}
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrPrimitive, data, err)
	}
	return f, nil
}

// Unquote decodes the escapes in raw string content.
func Unquote(raw []byte) (string, error) {
	if bytes.IndexByte(raw, '\\') < 0 {
		return string(raw), nil
	}

	quoted := make([]byte, 0, len(raw)+2)
	quoted = append(quoted, '"')
	quoted = append(quoted, raw...)
	quoted = append(quoted, '"')

	var s string
	if err := json.Unmarshal(quoted, &s); err != nil {
		return "", fmt.Errorf("%w: string %q: %v", ErrMalformed, raw, err)
	}
	return s, nil
}
