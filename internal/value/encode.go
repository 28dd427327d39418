package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jtok/internal/jsontok"
)

var (
	literalTrue  = []byte("true")
	literalFalse = []byte("false")
	literalNull  = []byte("null")
)

// Count returns the number of tokens Build needs for v at the root or in
// an array. Inside an object add one for the label.
func Count(v any) int {
	switch v := v.(type) {
	case map[string]any:
		n := 1
		for _, member := range v {
			n += 1 + Count(member)
		}
		return n
	case yaml.MapSlice:
		n := 1
		for _, item := range v {
			n += 1 + Count(item.Value)
		}
		return n
	case []any:
		n := 1
		for _, elem := range v {
			n += Count(elem)
		}
		return n
	default:
		return 1
	}
}

// Build appends v to b under name. Map keys are written in sorted order.
func Build(b *jsontok.Builder, name []byte, v any) error {
	var err error

	switch v := v.(type) {
	case nil:
		_, err = b.AppendPrimitive(name, literalNull)
	case bool:
		if v {
			_, err = b.AppendPrimitive(name, literalTrue)
		} else {
			_, err = b.AppendPrimitive(name, literalFalse)
		}
	case string:
		escaped, escErr := Escape(v)
		if escErr != nil {
			return escErr
		}
		_, err = b.AppendString(name, escaped)
	case int:
		_, err = b.AppendPrimitive(name, strconv.AppendInt(nil, int64(v), 10))
	case int64:
		_, err = b.AppendPrimitive(name, strconv.AppendInt(nil, v, 10))
	case uint64:
		_, err = b.AppendPrimitive(name, strconv.AppendUint(nil, v, 10))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrUnsupported, v)
		}
		_, err = b.AppendPrimitive(name, strconv.AppendFloat(nil, v, 'g', -1, 64))
	case json.Number:
		_, err = b.AppendPrimitive(name, []byte(v))
	case []any:
		if _, err = b.StartArray(name); err != nil {
			return err
		}
		for _, elem := range v {
			if err = Build(b, nil, elem); err != nil {
				return err
			}
		}
		_, err = b.EndArray()
	case map[string]any:
		if _, err = b.StartObject(name); err != nil {
			return err
		}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			if err = buildMember(b, key, v[key]); err != nil {
				return err
			}
		}
		_, err = b.EndObject()
	case yaml.MapSlice:
		if _, err = b.StartObject(name); err != nil {
			return err
		}
		for _, item := range v {
			if err = buildMember(b, fmt.Sprint(item.Key), item.Value); err != nil {
				return err
			}
		}
		_, err = b.EndObject()
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, v)
	}

	return err
}

func buildMember(b *jsontok.Builder, key string, v any) error {
	name, err := Escape(key)
	if err != nil {
		return err
	}
	return Build(b, name, v)
}

// Escape returns s as JSON string content, without the quotes.
func Escape(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}

	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return out[1 : len(out)-1], nil
}

// Encode serializes v to compact JSON through a Builder sized with Count.
func Encode(v any) ([]byte, error) {
	b := jsontok.NewBuilder(make([]jsontok.Token, Count(v)))
	if err := Build(b, nil, v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := jsontok.Dump(b.Tokens(), jsontok.WriterSink(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
