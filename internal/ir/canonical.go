package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Field is a single key/value pair inside an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object whose keys are emitted in insertion order.
//
// The scene document format is positional: consumers read sections and
// per-node keys in the order the exporter wrote them, so Go maps (which
// encoding/json sorts) cannot be used for document nodes.
type Object []Field

// Set appends a key/value pair and returns the extended object.
func (o Object) Set(key string, value any) Object {
	return append(o, Field{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (o Object) MarshalJSON() ([]byte, error) {
	return marshalObject(o)
}

// Valuer is implemented by document nodes that know their JSON shape.
// JSONValue returns an Object, a []any, or a primitive.
type Valuer interface {
	JSONValue() any
}

// Marshal serializes v into the scene document JSON encoding:
//   - Object keys keep insertion order
//   - Strings are NFC normalized
//   - No HTML escaping (< > & are written as-is)
//   - Floats use the shortest round-trip form, negative zero becomes 0
//   - NaN and infinities are rejected
func Marshal(v any) ([]byte, error) {
	return marshalValue(v)
}

// MarshalIndent is like Marshal but applies indentation to the output.
func MarshalIndent(v any, indent string) ([]byte, error) {
	raw, err := marshalValue(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case Object:
		return marshalObject(val)
	case Valuer:
		return marshalValue(val.JSONValue())
	case string:
		return marshalString(val)
	case bool:
		return strconv.AppendBool(nil, val), nil
	case float64:
		return marshalFloat(val)
	case float32:
		return marshalFloat(float64(val))
	case int:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case int32:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case int64:
		return strconv.AppendInt(nil, val, 10), nil
	case uint8:
		return strconv.AppendUint(nil, uint64(val), 10), nil
	case uint32:
		return strconv.AppendUint(nil, uint64(val), 10), nil
	case uint64:
		return strconv.AppendUint(nil, val, 10), nil
	case []any:
		return marshalArray(val)
	case []string:
		arr := make([]any, len(val))
		for i, s := range val {
			arr[i] = s
		}
		return marshalArray(arr)
	default:
		return nil, fmt.Errorf("unsupported type for document JSON: %T", v)
	}
}

func marshalFloat(f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite number %v cannot be encoded", f)
	}
	if f == 0 {
		f = 0 // drop the sign of negative zero
	}
	return json.Marshal(f)
}

// marshalString produces a JSON string with NFC normalization and no HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func marshalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalObject(obj Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range obj {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalString(f.Key)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", f.Key, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Key, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// List converts a slice of document nodes into a JSON array value.
func List[T Valuer](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.JSONValue()
	}
	return out
}
