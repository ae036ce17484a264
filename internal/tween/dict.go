package tween

import (
	"errors"
	"fmt"
)

// Dict is a property dictionary as reported by the document walker.
// Values are numbers, strings or nested dictionaries.
type Dict map[string]any

// PropertyReadError is returned when an expected tween property or one of
// its sub-fields is absent or has the wrong type. Extraction recovers from
// it by treating the property as not tweened.
type PropertyReadError struct {
	Property string
	Key      string
	Reason   string
}

// Error implements the error interface.
func (e *PropertyReadError) Error() string {
	return fmt.Sprintf("tween property %s: %s %s", e.Property, e.Key, e.Reason)
}

// IsPropertyReadError reports whether err is or wraps a *PropertyReadError.
func IsPropertyReadError(err error) bool {
	var pe *PropertyReadError
	return errors.As(err, &pe)
}

func (d Dict) dict(prop, key string) (Dict, error) {
	v, ok := d[key]
	if !ok {
		return nil, &PropertyReadError{Property: prop, Key: key, Reason: "missing"}
	}
	switch m := v.(type) {
	case Dict:
		return m, nil
	case map[string]any:
		return Dict(m), nil
	}
	return nil, &PropertyReadError{Property: prop, Key: key, Reason: fmt.Sprintf("is %T, not a dictionary", v)}
}

func (d Dict) number(prop, key string) (float64, error) {
	v, ok := d[key]
	if !ok {
		return 0, &PropertyReadError{Property: prop, Key: key, Reason: "missing"}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, &PropertyReadError{Property: prop, Key: key, Reason: fmt.Sprintf("is %T, not a number", v)}
}

func (d Dict) str(prop, key string) (string, error) {
	v, ok := d[key]
	if !ok {
		return "", &PropertyReadError{Property: prop, Key: key, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &PropertyReadError{Property: prop, Key: key, Reason: fmt.Sprintf("is %T, not a string", v)}
	}
	return s, nil
}
