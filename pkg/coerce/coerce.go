// Package coerce converts resolved substitution values between a closed
// set of target shapes.
//
// The engine resolves placeholder keys to arbitrary values; callers ask
// for a concrete shape (string, int, float, bool). Conversions are
// dispatched over the Shape enumeration rather than runtime reflection,
// so adding a shape means extending the switch here and nowhere else.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape identifies the target type of a coercion.
type Shape int

// Supported target shapes. ShapeUnspecified is the zero value and is
// rejected by operations that require a concrete shape.
const (
	ShapeUnspecified Shape = iota
	ShapeString
	ShapeInt
	ShapeFloat
	ShapeBool
)

// ErrShapeUnspecified is returned when a call that requires a target
// shape is given ShapeUnspecified.
var ErrShapeUnspecified = errors.New("target shape must be specified")

// String returns the shape name as accepted by ParseShape.
func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeInt:
		return "int"
	case ShapeFloat:
		return "float"
	case ShapeBool:
		return "bool"
	default:
		return "unspecified"
	}
}

// ParseShape parses a shape name. Matching is case-insensitive and
// accepts the common aliases "integer", "boolean", and "double".
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str", "text":
		return ShapeString, nil
	case "int", "integer":
		return ShapeInt, nil
	case "float", "double", "number":
		return ShapeFloat, nil
	case "bool", "boolean":
		return ShapeBool, nil
	case "":
		return ShapeUnspecified, ErrShapeUnspecified
	default:
		return ShapeUnspecified, fmt.Errorf("unknown shape %q", name)
	}
}

// ConversionError reports a value that cannot be represented in the
// requested target shape.
type ConversionError struct {
	Value  any
	Target Shape
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to %s", e.Value, e.Value, e.Target)
}

// Coerce converts v to the target shape. A nil value passes through as
// nil for every shape: null is a value, not a failure. Incompatible
// values produce a *ConversionError.
func Coerce(v any, target Shape) (any, error) {
	if target == ShapeUnspecified {
		return nil, ErrShapeUnspecified
	}
	if v == nil {
		return nil, nil
	}

	switch target {
	case ShapeString:
		return toString(v), nil
	case ShapeInt:
		return toInt(v)
	case ShapeFloat:
		return toFloat(v)
	case ShapeBool:
		return toBool(v)
	}
	return nil, &ConversionError{Value: v, Target: target}
}

// ApplyDefault substitutes def, coerced to the target shape, when v is
// nil. A non-nil v is returned unchanged; it is assumed to already be
// in the target shape.
func ApplyDefault(v, def any, target Shape) (any, error) {
	if v != nil || def == nil {
		return v, nil
	}
	return Coerce(def, target)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toInt(v any) (any, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return nil, &ConversionError{Value: v, Target: ShapeInt}
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil, &ConversionError{Value: v, Target: ShapeInt}
		}
		return n, nil
	}
	return nil, &ConversionError{Value: v, Target: ShapeInt}
}

func toFloat(v any) (any, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, &ConversionError{Value: v, Target: ShapeFloat}
		}
		return f, nil
	}
	return nil, &ConversionError{Value: v, Target: ShapeFloat}
}

func toBool(v any) (any, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return nil, &ConversionError{Value: v, Target: ShapeBool}
		}
		return b, nil
	}
	return nil, &ConversionError{Value: v, Target: ShapeBool}
}
