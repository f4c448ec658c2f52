package coerce

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", "hello"},
		{"int64", int64(42), "42"},
		{"int", 7, "7"},
		{"float", 3.5, "3.5"},
		{"float no trailing zeros", 10.0, "10"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.in, ShapeString)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"string digits", "42", 42, false},
		{"string padded", " 42 ", 42, false},
		{"negative", "-3", -3, false},
		{"int64", int64(9), 9, false},
		{"integral float", 8.0, 8, false},
		{"fractional float", 8.5, 0, true},
		{"not a number", "forty-two", 0, true},
		{"bool", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.in, ShapeInt)
			if tt.wantErr {
				var convErr *ConversionError
				require.ErrorAs(t, err, &convErr)
				assert.Equal(t, ShapeInt, convErr.Target)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	got, err := Coerce("2.5", ShapeFloat)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)

	got, err = Coerce(int64(2), ShapeFloat)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	_, err = Coerce("x", ShapeFloat)
	assert.Error(t, err)
}

func TestCoerceBool(t *testing.T) {
	got, err := Coerce("true", ShapeBool)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = Coerce(false, ShapeBool)
	require.NoError(t, err)
	assert.Equal(t, false, got)

	_, err = Coerce("si", ShapeBool)
	assert.Error(t, err)
}

func TestCoerceNilPassthrough(t *testing.T) {
	for _, shape := range []Shape{ShapeString, ShapeInt, ShapeFloat, ShapeBool} {
		got, err := Coerce(nil, shape)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestCoerceUnspecified(t *testing.T) {
	_, err := Coerce("x", ShapeUnspecified)
	assert.True(t, errors.Is(err, ErrShapeUnspecified))
}

func TestApplyDefault(t *testing.T) {
	got, err := ApplyDefault(nil, "dflt", ShapeString)
	require.NoError(t, err)
	assert.Equal(t, "dflt", got)

	got, err = ApplyDefault("value", "dflt", ShapeString)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	got, err = ApplyDefault(nil, nil, ShapeString)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ApplyDefault(nil, "42", ShapeInt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	_, err = ApplyDefault(nil, "nope", ShapeInt)
	assert.Error(t, err)
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in      string
		want    Shape
		wantErr bool
	}{
		{"string", ShapeString, false},
		{"text", ShapeString, false},
		{"INT", ShapeInt, false},
		{"integer", ShapeInt, false},
		{"float", ShapeFloat, false},
		{"double", ShapeFloat, false},
		{"bool", ShapeBool, false},
		{"boolean", ShapeBool, false},
		{"", ShapeUnspecified, true},
		{"blob", ShapeUnspecified, true},
	}
	for _, tt := range tests {
		got, err := ParseShape(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseShape(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseShape(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseShape(%q)", tt.in)
	}
}
