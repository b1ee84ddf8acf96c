package vm

import (
	"fmt"

	"github.com/glintlab/glint/pkg/colorspace"
	"github.com/glintlab/glint/pkg/compiler/ast"
)

// Value is a runtime value: void, float, linear color, or string.
// Dictionaries have no runtime representation; they exist only as the
// compile-time argument of the program(...) declaration form.
type Value struct {
	Kind  ast.Type
	Float float32
	Color colorspace.LinearRGBA
	Str   string
}

// Void is the value of statements and functions without a return.
var Void = Value{Kind: ast.TypeVoid}

// FloatValue wraps a float.
func FloatValue(v float32) Value {
	return Value{Kind: ast.TypeFloat32, Float: v}
}

// ColorValue wraps a linear color.
func ColorValue(c colorspace.LinearRGBA) Value {
	return Value{Kind: ast.TypeLinColor, Color: c}
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{Kind: ast.TypeStr, Str: s}
}

// AsFloat returns the float payload, or an error for any other kind.
// There is no implicit conversion between value kinds.
func (v Value) AsFloat() (float32, error) {
	if v.Kind != ast.TypeFloat32 {
		return 0, fmt.Errorf("cannot convert %s value to float", v.Kind)
	}
	return v.Float, nil
}

// AsColor returns the color payload, or an error for any other kind.
func (v Value) AsColor() (colorspace.LinearRGBA, error) {
	if v.Kind != ast.TypeLinColor {
		return colorspace.LinearRGBA{}, fmt.Errorf("cannot convert %s value to linear color", v.Kind)
	}
	return v.Color, nil
}
