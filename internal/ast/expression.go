package ast

import "github.com/roach88/mbstyle/internal/ir"

// Names of the target functions the translators emit.
const (
	FuncInterpolate  = "Interpolate"  // Interpolate(input, stop, value, ..., "color"|"numeric")
	FuncExponential  = "Exponential"  // Exponential(input, base, stop, value, ...)
	FuncCategorize   = "Categorize"   // Categorize(input, initial, stop, value, ..., "succeeding")
	FuncRecode       = "Recode"       // Recode(input, key, value, ...)
	FuncCSS          = "css"          // css(input) converts CSS color names
	FuncZoomLevel    = "zoomLevel"    // zoomLevel(scaleDenominator, crs)
	FuncEnv          = "env"          // env(name) reads a rendering variable
	FuncDefaultIfNil = "DefaultIfNull"
)

// Interpolation methods passed as the trailing argument of FuncInterpolate.
const (
	InterpolateColor   = "color"
	InterpolateNumeric = "numeric"
)

// IntervalSucceeding is the trailing Categorize argument selecting the stop
// just below the input.
const IntervalSucceeding = "succeeding"

// Expression represents a value producing node.
//
// This is a sealed interface - only types in this package implement it.
type Expression interface {
	expressionNode() // Marker method - seals interface to this package
}

// Literal is a constant JSON value.
type Literal struct {
	Value ir.Value
}

func (Literal) expressionNode() {}

// PropertyReference reads the named feature attribute.
type PropertyReference struct {
	Name string
}

func (PropertyReference) expressionNode() {}

// FunctionCall calls a named target function with ordered arguments.
type FunctionCall struct {
	Name string
	Args []Expression
}

func (FunctionCall) expressionNode() {}

// FallbackWrapped evaluates Inner and substitutes Default when the result is
// null. Renderers spell it DefaultIfNull(inner, default).
type FallbackWrapped struct {
	Inner   Expression
	Default Literal
}

func (FallbackWrapped) expressionNode() {}

// Lit wraps a JSON value as a Literal.
func Lit(v ir.Value) Literal {
	return Literal{Value: v}
}

// Str is shorthand for a string Literal.
func Str(s string) Literal {
	return Literal{Value: ir.String(s)}
}

// Num is shorthand for a number Literal.
func Num(f float64) Literal {
	return Literal{Value: ir.Number(f)}
}

// Prop is shorthand for a PropertyReference.
func Prop(name string) PropertyReference {
	return PropertyReference{Name: name}
}

// Call is shorthand for a FunctionCall.
func Call(name string, args ...Expression) FunctionCall {
	return FunctionCall{Name: name, Args: args}
}
