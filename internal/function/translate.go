package function

import (
	"fmt"
	"strings"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/dataexpr"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

// Kind is the value domain a function is translated for.
type Kind int

const (
	KindGeneric Kind = iota
	KindColor
	KindNumeric
	KindFont
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindNumeric:
		return "numeric"
	case KindFont:
		return "font"
	case KindEnum:
		return "enum"
	default:
		return "generic"
	}
}

// Target is the value class a generic function produces.
type Target int

const (
	// TargetAny accepts any stop output.
	TargetAny Target = iota
	// TargetString and TargetBoolean accept scalar stop outputs only.
	TargetString
	TargetBoolean
)

func (t Target) String() string {
	switch t {
	case TargetString:
		return "String"
	case TargetBoolean:
		return "Boolean"
	default:
		return "Object"
	}
}

// Domain selects the conversion applied to stop outputs.
type Domain struct {
	Kind   Kind
	Enum   parse.Enumeration // KindEnum only
	Target Target            // KindGeneric only
}

// The fixed domains.
var (
	ColorDomain   = Domain{Kind: KindColor}
	NumericDomain = Domain{Kind: KindNumeric}
	FontDomain    = Domain{Kind: KindFont}
)

// EnumDomain returns the domain of enumeration e.
func EnumDomain(e parse.Enumeration) Domain {
	return Domain{Kind: KindEnum, Enum: e}
}

// GenericDomain returns the domain of a generic function producing target.
func GenericDomain(target Target) Domain {
	return Domain{Kind: KindGeneric, Target: target}
}

// ParseDomain resolves a domain name: color, numeric, font, string, boolean,
// value, or enum (which looks up enumName in ctx).
func ParseDomain(ctx *parse.Context, name, enumName string) (Domain, error) {
	switch strings.ToLower(name) {
	case "color":
		return ColorDomain, nil
	case "numeric", "number":
		return NumericDomain, nil
	case "font":
		return FontDomain, nil
	case "string":
		return GenericDomain(TargetString), nil
	case "boolean", "bool":
		return GenericDomain(TargetBoolean), nil
	case "value", "generic":
		return GenericDomain(TargetAny), nil
	case "enum":
		e, ok := ctx.Enumeration(enumName)
		if !ok {
			return Domain{}, fmt.Errorf("unknown enumeration %q", enumName)
		}
		return EnumDomain(e), nil
	default:
		return Domain{}, fmt.Errorf("unknown domain %q", name)
	}
}

// Translator converts function objects into expressions.
// It is immutable and safe for concurrent use.
type Translator struct {
	ctx *parse.Context
}

// New returns a Translator over ctx, with the same defaults as filter.New.
func New(ctx *parse.Context) *Translator {
	if ctx == nil {
		ctx = parse.NewContext()
	}
	if ctx.Expressions == nil {
		c := *ctx
		c.Expressions = dataexpr.New(&c)
		ctx = &c
	}
	return &Translator{ctx: ctx}
}

// Context returns the translation context.
func (t *Translator) Context() *parse.Context {
	return t.ctx
}

// Translate parses v as a function object and translates it for d.
//
// Zoom-and-property functions violate a precondition of every translation
// entry point and cause a panic with *parse.PreconditionError; check
// Function.Category first.
func (t *Translator) Translate(v ir.Value, d Domain) (ast.Expression, error) {
	fn, err := Parse(v)
	if err != nil {
		return nil, err
	}
	return t.TranslateFunction(fn, d)
}

// TranslateFunction translates an already parsed function for d.
func (t *Translator) TranslateFunction(fn *Function, d Domain) (ast.Expression, error) {
	switch d.Kind {
	case KindColor:
		return t.Color(fn)
	case KindNumeric:
		return t.Numeric(fn)
	case KindFont:
		return t.Font(fn)
	case KindEnum:
		return t.Enum(fn, d.Enum)
	default:
		return t.Generic(fn, d.Target)
	}
}

// Color translates fn to a color expression. Stop outputs are resolved
// through the context color table.
func (t *Translator) Color(fn *Function) (ast.Expression, error) {
	input := t.input(fn)
	typ := fn.TypeWithDefault(KindColor)
	t.log(fn, KindColor, typ)

	switch typ {
	case TypeIdentity:
		return withFallback(fn, ast.Call(ast.FuncCSS, input)), nil
	case TypeCategorical:
		return t.recode(fn, input, t.colorValue)
	case TypeInterval:
		return t.categorize(fn, input, t.colorValue)
	default:
		return t.interpolate(fn, input, ast.InterpolateColor, t.colorValue)
	}
}

// Numeric translates fn to a numeric expression. Stop outputs must be
// numbers.
func (t *Translator) Numeric(fn *Function) (ast.Expression, error) {
	input := t.input(fn)
	typ := fn.TypeWithDefault(KindNumeric)
	t.log(fn, KindNumeric, typ)

	switch typ {
	case TypeIdentity:
		return withFallback(fn, input), nil
	case TypeCategorical:
		return t.recode(fn, input, numericValue)
	case TypeInterval:
		return t.categorize(fn, input, numericValue)
	default:
		return t.interpolate(fn, input, ast.InterpolateNumeric, numericValue)
	}
}

// Font translates fn to a font family expression. Only interval functions
// are supported; each stop outputs a font stack whose first family is used.
func (t *Translator) Font(fn *Function) (ast.Expression, error) {
	input := t.input(fn)
	typ := fn.TypeWithDefault(KindFont)
	t.log(fn, KindFont, typ)

	if typ != TypeInterval {
		return nil, unsupportedType(typ, KindFont.String())
	}
	return t.categorize(fn, input, fontValue)
}

// Enum translates fn to an expression producing literals of e.
func (t *Translator) Enum(fn *Function, e parse.Enumeration) (ast.Expression, error) {
	input := t.input(fn)
	typ := fn.TypeWithDefault(KindEnum)
	t.log(fn, KindEnum, typ)

	convert := func(s Stop) (ast.Expression, error) {
		return t.enumValue(s, e)
	}

	switch typ {
	case TypeInterval:
		return t.categorize(fn, input, convert)
	case TypeCategorical:
		return t.recode(fn, input, convert)
	case TypeIdentity:
		// There are no stops to consult, so every member is mapped.
		args := make([]ast.Expression, 0, 1+2*len(e.Members))
		args = append(args, input)
		for _, m := range e.Members {
			args = append(args, ast.Str(strings.ToLower(m.Name)), ast.Str(m.Literal))
		}
		return withFallback(fn, ast.Call(ast.FuncRecode, args...)), nil
	default:
		return nil, unsupportedType(typ, "enumeration "+e.Name)
	}
}

// Generic translates fn for a target without a dedicated domain.
// Exponential interpolation is not available.
func (t *Translator) Generic(fn *Function, target Target) (ast.Expression, error) {
	input := t.input(fn)
	typ := fn.TypeWithDefault(KindGeneric)
	t.log(fn, KindGeneric, typ)

	convert := func(s Stop) (ast.Expression, error) {
		return genericValue(s, target)
	}

	switch typ {
	case TypeInterval:
		return t.categorize(fn, input, convert)
	case TypeCategorical:
		return t.recode(fn, input, convert)
	case TypeIdentity:
		return withFallback(fn, input), nil
	default:
		return nil, unsupportedType(typ, target.String())
	}
}

func (t *Translator) log(fn *Function, kind Kind, typ Type) {
	t.ctx.Log().Debug("translating function",
		"domain", kind.String(),
		"type", typ.String(),
		"category", fn.Category().String(),
		"stops", len(fn.Stops))
}

// input resolves the expression a function is evaluated against.
func (t *Translator) input(fn *Function) ast.Expression {
	switch fn.Category() {
	case CategoryZoomAndProperty:
		panic(&parse.PreconditionError{Message: "reduce zoom and property function prior to use"})
	case CategoryZoom:
		return t.ctx.ZoomInput()
	default:
		return ast.Prop(fn.Property)
	}
}

// valueFunc converts one stop output for a domain.
type valueFunc func(Stop) (ast.Expression, error)

func requireStops(fn *Function, typ Type) error {
	if len(fn.Stops) == 0 {
		return parse.Errorf(construct, "%s function requires at least one stop", typ)
	}
	return nil
}

// categorize emits Categorize(input, initial, in1, out1, ..., "succeeding").
// Inputs below the first stop take the default when one is declared and the
// first stop output otherwise.
func (t *Translator) categorize(fn *Function, input ast.Expression, value valueFunc) (ast.Expression, error) {
	if err := requireStops(fn, TypeInterval); err != nil {
		return nil, err
	}

	args := make([]ast.Expression, 0, 3+2*len(fn.Stops))
	args = append(args, input)
	for i, s := range fn.Stops {
		out, err := value(s)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			if fn.Default != nil {
				args = append(args, ast.Lit(fn.Default))
			} else {
				args = append(args, out)
			}
		}
		args = append(args, ast.Lit(s.Input), out)
	}
	args = append(args, ast.Str(ast.IntervalSucceeding))

	return withFallback(fn, ast.Call(ast.FuncCategorize, args...)), nil
}

// recode emits Recode(input, in1, out1, ...).
func (t *Translator) recode(fn *Function, input ast.Expression, value valueFunc) (ast.Expression, error) {
	if err := requireStops(fn, TypeCategorical); err != nil {
		return nil, err
	}

	args := make([]ast.Expression, 0, 1+2*len(fn.Stops))
	args = append(args, input)
	for _, s := range fn.Stops {
		out, err := value(s)
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Lit(s.Input), out)
	}
	return withFallback(fn, ast.Call(ast.FuncRecode, args...)), nil
}

// interpolate emits Interpolate(input, in1, out1, ..., method) for base 1 and
// Exponential(input, base, in1, out1, ...) otherwise.
func (t *Translator) interpolate(fn *Function, input ast.Expression, method string, value valueFunc) (ast.Expression, error) {
	if err := requireStops(fn, TypeExponential); err != nil {
		return nil, err
	}

	linear := fn.Base == 1
	args := make([]ast.Expression, 0, 2+2*len(fn.Stops))
	args = append(args, input)
	if !linear {
		args = append(args, ast.Num(fn.Base))
	}
	for _, s := range fn.Stops {
		out, err := value(s)
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Lit(s.Input), out)
	}

	if linear {
		args = append(args, ast.Str(method))
		return withFallback(fn, ast.Call(ast.FuncInterpolate, args...)), nil
	}
	return withFallback(fn, ast.Call(ast.FuncExponential, args...)), nil
}

// withFallback wraps expr in DefaultIfNull when fn declares a default.
func withFallback(fn *Function, expr ast.Expression) ast.Expression {
	if fn.Default == nil {
		return expr
	}
	return ast.FallbackWrapped{Inner: expr, Default: ast.Lit(fn.Default)}
}

func unsupportedType(typ Type, domain string) error {
	return parse.Errorf(construct, "%s function unavailable for %s", typ, domain)
}

func stopError(s Stop, into string) error {
	return parse.Errorf(construct, "could not convert stop %s value %s into a %s",
		ir.Snippet(s.Input), ir.Snippet(s.Output), into)
}

func (t *Translator) colorValue(s Stop) (ast.Expression, error) {
	str, ok := s.Output.(ir.String)
	if !ok {
		return nil, stopError(s, "color")
	}
	lit, ok := t.ctx.Color(string(str))
	if !ok {
		return nil, stopError(s, "color")
	}
	return lit, nil
}

func numericValue(s Stop) (ast.Expression, error) {
	if ir.KindOf(s.Output) != ir.KindNumber {
		return nil, stopError(s, "numeric")
	}
	return ast.Lit(s.Output), nil
}

func fontValue(s Stop) (ast.Expression, error) {
	stack, ok := s.Output.(ir.Array)
	if !ok || len(stack) == 0 || ir.IsNull(stack[0]) {
		return nil, stopError(s, "font")
	}
	return ast.Lit(stack[0]), nil
}

func (t *Translator) enumValue(s Stop, e parse.Enumeration) (ast.Expression, error) {
	lit, ok, err := t.ctx.Parser(construct).Constant(s.Output, e)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, stopError(s, e.Name)
	}
	return lit, nil
}

func genericValue(s Stop, target Target) (ast.Expression, error) {
	switch ir.KindOf(s.Output) {
	case ir.KindString, ir.KindNumber, ir.KindBool:
		return ast.Lit(s.Output), nil
	case ir.KindArray, ir.KindObject:
		if target == TargetAny {
			return ast.Lit(s.Output), nil
		}
	}
	return nil, stopError(s, target.String())
}
