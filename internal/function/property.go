package function

import (
	"fmt"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

// Style properties accept a literal, a function object or a data expression.
// The accessors below read property key of a layout or paint object in any of
// those forms. An absent or null property yields the fallback, which may be
// nil.

// NumberProperty reads a numeric property.
func (t *Translator) NumberProperty(obj ir.Object, key string, fallback ast.Expression) (ast.Expression, error) {
	v, _ := obj.Get(key)
	return t.number(keyName(key), v, fallback, "number")
}

// PercentageProperty reads a numeric property holding a ratio between 0 and 1.
func (t *Translator) PercentageProperty(obj ir.Object, key string, fallback ast.Expression) (ast.Expression, error) {
	v, _ := obj.Get(key)
	if b, ok := v.(ir.Bool); ok {
		return nil, parse.Errorf(construct,
			"%s percentage from boolean %t not supported, expected value between 0 and 1", keyName(key), bool(b))
	}
	return t.number(keyName(key), v, fallback, "percentage")
}

func (t *Translator) number(name string, v ir.Value, fallback ast.Expression, what string) (ast.Expression, error) {
	switch val := v.(type) {
	case nil, ir.Null:
		return fallback, nil
	case ir.String, ir.Number:
		return ast.Lit(val), nil
	case ir.Object:
		return t.Translate(val, NumericDomain)
	case ir.Array:
		return t.dataExpression(name, val, what)
	default:
		return nil, notSupported(name, what, v)
	}
}

// StringProperty reads a text property. Numbers and booleans become their
// text.
func (t *Translator) StringProperty(obj ir.Object, key string, fallback ast.Expression) (ast.Expression, error) {
	v, _ := obj.Get(key)
	switch val := v.(type) {
	case nil, ir.Null:
		return fallback, nil
	case ir.String:
		return ast.Lit(val), nil
	case ir.Number, ir.Bool:
		return ast.Str(ir.Snippet(val)), nil
	case ir.Object:
		return t.Translate(val, GenericDomain(TargetString))
	case ir.Array:
		return t.dataExpression(keyName(key), val, "string")
	default:
		return nil, notSupported(keyName(key), "string", v)
	}
}

// BoolProperty reads a boolean property. Strings are kept as given.
func (t *Translator) BoolProperty(obj ir.Object, key string, fallback bool) (ast.Expression, error) {
	v, _ := obj.Get(key)
	switch val := v.(type) {
	case nil, ir.Null:
		return ast.Lit(ir.Bool(fallback)), nil
	case ir.String, ir.Bool:
		return ast.Lit(val), nil
	case ir.Object:
		return t.Translate(val, GenericDomain(TargetBoolean))
	case ir.Array:
		return t.dataExpression(keyName(key), val, "boolean")
	default:
		return nil, notSupported(keyName(key), "boolean", v)
	}
}

// ColorProperty reads a color property. Literal colors are resolved through
// the context color table; an unknown color is a format error.
func (t *Translator) ColorProperty(obj ir.Object, key string, fallback ast.Expression) (ast.Expression, error) {
	v, _ := obj.Get(key)
	switch val := v.(type) {
	case nil, ir.Null:
		return fallback, nil
	case ir.String:
		lit, ok := t.ctx.Color(string(val))
		if !ok {
			return nil, parse.Errorf(construct, "%s could not convert %q into a color", keyName(key), string(val))
		}
		return lit, nil
	case ir.Object:
		return t.Translate(val, ColorDomain)
	case ir.Array:
		return t.dataExpression(keyName(key), val, "color")
	default:
		return nil, notSupported(keyName(key), "color", v)
	}
}

// FontProperty reads a font stack property. A function yields the first
// family of each stop; a plain array of family names is a literal stack.
func (t *Translator) FontProperty(obj ir.Object, key string, fallback ast.Expression) (ast.Expression, error) {
	v, _ := obj.Get(key)
	switch val := v.(type) {
	case nil, ir.Null:
		return fallback, nil
	case ir.Object:
		return t.Translate(val, FontDomain)
	case ir.Array:
		if len(val) > 0 {
			if op, ok := val[0].(ir.String); ok && t.ctx.Expressions.CanCreate(string(op)) {
				return t.ctx.Expressions.Translate(val)
			}
		}
		for i, family := range val {
			if _, ok := family.(ir.String); !ok {
				return nil, &parse.FormatError{
					Context:  construct,
					Key:      fmt.Sprintf("%s[%d]", keyName(key), i),
					Expected: "font family String",
					Actual:   ir.KindOf(family).String(),
				}
			}
		}
		return ast.Lit(val), nil
	default:
		return nil, notSupported(keyName(key), "font", v)
	}
}

// EnumProperty reads a property constrained to enumeration e. Absent and
// blank values yield fallback; an invalid name is logged and also yields
// fallback.
func (t *Translator) EnumProperty(obj ir.Object, key string, e parse.Enumeration, fallback parse.Member) (ast.Expression, error) {
	v, _ := obj.Get(key)
	switch val := v.(type) {
	case nil, ir.Null:
		return ast.Str(fallback.Literal), nil
	case ir.String:
		lit, ok, err := t.ctx.Parser(construct).Constant(val, e)
		if err != nil {
			t.ctx.Log().Warn("invalid enumeration value, falling back to default",
				"key", key, "value", string(val), "enumeration", e.Name, "default", fallback.Name)
			return ast.Str(fallback.Literal), nil
		}
		if !ok {
			return ast.Str(fallback.Literal), nil
		}
		return lit, nil
	case ir.Object:
		return t.Translate(val, EnumDomain(e))
	default:
		return nil, parse.Errorf(construct, "conversion of %s value from %s to %s not supported",
			keyName(key), ir.KindOf(v), e.Name)
	}
}

// Displacement is a two dimensional offset.
type Displacement struct {
	X ast.Expression
	Y ast.Expression
}

// DisplacementProperty reads an [x, y] offset property. An array literal
// yields one numeric expression per axis, missing axes defaulting to 0. A
// function must output two element arrays and is split into one numeric
// function per axis.
func (t *Translator) DisplacementProperty(obj ir.Object, key string, fallback *Displacement) (*Displacement, error) {
	v, _ := obj.Get(key)
	switch val := v.(type) {
	case nil, ir.Null:
		return fallback, nil
	case ir.Array:
		x, err := t.axis(key, val, 0)
		if err != nil {
			return nil, err
		}
		y, err := t.axis(key, val, 1)
		if err != nil {
			return nil, err
		}
		return &Displacement{X: x, Y: y}, nil
	case ir.Object:
		return t.displacementFunction(key, val)
	default:
		return nil, parse.Errorf(construct, "%s expected array or function, but was %s", keyName(key), ir.KindOf(v))
	}
}

func (t *Translator) axis(key string, arr ir.Array, i int) (ast.Expression, error) {
	var v ir.Value
	if i < len(arr) {
		v = arr[i]
	}
	return t.number(fmt.Sprintf("%s[%d]", keyName(key), i), v, ast.Num(0), "number")
}

func (t *Translator) displacementFunction(key string, obj ir.Object) (*Displacement, error) {
	fn, err := Parse(obj)
	if err != nil {
		return nil, err
	}
	if !IsArrayFunction(fn) {
		return nil, parse.Errorf(construct,
			"%s displacement function values must all be arrays with length 2", keyName(key))
	}
	axes, err := SplitArrayFunction(fn)
	if err != nil {
		return nil, fmt.Errorf("%s displacement: %w", keyName(key), err)
	}
	if len(axes) != 2 {
		return nil, parse.Errorf(construct,
			"%s displacement function values must all be arrays with length 2", keyName(key))
	}

	x, err := t.Numeric(axes[0])
	if err != nil {
		return nil, err
	}
	y, err := t.Numeric(axes[1])
	if err != nil {
		return nil, err
	}
	return &Displacement{X: x, Y: y}, nil
}

// Property reads key through the accessor of domain d. Enumerations fall
// back to their first member. A numeric property holding an array literal or
// an array function yields one expression per element; every other property
// yields a single expression, or none when absent.
func (t *Translator) Property(obj ir.Object, key string, d Domain) ([]ast.Expression, error) {
	v, _ := obj.Get(key)
	if ir.IsNull(v) {
		return nil, nil
	}

	var (
		expr ast.Expression
		err  error
	)
	switch d.Kind {
	case KindColor:
		expr, err = t.ColorProperty(obj, key, nil)
	case KindNumeric:
		if elems, ok, err := t.numericElements(key, v); ok || err != nil {
			return elems, err
		}
		expr, err = t.NumberProperty(obj, key, nil)
	case KindFont:
		expr, err = t.FontProperty(obj, key, nil)
	case KindEnum:
		if len(d.Enum.Members) == 0 {
			return nil, parse.Errorf(construct, "enumeration %q has no members", d.Enum.Name)
		}
		expr, err = t.EnumProperty(obj, key, d.Enum, d.Enum.Members[0])
	default:
		expr, err = t.genericProperty(obj, key, v, d.Target)
	}
	if err != nil {
		return nil, err
	}
	return []ast.Expression{expr}, nil
}

// numericElements handles the multi-valued forms of a numeric property.
// ok is false when v is a single value.
func (t *Translator) numericElements(key string, v ir.Value) (elems []ast.Expression, ok bool, err error) {
	switch val := v.(type) {
	case ir.Array:
		if len(val) > 0 && ir.KindOf(val[0]) == ir.KindString {
			return nil, false, nil
		}
		elems = make([]ast.Expression, len(val))
		for i := range val {
			if elems[i], err = t.axis(key, val, i); err != nil {
				return nil, true, err
			}
		}
		return elems, true, nil
	case ir.Object:
		fn, err := Parse(val)
		if err != nil {
			return nil, true, err
		}
		if !IsArrayFunction(fn) {
			return nil, false, nil
		}
		parts, err := SplitArrayFunction(fn)
		if err != nil {
			return nil, true, fmt.Errorf("%s: %w", keyName(key), err)
		}
		elems = make([]ast.Expression, len(parts))
		for i, part := range parts {
			if elems[i], err = t.Numeric(part); err != nil {
				return nil, true, err
			}
		}
		return elems, true, nil
	}
	return nil, false, nil
}

func (t *Translator) genericProperty(obj ir.Object, key string, v ir.Value, target Target) (ast.Expression, error) {
	switch target {
	case TargetString:
		return t.StringProperty(obj, key, nil)
	case TargetBoolean:
		return t.BoolProperty(obj, key, false)
	}

	switch val := v.(type) {
	case ir.Object:
		return t.Translate(val, GenericDomain(target))
	case ir.Array:
		if len(val) > 0 {
			if op, ok := val[0].(ir.String); ok && t.ctx.Expressions.CanCreate(string(op)) {
				return t.ctx.Expressions.Translate(val)
			}
		}
		return ast.Lit(val), nil
	default:
		return ast.Lit(val), nil
	}
}

// dataExpression translates an array property value. Only arrays led by an
// operator name are expressions.
func (t *Translator) dataExpression(name string, arr ir.Array, what string) (ast.Expression, error) {
	if len(arr) == 0 || ir.KindOf(arr[0]) != ir.KindString {
		return nil, parse.Errorf(construct, "%s %s from Array not supported", name, what)
	}
	return t.ctx.Expressions.Translate(arr)
}

func notSupported(name, what string, v ir.Value) error {
	return parse.Errorf(construct, "%s %s from %s not supported", name, what, ir.KindOf(v))
}

func keyName(key string) string {
	return `"` + key + `"`
}
