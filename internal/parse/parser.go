package parse

import (
	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
)

// Parser reads typed fields out of JSON objects and arrays.
//
// Required lookups fail with a FormatError naming the construct, the key or
// index, the expected shape and the shape found. Optional lookups return the
// fallback when the field is absent or null, and fail only when a value of the
// wrong shape is present. No operation modifies its input.
type Parser struct {
	construct string
	ctx       *Context
}

// Construct returns the name used in error messages.
func (p Parser) Construct() string {
	return p.construct
}

// Context returns the translation context.
func (p Parser) Context() *Context {
	return p.ctx
}

func (p Parser) missing(key, expected string) *FormatError {
	return &FormatError{Context: p.construct, Key: key, Expected: expected, Actual: "missing"}
}

func (p Parser) mismatch(key, expected string, v ir.Value) *FormatError {
	return &FormatError{Context: p.construct, Key: key, Expected: expected, Actual: ir.KindOf(v).String()}
}

func (p Parser) optionalMismatch(key, expected string, v ir.Value) *FormatError {
	return &FormatError{
		Context: p.construct,
		Message: "optional " + key + " expects " + expected + " (was " + ir.KindOf(v).String() + ")",
	}
}

// at returns arr[i], or nil when i is out of range.
func at(arr ir.Array, i int) ir.Value {
	if i < 0 || i >= len(arr) {
		return nil
	}
	return arr[i]
}

// field returns obj[key], or nil when absent.
func field(obj ir.Object, key string) ir.Value {
	v, _ := obj.Get(key)
	return v
}

//
// Strings
//

// String returns the required string field key.
func (p Parser) String(obj ir.Object, key string) (string, error) {
	switch v := field(obj, key).(type) {
	case ir.String:
		return string(v), nil
	case nil, ir.Null:
		return "", p.missing(keyName(key), "String")
	default:
		return "", p.mismatch(keyName(key), "String", v)
	}
}

// StringOr returns the optional string field key.
func (p Parser) StringOr(obj ir.Object, key, fallback string) (string, error) {
	switch v := field(obj, key).(type) {
	case ir.String:
		return string(v), nil
	case nil, ir.Null:
		return fallback, nil
	default:
		return "", p.optionalMismatch(keyName(key), "String", v)
	}
}

// StringAt returns the required string at arr[i].
func (p Parser) StringAt(arr ir.Array, i int) (string, error) {
	switch v := at(arr, i).(type) {
	case ir.String:
		return string(v), nil
	case nil, ir.Null:
		return "", p.missing(indexName(i), "String")
	default:
		return "", p.mismatch(indexName(i), "String", v)
	}
}

//
// Numbers
//

// Number returns the required numeric field key.
func (p Parser) Number(obj ir.Object, key string) (float64, error) {
	switch v := field(obj, key).(type) {
	case ir.Number:
		return float64(v), nil
	case nil, ir.Null:
		return 0, p.missing(keyName(key), "Number")
	default:
		return 0, p.mismatch(keyName(key), "Number", v)
	}
}

// NumberOr returns the optional numeric field key.
func (p Parser) NumberOr(obj ir.Object, key string, fallback float64) (float64, error) {
	switch v := field(obj, key).(type) {
	case ir.Number:
		return float64(v), nil
	case nil, ir.Null:
		return fallback, nil
	default:
		return 0, p.optionalMismatch(keyName(key), "Number", v)
	}
}

// NumberAt returns the required number at arr[i].
func (p Parser) NumberAt(arr ir.Array, i int) (float64, error) {
	switch v := at(arr, i).(type) {
	case ir.Number:
		return float64(v), nil
	case nil, ir.Null:
		return 0, p.missing(indexName(i), "Number")
	default:
		return 0, p.mismatch(indexName(i), "Number", v)
	}
}

//
// Booleans
//

// Bool returns the required boolean field key.
func (p Parser) Bool(obj ir.Object, key string) (bool, error) {
	switch v := field(obj, key).(type) {
	case ir.Bool:
		return bool(v), nil
	case nil, ir.Null:
		return false, p.missing(keyName(key), "Boolean")
	default:
		return false, p.mismatch(keyName(key), "Boolean", v)
	}
}

// BoolOr returns the optional boolean field key.
func (p Parser) BoolOr(obj ir.Object, key string, fallback bool) (bool, error) {
	switch v := field(obj, key).(type) {
	case ir.Bool:
		return bool(v), nil
	case nil, ir.Null:
		return fallback, nil
	default:
		return false, p.optionalMismatch(keyName(key), "Boolean", v)
	}
}

// BoolAt returns the required boolean at arr[i].
func (p Parser) BoolAt(arr ir.Array, i int) (bool, error) {
	switch v := at(arr, i).(type) {
	case ir.Bool:
		return bool(v), nil
	case nil, ir.Null:
		return false, p.missing(indexName(i), "Boolean")
	default:
		return false, p.mismatch(indexName(i), "Boolean", v)
	}
}

//
// Containers
//

// Array returns the required array field key.
func (p Parser) Array(obj ir.Object, key string) (ir.Array, error) {
	switch v := field(obj, key).(type) {
	case ir.Array:
		return v, nil
	case nil, ir.Null:
		return nil, p.missing(keyName(key), "Array")
	default:
		return nil, p.mismatch(keyName(key), "Array", v)
	}
}

// ArrayOr returns the optional array field key.
func (p Parser) ArrayOr(obj ir.Object, key string, fallback ir.Array) (ir.Array, error) {
	switch v := field(obj, key).(type) {
	case ir.Array:
		return v, nil
	case nil, ir.Null:
		return fallback, nil
	default:
		return nil, p.optionalMismatch(keyName(key), "Array", v)
	}
}

// ArrayAt returns the required array at arr[i].
func (p Parser) ArrayAt(arr ir.Array, i int) (ir.Array, error) {
	switch v := at(arr, i).(type) {
	case ir.Array:
		return v, nil
	case nil, ir.Null:
		return nil, p.missing(indexName(i), "Array")
	default:
		return nil, p.mismatch(indexName(i), "Array", v)
	}
}

// Object returns the required object field key.
func (p Parser) Object(obj ir.Object, key string) (ir.Object, error) {
	switch v := field(obj, key).(type) {
	case ir.Object:
		return v, nil
	case nil, ir.Null:
		return ir.Object{}, p.missing(keyName(key), "Object")
	default:
		return ir.Object{}, p.mismatch(keyName(key), "Object", v)
	}
}

// ObjectOr returns the optional object field key.
func (p Parser) ObjectOr(obj ir.Object, key string, fallback ir.Object) (ir.Object, error) {
	switch v := field(obj, key).(type) {
	case ir.Object:
		return v, nil
	case nil, ir.Null:
		return fallback, nil
	default:
		return ir.Object{}, p.optionalMismatch(keyName(key), "Object", v)
	}
}

// ObjectAt returns the required object at arr[i].
func (p Parser) ObjectAt(arr ir.Array, i int) (ir.Object, error) {
	switch v := at(arr, i).(type) {
	case ir.Object:
		return v, nil
	case nil, ir.Null:
		return ir.Object{}, p.missing(indexName(i), "Object")
	default:
		return ir.Object{}, p.mismatch(indexName(i), "Object", v)
	}
}

// JSONArray casts v to an array.
func (p Parser) JSONArray(v ir.Value) (ir.Array, error) {
	if arr, ok := v.(ir.Array); ok {
		return arr, nil
	}
	return nil, &FormatError{Context: p.construct, Expected: "Array", Actual: ir.Snippet(v)}
}

// JSONObject casts v to an object.
func (p Parser) JSONObject(v ir.Value) (ir.Object, error) {
	if obj, ok := v.(ir.Object); ok {
		return obj, nil
	}
	return ir.Object{}, &FormatError{Context: p.construct, Expected: "Object", Actual: ir.Snippet(v)}
}

//
// Literals
//

// Value returns the required scalar (string, number or boolean) field key.
func (p Parser) Value(obj ir.Object, key string) (ir.Value, error) {
	v := field(obj, key)
	if isScalar(v) {
		return v, nil
	}
	if ir.IsNull(v) {
		return nil, p.missing(keyName(key), "literal")
	}
	return nil, p.mismatch(keyName(key), "literal", v)
}

// ValueAt returns the required scalar at arr[i].
func (p Parser) ValueAt(arr ir.Array, i int) (ir.Value, error) {
	v := at(arr, i)
	if isScalar(v) {
		return v, nil
	}
	if ir.IsNull(v) {
		return nil, p.missing(indexName(i), "string, numeric or boolean")
	}
	return nil, p.mismatch(indexName(i), "string, numeric or boolean", v)
}

// Literal converts arr[i] to an expression: scalars become literals and a
// nested array is handed to the data expression translator.
func (p Parser) Literal(arr ir.Array, i int) (ast.Expression, error) {
	v := at(arr, i)
	switch val := v.(type) {
	case ir.String, ir.Number, ir.Bool:
		return ast.Lit(val), nil
	case ir.Array:
		if p.ctx == nil || p.ctx.Expressions == nil {
			return nil, Errorf(p.construct, "data expression at %s requires an expression translator", indexName(i))
		}
		return p.ctx.Expressions.Translate(val)
	case nil, ir.Null:
		return nil, p.missing(indexName(i), "literal or data expression")
	default:
		return nil, p.mismatch(indexName(i), "literal or data expression", v)
	}
}

func isScalar(v ir.Value) bool {
	switch v.(type) {
	case ir.String, ir.Number, ir.Bool:
		return true
	default:
		return false
	}
}

//
// Shape predicates
//

// IsDefined reports whether key is present with a non-null value.
func (p Parser) IsDefined(obj ir.Object, key string) bool {
	return !ir.IsNull(field(obj, key))
}

// IsDefinedAt reports whether arr[i] exists and is not null.
func (p Parser) IsDefinedAt(arr ir.Array, i int) bool {
	return !ir.IsNull(at(arr, i))
}

// IsString reports whether key holds a string.
func (p Parser) IsString(obj ir.Object, key string) bool {
	return ir.KindOf(field(obj, key)) == ir.KindString
}

// IsStringAt reports whether arr[i] is a string.
func (p Parser) IsStringAt(arr ir.Array, i int) bool {
	return ir.KindOf(at(arr, i)) == ir.KindString
}

// IsNumber reports whether key holds a number.
func (p Parser) IsNumber(obj ir.Object, key string) bool {
	return ir.KindOf(field(obj, key)) == ir.KindNumber
}

// IsNumberAt reports whether arr[i] is a number.
func (p Parser) IsNumberAt(arr ir.Array, i int) bool {
	return ir.KindOf(at(arr, i)) == ir.KindNumber
}

// IsBool reports whether key holds a boolean.
func (p Parser) IsBool(obj ir.Object, key string) bool {
	return ir.KindOf(field(obj, key)) == ir.KindBool
}

// IsBoolAt reports whether arr[i] is a boolean.
func (p Parser) IsBoolAt(arr ir.Array, i int) bool {
	return ir.KindOf(at(arr, i)) == ir.KindBool
}

// IsArray reports whether key holds an array.
func (p Parser) IsArray(obj ir.Object, key string) bool {
	return ir.KindOf(field(obj, key)) == ir.KindArray
}

// IsArrayAt reports whether arr[i] is an array.
func (p Parser) IsArrayAt(arr ir.Array, i int) bool {
	return ir.KindOf(at(arr, i)) == ir.KindArray
}

// IsObject reports whether key holds an object.
func (p Parser) IsObject(obj ir.Object, key string) bool {
	return ir.KindOf(field(obj, key)) == ir.KindObject
}

// IsObjectAt reports whether arr[i] is an object.
func (p Parser) IsObjectAt(arr ir.Array, i int) bool {
	return ir.KindOf(at(arr, i)) == ir.KindObject
}
