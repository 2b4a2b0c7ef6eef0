package function

import (
	"fmt"

	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

const construct = "function"

// reader reads function fields; it needs no translation context.
var reader = (&parse.Context{}).Parser(construct)

// Type is the declared interpolation strategy of a function.
type Type int

const (
	TypeUnset Type = iota
	TypeIdentity
	TypeExponential
	TypeInterval
	TypeCategorical
)

var typeNames = map[string]Type{
	"identity":    TypeIdentity,
	"exponential": TypeExponential,
	"interval":    TypeInterval,
	"categorical": TypeCategorical,
}

// ParseType maps a dialect type name to its Type.
func ParseType(name string) (Type, error) {
	if t, ok := typeNames[name]; ok {
		return t, nil
	}
	return TypeUnset, parse.Errorf(construct,
		"type %q invalid - expected identity, exponential, interval, categorical", name)
}

func (t Type) String() string {
	switch t {
	case TypeIdentity:
		return "identity"
	case TypeExponential:
		return "exponential"
	case TypeInterval:
		return "interval"
	case TypeCategorical:
		return "categorical"
	default:
		return "unset"
	}
}

// Category tells what a function takes as its input.
type Category int

const (
	// CategoryProperty functions read a feature property.
	CategoryProperty Category = iota + 1
	// CategoryZoom functions read the zoom level.
	CategoryZoom
	// CategoryZoomAndProperty functions key their stops on {zoom, value}
	// objects. They must be reduced to one of the other categories before
	// translation.
	CategoryZoomAndProperty
)

func (c Category) String() string {
	switch c {
	case CategoryProperty:
		return "property"
	case CategoryZoom:
		return "zoom"
	case CategoryZoomAndProperty:
		return "zoom-and-property"
	default:
		return "unknown"
	}
}

// Stop pairs a function input with its output.
type Stop struct {
	Input  ir.Value
	Output ir.Value
}

// Function is a parsed function object.
type Function struct {
	json ir.Object

	Type     Type
	Property string
	// Stops keeps document order. It is nil when the object has no stops.
	Stops []Stop
	// Base is the exponential base, 1 when absent.
	Base float64
	// Default is nil when the object declares no default.
	Default ir.Value

	hasProperty bool
}

// Parse reads a function object. It checks field shapes only; whether the
// stops suit a domain is checked during translation.
func Parse(v ir.Value) (*Function, error) {
	obj, err := reader.JSONObject(v)
	if err != nil {
		return nil, err
	}

	fn := &Function{json: obj}

	typeName, err := reader.StringOr(obj, "type", "")
	if err != nil {
		return nil, err
	}
	if typeName != "" {
		if fn.Type, err = ParseType(typeName); err != nil {
			return nil, err
		}
	}

	if fn.Property, err = reader.StringOr(obj, "property", ""); err != nil {
		return nil, err
	}
	fn.hasProperty = reader.IsDefined(obj, "property")

	if fn.Base, err = reader.NumberOr(obj, "base", 1); err != nil {
		return nil, err
	}

	if def, ok := obj.Get("default"); ok && !ir.IsNull(def) {
		fn.Default = def
	}

	stops, err := reader.ArrayOr(obj, "stops", nil)
	if err != nil {
		return nil, err
	}
	if stops != nil {
		fn.Stops = make([]Stop, 0, len(stops))
		for i := range stops {
			pair, err := reader.ArrayAt(stops, i)
			if err != nil {
				return nil, err
			}
			if len(pair) != 2 {
				return nil, &parse.FormatError{
					Context:  construct,
					Key:      fmt.Sprintf("stop [%d]", i),
					Expected: "[input, output] pair",
					Actual:   ir.Snippet(pair),
				}
			}
			fn.Stops = append(fn.Stops, Stop{Input: pair[0], Output: pair[1]})
		}
	}
	return fn, nil
}

// JSON returns the object the function was parsed from.
func (fn *Function) JSON() ir.Object {
	return fn.json
}

// HasProperty reports whether the function names an input property.
func (fn *Function) HasProperty() bool {
	return fn.hasProperty
}

// Category classifies the function by its input.
func (fn *Function) Category() Category {
	if !fn.hasProperty {
		return CategoryZoom
	}
	if len(fn.Stops) > 0 && ir.KindOf(fn.Stops[0].Input) == ir.KindObject {
		return CategoryZoomAndProperty
	}
	return CategoryProperty
}

// TypeWithDefault returns the declared type, or the default for domain:
// exponential for colors and numbers, interval for everything else.
func (fn *Function) TypeWithDefault(kind Kind) Type {
	if fn.Type != TypeUnset {
		return fn.Type
	}
	switch kind {
	case KindColor, KindNumeric:
		return TypeExponential
	default:
		return TypeInterval
	}
}
