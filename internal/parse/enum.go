package parse

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
)

// Member is one constant of an enumeration: the dialect name and the target
// literal it converts to.
type Member struct {
	Name    string
	Literal string
}

// Enumeration is a closed set of named constants, e.g. line-join.
type Enumeration struct {
	Name    string
	Members []Member
}

// Lookup finds the member matching s, ignoring case and surrounding space.
func (e Enumeration) Lookup(s string) (Member, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(s))
	for _, m := range e.Members {
		if fold.String(m.Name) == want {
			return m, true
		}
	}
	return Member{}, false
}

// Names returns the member names in declaration order.
func (e Enumeration) Names() []string {
	names := make([]string, len(e.Members))
	for i, m := range e.Members {
		names[i] = m.Name
	}
	return names
}

// Constant converts a dialect value to the enumeration's target literal.
// It returns ok=false, without error, for null, non-string and blank values
// so the caller can apply its own default. An unknown name is a FormatError.
func (p Parser) Constant(v ir.Value, e Enumeration) (lit ast.Literal, ok bool, err error) {
	s, isString := v.(ir.String)
	if !isString || strings.TrimSpace(string(s)) == "" {
		return ast.Literal{}, false, nil
	}
	m, found := e.Lookup(string(s))
	if !found {
		return ast.Literal{}, false, &FormatError{
			Context: p.construct,
			Message: `"` + string(s) + `" invalid value for enumeration ` + e.Name,
		}
	}
	return ast.Str(m.Literal), true, nil
}

// Enum reads the optional enumeration field key, returning fallback when it
// is absent or blank.
func (p Parser) Enum(obj ir.Object, key string, e Enumeration, fallback Member) (Member, error) {
	switch v := field(obj, key).(type) {
	case nil, ir.Null:
		return fallback, nil
	case ir.String:
		if strings.TrimSpace(string(v)) == "" {
			return fallback, nil
		}
		m, ok := e.Lookup(string(v))
		if !ok {
			return Member{}, &FormatError{
				Context: p.construct,
				Message: keyName(key) + ` contains invalid "` + string(v) + `" for enumeration ` + e.Name,
			}
		}
		return m, nil
	default:
		return Member{}, &FormatError{
			Context: p.construct,
			Message: "conversion of " + keyName(key) + " value from " + ir.KindOf(v).String() + " to " + e.Name + " not supported",
		}
	}
}

// Enumeration names of the built-in tables.
const (
	EnumLineCap           = "line-cap"
	EnumLineJoin          = "line-join"
	EnumTextTransform     = "text-transform"
	EnumTextAnchor        = "text-anchor"
	EnumTextJustify       = "text-justify"
	EnumSymbolPlacement   = "symbol-placement"
	EnumVisibility        = "visibility"
	EnumIconTextFit       = "icon-text-fit"
	EnumRotationAlignment = "rotation-alignment"
	EnumTranslateAnchor   = "translate-anchor"
)

// same builds members whose literal equals their name.
func same(names ...string) []Member {
	members := make([]Member, len(names))
	for i, n := range names {
		members[i] = Member{Name: n, Literal: n}
	}
	return members
}

// BuiltinEnumerations returns fresh copies of the dialect's enumeration tables.
func BuiltinEnumerations() map[string]Enumeration {
	tables := []Enumeration{
		{Name: EnumLineCap, Members: same("butt", "round", "square")},
		{Name: EnumLineJoin, Members: []Member{
			{Name: "bevel", Literal: "bevel"},
			{Name: "round", Literal: "round"},
			{Name: "miter", Literal: "mitre"},
		}},
		{Name: EnumTextTransform, Members: same("none", "uppercase", "lowercase")},
		{Name: EnumTextAnchor, Members: same(
			"center", "left", "right", "top", "bottom",
			"top-left", "top-right", "bottom-left", "bottom-right",
		)},
		{Name: EnumTextJustify, Members: same("left", "center", "right")},
		{Name: EnumSymbolPlacement, Members: same("point", "line", "line-center")},
		{Name: EnumVisibility, Members: same("visible", "none")},
		{Name: EnumIconTextFit, Members: same("none", "width", "height", "both")},
		{Name: EnumRotationAlignment, Members: same("map", "viewport", "auto")},
		{Name: EnumTranslateAnchor, Members: same("map", "viewport")},
	}

	out := make(map[string]Enumeration, len(tables))
	for _, t := range tables {
		out[t.Name] = t
	}
	return out
}
