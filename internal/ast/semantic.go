package ast

import (
	"fmt"
	"strings"
)

// SemanticType is a geometry kind a style rule can apply to.
type SemanticType uint8

const (
	Point SemanticType = iota
	Line
	Polygon
)

// AllSemanticTypes lists every kind in declaration order.
var AllSemanticTypes = []SemanticType{Point, Line, Polygon}

// String returns the kind name.
func (t SemanticType) String() string {
	switch t {
	case Point:
		return "Point"
	case Line:
		return "Line"
	case Polygon:
		return "Polygon"
	default:
		return fmt.Sprintf("SemanticType(%d)", uint8(t))
	}
}

// DialectName returns the spelling used by $type filters.
func (t SemanticType) DialectName() string {
	if t == Line {
		return "LineString"
	}
	return t.String()
}

// ParseGeometryName maps a $type value (Point, LineString, Polygon) to its kind.
func ParseGeometryName(name string) (SemanticType, bool) {
	switch name {
	case "Point":
		return Point, true
	case "LineString":
		return Line, true
	case "Polygon":
		return Polygon, true
	default:
		return 0, false
	}
}

// ParseSemanticType accepts either the kind name or the dialect spelling,
// case-insensitively. Used for configuration and CLI flags.
func ParseSemanticType(name string) (SemanticType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "point":
		return Point, nil
	case "line", "linestring":
		return Line, nil
	case "polygon":
		return Polygon, nil
	default:
		return 0, fmt.Errorf("unknown semantic type %q - expected Point, Line or Polygon", name)
	}
}

// SemanticTypeSet is a set of SemanticType values. The zero value is empty.
type SemanticTypeSet uint8

// AllTypes contains every SemanticType.
const AllTypes SemanticTypeSet = 1<<Point | 1<<Line | 1<<Polygon

// NewSemanticTypeSet builds a set from kinds.
func NewSemanticTypeSet(kinds ...SemanticType) SemanticTypeSet {
	var s SemanticTypeSet
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

// Add returns s with k included.
func (s SemanticTypeSet) Add(k SemanticType) SemanticTypeSet {
	return s | 1<<k
}

// Contains reports whether k is in s.
func (s SemanticTypeSet) Contains(k SemanticType) bool {
	return s&(1<<k) != 0
}

// Union returns the kinds in either set.
func (s SemanticTypeSet) Union(o SemanticTypeSet) SemanticTypeSet {
	return s | o
}

// Complement returns the kinds not in s.
func (s SemanticTypeSet) Complement() SemanticTypeSet {
	return AllTypes &^ s
}

// IsEmpty reports whether s has no kinds.
func (s SemanticTypeSet) IsEmpty() bool {
	return s&AllTypes == 0
}

// Slice returns the kinds in declaration order.
func (s SemanticTypeSet) Slice() []SemanticType {
	var out []SemanticType
	for _, k := range AllSemanticTypes {
		if s.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}

// String renders the set as {Point, Line}.
func (s SemanticTypeSet) String() string {
	names := make([]string, 0, 3)
	for _, k := range s.Slice() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// ParseSemanticTypeSet parses a comma separated list such as "Point,Polygon".
// An empty string is the empty set.
func ParseSemanticTypeSet(list string) (SemanticTypeSet, error) {
	var s SemanticTypeSet
	if strings.TrimSpace(list) == "" {
		return s, nil
	}
	for _, part := range strings.Split(list, ",") {
		k, err := ParseSemanticType(part)
		if err != nil {
			return 0, err
		}
		s = s.Add(k)
	}
	return s, nil
}
