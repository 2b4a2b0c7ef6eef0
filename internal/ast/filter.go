package ast

// Filter represents a boolean predicate over a feature.
//
// This is a sealed interface - only types in this package implement it.
// Filter types:
//   - IncludeAll: empty or absent filter, matches everything
//   - Comparison: ==, !=, <, <=, >, >=
//   - Membership: in / !in over a property
//   - Existential: has / !has
//   - Logical: all / any (none is emitted as And of Not)
//   - Not: negation wrapper
//   - GeometryType: $type tests
//   - FeatureIdentity: $id tests
//   - DataExpressionFilter: case / coalesce / match / within, true when the
//     expression evaluates to boolean true
type Filter interface {
	filterNode() // Marker method - seals interface to this package
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// String returns the dialect spelling of the operator.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// LogicalOp combines child filters.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
	Nor
)

// String returns the combinator name.
func (op LogicalOp) String() string {
	switch op {
	case And:
		return "And"
	case Or:
		return "Or"
	case Nor:
		return "Nor"
	default:
		return "?"
	}
}

// GeometryOp is the operator of a $type test.
type GeometryOp int

const (
	GeomEq GeometryOp = iota
	GeomNe
	GeomIn
	GeomNotIn
)

// String returns the dialect spelling of the operator.
func (op GeometryOp) String() string {
	switch op {
	case GeomEq:
		return "=="
	case GeomNe:
		return "!="
	case GeomIn:
		return "in"
	case GeomNotIn:
		return "!in"
	default:
		return "?"
	}
}

// Negated reports whether the operator excludes the named kinds.
func (op GeometryOp) Negated() bool {
	return op == GeomNe || op == GeomNotIn
}

// IncludeAll matches every feature.
type IncludeAll struct{}

func (IncludeAll) filterNode() {}

// Comparison compares two expressions.
//
// Example:
//
//	["==", "class", "street"]
//
// becomes
//
//	Comparison{Op: OpEq, Left: PropertyReference{"class"}, Right: Literal{"street"}}
type Comparison struct {
	Op    CompareOp
	Left  Expression
	Right Expression
}

func (Comparison) filterNode() {}

// Membership tests whether Property equals any of Values. With no values an
// in test matches nothing and a !in test matches everything.
type Membership struct {
	Property Expression
	Values   []Expression
	Negated  bool
}

func (Membership) filterNode() {}

// Existential tests whether the named property is present (non-null).
type Existential struct {
	Property string
	Negated  bool
}

func (Existential) filterNode() {}

// Logical combines Children. An And with no children is vacuously true; an Or
// with no children never matches.
type Logical struct {
	Op       LogicalOp
	Children []Filter
}

func (Logical) filterNode() {}

// Not negates Child.
type Not struct {
	Child Filter
}

func (Not) filterNode() {}

// GeometryType tests the geometry kind of a feature.
type GeometryType struct {
	Kinds []SemanticType
	Op    GeometryOp
}

func (GeometryType) filterNode() {}

// FeatureIdentity tests the feature id against a set of ids.
// IDs is sorted and free of duplicates.
type FeatureIdentity struct {
	IDs     []string
	Negated bool
}

func (FeatureIdentity) filterNode() {}

// DataExpressionFilter matches when Expr evaluates to boolean true.
type DataExpressionFilter struct {
	Expr Expression
}

func (DataExpressionFilter) filterNode() {}
