package filter

// Operator is the leading element of a filter array.
type Operator int

const (
	OpInvalid Operator = iota
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpHas
	OpNotHas
	OpIn
	OpNotIn
	OpAll
	OpAny
	OpNone
	OpCase
	OpCoalesce
	OpMatch
	OpWithin
)

var operatorNames = map[string]Operator{
	"==":       OpEq,
	"!=":       OpNe,
	"<":        OpLt,
	"<=":       OpLe,
	">":        OpGt,
	">=":       OpGe,
	"has":      OpHas,
	"!has":     OpNotHas,
	"in":       OpIn,
	"!in":      OpNotIn,
	"all":      OpAll,
	"any":      OpAny,
	"none":     OpNone,
	"case":     OpCase,
	"coalesce": OpCoalesce,
	"match":    OpMatch,
	"within":   OpWithin,
}

// ParseOperator maps an operator string to its Operator.
func ParseOperator(s string) (Operator, bool) {
	op, ok := operatorNames[s]
	return op, ok
}

// String returns the dialect spelling.
func (op Operator) String() string {
	for name, o := range operatorNames {
		if o == op {
			return name
		}
	}
	return "invalid"
}

// isComparison reports ==, !=, <, <=, >, >=.
func (op Operator) isComparison() bool {
	return op >= OpEq && op <= OpGe
}

// isTypeTest reports the operators accepted with "$type".
func (op Operator) isTypeTest() bool {
	return op == OpEq || op == OpNe || op == OpIn || op == OpNotIn
}

// isIDTest reports the operators accepted with "$id".
func (op Operator) isIDTest() bool {
	return op.isTypeTest() || op == OpHas || op == OpNotHas
}

// isDataExpression reports operators handed whole to the data expression
// translator.
func (op Operator) isDataExpression() bool {
	return op >= OpCase && op <= OpWithin
}
