package ast

import (
	"fmt"
	"slices"
)

// ValidationResult contains the structural analysis of a tree.
//
// The translators only build well-formed trees; Validate exists for trees
// assembled by hand (tests, tooling) and as a post-condition check in the CLI.
type ValidationResult struct {
	// IsValid indicates the tree satisfies every structural rule.
	IsValid bool

	// Warnings lists each violated rule. Empty when IsValid is true.
	Warnings []string
}

// ValidateFilter checks structural rules of a filter tree:
//  1. No nil children or operands
//  2. GeometryType == / != name exactly one kind
//  3. FeatureIdentity ids are sorted and unique
//  4. FallbackWrapped is never nested directly inside another
//
// ValidateFilter is a pure function with no side effects.
func ValidateFilter(f Filter) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validateFilter(f)
	return v.result()
}

// ValidateExpression checks structural rules of an expression tree.
func ValidateExpression(e Expression) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validateExpression(e)
	return v.result()
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) result() ValidationResult {
	return ValidationResult{
		IsValid:  len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

func (v *validator) validateFilter(f Filter) {
	switch n := f.(type) {
	case nil:
		v.addWarning("nil filter")
	case IncludeAll, Existential:
	case Comparison:
		v.validateExpression(n.Left)
		v.validateExpression(n.Right)
	case Membership:
		v.validateExpression(n.Property)
		for _, val := range n.Values {
			v.validateExpression(val)
		}
	case Logical:
		for _, c := range n.Children {
			v.validateFilter(c)
		}
	case Not:
		v.validateFilter(n.Child)
	case GeometryType:
		if (n.Op == GeomEq || n.Op == GeomNe) && len(n.Kinds) != 1 {
			v.addWarning("$type %s requires exactly one kind, got %d", n.Op, len(n.Kinds))
		}
	case FeatureIdentity:
		if !slices.IsSorted(n.IDs) || len(slices.Compact(slices.Clone(n.IDs))) != len(n.IDs) {
			v.addWarning("$id set is not sorted and unique: %v", n.IDs)
		}
	case DataExpressionFilter:
		v.validateExpression(n.Expr)
	default:
		v.addWarning("unknown filter type: %T", f)
	}
}

func (v *validator) validateExpression(e Expression) {
	switch n := e.(type) {
	case nil:
		v.addWarning("nil expression")
	case Literal, PropertyReference:
	case FunctionCall:
		if n.Name == "" {
			v.addWarning("function call without a name")
		}
		for _, a := range n.Args {
			v.validateExpression(a)
		}
	case FallbackWrapped:
		if _, nested := n.Inner.(FallbackWrapped); nested {
			v.addWarning("fallback wrapped twice")
		}
		v.validateExpression(n.Inner)
	default:
		v.addWarning("unknown expression type: %T", e)
	}
}
