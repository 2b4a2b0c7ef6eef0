package ast

import (
	"fmt"

	"github.com/roach88/mbstyle/internal/ir"
)

// EncodeFilter converts a Filter to a JSON value for output and fingerprints.
// Every node becomes an object tagged with "node".
func EncodeFilter(f Filter) (ir.Value, error) {
	switch n := f.(type) {
	case IncludeAll:
		return node("IncludeAll"), nil
	case Comparison:
		left, err := EncodeExpression(n.Left)
		if err != nil {
			return nil, fmt.Errorf("comparison left: %w", err)
		}
		right, err := EncodeExpression(n.Right)
		if err != nil {
			return nil, fmt.Errorf("comparison right: %w", err)
		}
		return node("Comparison",
			ir.O("op", ir.String(n.Op.String())),
			ir.O("left", left),
			ir.O("right", right),
		), nil
	case Membership:
		prop, err := EncodeExpression(n.Property)
		if err != nil {
			return nil, fmt.Errorf("membership property: %w", err)
		}
		values, err := encodeExpressions(n.Values)
		if err != nil {
			return nil, fmt.Errorf("membership values: %w", err)
		}
		return node("Membership",
			ir.O("property", prop),
			ir.O("values", values),
			ir.O("negated", ir.Bool(n.Negated)),
		), nil
	case Existential:
		return node("Existential",
			ir.O("property", ir.String(n.Property)),
			ir.O("negated", ir.Bool(n.Negated)),
		), nil
	case Logical:
		children := make(ir.Array, 0, len(n.Children))
		for i, c := range n.Children {
			v, err := EncodeFilter(c)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", n.Op, i, err)
			}
			children = append(children, v)
		}
		return node("Logical",
			ir.O("op", ir.String(n.Op.String())),
			ir.O("children", children),
		), nil
	case Not:
		child, err := EncodeFilter(n.Child)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return node("Not", ir.O("child", child)), nil
	case GeometryType:
		kinds := make(ir.Array, 0, len(n.Kinds))
		for _, k := range n.Kinds {
			kinds = append(kinds, ir.String(k.String()))
		}
		return node("GeometryType",
			ir.O("op", ir.String(n.Op.String())),
			ir.O("kinds", kinds),
		), nil
	case FeatureIdentity:
		ids := make(ir.Array, 0, len(n.IDs))
		for _, id := range n.IDs {
			ids = append(ids, ir.String(id))
		}
		return node("FeatureIdentity",
			ir.O("ids", ids),
			ir.O("negated", ir.Bool(n.Negated)),
		), nil
	case DataExpressionFilter:
		expr, err := EncodeExpression(n.Expr)
		if err != nil {
			return nil, fmt.Errorf("data expression: %w", err)
		}
		return node("DataExpressionFilter", ir.O("expr", expr)), nil
	case nil:
		return nil, fmt.Errorf("nil filter")
	default:
		return nil, fmt.Errorf("unknown filter type: %T", f)
	}
}

// EncodeExpression converts an Expression to a JSON value.
func EncodeExpression(e Expression) (ir.Value, error) {
	switch n := e.(type) {
	case Literal:
		return node("Literal", ir.O("value", literalValue(n))), nil
	case PropertyReference:
		return node("PropertyReference", ir.O("name", ir.String(n.Name))), nil
	case FunctionCall:
		args, err := encodeExpressions(n.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		return node("FunctionCall",
			ir.O("name", ir.String(n.Name)),
			ir.O("args", args),
		), nil
	case FallbackWrapped:
		inner, err := EncodeExpression(n.Inner)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		return node("FallbackWrapped",
			ir.O("inner", inner),
			ir.O("default", literalValue(n.Default)),
		), nil
	case nil:
		return nil, fmt.Errorf("nil expression")
	default:
		return nil, fmt.Errorf("unknown expression type: %T", e)
	}
}

func encodeExpressions(exprs []Expression) (ir.Array, error) {
	out := make(ir.Array, 0, len(exprs))
	for i, e := range exprs {
		v, err := EncodeExpression(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func literalValue(l Literal) ir.Value {
	if l.Value == nil {
		return ir.Null{}
	}
	return l.Value
}

func node(kind string, fields ...ir.Pair) ir.Object {
	return ir.NewObject(append([]ir.Pair{ir.O("node", ir.String(kind))}, fields...)...)
}

// FilterFingerprint returns a content hash of f. Structurally equal filters
// have equal fingerprints.
func FilterFingerprint(f Filter) (string, error) {
	v, err := EncodeFilter(f)
	if err != nil {
		return "", err
	}
	return ir.Fingerprint(ir.DomainFilter, v)
}

// ExpressionFingerprint returns a content hash of e.
func ExpressionFingerprint(e Expression) (string, error) {
	v, err := EncodeExpression(e)
	if err != nil {
		return "", err
	}
	return ir.Fingerprint(ir.DomainExpression, v)
}
