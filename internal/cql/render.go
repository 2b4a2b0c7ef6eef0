// Package cql renders filter and expression trees as CQL text.
//
// The output follows the extended CQL used by map servers: property names
// are bare identifiers (double quoted when they are not plain words), strings
// are single quoted with embedded quotes doubled, and target functions are
// written as calls, e.g.
//
//	geometryType() IN ('Polygon') AND rank < 3
//	Categorize(rank, '#ffffff', 0, '#ffffff', 10, '#000000', 'succeeding')
//
// Rendering is deterministic: equal trees always render to equal text.
package cql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
)

// Renderer renders trees to CQL.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Filter renders f with a default Renderer.
func Filter(f ast.Filter) (string, error) {
	return NewRenderer().Filter(f)
}

// Expression renders e with a default Renderer.
func Expression(e ast.Expression) (string, error) {
	return NewRenderer().Expression(e)
}

var compareOps = map[ast.CompareOp]string{
	ast.OpEq: "=",
	ast.OpNe: "<>",
	ast.OpLt: "<",
	ast.OpLe: "<=",
	ast.OpGt: ">",
	ast.OpGe: ">=",
}

// Filter renders a filter tree.
func (r *Renderer) Filter(f ast.Filter) (string, error) {
	if f == nil {
		return "", fmt.Errorf("cannot render nil filter")
	}

	switch node := f.(type) {
	case ast.IncludeAll:
		return "INCLUDE", nil
	case ast.Comparison:
		return r.comparison(node)
	case ast.Membership:
		return r.membership(node)
	case ast.Existential:
		if node.Negated {
			return quoteName(node.Property) + " DOES-NOT-EXIST", nil
		}
		return quoteName(node.Property) + " EXISTS", nil
	case ast.Logical:
		return r.logical(node)
	case ast.Not:
		child, err := r.Filter(node.Child)
		if err != nil {
			return "", err
		}
		return "NOT (" + child + ")", nil
	case ast.GeometryType:
		return r.geometryType(node), nil
	case ast.FeatureIdentity:
		ids := make([]string, len(node.IDs))
		for i, id := range node.IDs {
			ids[i] = quoteString(id)
		}
		sql := "IN (" + strings.Join(ids, ", ") + ")"
		if node.Negated {
			return "NOT (" + sql + ")", nil
		}
		return sql, nil
	case ast.DataExpressionFilter:
		expr, err := r.Expression(node.Expr)
		if err != nil {
			return "", err
		}
		return expr + " = true", nil
	default:
		return "", fmt.Errorf("unsupported filter type: %T", f)
	}
}

func (r *Renderer) comparison(c ast.Comparison) (string, error) {
	op, ok := compareOps[c.Op]
	if !ok {
		return "", fmt.Errorf("unsupported comparison operator: %d", c.Op)
	}
	left, err := r.Expression(c.Left)
	if err != nil {
		return "", fmt.Errorf("left operand: %w", err)
	}
	right, err := r.Expression(c.Right)
	if err != nil {
		return "", fmt.Errorf("right operand: %w", err)
	}
	return left + " " + op + " " + right, nil
}

func (r *Renderer) membership(m ast.Membership) (string, error) {
	if len(m.Values) == 0 {
		if m.Negated {
			return "INCLUDE", nil
		}
		return "EXCLUDE", nil
	}
	prop, err := r.Expression(m.Property)
	if err != nil {
		return "", err
	}
	values, err := r.expressions(m.Values)
	if err != nil {
		return "", err
	}
	op := " IN ("
	if m.Negated {
		op = " NOT IN ("
	}
	return prop + op + values + ")", nil
}

// logical joins children with AND / OR. Nested combinations are
// parenthesized. Empty And and Nor render INCLUDE, an empty Or EXCLUDE.
func (r *Renderer) logical(l ast.Logical) (string, error) {
	if len(l.Children) == 0 {
		if l.Op == ast.Or {
			return "EXCLUDE", nil
		}
		return "INCLUDE", nil
	}

	joiner := " AND "
	if l.Op != ast.And {
		joiner = " OR "
	}

	parts := make([]string, 0, len(l.Children))
	for _, child := range l.Children {
		s, err := r.Filter(child)
		if err != nil {
			return "", err
		}
		if _, nested := child.(ast.Logical); nested {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}

	out := strings.Join(parts, joiner)
	if l.Op == ast.Nor {
		return "NOT (" + out + ")", nil
	}
	return out, nil
}

func (r *Renderer) geometryType(g ast.GeometryType) string {
	if len(g.Kinds) == 0 {
		if g.Op.Negated() {
			return "INCLUDE"
		}
		return "EXCLUDE"
	}
	names := make([]string, len(g.Kinds))
	for i, k := range g.Kinds {
		names[i] = quoteString(k.DialectName())
	}
	op := " IN ("
	if g.Op.Negated() {
		op = " NOT IN ("
	}
	return "geometryType()" + op + strings.Join(names, ", ") + ")"
}

// Expression renders an expression tree.
func (r *Renderer) Expression(e ast.Expression) (string, error) {
	if e == nil {
		return "", fmt.Errorf("cannot render nil expression")
	}

	switch node := e.(type) {
	case ast.Literal:
		return literal(node.Value), nil
	case ast.PropertyReference:
		return quoteName(node.Name), nil
	case ast.FunctionCall:
		args, err := r.expressions(node.Args)
		if err != nil {
			return "", fmt.Errorf("%s: %w", node.Name, err)
		}
		return node.Name + "(" + args + ")", nil
	case ast.FallbackWrapped:
		inner, err := r.Expression(node.Inner)
		if err != nil {
			return "", err
		}
		return ast.FuncDefaultIfNil + "(" + inner + ", " + literal(node.Default.Value) + ")", nil
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

func (r *Renderer) expressions(exprs []ast.Expression) (string, error) {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := r.Expression(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// literal renders a JSON value. Arrays and objects have no CQL form and are
// written as quoted JSON text.
func literal(v ir.Value) string {
	switch val := v.(type) {
	case nil, ir.Null:
		return "NULL"
	case ir.String:
		return quoteString(string(val))
	case ir.Number:
		return ir.FormatNumber(float64(val))
	case ir.Bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return quoteString(ir.Snippet(v))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var plainName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quoteName(name string) string {
	if plainName.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
