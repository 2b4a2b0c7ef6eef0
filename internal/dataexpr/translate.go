// Package dataexpr translates the dialect's nested-array data expressions
// (["op", args...]) into expression trees.
//
// Only the structural mapping is performed: get becomes a property
// reference, literal a literal, zoom the context's zoom input, and every other
// known operator a function call of the same name over translated arguments.
// Operator semantics belong to whatever evaluates the tree.
package dataexpr

import (
	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

const construct = "expression"

// Translator implements parse.ExpressionTranslator.
// It is immutable and safe for concurrent use.
type Translator struct {
	ctx *parse.Context
}

// New returns a Translator reading the zoom input and logger from ctx.
func New(ctx *parse.Context) *Translator {
	return &Translator{ctx: ctx}
}

var _ parse.ExpressionTranslator = (*Translator)(nil)

// CanCreate reports whether op is a known data expression operator.
func (t *Translator) CanCreate(op string) bool {
	_, ok := operators[op]
	return ok
}

// Translate converts expr into an Expression.
func (t *Translator) Translate(expr ir.Array) (ast.Expression, error) {
	p := t.ctx.Parser(construct)
	if len(expr) == 0 {
		return nil, parse.Errorf(construct, "empty data expression")
	}
	op, err := p.StringAt(expr, 0)
	if err != nil {
		return nil, parse.Errorf(construct, "data expression must start with an operator name: %s", ir.Snippet(expr))
	}
	if !t.CanCreate(op) {
		return nil, parse.Errorf(construct,
			"data expression %q invalid. It may be misspelled or not supported by this implementation", op)
	}
	t.ctx.Log().Debug("translating data expression", "op", op, "args", len(expr)-1)

	switch op {
	case "get":
		if len(expr) == 2 {
			name, err := p.StringAt(expr, 1)
			if err != nil {
				return nil, err
			}
			return ast.Prop(name), nil
		}
	case "literal":
		if len(expr) != 2 {
			return nil, parse.Errorf(construct, `"literal" requires exactly one argument: %s`, ir.Snippet(expr))
		}
		return ast.Lit(expr[1]), nil
	case "zoom":
		if len(expr) != 1 {
			return nil, parse.Errorf(construct, `"zoom" takes no arguments: %s`, ir.Snippet(expr))
		}
		return t.ctx.ZoomInput(), nil
	}

	args := make([]ast.Expression, 0, len(expr)-1)
	for i := 1; i < len(expr); i++ {
		if op == "match" && isMatchLabel(expr, i) {
			args = append(args, ast.Lit(expr[i]))
			continue
		}
		e, err := t.argument(expr[i])
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return ast.FunctionCall{Name: op, Args: args}, nil
}

// isMatchLabel reports whether element i of a match expression
// ["match", input, label1, output1, ..., fallback] is a label. Labels are
// values, so a label array such as ["get", "set"] is never an expression.
func isMatchLabel(expr ir.Array, i int) bool {
	return i >= 2 && i%2 == 0 && i < len(expr)-1
}

// argument translates an operand. Arrays led by a known operator are nested
// expressions; any other value is taken literally (arrays of numbers,
// objects).
func (t *Translator) argument(v ir.Value) (ast.Expression, error) {
	if arr, ok := v.(ir.Array); ok && len(arr) > 0 {
		if op, isString := arr[0].(ir.String); isString && t.CanCreate(string(op)) {
			return t.Translate(arr)
		}
	}
	if v == nil {
		return ast.Lit(ir.Null{}), nil
	}
	return ast.Lit(v), nil
}
