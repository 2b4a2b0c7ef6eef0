package filter

import (
	"fmt"
	"slices"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/dataexpr"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

const (
	construct = "filter"

	typeKey = "$type"
	idKey   = "$id"
)

// Translator converts filter arrays into Filter trees.
// It holds no per-call state and is safe for concurrent use.
type Translator struct {
	ctx *parse.Context
}

// New returns a Translator over ctx. A nil ctx uses parse.NewContext; a
// context without an expression translator gets the built-in one.
func New(ctx *parse.Context) *Translator {
	if ctx == nil {
		ctx = parse.NewContext()
	}
	if ctx.Expressions == nil {
		c := *ctx
		c.Expressions = dataexpr.New(&c)
		ctx = &c
	}
	return &Translator{ctx: ctx}
}

func (t *Translator) parser() parse.Parser {
	return t.ctx.Parser(construct)
}

// Translate converts a filter array into a Filter. Null and the empty array
// yield IncludeAll; any malformed input yields a *parse.FormatError and no
// partial result.
func (t *Translator) Translate(v ir.Value) (ast.Filter, error) {
	if ir.IsNull(v) {
		return ast.IncludeAll{}, nil
	}
	arr, err := t.parser().JSONArray(v)
	if err != nil {
		return nil, err
	}
	return t.translate(arr)
}

func (t *Translator) translate(arr ir.Array) (ast.Filter, error) {
	if len(arr) == 0 {
		return ast.IncludeAll{}, nil
	}
	op, err := t.operator(arr)
	if err != nil {
		return nil, err
	}
	t.ctx.Log().Debug("translating filter", "op", op.String(), "operands", len(arr)-1)

	switch {
	case op.isTypeTest() && isKey(arr, typeKey):
		return t.geometryType(op, arr)
	case op.isIDTest() && isKey(arr, idKey):
		return t.featureIdentity(op, arr)
	case op == OpHas || op == OpNotHas:
		return t.existential(op, arr)
	case op.isComparison():
		return t.comparison(op, arr)
	case op == OpIn || op == OpNotIn:
		return t.membership(op, arr)
	case op == OpAll || op == OpAny || op == OpNone:
		return t.logical(op, arr)
	case op.isDataExpression():
		expr, err := t.ctx.Expressions.Translate(arr)
		if err != nil {
			return nil, err
		}
		return ast.DataExpressionFilter{Expr: expr}, nil
	}
	// unreachable: operator() only returns known operators
	return nil, unsupported(arr)
}

// operator parses element 0. Unknown or non-string operators are format errors.
func (t *Translator) operator(arr ir.Array) (Operator, error) {
	name, ok := arr[0].(ir.String)
	if !ok {
		return OpInvalid, unsupported(arr)
	}
	op, ok := ParseOperator(string(name))
	if !ok {
		return OpInvalid, unsupported(arr)
	}
	return op, nil
}

func unsupported(arr ir.Array) error {
	if len(arr) > 0 {
		if name, ok := arr[0].(ir.String); ok {
			return parse.Errorf(construct, "unsupported filter operator %q in %s", string(name), ir.Snippet(arr))
		}
	}
	return parse.Errorf(construct, "filter must start with an operator name: %s", ir.Snippet(arr))
}

// isKey reports whether arr[1] is the string key.
func isKey(arr ir.Array, key string) bool {
	if len(arr) < 2 {
		return false
	}
	s, ok := arr[1].(ir.String)
	return ok && string(s) == key
}

// typeKinds reads the $type names after the key, enforcing the arity of op.
func (t *Translator) typeKinds(op Operator, arr ir.Array) ([]ast.SemanticType, error) {
	names := arr[2:]
	if (op == OpEq || op == OpNe) && len(names) != 1 {
		return nil, parse.Errorf(construct, "%q %s requires exactly one value: %s", typeKey, op, ir.Snippet(arr))
	}

	kinds := make([]ast.SemanticType, 0, len(names))
	for i := range names {
		name, err := t.parser().StringAt(arr, i+2)
		if err != nil {
			return nil, err
		}
		kind, ok := ast.ParseGeometryName(name)
		if !ok {
			return nil, parse.Errorf(construct,
				"%q limited to Point, LineString, Polygon: %q not supported", typeKey, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func (t *Translator) geometryType(op Operator, arr ir.Array) (ast.Filter, error) {
	kinds, err := t.typeKinds(op, arr)
	if err != nil {
		return nil, err
	}
	var gop ast.GeometryOp
	switch op {
	case OpEq:
		gop = ast.GeomEq
	case OpNe:
		gop = ast.GeomNe
	case OpIn:
		gop = ast.GeomIn
	default:
		gop = ast.GeomNotIn
	}
	return ast.GeometryType{Kinds: kinds, Op: gop}, nil
}

func (t *Translator) featureIdentity(op Operator, arr ir.Array) (ast.Filter, error) {
	values := arr[2:]
	switch op {
	case OpEq, OpNe:
		if len(values) != 1 {
			return nil, parse.Errorf(construct, "%q %s requires exactly one value: %s", idKey, op, ir.Snippet(arr))
		}
	case OpIn, OpNotIn:
		if len(values) == 0 {
			return nil, parse.Errorf(construct, "%q %s requires at least one value: %s", idKey, op, ir.Snippet(arr))
		}
	}

	ids := make([]string, 0, len(values))
	for i, v := range values {
		switch id := v.(type) {
		case ir.String:
			ids = append(ids, string(id))
		case ir.Number:
			ids = append(ids, ir.FormatNumber(float64(id)))
		default:
			return nil, &parse.FormatError{
				Context:  construct,
				Key:      fmt.Sprintf("[%d]", i+2),
				Expected: "feature id",
				Actual:   ir.KindOf(v).String(),
			}
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	return ast.FeatureIdentity{
		IDs:     ids,
		Negated: op == OpNe || op == OpNotHas || op == OpNotIn,
	}, nil
}

func (t *Translator) existential(op Operator, arr ir.Array) (ast.Filter, error) {
	if len(arr) != 2 {
		return nil, parse.Errorf(construct, "%s requires exactly one property name: %s", op, ir.Snippet(arr))
	}
	name, err := t.parser().StringAt(arr, 1)
	if err != nil {
		return nil, err
	}
	return ast.Existential{Property: name, Negated: op == OpNotHas}, nil
}

var compareOps = map[Operator]ast.CompareOp{
	OpEq: ast.OpEq,
	OpNe: ast.OpNe,
	OpLt: ast.OpLt,
	OpLe: ast.OpLe,
	OpGt: ast.OpGt,
	OpGe: ast.OpGe,
}

func (t *Translator) comparison(op Operator, arr ir.Array) (ast.Filter, error) {
	if len(arr) != 3 {
		return nil, parse.Errorf(construct, "%s requires exactly two operands: %s", op, ir.Snippet(arr))
	}

	// Legacy syntax: ["==", "key", value] compares a property to a literal.
	if name, ok := arr[1].(ir.String); ok {
		return ast.Comparison{
			Op:    compareOps[op],
			Left:  ast.Prop(string(name)),
			Right: ast.Lit(arr[2]),
		}, nil
	}

	p := t.parser()
	left, err := p.Literal(arr, 1)
	if err != nil {
		return nil, err
	}
	right, err := p.Literal(arr, 2)
	if err != nil {
		return nil, err
	}
	return ast.Comparison{Op: compareOps[op], Left: left, Right: right}, nil
}

func (t *Translator) membership(op Operator, arr ir.Array) (ast.Filter, error) {
	if len(arr) < 2 {
		return nil, parse.Errorf(construct, "%s requires a property: %s", op, ir.Snippet(arr))
	}

	var property ast.Expression
	if name, ok := arr[1].(ir.String); ok {
		property = ast.Prop(string(name))
	} else {
		var err error
		if property, err = t.parser().Literal(arr, 1); err != nil {
			return nil, err
		}
	}

	values := make([]ast.Expression, 0, len(arr)-2)
	for _, v := range arr[2:] {
		values = append(values, ast.Lit(v))
	}
	return ast.Membership{Property: property, Values: values, Negated: op == OpNotIn}, nil
}

// logical translates all / any / none. none is emitted as And over negated
// children, which keeps the evaluation order of the target engine.
func (t *Translator) logical(op Operator, arr ir.Array) (ast.Filter, error) {
	children := make([]ast.Filter, 0, len(arr)-1)
	for i := 1; i < len(arr); i++ {
		childArr, err := t.parser().ArrayAt(arr, i)
		if err != nil {
			return nil, err
		}
		child, err := t.translate(childArr)
		if err != nil {
			return nil, err
		}

		_, includeAll := child.(ast.IncludeAll)
		switch op {
		case OpAll:
			if includeAll {
				continue
			}
			children = append(children, child)
		case OpAny:
			if includeAll {
				return ast.IncludeAll{}, nil
			}
			children = append(children, child)
		case OpNone:
			children = append(children, ast.Not{Child: child})
		}
	}

	switch op {
	case OpAny:
		return ast.Logical{Op: ast.Or, Children: children}, nil
	default:
		if len(children) == 0 {
			return ast.IncludeAll{}, nil
		}
		return ast.Logical{Op: ast.And, Children: children}, nil
	}
}
