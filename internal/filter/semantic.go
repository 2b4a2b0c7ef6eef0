package filter

import (
	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

// SemanticTypes infers the geometry kinds a filter can match. It walks the
// same grammar as Translate but only looks at $type tests:
//
//   - null or [] yields def
//   - $type ==/in yields the named kinds, !=/!in their complement
//   - all yields the union of its children, at most one of which may constrain
//     the geometry kind
//   - any yields the union of its children
//   - none yields every kind not matched by a child
//   - anything else yields the empty (unconstrained) set
//
// Nested filters are inferred with an empty default.
func (t *Translator) SemanticTypes(v ir.Value, def ast.SemanticTypeSet) (ast.SemanticTypeSet, error) {
	if ir.IsNull(v) {
		return def, nil
	}
	arr, err := t.parser().JSONArray(v)
	if err != nil {
		return 0, err
	}
	return t.semanticTypes(arr, def)
}

func (t *Translator) semanticTypes(arr ir.Array, def ast.SemanticTypeSet) (ast.SemanticTypeSet, error) {
	if len(arr) == 0 {
		return def, nil
	}
	name, ok := arr[0].(ir.String)
	if !ok {
		return 0, unsupported(arr)
	}
	op, known := ParseOperator(string(name))
	if !known {
		return 0, nil
	}

	switch {
	case op.isTypeTest() && isKey(arr, typeKey):
		kinds, err := t.typeKinds(op, arr)
		if err != nil {
			return 0, err
		}
		set := ast.NewSemanticTypeSet(kinds...)
		if op == OpNe || op == OpNotIn {
			return set.Complement(), nil
		}
		return set, nil

	case op == OpAll || op == OpAny || op == OpNone:
		sets, err := t.childTypes(arr)
		if err != nil {
			return 0, err
		}
		var union ast.SemanticTypeSet
		constrained := 0
		for _, set := range sets {
			if !set.IsEmpty() {
				constrained++
			}
			union = union.Union(set)
		}
		switch {
		case op == OpAll && constrained > 1:
			return 0, parse.Errorf(construct,
				"only one alternative may be a %s filter: %s", typeKey, ir.Snippet(arr))
		case op == OpNone:
			return union.Complement(), nil
		}
		return union, nil
	}

	return 0, nil
}

// childTypes infers each nested filter of arr[1:] with an empty default.
func (t *Translator) childTypes(arr ir.Array) ([]ast.SemanticTypeSet, error) {
	sets := make([]ast.SemanticTypeSet, 0, len(arr)-1)
	for i := 1; i < len(arr); i++ {
		child, err := t.parser().ArrayAt(arr, i)
		if err != nil {
			return nil, err
		}
		set, err := t.semanticTypes(child, 0)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}
