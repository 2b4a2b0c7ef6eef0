package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbstyle/internal/ir"
)

func TestEncodeFilter(t *testing.T) {
	f := Logical{Op: And, Children: []Filter{
		Not{Child: Comparison{Op: OpEq, Left: Prop("a"), Right: Num(1)}},
		GeometryType{Kinds: []SemanticType{Line}, Op: GeomEq},
		FeatureIdentity{IDs: []string{"1", "2"}},
	}}

	v, err := EncodeFilter(f)
	require.NoError(t, err)

	out, err := ir.MarshalValue(v)
	require.NoError(t, err)
	assert.Equal(t,
		`{"node":"Logical","op":"And","children":[`+
			`{"node":"Not","child":{"node":"Comparison","op":"==","left":{"node":"PropertyReference","name":"a"},"right":{"node":"Literal","value":1}}},`+
			`{"node":"GeometryType","op":"==","kinds":["Line"]},`+
			`{"node":"FeatureIdentity","ids":["1","2"],"negated":false}]}`,
		string(out))
}

func TestEncodeExpression(t *testing.T) {
	e := FallbackWrapped{
		Inner:   Call(FuncRecode, Prop("kind"), Str("a"), Str("#FF0000")),
		Default: Lit(nil),
	}
	v, err := EncodeExpression(e)
	require.NoError(t, err)

	out, err := ir.MarshalValue(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"Recode"`)
	assert.Contains(t, string(out), `"default":null`)
}

func TestEncodeRejectsNil(t *testing.T) {
	_, err := EncodeFilter(Not{})
	assert.ErrorContains(t, err, "nil filter")

	_, err = EncodeExpression(Call("f", nil))
	assert.ErrorContains(t, err, "nil expression")
}

func TestFingerprintStructuralEquality(t *testing.T) {
	build := func() Filter {
		return Logical{Op: Or, Children: []Filter{
			Existential{Property: "name"},
			Membership{Property: Prop("class"), Values: []Expression{Str("a"), Str("b")}},
		}}
	}

	a, err := FilterFingerprint(build())
	require.NoError(t, err)
	b, err := FilterFingerprint(build())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := FilterFingerprint(Logical{Op: Or, Children: []Filter{Existential{Property: "name", Negated: true}}})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	e, err := ExpressionFingerprint(Prop("name"))
	require.NoError(t, err)
	assert.Len(t, e, 64)
}
