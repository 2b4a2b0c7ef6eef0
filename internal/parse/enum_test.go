package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
)

func TestConstant(t *testing.T) {
	ctx := NewContext()
	p := ctx.Parser("line")
	join, ok := ctx.Enumeration(EnumLineJoin)
	require.True(t, ok)

	tests := []struct {
		name  string
		input ir.Value
		want  ast.Literal
		ok    bool
	}{
		{"exact", ir.String("bevel"), ast.Str("bevel"), true},
		{"case insensitive", ir.String("ROUND"), ast.Str("round"), true},
		{"trimmed", ir.String("  Bevel "), ast.Str("bevel"), true},
		{"miter maps to mitre", ir.String("miter"), ast.Str("mitre"), true},
		{"blank", ir.String("  "), ast.Literal{}, false},
		{"null", ir.Null{}, ast.Literal{}, false},
		{"number", ir.Number(1), ast.Literal{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, found, err := p.Constant(tt.input, join)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, found)
			assert.Equal(t, tt.want, lit)
		})
	}
}

func TestConstantUnknown(t *testing.T) {
	ctx := NewContext()
	lineCap, _ := ctx.Enumeration(EnumLineCap)

	_, _, err := ctx.Parser("line").Constant(ir.String("pointy"), lineCap)
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.Equal(t, `line: "pointy" invalid value for enumeration line-cap`, err.Error())
}

func TestParserEnum(t *testing.T) {
	ctx := NewContext()
	p := ctx.Parser("symbol")
	placement, _ := ctx.Enumeration(EnumSymbolPlacement)
	fallback := Member{Name: "point", Literal: "point"}

	obj := ir.NewObject(
		ir.O("a", ir.String("LINE")),
		ir.O("b", ir.String("")),
		ir.O("c", ir.String("diagonal")),
		ir.O("d", ir.Number(3)),
	)

	m, err := p.Enum(obj, "a", placement, fallback)
	require.NoError(t, err)
	assert.Equal(t, "line", m.Literal)

	m, err = p.Enum(obj, "b", placement, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, m)

	m, err = p.Enum(obj, "missing", placement, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, m)

	_, err = p.Enum(obj, "c", placement, fallback)
	assert.ErrorContains(t, err, `"c" contains invalid "diagonal" for enumeration symbol-placement`)

	_, err = p.Enum(obj, "d", placement, fallback)
	assert.ErrorContains(t, err, "from Number to symbol-placement not supported")
}

func TestBuiltinEnumerationsAreCopies(t *testing.T) {
	a := BuiltinEnumerations()
	a[EnumLineCap].Members[0] = Member{Name: "changed"}

	b := BuiltinEnumerations()
	assert.Equal(t, "butt", b[EnumLineCap].Members[0].Name)
	assert.Equal(t, []string{"bevel", "round", "miter"}, b[EnumLineJoin].Names())
}
