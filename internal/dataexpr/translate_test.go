package dataexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

func decodeArray(t *testing.T, s string) ir.Array {
	t.Helper()
	v, err := ir.Decode([]byte(s))
	require.NoError(t, err)
	arr, ok := v.(ir.Array)
	require.True(t, ok, "not an array: %s", s)
	return arr
}

func TestTranslate(t *testing.T) {
	tr := New(parse.NewContext())

	tests := []struct {
		name  string
		input string
		want  ast.Expression
	}{
		{
			name:  "get",
			input: `["get", "name"]`,
			want:  ast.Prop("name"),
		},
		{
			name:  "get from object",
			input: `["get", "name", ["properties"]]`,
			want:  ast.Call("get", ast.Str("name"), ast.Call("properties")),
		},
		{
			name:  "literal array",
			input: `["literal", [1, 2]]`,
			want:  ast.Lit(ir.Array{ir.Number(1), ir.Number(2)}),
		},
		{
			name:  "zoom",
			input: `["zoom"]`,
			want:  ast.Call("zoomLevel", ast.Call("env", ast.Str("wms_scale_denominator")), ast.Str("EPSG:3857")),
		},
		{
			name:  "nested",
			input: `["==", ["get", "class"], "street"]`,
			want:  ast.Call("==", ast.Prop("class"), ast.Str("street")),
		},
		{
			name:  "match labels stay literal",
			input: `["match", ["get", "type"], ["a", "b"], true, false]`,
			want: ast.Call("match",
				ast.Prop("type"),
				ast.Lit(ir.Array{ir.String("a"), ir.String("b")}),
				ast.Lit(ir.Bool(true)),
				ast.Lit(ir.Bool(false)),
			),
		},
		{
			name:  "match label arrays led by operator names",
			input: `["match", ["get", "k"], ["in", "out"], true, ["get", "set"], ["get", "other"], ["zoom"]]`,
			want: ast.Call("match",
				ast.Prop("k"),
				ast.Lit(ir.Array{ir.String("in"), ir.String("out")}),
				ast.Lit(ir.Bool(true)),
				ast.Lit(ir.Array{ir.String("get"), ir.String("set")}),
				ast.Prop("other"),
				ast.Call("zoomLevel", ast.Call("env", ast.Str("wms_scale_denominator")), ast.Str("EPSG:3857")),
			),
		},
		{
			name:  "match scalar label",
			input: `["match", ["get", "rank"], 1, ["get", "a"], ["get", "b"]]`,
			want:  ast.Call("match", ast.Prop("rank"), ast.Lit(ir.Number(1)), ast.Prop("a"), ast.Prop("b")),
		},
		{
			name:  "unknown nested operator is literal",
			input: `["==", ["get", "a"], ["nope"]]`,
			want:  ast.Call("==", ast.Prop("a"), ast.Lit(ir.Array{ir.String("nope")})),
		},
		{
			name:  "null argument",
			input: `["coalesce", ["get", "a"], null]`,
			want:  ast.Call("coalesce", ast.Prop("a"), ast.Lit(ir.Null{})),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(decodeArray(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	tr := New(parse.NewContext())

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", `[]`, "empty data expression"},
		{"no operator", `[1, 2]`, "must start with an operator name"},
		{"unknown", `["frobnicate", 1]`, `"frobnicate" invalid`},
		{"literal arity", `["literal"]`, "exactly one argument"},
		{"zoom arity", `["zoom", 3]`, "takes no arguments"},
		{"get name", `["get", 3]`, "requires [1] String"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Translate(decodeArray(t, tt.input))
			require.Error(t, err)
			assert.True(t, parse.IsFormatError(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCanCreate(t *testing.T) {
	tr := New(nil)
	assert.True(t, tr.CanCreate("case"))
	assert.True(t, tr.CanCreate("within"))
	assert.False(t, tr.CanCreate("Case"))
	assert.False(t, tr.CanCreate(""))
}
