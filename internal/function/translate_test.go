package function

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

var zoom = ast.Call(ast.FuncZoomLevel, ast.Call(ast.FuncEnv, ast.Str("wms_scale_denominator")), ast.Str("EPSG:3857"))

func lineJoin(t *testing.T) parse.Enumeration {
	t.Helper()
	e, ok := parse.NewContext().Enumeration(parse.EnumLineJoin)
	require.True(t, ok)
	return e
}

func TestNumeric(t *testing.T) {
	tr := New(nil)

	tests := []struct {
		name  string
		input string
		want  ast.Expression
	}{
		{
			name:  "linear by default",
			input: `{"stops": [[0, 0], [10, 100]]}`,
			want: ast.Call(ast.FuncInterpolate, zoom,
				ast.Num(0), ast.Num(0), ast.Num(10), ast.Num(100), ast.Str("numeric")),
		},
		{
			name:  "exponential base",
			input: `{"property": "rank", "base": 1.5, "stops": [[0, 1], [10, 4]]}`,
			want: ast.Call(ast.FuncExponential, ast.Prop("rank"), ast.Num(1.5),
				ast.Num(0), ast.Num(1), ast.Num(10), ast.Num(4)),
		},
		{
			name:  "interval starts at first stop",
			input: `{"property": "rank", "type": "interval", "stops": [[0, 1], [10, 4]]}`,
			want: ast.Call(ast.FuncCategorize, ast.Prop("rank"), ast.Num(1),
				ast.Num(0), ast.Num(1), ast.Num(10), ast.Num(4), ast.Str("succeeding")),
		},
		{
			name:  "interval starts at default",
			input: `{"property": "rank", "type": "interval", "default": 7, "stops": [[0, 1]]}`,
			want: ast.FallbackWrapped{
				Inner: ast.Call(ast.FuncCategorize, ast.Prop("rank"), ast.Num(7),
					ast.Num(0), ast.Num(1), ast.Str("succeeding")),
				Default: ast.Num(7),
			},
		},
		{
			name:  "categorical",
			input: `{"property": "class", "type": "categorical", "stops": [["a", 1], ["b", 2]]}`,
			want: ast.Call(ast.FuncRecode, ast.Prop("class"),
				ast.Str("a"), ast.Num(1), ast.Str("b"), ast.Num(2)),
		},
		{
			name:  "identity",
			input: `{"property": "width", "type": "identity"}`,
			want:  ast.Prop("width"),
		},
		{
			name:  "identity with default",
			input: `{"property": "width", "type": "identity", "default": 1}`,
			want:  ast.FallbackWrapped{Inner: ast.Prop("width"), Default: ast.Num(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(decode(t, tt.input), NumericDomain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, ast.ValidateExpression(got).IsValid)
		})
	}
}

func TestNumericLinearParameters(t *testing.T) {
	got, err := New(nil).Translate(decode(t, `{"stops": [[0, 0], [10, 100]]}`), NumericDomain)
	require.NoError(t, err)

	call, ok := got.(ast.FunctionCall)
	require.True(t, ok)
	require.Equal(t, ast.FuncInterpolate, call.Name)
	require.Len(t, call.Args, 6)

	// halfway between the stops the line passes through 50
	x0 := float64(call.Args[1].(ast.Literal).Value.(ir.Number))
	y0 := float64(call.Args[2].(ast.Literal).Value.(ir.Number))
	x1 := float64(call.Args[3].(ast.Literal).Value.(ir.Number))
	y1 := float64(call.Args[4].(ast.Literal).Value.(ir.Number))
	assert.InDelta(t, 50.0, y0+(5-x0)*(y1-y0)/(x1-x0), 1e-9)
}

func TestColor(t *testing.T) {
	tr := New(nil)

	tests := []struct {
		name  string
		input string
		want  ast.Expression
	}{
		{
			name:  "linear by default",
			input: `{"stops": [[0, "red"], [10, "#00f"]]}`,
			want: ast.Call(ast.FuncInterpolate, zoom,
				ast.Num(0), ast.Str("#ff0000"), ast.Num(10), ast.Str("#0000ff"), ast.Str("color")),
		},
		{
			name:  "exponential",
			input: `{"base": 2, "stops": [[0, "white"], [10, "black"]]}`,
			want: ast.Call(ast.FuncExponential, zoom, ast.Num(2),
				ast.Num(0), ast.Str("#ffffff"), ast.Num(10), ast.Str("#000000")),
		},
		{
			name:  "categorical",
			input: `{"property": "kind", "type": "categorical", "stops": [["park", "green"]], "default": "#ccc"}`,
			want: ast.FallbackWrapped{
				Inner:   ast.Call(ast.FuncRecode, ast.Prop("kind"), ast.Str("park"), ast.Str("#008000")),
				Default: ast.Str("#ccc"),
			},
		},
		{
			name:  "interval",
			input: `{"property": "temp", "type": "interval", "stops": [[0, "blue"], [30, "red"]]}`,
			want: ast.Call(ast.FuncCategorize, ast.Prop("temp"), ast.Str("#0000ff"),
				ast.Num(0), ast.Str("#0000ff"), ast.Num(30), ast.Str("#ff0000"), ast.Str("succeeding")),
		},
		{
			name:  "identity converts css names",
			input: `{"property": "fill", "type": "identity"}`,
			want:  ast.Call(ast.FuncCSS, ast.Prop("fill")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(decode(t, tt.input), ColorDomain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorUsesContextAliases(t *testing.T) {
	ctx := parse.NewContext()
	ctx.Colors = map[string]string{"brand": "#123456"}

	got, err := New(ctx).Translate(decode(t, `{"property": "k", "type": "categorical", "stops": [["a", "brand"]]}`), ColorDomain)
	require.NoError(t, err)
	assert.Equal(t, ast.Call(ast.FuncRecode, ast.Prop("k"), ast.Str("a"), ast.Str("#123456")), got)
}

func TestFont(t *testing.T) {
	got, err := New(nil).Translate(decode(t, `{"stops": [[0, ["Open Sans Regular", "Arial"]], [12, ["Open Sans Bold"]]]}`), FontDomain)
	require.NoError(t, err)
	assert.Equal(t, ast.Call(ast.FuncCategorize, zoom, ast.Str("Open Sans Regular"),
		ast.Num(0), ast.Str("Open Sans Regular"), ast.Num(12), ast.Str("Open Sans Bold"),
		ast.Str("succeeding")), got)
}

func TestEnum(t *testing.T) {
	tr := New(nil)
	join := lineJoin(t)

	tests := []struct {
		name  string
		input string
		want  ast.Expression
	}{
		{
			name:  "interval by default",
			input: `{"stops": [[0, "miter"], [10, "Round"]]}`,
			want: ast.Call(ast.FuncCategorize, zoom, ast.Str("mitre"),
				ast.Num(0), ast.Str("mitre"), ast.Num(10), ast.Str("round"), ast.Str("succeeding")),
		},
		{
			name:  "categorical",
			input: `{"property": "kind", "type": "categorical", "stops": [["road", " bevel "]]}`,
			want:  ast.Call(ast.FuncRecode, ast.Prop("kind"), ast.Str("road"), ast.Str("bevel")),
		},
		{
			name:  "identity maps every member",
			input: `{"property": "join", "type": "identity", "default": "round"}`,
			want: ast.FallbackWrapped{
				Inner: ast.Call(ast.FuncRecode, ast.Prop("join"),
					ast.Str("bevel"), ast.Str("bevel"),
					ast.Str("round"), ast.Str("round"),
					ast.Str("miter"), ast.Str("mitre")),
				Default: ast.Str("round"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(decode(t, tt.input), EnumDomain(join))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeneric(t *testing.T) {
	tr := New(nil)

	got, err := tr.Translate(decode(t, `{"property": "kind", "stops": [["a", "label"], ["m", true]]}`), GenericDomain(TargetString))
	require.NoError(t, err)
	assert.Equal(t, ast.Call(ast.FuncCategorize, ast.Prop("kind"), ast.Str("label"),
		ast.Str("a"), ast.Str("label"), ast.Str("m"), ast.Lit(ir.Bool(true)), ast.Str("succeeding")), got)

	got, err = tr.Translate(decode(t, `{"property": "kind", "type": "categorical", "stops": [["a", [1, 2]]]}`), GenericDomain(TargetAny))
	require.NoError(t, err)
	assert.Equal(t, ast.Call(ast.FuncRecode, ast.Prop("kind"), ast.Str("a"),
		ast.Lit(ir.Array{ir.Number(1), ir.Number(2)})), got)

	got, err = tr.Translate(decode(t, `{"property": "visible", "type": "identity"}`), GenericDomain(TargetBoolean))
	require.NoError(t, err)
	assert.Equal(t, ast.Prop("visible"), got)
}

func TestTranslateErrors(t *testing.T) {
	tr := New(nil)
	join := lineJoin(t)

	tests := []struct {
		name    string
		input   string
		domain  Domain
		message string
	}{
		{"bad color", `{"type": "categorical", "property": "k", "stops": [["a", "notacolor"]]}`, ColorDomain,
			`could not convert stop "a" value "notacolor" into a color`},
		{"non-string color", `{"stops": [[0, 5]]}`, ColorDomain,
			"could not convert stop 0 value 5 into a color"},
		{"non-numeric stop", `{"stops": [[0, "5"]]}`, NumericDomain,
			`could not convert stop 0 value "5" into a numeric`},
		{"non-numeric interval stop", `{"type": "interval", "stops": [[0, true]]}`, NumericDomain,
			"into a numeric"},
		{"categorical font", `{"type": "categorical", "stops": [[0, ["A"]]]}`, FontDomain,
			"categorical function unavailable for font"},
		{"font not a stack", `{"stops": [[0, "A"]]}`, FontDomain,
			`could not convert stop 0 value "A" into a font`},
		{"exponential enum", `{"type": "exponential", "stops": [[0, "round"]]}`, EnumDomain(join),
			"exponential function unavailable for enumeration line-join"},
		{"unknown enum value", `{"stops": [[0, "pointy"]]}`, EnumDomain(join),
			`"pointy" invalid value for enumeration line-join`},
		{"non-string enum value", `{"stops": [[0, 3]]}`, EnumDomain(join),
			"could not convert stop 0 value 3 into a line-join"},
		{"exponential generic", `{"type": "exponential", "stops": [[0, "a"]]}`, GenericDomain(TargetString),
			"exponential function unavailable for String"},
		{"object for string target", `{"stops": [[0, {"a": 1}]]}`, GenericDomain(TargetString),
			"into a String"},
		{"missing stops", `{"property": "rank"}`, NumericDomain,
			"exponential function requires at least one stop"},
		{"unknown type", `{"type": "step", "stops": [[0, 1]]}`, NumericDomain,
			`type "step" invalid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(decode(t, tt.input), tt.domain)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, parse.IsFormatError(err), "want FormatError, got %T", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestZoomAndPropertyPanics(t *testing.T) {
	tr := New(nil)
	input := decode(t, `{"property": "rating", "stops": [[{"zoom": 0, "value": 0}, 0], [{"zoom": 20, "value": 5}, 20]]}`)

	assert.PanicsWithError(t, "precondition violated: reduce zoom and property function prior to use", func() {
		_, _ = tr.Translate(input, NumericDomain)
	})

	translate := func() (err error) {
		defer parse.RecoverPrecondition(&err)
		_, err = tr.Translate(input, ColorDomain)
		return err
	}
	err := translate()
	assert.True(t, parse.IsPreconditionError(err))
	assert.False(t, parse.IsFormatError(err))
}

func TestTranslateLogs(t *testing.T) {
	var buf bytes.Buffer
	ctx := parse.NewContext()
	ctx.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(ctx).Translate(decode(t, `{"property": "rank", "stops": [[0, 1]]}`), NumericDomain)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "translating function")
	assert.Contains(t, buf.String(), "domain=numeric")
	assert.Contains(t, buf.String(), "type=exponential")
}

func TestTranslateIsRepeatable(t *testing.T) {
	tr := New(nil)
	input := decode(t, `{"property": "temp", "type": "interval", "default": "#ccc", "stops": [[0, "blue"], [30, "red"]]}`)

	first, err := tr.Translate(input, ColorDomain)
	require.NoError(t, err)
	second, err := tr.Translate(input, ColorDomain)
	require.NoError(t, err)

	fp1, err := ast.ExpressionFingerprint(first)
	require.NoError(t, err)
	fp2, err := ast.ExpressionFingerprint(second)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestParseDomain(t *testing.T) {
	ctx := parse.NewContext()

	d, err := ParseDomain(ctx, "color", "")
	require.NoError(t, err)
	assert.Equal(t, ColorDomain, d)

	d, err = ParseDomain(ctx, "boolean", "")
	require.NoError(t, err)
	assert.Equal(t, GenericDomain(TargetBoolean), d)

	d, err = ParseDomain(ctx, "enum", parse.EnumLineCap)
	require.NoError(t, err)
	assert.Equal(t, KindEnum, d.Kind)
	assert.Equal(t, parse.EnumLineCap, d.Enum.Name)

	_, err = ParseDomain(ctx, "enum", "nope")
	assert.Error(t, err)
	_, err = ParseDomain(ctx, "vector", "")
	assert.Error(t, err)
}
