package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Number(42), "42"},
		{"negative int", Number(-100), "-100"},
		{"zero", Number(0), "0"},
		{"negative zero", Number(math.Copysign(0, -1)), "0"},
		{"fraction", Number(0.5), "0.5"},
		{"million", Number(1e6), "1000000"},
		{"below exponent threshold", Number(1e20), "100000000000000000000"},
		{"large", Number(1e21), "1e+21"},
		{"tiny", Number(1e-7), "1e-7"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"null", Null{}, "null"},
		{"nil", nil, "null"},
		{"empty array", Array{}, "[]"},
		{"empty object", NewObject(), "{}"},
		{"zero object", Object{}, "{}"},
		{"array of numbers", Array{Number(1), Number(2.25), Number(3)}, "[1,2.25,3]"},
		{"simple object", NewObject(O("a", Number(1))), `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := NewObject(
		O("zebra", Number(1)),
		O("alpha", Number(2)),
		O("beta", Number(3)),
	)

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := NewObject(
		O("z", NewObject(O("b", Number(1)), O("a", Number(2)))),
		O("a", Number(3)),
	)

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000: UTF-16 order differs from UTF-8
	obj := NewObject(
		O("\uE000", Number(1)),
		O("\U00010000", Number(2)),
	)

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// 0xD800 < 0xE000, so the surrogate pair sorts first
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(NewObject(
		O("html", String("<b>bold</b>")),
		O("amp", String("a & b")),
	))
	require.NoError(t, err)

	assert.Equal(t, `{"amp":"a & b","html":"<b>bold</b>"}`, string(result))
	assert.NotContains(t, string(result), "\\u003c")
	assert.NotContains(t, string(result), "\\u0026")
}

func TestMarshalCanonicalRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalCanonical(Array{Number(f)})
		assert.Error(t, err)
	}
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// e-acute as e + combining acute (NFD) vs precomposed (NFC)
	nfd := String("e\u0301")
	nfc := String("\u00e9")

	a, err := MarshalCanonical(nfd)
	require.NoError(t, err)
	b, err := MarshalCanonical(nfc)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))

	keyed, err := MarshalCanonical(NewObject(O("cafe\u0301", Number(1))))
	require.NoError(t, err)
	assert.Equal(t, "{\"caf\u00e9\":1}", string(keyed))
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"U+2028", "hello\u2028world", "\"hello\u2028world\""},
		{"U+2029", "hello\u2029world", "\"hello\u2029world\""},
		{"literal escape text", `escape is \u2028`, `"escape is \\u2028"`},
		{"mixed", "literal \\u2028 and actual \u2028", "\"literal \\\\u2028 and actual \u2028\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalIgnoresInsertionOrder(t *testing.T) {
	a, err := Decode([]byte(`{"stops":[[0,"#fff"],[10,"#000"]],"property":"height","base":2}`))
	require.NoError(t, err)
	b, err := Decode([]byte(`{"base":2,"property":"height","stops":[[0,"#fff"],[10,"#000"]]}`))
	require.NoError(t, err)

	ca, err := MarshalCanonical(a)
	require.NoError(t, err)
	cb, err := MarshalCanonical(b)
	require.NoError(t, err)
	assert.Equal(t, string(ca), string(cb))
	assert.Equal(t, MustFingerprint(DomainDocument, a), MustFingerprint(DomainDocument, b))
}

func TestFingerprintDomainSeparation(t *testing.T) {
	v := Array{String("=="), String("class"), String("street")}
	assert.NotEqual(t, MustFingerprint(DomainFilter, v), MustFingerprint(DomainExpression, v))
	assert.Len(t, MustFingerprint(DomainFilter, v), 64)
}

// FuzzMarshalCanonicalIdempotent checks that canonical output re-decodes to the same canonical output.
func FuzzMarshalCanonicalIdempotent(f *testing.F) {
	f.Add(`{"a":1,"b":"test"}`)
	f.Add(`[1,2.5,3]`)
	f.Add(`"hello"`)
	f.Add(`null`)
	f.Add(`{"nested":{"deep":{"value":123}}}`)

	f.Fuzz(func(t *testing.T, jsonStr string) {
		val, err := Decode([]byte(jsonStr))
		if err != nil {
			t.Skip()
		}

		canonical1, err := MarshalCanonical(val)
		if err != nil {
			t.Skip()
		}

		val2, err := Decode(canonical1)
		require.NoError(t, err)

		canonical2, err := MarshalCanonical(val2)
		require.NoError(t, err)
		assert.Equal(t, string(canonical1), string(canonical2))
	})
}
