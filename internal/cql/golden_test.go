package cql

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbstyle/internal/filter"
	"github.com/roach88/mbstyle/internal/function"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// To regenerate golden files, run:
//
//	go test ./internal/cql -update
func TestRenderTranslatedFilters(t *testing.T) {
	inputs := []string{
		`["==", "class", "street"]`,
		`["all", ["==", "$type", "Polygon"], ["<", "rank", 3]]`,
		`["none", ["in", "class", "a", "b"], ["has", "name:en"]]`,
		`["any", ["!=", "$type", "Point"], ["!in", "$id", 3, 1]]`,
		`["!has", "ref"]`,
		`[">=", ["get", "height"], ["to-number", ["get", "min_height"]]]`,
		`["case", ["has", "a"], true, false]`,
		`["all", ["any", ["==", "a", 1], ["==", "a", 2]], ["==", "b", "it's"]]`,
		`[]`,
	}

	tr := filter.New(nil)
	var buf bytes.Buffer
	for _, input := range inputs {
		v, err := ir.Decode([]byte(input))
		require.NoError(t, err)
		f, err := tr.Translate(v)
		require.NoError(t, err, input)
		out, err := Filter(f)
		require.NoError(t, err, input)
		fmt.Fprintf(&buf, "%s\n=> %s\n\n", input, out)
	}

	newGoldie(t).Assert(t, "filters", buf.Bytes())
}

func TestRenderTranslatedFunctions(t *testing.T) {
	inputs := []struct {
		domain string
		input  string
	}{
		{"color", `{"property": "temp", "type": "interval", "default": "#ccc", "stops": [[0, "blue"], [30, "red"]]}`},
		{"numeric", `{"stops": [[0, 0], [10, 100]]}`},
		{"numeric", `{"property": "rank", "base": 1.5, "stops": [[0, 1], [10, 4]]}`},
		{"font", `{"stops": [[0, ["Open Sans Regular"]], [12, ["Open Sans Bold"]]]}`},
		{"enum", `{"property": "join", "type": "identity"}`},
		{"color", `{"property": "fill", "type": "identity"}`},
	}

	ctx := parse.NewContext()
	tr := function.New(ctx)
	var buf bytes.Buffer
	for _, in := range inputs {
		v, err := ir.Decode([]byte(in.input))
		require.NoError(t, err)
		domain, err := function.ParseDomain(ctx, in.domain, parse.EnumLineJoin)
		require.NoError(t, err)
		e, err := tr.Translate(v, domain)
		require.NoError(t, err, in.input)
		out, err := Expression(e)
		require.NoError(t, err, in.input)
		fmt.Fprintf(&buf, "%s %s\n=> %s\n\n", in.domain, in.input, out)
	}

	newGoldie(t).Assert(t, "functions", buf.Bytes())
}
