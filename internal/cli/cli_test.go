package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mbstyle/internal/harness"
)

const zoomLevel = "zoomLevel(env('wms_scale_denominator'), 'EPSG:3857')"

// envelope mirrors CLIResponse with the payload left undecoded.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   *CLIError       `json:"error"`
	TraceID string          `json:"trace_id"`
}

func execute(t *testing.T, fsys afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommandWith(fsys, NewFixedGenerator("trace-1"))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), "output: %s", out)
	return env
}

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "mbstyle", cmd.Use)
	assert.Equal(t, "0.1.0 (style dialect v8)", cmd.Version)

	for _, flag := range []string{"verbose", "format", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %s", flag)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"filter", "function", "validate", "test"})
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	fsys := writeFiles(t, map[string]string{"f.json": `["has", "ref"]`})
	_, err := execute(t, fsys, "filter", "f.json", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFilterCommand(t *testing.T) {
	fsys := writeFiles(t, map[string]string{
		"areas.json": `["all", ["==", "$type", "Polygon"], ["<", "rank", 3]]`,
		"layer.yaml": "id: roads\nfilter: [\"!=\", \"$type\", \"LineString\"]\n",
		"bad.json":   `["==", "class"]`,
	})

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, fsys, "filter", "areas.json", "--types")
		require.NoError(t, err)
		assert.Equal(t, "geometryType() IN ('Polygon') AND rank < 3\ntypes: [Polygon]\n", out)
	})

	t.Run("json with key", func(t *testing.T) {
		out, err := execute(t, fsys, "filter", "layer.yaml", "--key", "filter", "--types", "--format", "json")
		require.NoError(t, err)

		env := decodeEnvelope(t, out)
		assert.Equal(t, "ok", env.Status)
		assert.Equal(t, "trace-1", env.TraceID)

		var result FilterResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, "geometryType() NOT IN ('LineString')", result.Filter)
		assert.Equal(t, []string{"Point", "Polygon"}, result.Types)
		assert.Len(t, result.Fingerprint, 64)
	})

	t.Run("default types flag", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{"empty.json": `[]`})
		out, err := execute(t, fsys, "filter", "empty.json", "--types", "--default-types", "Line")
		require.NoError(t, err)
		assert.Equal(t, "INCLUDE\ntypes: [Line]\n", out)
	})

	t.Run("format error", func(t *testing.T) {
		out, err := execute(t, fsys, "filter", "bad.json", "--format", "json")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		env := decodeEnvelope(t, out)
		assert.Equal(t, "error", env.Status)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeFormat, env.Error.Code)
		assert.Contains(t, env.Error.Message, "requires exactly two operands")
	})

	t.Run("missing document", func(t *testing.T) {
		out, err := execute(t, fsys, "filter", "nope.json")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error [E005]")
	})

	t.Run("missing key", func(t *testing.T) {
		out, err := execute(t, fsys, "filter", "layer.yaml", "--key", "paint")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error [E004]")
		assert.Contains(t, out, `no key "paint"`)
	})
}

func TestFunctionCommand(t *testing.T) {
	fsys := writeFiles(t, map[string]string{
		"width.json":  `{"base": 1.5, "stops": [[5, 1], [18, 30]]}`,
		"offset.json": `{"stops": [[0, [1, 2]], [10, [3, 4]]]}`,
		"join.yaml":   "line-join: {property: style, type: categorical, stops: [[sharp, miter], [soft, round]]}\n",
		"mixed.json":  `{"property": "rank", "stops": [[{"zoom": 0, "value": 0}, 1]]}`,
	})

	t.Run("numeric", func(t *testing.T) {
		out, err := execute(t, fsys, "function", "width.json", "--domain", "numeric")
		require.NoError(t, err)
		assert.Equal(t, "Exponential("+zoomLevel+", 1.5, 5, 1, 18, 30)\n", out)
	})

	t.Run("enum with key", func(t *testing.T) {
		out, err := execute(t, fsys, "function", "join.yaml", "--key", "line-join", "--domain", "enum", "--enum", "line-join", "--format", "json")
		require.NoError(t, err)

		env := decodeEnvelope(t, out)
		var result FunctionResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, "property", result.Category)
		assert.Equal(t, "categorical", result.Type)
		assert.Equal(t, []string{"Recode(style, 'sharp', 'mitre', 'soft', 'round')"}, result.Expressions)
		assert.Len(t, result.Fingerprints, 1)
	})

	t.Run("split", func(t *testing.T) {
		out, err := execute(t, fsys, "function", "offset.json", "--domain", "numeric", "--split")
		require.NoError(t, err)
		assert.Equal(t,
			"Interpolate("+zoomLevel+", 0, 1, 10, 3, 'numeric')\n"+
				"Interpolate("+zoomLevel+", 0, 2, 10, 4, 'numeric')\n",
			out)
	})

	t.Run("zoom and property", func(t *testing.T) {
		out, err := execute(t, fsys, "function", "mixed.json", "--domain", "numeric", "--format", "json")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		env := decodeEnvelope(t, out)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodePrecondition, env.Error.Code)
	})

	t.Run("unknown domain", func(t *testing.T) {
		_, err := execute(t, fsys, "function", "width.json", "--domain", "texture")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

const styleDocument = `{
  "version": 8,
  "layers": [
    {
      "id": "roads",
      "filter": ["==", "class", "street"],
      "layout": {"line-join": "miter", "visibility": "visible"},
      "paint": {
        "line-color": "#f00",
        "line-width": {"base": 1.4, "stops": [[6, 0.5], [20, 30]]}
      }
    },
    {
      "id": "labels",
      "layout": {"text-font": ["Open Sans Regular"], "text-size": 12}
    }
  ]
}`

func TestValidateCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{"styles/base.json": styleDocument})
		out, err := execute(t, fsys, "validate", "styles")
		require.NoError(t, err)
		assert.Equal(t, "✓ 2 layer(s) in 1 document(s) valid\n", out)
	})

	t.Run("single layer documents", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{
			"styles/water.yaml": "id: water\nfilter: [\"==\", \"$type\", \"Polygon\"]\npaint: {fill-color: blue}\n",
			"styles/notes.txt":  "ignored",
		})
		out, err := execute(t, fsys, "validate", "styles", "--format", "json")
		require.NoError(t, err)

		env := decodeEnvelope(t, out)
		var result ValidationResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.True(t, result.Valid)
		assert.Equal(t, 1, result.Documents)
		assert.Equal(t, 1, result.Layers)
	})

	t.Run("errors", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{
			"styles/broken.json": `{"layers": [
				{"id": "a", "filter": ["==", "class"]},
				{"id": "b", "paint": {"line-color": "not-a-colour"}},
				{"id": "c", "paint": {"line-width": {"property": "rank", "stops": [[{"zoom": 0, "value": 0}, 1]]}}}
			]}`,
		})
		out, err := execute(t, fsys, "validate", "styles", "--format", "json")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		env := decodeEnvelope(t, out)
		assert.Equal(t, "error", env.Status)
		var result ValidationResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.False(t, result.Valid)
		assert.Equal(t, 3, result.Layers)
		assert.Equal(t, 1, result.Skipped)
		require.Len(t, result.Errors, 2)

		assert.Equal(t, "a", result.Errors[0].Layer)
		assert.Equal(t, "filter", result.Errors[0].Property)
		assert.Equal(t, ErrCodeFormat, result.Errors[0].Code)
		assert.Equal(t, "b", result.Errors[1].Layer)
		assert.Equal(t, "paint.line-color", result.Errors[1].Property)
	})

	t.Run("no documents", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll("empty", 0o755))
		out, err := execute(t, fsys, "validate", "empty")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error [E003]")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := execute(t, afero.NewMemMapFs(), "validate", "nowhere")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

const basicScenario = `name: basic
description: "Street filter"
cases:
  - name: street
    filter: ["==", "class", "street"]
    expect:
      output: "class = 'street'"
`

func TestTestCommand(t *testing.T) {
	t.Run("pass without golden", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{"scenarios/basic.yaml": basicScenario})
		out, err := execute(t, fsys, "test", "scenarios")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ basic\n")
		assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	})

	t.Run("update then compare", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{"scenarios/basic.yaml": basicScenario})
		out, err := execute(t, fsys, "test", "scenarios", "--update")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ basic (golden updated)")

		golden, err := afero.ReadFile(fsys, "scenarios/golden/basic.golden")
		require.NoError(t, err)
		scenario, err := harness.ParseScenario([]byte(basicScenario))
		require.NoError(t, err)
		result, err := harness.Run(scenario)
		require.NoError(t, err)
		want, err := harness.Snapshot("basic", result)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(golden))

		_, err = execute(t, fsys, "test", "scenarios")
		require.NoError(t, err)
	})

	t.Run("golden mismatch", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{
			"scenarios/basic.yaml":          basicScenario,
			"scenarios/golden/basic.golden": `{"outputs":[],"scenario_name":"basic"}`,
		})
		out, err := execute(t, fsys, "test", "scenarios")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, "✗ basic")
		assert.Contains(t, out, "do not match golden file")
	})

	t.Run("expectation failure json", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{
			"scenarios/basic.yaml": basicScenario,
			"scenarios/wrong.yaml": `name: wrong
description: "Wrong expectation"
cases:
  - name: ref
    filter: ["has", "ref"]
    expect:
      output: "ref DOES-NOT-EXIST"
`,
		})
		out, err := execute(t, fsys, "test", "scenarios", "--format", "json")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		env := decodeEnvelope(t, out)
		assert.Equal(t, "error", env.Status)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeTestFailed, env.Error.Code)

		var result TestResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 1, result.Passed)
		require.Len(t, result.Scenarios, 2)
		assert.Equal(t, "wrong", result.Scenarios[1].Name)
		assert.NotEmpty(t, result.Scenarios[1].Errors)
	})

	t.Run("filter", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{
			"scenarios/basic.yaml":  basicScenario,
			"scenarios/broken.yaml": "name: [",
		})
		out, err := execute(t, fsys, "test", "scenarios", "--filter", "ba*")
		require.NoError(t, err)
		assert.Contains(t, out, "1 total")
	})

	t.Run("unparsable scenario", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{"scenarios/broken.yaml": "name: ["})
		out, err := execute(t, fsys, "test", "scenarios")
		require.Error(t, err)
		assert.Contains(t, out, "✗ broken.yaml")
		assert.Contains(t, out, "failed to load scenario")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := execute(t, afero.NewMemMapFs(), "test", "nowhere")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestConfigFlag(t *testing.T) {
	fsys := writeFiles(t, map[string]string{
		"mbstyle.yaml": "crs: EPSG:4326\ncolors:\n  brand: \"#123456\"\n",
		"width.json":   `{"stops": [[0, 0], [10, 100]]}`,
		"color.json":   `{"property": "kind", "type": "categorical", "stops": [["a", "brand"]]}`,
	})

	out, err := execute(t, fsys, "function", "width.json", "--domain", "numeric", "--config", "mbstyle.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Interpolate(zoomLevel(env('wms_scale_denominator'), 'EPSG:4326'), 0, 0, 10, 100, 'numeric')\n", out)

	out, err = execute(t, fsys, "function", "color.json", "--domain", "color", "--config", "mbstyle.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Recode(kind, 'a', '#123456')\n", out)

	out, err = execute(t, fsys, "function", "width.json", "--config", "missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}
