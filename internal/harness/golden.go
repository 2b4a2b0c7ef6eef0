package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/mbstyle/internal/ir"
)

// Snapshot returns the canonical JSON form of a result used for golden
// comparison. Fingerprints are left out so snapshots stay readable; the
// rendered output already pins the tree.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	outputs := make(ir.Array, len(result.Outputs))
	for i, out := range result.Outputs {
		pairs := []ir.Pair{
			ir.O("case", ir.String(out.Case)),
			ir.O("kind", ir.String(out.Kind)),
		}
		if out.Output != "" {
			pairs = append(pairs, ir.O("output", ir.String(out.Output)))
		}
		if out.Types != "" {
			pairs = append(pairs, ir.O("types", ir.String(out.Types)))
		}
		if out.Error != "" {
			pairs = append(pairs, ir.O("error", ir.String(out.Error)))
		}
		outputs[i] = ir.NewObject(pairs...)
	}

	return ir.MarshalCanonical(ir.NewObject(
		ir.O("scenario_name", ir.String(scenarioName)),
		ir.O("outputs", outputs),
	))
}

// RunWithGolden executes a scenario and compares its outputs against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the outputs don't match the golden file.
func RunWithGolden(t *testing.T, h *Harness, scenario *Scenario) (*Result, error) {
	t.Helper()

	if h == nil {
		h = New(nil)
	}
	result, err := h.Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
