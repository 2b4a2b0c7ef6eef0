package harness

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mbstyle/internal/ast"
)

// Scenario defines a conformance test scenario: a list of translation cases
// with expected outputs plus assertions over the whole result.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// DefaultTypes is the semantic type set assumed by filter type inference,
	// e.g. "Point,Line,Polygon". Empty means all types.
	DefaultTypes string `yaml:"default_types,omitempty"`

	Cases []Case `yaml:"cases"`

	// Assertions validate the result as a whole.
	// Supported types: output_contains, same_tree, error_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is one translation. Exactly one of Filter and Function is set.
type Case struct {
	Name string `yaml:"name"`

	// Filter is a filter array.
	Filter yaml.Node `yaml:"filter,omitempty"`

	// Function is a function object, translated for Domain.
	Function yaml.Node `yaml:"function,omitempty"`

	// Domain names the function domain: color, numeric, font, enum, string,
	// boolean or value.
	Domain string `yaml:"domain,omitempty"`

	// Enum names the enumeration of the enum domain, e.g. line-join.
	Enum string `yaml:"enum,omitempty"`

	// Expect is optional; without it the case only needs to translate.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Kind returns KindFilter or KindFunction.
func (c *Case) Kind() string {
	if c.Function.Kind != 0 {
		return KindFunction
	}
	return KindFilter
}

// ExpectClause specifies the expected outcome of a case.
type ExpectClause struct {
	// Output is the exact rendered tree.
	Output string `yaml:"output,omitempty"`

	// Types is the expected semantic type set of a filter.
	Types string `yaml:"types,omitempty"`

	// Error is a substring of the expected error. When set the case must fail.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the result of a whole scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "output_contains": Check the output of Case contains Text
	// - "same_tree": Check Cases share one fingerprint
	// - "error_count": Check exactly Count cases failed
	Type string `yaml:"type"`

	Case  string   `yaml:"case,omitempty"`
	Text  string   `yaml:"text,omitempty"`
	Cases []string `yaml:"cases,omitempty"`
	Count int      `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertSameTree       = "same_tree"
	AssertErrorCount     = "error_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(fsys afero.Fs, path string) (*Scenario, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files directly inside dir, sorted.
func FindScenarios(fsys afero.Fs, dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := afero.Glob(fsys, filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	if _, err := ast.ParseSemanticTypeSet(s.DefaultTypes); err != nil {
		return fmt.Errorf("default_types: %w", err)
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		hasFilter, hasFunction := c.Filter.Kind != 0, c.Function.Kind != 0
		switch {
		case hasFilter == hasFunction:
			return fmt.Errorf("cases[%d]: exactly one of filter and function is required", i)
		case hasFunction && c.Domain == "":
			return fmt.Errorf("cases[%d]: domain is required for function", i)
		case hasFilter && c.Domain != "":
			return fmt.Errorf("cases[%d]: domain applies to function cases only", i)
		}
		if c.Expect != nil && c.Expect.Types != "" {
			if !hasFilter {
				return fmt.Errorf("cases[%d].expect: types applies to filter cases only", i)
			}
			if _, err := ast.ParseSemanticTypeSet(c.Expect.Types); err != nil {
				return fmt.Errorf("cases[%d].expect: %w", i, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, seen); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, cases map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutputContains:
		if a.Case == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: case and text are required for output_contains", index)
		}
		if !cases[a.Case] {
			return fmt.Errorf("assertions[%d]: unknown case %q", index, a.Case)
		}
	case AssertSameTree:
		if len(a.Cases) < 2 {
			return fmt.Errorf("assertions[%d]: at least two cases are required for same_tree", index)
		}
		for _, name := range a.Cases {
			if !cases[name] {
				return fmt.Errorf("assertions[%d]: unknown case %q", index, name)
			}
		}
	case AssertErrorCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for error_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
