package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Outputs  []CaseOutput // Case outputs for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Outputs) > 0 {
		fmt.Fprintf(&buf, "\nOutputs:\n")
		for i, out := range e.Outputs {
			if out.Error != "" {
				fmt.Fprintf(&buf, "  [%d] %s: error: %s\n", i+1, out.Case, out.Error)
				continue
			}
			fmt.Fprintf(&buf, "  [%d] %s: %s\n", i+1, out.Case, out.Output)
		}
	}
	return buf.String()
}

// assertOutputContains checks that the rendered output of a case contains the
// assertion text.
func assertOutputContains(result *Result, assertion Assertion) error {
	out, ok := result.Output(assertion.Case)
	if !ok {
		return &AssertionError{
			Type:     AssertOutputContains,
			Expected: fmt.Sprintf("case %s", assertion.Case),
			Actual:   "no such case",
			Outputs:  result.Outputs,
		}
	}
	if out.Error != "" || !strings.Contains(out.Output, assertion.Text) {
		actual := out.Output
		if out.Error != "" {
			actual = "error: " + out.Error
		}
		return &AssertionError{
			Type:     AssertOutputContains,
			Expected: fmt.Sprintf("%s output containing %q", assertion.Case, assertion.Text),
			Actual:   actual,
			Outputs:  result.Outputs,
		}
	}
	return nil
}

// assertSameTree checks that all listed cases translated to trees with the
// same fingerprint.
func assertSameTree(result *Result, assertion Assertion) error {
	var want string
	for i, name := range assertion.Cases {
		out, ok := result.Output(name)
		if !ok || out.Fingerprint == "" {
			return &AssertionError{
				Type:     AssertSameTree,
				Expected: fmt.Sprintf("case %s to translate", name),
				Actual:   "no tree",
				Outputs:  result.Outputs,
			}
		}
		if i == 0 {
			want = out.Fingerprint
			continue
		}
		if out.Fingerprint != want {
			return &AssertionError{
				Type:     AssertSameTree,
				Expected: fmt.Sprintf("%s and %s to produce the same tree", assertion.Cases[0], name),
				Actual:   fmt.Sprintf("fingerprints %s and %s", want, out.Fingerprint),
				Outputs:  result.Outputs,
			}
		}
	}
	return nil
}

// assertErrorCount checks the number of failed cases.
func assertErrorCount(result *Result, assertion Assertion) error {
	count := 0
	for _, out := range result.Outputs {
		if out.Error != "" {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertErrorCount,
			Expected: fmt.Sprintf("%d failed cases", assertion.Count),
			Actual:   fmt.Sprintf("%d failed cases", count),
			Outputs:  result.Outputs,
		}
	}
	return nil
}

// EvaluateAssertions runs all assertions against the result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertOutputContains:
			err = assertOutputContains(result, assertion)
		case AssertSameTree:
			err = assertSameTree(result, assertion)
		case AssertErrorCount:
			err = assertErrorCount(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
