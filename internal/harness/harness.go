package harness

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/cql"
	"github.com/roach88/mbstyle/internal/filter"
	"github.com/roach88/mbstyle/internal/function"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
	"github.com/roach88/mbstyle/internal/source"
)

// Harness is the test execution engine. It translates every case of a
// scenario with one filter and one function translator.
type Harness struct {
	ctx       *parse.Context
	filters   *filter.Translator
	functions *function.Translator
	renderer  *cql.Renderer
	logger    *slog.Logger
}

// New returns a Harness translating with ctx. A nil ctx uses the defaults.
func New(ctx *parse.Context) *Harness {
	if ctx == nil {
		ctx = parse.NewContext()
	}
	return &Harness{
		ctx:       ctx,
		filters:   filter.New(ctx),
		functions: function.New(ctx),
		renderer:  cql.NewRenderer(),
		logger:    ctx.Log(),
	}
}

// Run executes a test scenario with the default context.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Translate every case and render its tree
//  2. Check each expect clause
//  3. Evaluate the assertions
//
// The returned error reports a scenario that cannot be executed, such as an
// unknown domain; failed expectations are recorded in the result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	defaults, err := h.defaultTypes(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i := range scenario.Cases {
		c := &scenario.Cases[i]

		out, err := h.runCase(c, defaults)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}
		result.AddOutput(out)

		for _, msg := range checkExpect(c, out) {
			result.AddError(fmt.Sprintf("case %s: %s", c.Name, msg))
		}

		h.logger.Debug("case completed",
			"scenario", scenario.Name,
			"case", c.Name,
			"kind", out.Kind,
			"failed", out.Error != "",
		)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) defaultTypes(scenario *Scenario) (ast.SemanticTypeSet, error) {
	if scenario.DefaultTypes == "" {
		return ast.AllTypes, nil
	}
	set, err := ast.ParseSemanticTypeSet(scenario.DefaultTypes)
	if err != nil {
		return 0, fmt.Errorf("default_types: %w", err)
	}
	return set, nil
}

// runCase translates one case. Translation failures are recorded in the
// output; only a malformed case returns an error.
func (h *Harness) runCase(c *Case, defaults ast.SemanticTypeSet) (CaseOutput, error) {
	out := CaseOutput{Case: c.Name, Kind: c.Kind()}

	if c.Kind() == KindFunction {
		domain, err := function.ParseDomain(h.ctx, c.Domain, c.Enum)
		if err != nil {
			return out, err
		}
		v, err := source.FromNode(&c.Function)
		if err != nil {
			return out, fmt.Errorf("function: %w", err)
		}
		expr, err := h.translateFunction(v, domain)
		if err != nil {
			out.Error = err.Error()
			return out, nil
		}
		return h.describeExpression(out, expr), nil
	}

	v, err := source.FromNode(&c.Filter)
	if err != nil {
		return out, fmt.Errorf("filter: %w", err)
	}
	f, err := h.filters.Translate(v)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	types, err := h.filters.SemanticTypes(v, defaults)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	out.Types = types.String()
	return h.describeFilter(out, f), nil
}

// translateFunction converts a zoom-and-property precondition panic into an
// error so one case cannot abort the scenario.
func (h *Harness) translateFunction(v ir.Value, domain function.Domain) (expr ast.Expression, err error) {
	defer parse.RecoverPrecondition(&err)
	return h.functions.Translate(v, domain)
}

func (h *Harness) describeFilter(out CaseOutput, f ast.Filter) CaseOutput {
	text, err := h.renderer.Filter(f)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	fp, err := ast.FilterFingerprint(f)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Output, out.Fingerprint = text, fp
	return out
}

func (h *Harness) describeExpression(out CaseOutput, e ast.Expression) CaseOutput {
	text, err := h.renderer.Expression(e)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	fp, err := ast.ExpressionFingerprint(e)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Output, out.Fingerprint = text, fp
	return out
}

// checkExpect compares a case outcome with its expect clause.
func checkExpect(c *Case, out CaseOutput) []string {
	if c.Expect == nil {
		if out.Error != "" {
			return []string{"unexpected error: " + out.Error}
		}
		return nil
	}

	exp := c.Expect
	if exp.Error != "" {
		switch {
		case out.Error == "":
			return []string{fmt.Sprintf("expected error containing %q, got %s", exp.Error, out.Output)}
		case !strings.Contains(out.Error, exp.Error):
			return []string{fmt.Sprintf("expected error containing %q, got %q", exp.Error, out.Error)}
		}
		return nil
	}
	if out.Error != "" {
		return []string{"unexpected error: " + out.Error}
	}

	var msgs []string
	if exp.Output != "" && exp.Output != out.Output {
		msgs = append(msgs, fmt.Sprintf("output\n  expected: %s\n  actual:   %s", exp.Output, out.Output))
	}
	if exp.Types != "" {
		// validated when the scenario was parsed
		want, _ := ast.ParseSemanticTypeSet(exp.Types)
		if want.String() != out.Types {
			msgs = append(msgs, fmt.Sprintf("types: expected %s, got %s", want, out.Types))
		}
	}
	return msgs
}
