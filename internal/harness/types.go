package harness

// Case kinds.
const (
	KindFilter   = "filter"
	KindFunction = "function"
)

// CaseOutput is the outcome of translating one case.
type CaseOutput struct {
	Case string `json:"case"`
	Kind string `json:"kind"`

	// Output is the rendered tree. Empty when translation failed.
	Output string `json:"output,omitempty"`

	// Types is the inferred semantic type set of a filter, e.g. {Point, Line}.
	Types string `json:"types,omitempty"`

	// Fingerprint is the content hash of the tree.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Error is the translation error message.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// Outputs holds one entry per case, in scenario order.
	Outputs []CaseOutput `json:"outputs"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Outputs: []CaseOutput{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOutput records the outcome of a case.
func (r *Result) AddOutput(out CaseOutput) {
	r.Outputs = append(r.Outputs, out)
}

// Output returns the outcome of the named case.
func (r *Result) Output(name string) (CaseOutput, bool) {
	for _, out := range r.Outputs {
		if out.Case == name {
			return out, true
		}
	}
	return CaseOutput{}, false
}
