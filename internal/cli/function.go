package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/cql"
	"github.com/roach88/mbstyle/internal/function"
	"github.com/roach88/mbstyle/internal/parse"
)

// FunctionOptions holds flags for the function command.
type FunctionOptions struct {
	*RootOptions
	Key    string // top-level key holding the function
	Domain string // color, numeric, font, enum, string, boolean, value
	Enum   string // enumeration name for --domain enum
	Split  bool   // split an array function into one function per element
}

// FunctionResult is the output of the function command.
type FunctionResult struct {
	Category     string   `json:"category"`
	Type         string   `json:"type"`
	Expressions  []string `json:"expressions"`
	Fingerprints []string `json:"fingerprints"`
}

// NewFunctionCommand creates the function command.
func NewFunctionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FunctionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "function <document>",
		Short: "Translate a function",
		Long: `Translate a function object into an expression tree and print it in CQL notation.

With --split an array function (every stop output an array of one length)
is split into one function per element, each translated separately.

Examples:
  mbstyle function width.json --domain numeric
  mbstyle function layer.yaml --key line-join --domain enum --enum line-join
  mbstyle function offset.json --domain numeric --split --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunction(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "", "top-level key of the document holding the function")
	cmd.Flags().StringVar(&opts.Domain, "domain", "value", "output domain (color|numeric|font|enum|string|boolean|value)")
	cmd.Flags().StringVar(&opts.Enum, "enum", "", "enumeration name for --domain enum (e.g. line-join)")
	cmd.Flags().BoolVar(&opts.Split, "split", false, "split an array function before translating")

	return cmd
}

func runFunction(opts *FunctionOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	_, ctx, err := opts.load(cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	domain, err := function.ParseDomain(ctx, opts.Domain, opts.Enum)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	v, err := loadValue(opts.Fs, path, opts.Key)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	fn, err := function.Parse(v)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}
	formatter.VerboseLog("Loaded %s function from %s", fn.Category(), path)

	fns := []*function.Function{fn}
	if opts.Split {
		if fns, err = function.SplitArrayFunction(fn); err != nil {
			return formatter.Fail(ExitFailure, err)
		}
	}

	result := FunctionResult{
		Category: fn.Category().String(),
		Type:     fn.TypeWithDefault(domain.Kind).String(),
	}
	tr := function.New(ctx)
	for _, part := range fns {
		expr, err := translateFunction(tr, part, domain)
		if err != nil {
			return formatter.Fail(ExitFailure, err)
		}
		text, err := cql.Expression(expr)
		if err != nil {
			return formatter.Fail(ExitFailure, err)
		}
		fp, err := ast.ExpressionFingerprint(expr)
		if err != nil {
			return formatter.Fail(ExitFailure, err)
		}
		result.Expressions = append(result.Expressions, text)
		result.Fingerprints = append(result.Fingerprints, fp)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	for _, text := range result.Expressions {
		fmt.Fprintln(w, text)
	}
	return nil
}

// translateFunction reports a zoom-and-property function as an error instead
// of crashing the command.
func translateFunction(tr *function.Translator, fn *function.Function, d function.Domain) (expr ast.Expression, err error) {
	defer parse.RecoverPrecondition(&err)
	return tr.TranslateFunction(fn, d)
}
