package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/cql"
	"github.com/roach88/mbstyle/internal/filter"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Key          string // top-level key holding the filter
	Types        bool   // also infer semantic types
	DefaultTypes string // default set for type inference, overrides config
}

// FilterResult is the output of the filter command.
type FilterResult struct {
	Filter      string   `json:"filter"`
	Fingerprint string   `json:"fingerprint"`
	Types       []string `json:"types,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <document>",
		Short: "Translate a filter",
		Long: `Translate a filter array into a filter tree and print it in CQL notation.

Examples:
  mbstyle filter roads.json
  mbstyle filter layer.yaml --key filter --types
  mbstyle filter layer.cue --types --default-types Line,Polygon --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "", "top-level key of the document holding the filter")
	cmd.Flags().BoolVar(&opts.Types, "types", false, "infer the semantic types the filter selects")
	cmd.Flags().StringVar(&opts.DefaultTypes, "default-types", "", "types assumed when the filter has no $type test (e.g. Point,Line)")

	return cmd
}

func runFilter(opts *FilterOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, ctx, err := opts.load(cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	v, err := loadValue(opts.Fs, path, opts.Key)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	formatter.VerboseLog("Loaded filter from %s", path)

	tr := filter.New(ctx)
	f, err := tr.Translate(v)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	text, err := cql.Filter(f)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}
	fp, err := ast.FilterFingerprint(f)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}
	result := FilterResult{Filter: text, Fingerprint: fp}

	if opts.Types {
		defaults, err := filterDefaults(cfg.DefaultTypes, opts.DefaultTypes)
		if err != nil {
			return formatter.Fail(ExitCommandError, err)
		}
		types, err := tr.SemanticTypes(v, defaults)
		if err != nil {
			return formatter.Fail(ExitFailure, err)
		}
		for _, k := range types.Slice() {
			result.Types = append(result.Types, k.String())
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, result.Filter)
	if opts.Types {
		fmt.Fprintf(w, "types: %v\n", result.Types)
	}
	return nil
}

// filterDefaults parses the --default-types flag, falling back to the config.
func filterDefaults(configured, flag string) (ast.SemanticTypeSet, error) {
	list := configured
	if flag != "" {
		list = flag
	}
	return ast.ParseSemanticTypeSet(list)
}
