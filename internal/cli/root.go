package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/mbstyle/internal/config"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Fs is the filesystem documents, config and scenarios are read from.
	Fs afero.Fs

	// TraceIDs stamps JSON responses.
	TraceIDs TraceIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mbstyle CLI, reading from
// the OS filesystem.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(afero.NewOsFs(), UUIDv7Generator{})
}

// NewRootCommandWith creates the root command over fsys and ids.
func NewRootCommandWith(fsys afero.Fs, ids TraceIDGenerator) *cobra.Command {
	opts := &RootOptions{Fs: fsys, TraceIDs: ids}

	cmd := &cobra.Command{
		Use:   "mbstyle",
		Short: "mbstyle - style filter and function translator",
		Long: `Translate map style filters and functions into filter and expression trees.

Documents may be JSON, YAML or CUE. Trees are printed in CQL notation.`,
		Version:      fmt.Sprintf("%s (style dialect v%s)", ir.ToolVersion, ir.DialectVersion),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (yaml|json|toml)")

	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewFunctionCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns the output formatter of cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   o.traceID(),
	}
}

func (o *RootOptions) traceID() string {
	if o.TraceIDs == nil {
		return ""
	}
	return o.TraceIDs.Generate()
}

// logger writes text records to w: debug records when verbose, warnings
// otherwise.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// load reads the configuration and builds the translation context.
func (o *RootOptions) load(cmd *cobra.Command) (*config.Config, *parse.Context, error) {
	cfg, err := config.Load(o.Fs, o.ConfigPath)
	if err != nil {
		return nil, nil, &configError{err: err}
	}
	return cfg, cfg.Context(o.logger(cmd.ErrOrStderr())), nil
}

// configError marks a configuration failure for ErrorCode.
type configError struct {
	err error
}

func (e *configError) Error() string { return "config: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }
