package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mbstyle/internal/filter"
	"github.com/roach88/mbstyle/internal/function"
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
	"github.com/roach88/mbstyle/internal/source"
)

// Layer sections whose properties are translated.
var propertySections = []string{"layout", "paint"}

// ValidationError is one problem found in a style document.
type ValidationError struct {
	File     string `json:"file"`
	Layer    string `json:"layer,omitempty"`
	Property string `json:"property,omitempty"` // "filter" or section.name
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Documents int               `json:"documents"`
	Layers    int               `json:"layers"`
	Skipped   int               `json:"skipped,omitempty"` // zoom-and-property functions
	Errors    []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <styles-dir>",
		Short: "Validate style documents",
		Long: `Translate every filter and layout/paint property of the style documents in a
directory and report each one that does not translate.

A document is either a style object with a "layers" list or a single layer.
Each property is read in the domain its name implies (*-color as a color,
text-font as a font stack, line-join as an enumeration, ...). Zoom-and-property
functions are counted as skipped.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	_, ctx, err := opts.load(cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	if _, err := opts.Fs.Stat(dir); err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	files, err := source.FindDocuments(opts.Fs, dir)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	if len(files) == 0 {
		_ = formatter.Error(ErrCodeNoFiles, fmt.Sprintf("no documents found in %s", dir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: no documents found in %s", ErrCodeNoFiles, dir))
	}
	formatter.VerboseLog("Found %d document(s) in %s", len(files), dir)

	v := newValidator(ctx, formatter)
	result := ValidationResult{Documents: len(files)}
	for _, file := range files {
		v.document(file, opts, &result)
	}
	result.Valid = len(result.Errors) == 0

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

type validator struct {
	ctx       *parse.Context
	filters   *filter.Translator
	functions *function.Translator
	formatter *OutputFormatter
}

func newValidator(ctx *parse.Context, formatter *OutputFormatter) *validator {
	return &validator{
		ctx:       ctx,
		filters:   filter.New(ctx),
		functions: function.New(ctx),
		formatter: formatter,
	}
}

func (v *validator) document(file string, opts *RootOptions, result *ValidationResult) {
	doc, err := source.Load(opts.Fs, file)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{File: file, Code: ErrorCode(err), Message: err.Error()})
		return
	}

	for i, layer := range layersOf(doc.Value) {
		obj, ok := layer.(ir.Object)
		if !ok {
			result.Errors = append(result.Errors, ValidationError{
				File:    file,
				Layer:   fmt.Sprintf("[%d]", i),
				Code:    ErrCodeFormat,
				Message: fmt.Sprintf("layer must be an object, got %s", ir.KindOf(layer)),
			})
			continue
		}
		result.Layers++
		v.layer(file, layerName(obj, i), obj, result)
	}
}

// layersOf returns the layers of a style object, or the document itself when
// it is a single layer.
func layersOf(doc ir.Value) []ir.Value {
	obj, ok := doc.(ir.Object)
	if !ok {
		return []ir.Value{doc}
	}
	if layers, ok := obj.Get("layers"); ok {
		if arr, ok := layers.(ir.Array); ok {
			return arr
		}
		return []ir.Value{layers}
	}
	return []ir.Value{doc}
}

func layerName(obj ir.Object, i int) string {
	if id, ok := obj.Get("id"); ok {
		if s, ok := id.(ir.String); ok {
			return string(s)
		}
	}
	return fmt.Sprintf("[%d]", i)
}

func (v *validator) layer(file, name string, obj ir.Object, result *ValidationResult) {
	fail := func(property string, err error) {
		result.Errors = append(result.Errors, ValidationError{
			File:     file,
			Layer:    name,
			Property: property,
			Code:     ErrorCode(err),
			Message:  err.Error(),
		})
	}

	if f, ok := obj.Get("filter"); ok {
		if _, err := v.filters.Translate(f); err != nil {
			fail("filter", err)
		}
	}

	for _, section := range propertySections {
		val, ok := obj.Get(section)
		if !ok {
			continue
		}
		props, ok := val.(ir.Object)
		if !ok {
			fail(section, parse.Errorf("layer", "%q must be an object, got %s", section, ir.KindOf(val)))
			continue
		}
		for _, key := range props.Keys() {
			property := section + "." + key
			if isZoomAndProperty(props, key) {
				v.formatter.VerboseLog("Skipping zoom-and-property function %s of layer %s", property, name)
				result.Skipped++
				continue
			}
			domain := function.DomainForProperty(v.ctx, key)
			if _, err := v.functions.Property(props, key, domain); err != nil {
				fail(property, err)
			}
		}
	}
}

// isZoomAndProperty reports whether props[key] is a zoom-and-property
// function, which must be reduced before translation.
func isZoomAndProperty(props ir.Object, key string) bool {
	val, _ := props.Get(key)
	obj, ok := val.(ir.Object)
	if !ok {
		return false
	}
	fn, err := function.Parse(obj)
	return err == nil && fn.Category() == function.CategoryZoomAndProperty
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %d layer(s) in %d document(s) valid\n", result.Layers, result.Documents)
	if result.Skipped > 0 {
		fmt.Fprintf(w, "  %d zoom-and-property function(s) skipped\n", result.Skipped)
	}
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
			TraceID: formatter.TraceID,
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	writeValidationErrors(w, errs)

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

func writeValidationErrors(w io.Writer, errs []ValidationError) {
	for _, err := range errs {
		location := err.File
		if err.Layer != "" {
			location += " layer " + err.Layer
		}
		if err.Property != "" {
			location += " " + err.Property
		}
		fmt.Fprintln(w, location)
		fmt.Fprintf(w, "  %s: %s\n\n", err.Code, err.Message)
	}
}
