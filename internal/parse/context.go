package parse

import (
	"io"
	"log/slog"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/ir"
)

// Default zoom input of zoom functions: zoomLevel(env(ZoomVariable), CRS).
const (
	DefaultZoomVariable = "wms_scale_denominator"
	DefaultCRS          = "EPSG:3857"
)

// ExpressionTranslator converts a nested-array data expression (["op", args...])
// into an Expression. The filter and function translators defer to it for the
// dialect's unified expression syntax.
type ExpressionTranslator interface {
	Translate(expr ir.Array) (ast.Expression, error)

	// CanCreate reports whether op names a known data expression.
	CanCreate(op string) bool
}

// Context carries the read-only collaborators of a translation call.
// A Context is never modified by the translators and may be shared by
// concurrent calls.
type Context struct {
	// Expressions translates embedded data expressions. Translators fall back
	// to the built-in translator when nil.
	Expressions ExpressionTranslator

	// Colors maps extra color names (lower case) to color strings. They are
	// consulted before the CSS table.
	Colors map[string]string

	// Enumerations holds the enumeration tables by name.
	Enumerations map[string]Enumeration

	// ZoomVariable and CRS parameterize the zoom input of zoom functions.
	ZoomVariable string
	CRS          string

	// Logger receives debug records per translated node. Nil discards.
	Logger *slog.Logger
}

// NewContext returns a Context with the built-in enumerations and the default
// zoom input.
func NewContext() *Context {
	return &Context{
		Enumerations: BuiltinEnumerations(),
		ZoomVariable: DefaultZoomVariable,
		CRS:          DefaultCRS,
		Logger:       discardLogger(),
	}
}

// Log returns the context logger, never nil.
func (c *Context) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return discardLogger()
	}
	return c.Logger
}

// Enumeration looks up an enumeration table by name.
func (c *Context) Enumeration(name string) (Enumeration, bool) {
	if c == nil {
		e, ok := BuiltinEnumerations()[name]
		return e, ok
	}
	e, ok := c.Enumerations[name]
	return e, ok
}

// ZoomInput returns the expression computing a zoom level from the rendering
// scale.
func (c *Context) ZoomInput() ast.Expression {
	variable, crs := DefaultZoomVariable, DefaultCRS
	if c != nil && c.ZoomVariable != "" {
		variable = c.ZoomVariable
	}
	if c != nil && c.CRS != "" {
		crs = c.CRS
	}
	return ast.Call(ast.FuncZoomLevel, ast.Call(ast.FuncEnv, ast.Str(variable)), ast.Str(crs))
}

// Parser returns an accessor that names construct in its errors.
func (c *Context) Parser(construct string) Parser {
	return Parser{construct: construct, ctx: c}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
