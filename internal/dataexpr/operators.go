package dataexpr

// operators lists the data expression names of the style dialect.
var operators = setOf(
	// types
	"array", "boolean", "collator", "format", "image", "literal", "number",
	"number-format", "object", "string", "to-boolean", "to-color", "to-number",
	"to-string", "typeof",
	// feature data
	"accumulated", "feature-state", "geometry-type", "id", "line-progress", "properties",
	// lookup
	"at", "config", "get", "has", "in", "index-of", "length", "slice",
	// decision
	"!", "!=", "<", "<=", "==", ">", ">=", "all", "any", "case", "coalesce", "match", "within",
	// ramps, scales, curves
	"interpolate", "interpolate-hcl", "interpolate-lab", "step",
	// variable binding
	"let", "var",
	// string
	"concat", "downcase", "is-supported-script", "resolved-locale", "upcase",
	// color
	"rgb", "rgba", "to-rgba",
	// math
	"-", "*", "/", "%", "^", "+", "abs", "acos", "asin", "atan", "ceil", "cos",
	"distance", "e", "floor", "ln", "ln2", "log10", "log2", "max", "min", "pi",
	"round", "sin", "sqrt", "tan",
	// camera
	"zoom", "pitch", "distance-from-center",
	// heatmap
	"heatmap-density",
)

func setOf(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}
