// Package function translates style function objects into expression trees.
//
// A function object maps an input (a feature property or the zoom level) to an
// output through an ordered list of stops:
//
//	{"property": "rank", "type": "interval", "stops": [[0, "#fff"], [10, "#000"]], "default": "#ccc"}
//
// Four strategies are supported. Each emits a call to a target primitive over
// the stops, and every result is wrapped in DefaultIfNull when the function
// declares a default.
//
//	identity     input, converted for the domain (css(input) for colors)
//	categorical  Recode(input, in1, out1, ...)
//	interval     Categorize(input, initial, in1, out1, ..., "succeeding")
//	exponential  Interpolate(input, in1, out1, ..., "color"|"numeric") when base is 1
//	             Exponential(input, base, in1, out1, ...) otherwise
//
// Output values are converted per Domain: colors are resolved through the
// context color table, numbers must be numbers, fonts take the first family of
// a font stack, and enumerations map names to target literals.
package function
