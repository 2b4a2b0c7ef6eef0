// Package parse provides typed, validating access to the JSON value graph.
//
// Every translator reads its input through a Parser obtained from a Context.
// Required lookups fail with *FormatError; optional lookups take a fallback.
// The package also owns the translation Context (data expression translator,
// enumeration and color tables, zoom input), enumeration conversion and the
// color resolver.
package parse
