// Package ast defines the trees produced by the style translators.
//
// Two sealed node families live here:
//
//	Filter      boolean predicate over a feature (IncludeAll, Comparison,
//	            Membership, Existential, Logical, Not, GeometryType,
//	            FeatureIdentity, DataExpressionFilter)
//	Expression  value producing node (Literal, PropertyReference,
//	            FunctionCall, FallbackWrapped)
//
// ARCHITECTURE:
//
//	[filter array]    → filter.Translator   → Filter
//	[function object] → function.Translator → Expression
//	                                            ↓
//	                                     [cql renderer]
//
// The translators build trees bottom-up in a single call and hand them to the
// caller. Nodes are plain values; slices inside a node are never shared with
// another tree, so a tree may be kept and compared with reflect.DeepEqual or
// Fingerprint without copying.
//
// SEALED INTERFACES:
//
// Filter and Expression use the marker method pattern so backends (the CQL
// renderer, the JSON encoder) can switch exhaustively:
//
//	switch f := filter.(type) {
//	case Comparison:
//	    // Handle comparison
//	case Logical:
//	    // Handle all/any/none
//	default:
//	    // Impossible - compiler knows all Filter types
//	}
//
// SEMANTIC TYPES:
//
// SemanticType names the geometry kinds a style rule can apply to. The
// dialect spells them Point, LineString and Polygon. SemanticTypeSet is a
// small bit set of them; the empty set means "unconstrained".
package ast
