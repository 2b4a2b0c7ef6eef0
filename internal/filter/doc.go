// Package filter translates filter arrays of the style dialect into
// ast.Filter trees and infers the geometry kinds a filter can match.
//
// Dispatch is on element 0, parsed into an Operator first:
//
//	["==", "$type", "Point"]          → GeometryType
//	["in", "$id", 1, 2]               → FeatureIdentity
//	["has", "name"]                   → Existential
//	["<", "rank", 3]                  → Comparison (legacy property syntax)
//	["<", ["get", "rank"], 3]         → Comparison (data expressions)
//	["in", "class", "a", "b"]         → Membership
//	["all" | "any" | "none", ...]     → Logical
//	["case" | "match" | ..., ...]     → DataExpressionFilter
package filter
