// Package ir provides the JSON value model consumed by the style translators.
//
// This package contains the value types only. All other internal packages
// import ir; ir imports nothing internal, which keeps it the foundational layer
// with no circular dependencies.
//
// Key design constraints:
//   - Value is a sealed union: Null, String, Number, Bool, Array, Object
//   - Object keeps insertion order; keys are unique
//   - Values are never mutated after construction (With returns a copy)
//   - Canonical JSON (RFC 8785 key order, NFC strings) is the only encoding
//     used for fingerprints
package ir
