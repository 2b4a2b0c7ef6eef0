// Package harness provides conformance testing for filter and function
// translation.
//
// # Scenario Format
//
// Scenarios are YAML files. Each case holds either a filter array or a
// function object, written inline in YAML or JSON flow style:
//
//	name: road_styles
//	description: "Road filters and widths"
//	default_types: Point,Line,Polygon
//	cases:
//	  - name: street
//	    filter: ["==", "class", "street"]
//	    expect:
//	      output: "class = 'street'"
//	      types: Point,Line,Polygon
//	  - name: width
//	    function: {base: 1.5, stops: [[5, 1], [18, 30]]}
//	    domain: numeric
//	    expect:
//	      output: "Exponential(zoomLevel(env('wms_scale_denominator'), 'EPSG:3857'), 1.5, 5, 1, 18, 30)"
//	  - name: broken
//	    filter: ["==", "a"]
//	    expect:
//	      error: "requires"
//	assertions:
//	  - type: output_contains
//	    case: street
//	    text: street
//	  - type: same_tree
//	    cases: [street, street_again]
//	  - type: error_count
//	    count: 1
//
// Outputs are the CQL rendering of the translated tree (see package cql).
//
// # Assertion Types
//
//   - output_contains: the rendered output of a case contains text
//   - same_tree: the listed cases translate to trees with one fingerprint
//   - error_count: exactly count cases failed to translate
//
// # Deterministic Testing
//
// Translation holds no state, so a scenario always produces the same result.
// RunWithGolden snapshots the outputs as canonical JSON under
// testdata/golden/{scenario}.golden.
package harness
