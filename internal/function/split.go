package function

import (
	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/parse"
)

// IsArrayFunction reports whether every stop outputs an array, as vector
// properties such as translations do. A function without stops is not an
// array function.
func IsArrayFunction(fn *Function) bool {
	if fn == nil || fn.Stops == nil {
		return false
	}
	for _, s := range fn.Stops {
		if ir.KindOf(s.Output) != ir.KindArray {
			return false
		}
	}
	return true
}

// SplitArrayFunction decomposes a function whose stop outputs are arrays of
// length N into N scalar functions. Function i keeps every other field of the
// object, with each stop output (and the default, when present) projected to
// element i. A function without stops is returned unchanged.
func SplitArrayFunction(fn *Function) ([]*Function, error) {
	if len(fn.Stops) == 0 {
		return []*Function{fn}, nil
	}

	outputs := make([]ir.Array, len(fn.Stops))
	for i, s := range fn.Stops {
		arr, ok := s.Output.(ir.Array)
		if !ok {
			return nil, parse.Errorf(construct, "array function: encountered non-array stop value %s", ir.Snippet(s.Output))
		}
		outputs[i] = arr
	}

	n := len(outputs[0])
	for _, out := range outputs[1:] {
		if len(out) != n {
			return nil, parse.Errorf(construct, "array function: all stops arrays must have the same length")
		}
	}

	var def ir.Array
	if fn.Default != nil {
		arr, ok := fn.Default.(ir.Array)
		if !ok || len(arr) != n {
			return nil, parse.Errorf(construct, "array function: the default value must also be an array of length %d", n)
		}
		def = arr
	}

	split := make([]*Function, 0, n)
	for i := 0; i < n; i++ {
		stops := make(ir.Array, len(fn.Stops))
		for j, s := range fn.Stops {
			stops[j] = ir.Array{s.Input, outputs[j][i]}
		}
		obj := fn.json.With("stops", stops)
		if def != nil {
			obj = obj.With("default", def[i])
		}
		reduced, err := Parse(obj)
		if err != nil {
			return nil, err
		}
		split = append(split, reduced)
	}
	return split, nil
}
