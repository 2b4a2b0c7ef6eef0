package source

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/mbstyle/internal/ir"
)

// FromCUE evaluates a CUE document and exports its regular fields. The
// document must evaluate to concrete values; definitions and hidden fields
// are left out.
func FromCUE(name string, data []byte) (ir.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(name, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(name, err)
	}
	out, err := fromCUE(v)
	if err != nil {
		return nil, &LoadError{Path: name, Message: err.Error(), Pos: v.Pos()}
	}
	return out, nil
}

func fromCUE(v cue.Value) (ir.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return ir.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		return ir.Bool(b), err
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		return ir.Number(f), err
	case cue.StringKind:
		s, err := v.String()
		return ir.String(s), err
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		arr := ir.Array{}
		for iter.Next() {
			elem, err := fromCUE(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", len(arr), err)
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		var pairs []ir.Pair
		for iter.Next() {
			label := iter.Selector().Unquoted()
			field, err := fromCUE(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%q: %w", label, err)
			}
			pairs = append(pairs, ir.O(label, field))
		}
		return ir.NewObject(pairs...), nil
	default:
		return nil, fmt.Errorf("unsupported CUE value of kind %s", v.Kind())
	}
}

// formatCUEError keeps the first CUE error together with its position.
func formatCUEError(name string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Path: name, Message: err.Error()}
	}

	first := errs[0]
	loadErr := &LoadError{Path: name, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
