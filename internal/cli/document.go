package cli

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/roach88/mbstyle/internal/ir"
	"github.com/roach88/mbstyle/internal/source"
)

// loadValue reads the document at path and returns it, or its top-level key
// when key is set.
func loadValue(fsys afero.Fs, path, key string) (ir.Value, error) {
	doc, err := source.Load(fsys, path)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return doc.Value, nil
	}

	obj, ok := doc.Value.(ir.Object)
	if !ok {
		return nil, &source.LoadError{
			Path:    path,
			Message: fmt.Sprintf("--key %s needs an object document, got %s", key, ir.KindOf(doc.Value)),
		}
	}
	v, ok := obj.Get(key)
	if !ok {
		return nil, &source.LoadError{Path: path, Message: fmt.Sprintf("no key %q", key)}
	}
	return v, nil
}
