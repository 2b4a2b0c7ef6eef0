// Package source loads style documents into ir values.
//
// Documents may be written as JSON, YAML or CUE; the format is chosen by file
// extension. All three decoders keep object keys in document order so that
// translated trees do not depend on the source format.
package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue/token"
	"github.com/spf13/afero"

	"github.com/roach88/mbstyle/internal/ir"
)

// Format identifies the syntax of a document.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatCUE
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCUE:
		return "cue"
	default:
		return "unknown"
	}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".cue":
		return FormatCUE
	default:
		return FormatUnknown
	}
}

// Document is a decoded file.
type Document struct {
	Path   string
	Format Format
	Value  ir.Value
}

// LoadError reports a document that could not be read or decoded.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error     // underlying read error, if any
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and decodes the document at path.
func Load(fsys afero.Fs, path string) (*Document, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unsupported document extension %q", filepath.Ext(path))}
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: err.Error(), Err: err}
	}

	v, err := Decode(format, path, data)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Format: format, Value: v}, nil
}

// Decode parses data in the given format. name is used in CUE positions and
// error messages.
func Decode(format Format, name string, data []byte) (ir.Value, error) {
	var (
		v   ir.Value
		err error
	)
	switch format {
	case FormatJSON:
		v, err = FromJSON(data)
	case FormatYAML:
		v, err = FromYAML(data)
	case FormatCUE:
		return FromCUE(name, data)
	default:
		return nil, &LoadError{Path: name, Message: "unknown document format"}
	}
	if err != nil {
		return nil, &LoadError{Path: name, Message: err.Error()}
	}
	return v, nil
}

// FromJSON decodes a JSON document.
func FromJSON(data []byte) (ir.Value, error) {
	return ir.Decode(data)
}

// FindDocuments walks dir and returns every JSON, YAML and CUE file, sorted.
func FindDocuments(fsys afero.Fs, dir string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && FormatOf(path) != FormatUnknown {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
