package parse

import (
	"errors"
	"fmt"
	"strings"
)

// FormatError reports input that does not have the shape a construct needs.
// It is the only error kind the translators return for bad input.
type FormatError struct {
	Context  string // construct being read, e.g. "filter" or "function"
	Key      string // offending key ("stops") or index ("[1]"), may be empty
	Expected string // expected shape, e.g. "String" or "Array"
	Actual   string // encountered shape or a snippet of the input
	Message  string // free text; when set it replaces the generated wording
}

func (e *FormatError) Error() string {
	if e.Message != "" {
		if e.Context != "" {
			return e.Context + ": " + e.Message
		}
		return e.Message
	}

	var b strings.Builder
	if e.Context != "" {
		b.WriteString(e.Context)
		b.WriteString(" ")
	}
	b.WriteString("requires ")
	if e.Key != "" {
		b.WriteString(e.Key)
		b.WriteString(" ")
	}
	b.WriteString(e.Expected)
	if e.Actual != "" {
		fmt.Fprintf(&b, " (was %s)", e.Actual)
	}
	return b.String()
}

// Errorf builds a FormatError carrying a free text message.
func Errorf(context, format string, args ...any) *FormatError {
	return &FormatError{Context: context, Message: fmt.Sprintf(format, args...)}
}

// IsFormatError reports whether err (or anything it wraps) is a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// AsFormatError extracts the FormatError from err.
func AsFormatError(err error) (*FormatError, bool) {
	var fe *FormatError
	ok := errors.As(err, &fe)
	return fe, ok
}

// PreconditionError signals a caller bug rather than bad input, such as
// translating a zoom-and-property function that was not reduced first.
// It is raised with panic and should not be reported as a format problem.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return "precondition violated: " + e.Message
}

// IsPreconditionError reports whether err is a PreconditionError.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// RecoverPrecondition converts a PreconditionError panic into an error stored
// in *errp. Other panics are re-raised. Use as:
//
//	defer parse.RecoverPrecondition(&err)
func RecoverPrecondition(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if pe, ok := r.(*PreconditionError); ok {
		*errp = pe
		return
	}
	panic(r)
}

func keyName(key string) string {
	return `"` + key + `"`
}

func indexName(i int) string {
	return fmt.Sprintf("[%d]", i)
}
