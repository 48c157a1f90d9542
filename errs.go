package phrasebook

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrShape is returned (wrapped in a LoadError) when a document's top-level
// node is not a mapping.
var ErrShape = errors.New("root yml node is not a hash")

// SyntaxError is reported by a Parser for malformed document text. Line is
// 1-based; Column is 0 when the parser cannot tell.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// BadReferenceError is reported by a Parser for an alias whose anchor is
// not defined (or is still being defined).
type BadReferenceError struct {
	Anchor string
	Line   int
	Column int
}

func (e *BadReferenceError) Error() string {
	return fmt.Sprintf("bad anchor `%s'", e.Anchor)
}

// LoadError is returned by Store.Load and friends. The store is unchanged
// when a LoadError is returned.
type LoadError struct {
	Message string
	Line    int
	Column  int
	// Context is the source line the error points at, if known.
	Context string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s on line %d, col %d: `%s'", e.Message, e.Line, e.Column, e.Context)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UnknownFileTypeError is returned by Store.LoadFile for names that are not
// YAML documents.
type UnknownFileTypeError struct {
	Type string
	Name string
}

func (e *UnknownFileTypeError) Error() string {
	return fmt.Sprintf("can not load translations from %s, the file type %s is not known", e.Name, e.Type)
}

func newLoadError(src []byte, err error) *LoadError {
	le := &LoadError{Message: err.Error(), Err: err}
	var se *SyntaxError
	var bre *BadReferenceError
	switch {
	case errors.As(err, &se):
		le.Line, le.Column = se.Line, se.Column
	case errors.As(err, &bre):
		le.Line, le.Column = bre.Line, bre.Column
	}
	if le.Line > 0 {
		le.Context = sourceLine(src, le.Line)
	}
	return le
}

// sourceLine returns the 1-based line n of src without its newline.
func sourceLine(src []byte, n int) string {
	for i := 1; i < n; i++ {
		nl := bytes.IndexByte(src, '\n')
		if nl < 0 {
			return ""
		}
		src = src[nl+1:]
	}
	if nl := bytes.IndexByte(src, '\n'); nl >= 0 {
		src = src[:nl]
	}
	return string(bytes.TrimSuffix(src, []byte("\r")))
}
