package csv2parquet

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure. Every error that leaves this
// package carries exactly one Kind.
type Kind int

const (
	// KindOther is the catch-all for failures that don't fit any
	// other category, e.g. an empty column projection.
	KindOther Kind = iota
	// KindFile covers open/create/delete failures at the filesystem
	// boundary.
	KindFile
	// KindCsv covers row-level parse and shape failures in the source.
	KindCsv
	// KindCodec covers parquet write and finalize failures.
	KindCodec
	// KindSchema covers failures to infer a consistent schema.
	KindSchema
	// KindPattern covers invalid file search patterns.
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindCsv:
		return "csv"
	case KindCodec:
		return "codec"
	case KindSchema:
		return "schema"
	case KindPattern:
		return "pattern"
	default:
		return "other"
	}
}

// Error is the error type returned by all operations in this package.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of err, or KindOther if err carries no Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// ErrNoColumnsSelected is returned by Project when none of the
// requested column names exist in the schema.
var ErrNoColumnsSelected = errors.New("no columns selected")
