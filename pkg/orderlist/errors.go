package orderlist

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrEmptyCollection  = errors.New("collection is empty")
	ErrDuplicateValue   = errors.New("duplicate value")
	ErrValueNotFound    = errors.New("value not found")
	ErrStaleView        = errors.New("view is stale: underlying list was modified through another alias")
	ErrViewRangeInvalid = errors.New("view range does not fit the underlying list")
	ErrNotAView         = errors.New("list is not a view")
	ErrForeignNode      = errors.New("node does not belong to this list")

	// ErrTagSpaceExhausted is only ever returned wrapped in an *InvariantError.
	ErrTagSpaceExhausted = errors.New("tag space exhausted")
)

// InvariantError reports a broken internal invariant. It is never used for
// caller mistakes, so callers can tell "bad argument" apart from "the list
// cannot continue" with errors.As.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("orderlist: invariant violated in %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func invariantf(op string, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Err: fmt.Errorf(format, args...)}
}
