package exec

import (
	"errors"
	"fmt"
)

// Batch count sentinels. Non-negative counts are affected rows.
const (
	// CountUnknown marks an entry that succeeded without reporting a row count.
	CountUnknown int64 = -2
	// CountFailed marks the entry that failed a batch.
	CountFailed int64 = -3
)

var (
	// ErrBatchNotSupported is returned by ExecuteBatch when the data source
	// cannot execute batches.
	ErrBatchNotSupported = errors.New("batch execution is not supported")

	// ErrCancelled matches errors of calls interrupted by Cancel.
	ErrCancelled = errors.New("statement cancelled")

	// ErrNotExecuted is returned when results are requested before a
	// successful execution.
	ErrNotExecuted = errors.New("statement has not been executed")

	// ErrClosed is returned when a closed statement or session is used.
	ErrClosed = errors.New("statement is closed")
)

// ExecError is an execution failure. It wraps the driver error and keeps
// its message.
type ExecError struct {
	Op        string // "execute", "batch", "next", "fetch"
	Query     string
	Err       error
	Cancelled bool
}

func (e *ExecError) Error() string {
	if e.Cancelled {
		return fmt.Sprintf("%s cancelled: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is reports cancelled errors as ErrCancelled.
func (e *ExecError) Is(target error) bool {
	return target == ErrCancelled && e.Cancelled
}

// IsCancelled reports whether err comes from a cancelled call.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// BatchError reports the failing entry of a batch. Counts holds the
// outcome of every entry up to and including the failed one.
type BatchError struct {
	Index  int
	Counts []int64
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch entry %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
