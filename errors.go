// Package crossdb provides the shared error taxonomy, result cache contract
// and configuration types of the crossdb data-access layer. The compilation
// and execution core lives in dialect/sql.
package crossdb

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	// ErrNotConnected is returned when an operation is attempted without an
	// established connection. It is fatal to the call and never retried.
	ErrNotConnected = errors.New("crossdb: not connected")

	// ErrTxDone is returned when Commit or Rollback is called on a
	// transaction that already finished.
	ErrTxDone = errors.New("crossdb: transaction has already been committed or rolled back")

	// ErrUnsupportedDialect is returned when a dialect identifier is unknown
	// or not linked into the hosting application.
	ErrUnsupportedDialect = errors.New("crossdb: unsupported dialect")
)

// CompileError reports malformed filter or schema input, detected before
// any statement reaches the driver.
type CompileError struct {
	// Reason describes what could not be compiled.
	Reason string
}

// Error returns the error string.
func (e *CompileError) Error() string {
	return fmt.Sprintf("crossdb: cannot compile: %s", e.Reason)
}

// NewCompileError returns a new CompileError with a formatted reason.
func NewCompileError(format string, args ...any) *CompileError {
	return &CompileError{Reason: fmt.Sprintf(format, args...)}
}

// IsCompileError returns true if the error is a CompileError.
func IsCompileError(err error) bool {
	if err == nil {
		return false
	}
	var e *CompileError
	return errors.As(err, &e)
}

// ExecError wraps an error raised by the backing engine with dialect
// context. The core performs no automatic retry; the underlying driver
// error stays reachable through Unwrap.
type ExecError struct {
	// Dialect is the dialect identifier of the failing adapter.
	Dialect string
	// Op is the logical operation ("insert", "find", "create table", ...).
	Op string
	// Err is the driver error.
	Err error
}

// Error returns the error string.
func (e *ExecError) Error() string {
	return fmt.Sprintf("crossdb: %s: %s: %v", e.Dialect, e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *ExecError) Unwrap() error { return e.Err }

// NewExecError returns a new ExecError.
func NewExecError(dialect, op string, err error) *ExecError {
	return &ExecError{Dialect: dialect, Op: op, Err: err}
}

// IsExecError returns true if the error is an ExecError.
func IsExecError(err error) bool {
	if err == nil {
		return false
	}
	var e *ExecError
	return errors.As(err, &e)
}

// BulkError reports a bulk-write sequence that failed partway through.
// Sub-operations before Index were applied and their side effects remain
// in place; the failure is surfaced at the point of interruption.
type BulkError struct {
	// Index is the zero-based position of the failing sub-operation.
	Index int
	// Err is the failure of that sub-operation.
	Err error
}

// Error returns the error string.
func (e *BulkError) Error() string {
	return fmt.Sprintf("crossdb: bulk write stopped at operation %d: %v", e.Index, e.Err)
}

// Unwrap returns the sub-operation error.
func (e *BulkError) Unwrap() error { return e.Err }

// IsBulkError returns true if the error is a BulkError.
func IsBulkError(err error) bool {
	if err == nil {
		return false
	}
	var e *BulkError
	return errors.As(err, &e)
}
