package entity

import (
	"fmt"

	"github.com/nikmy/klaro/pkg/errors"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an operation on an id that has no record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConsistencyFault reports an index entry that does not resolve to a
// well-formed record. List logs and skips these.
type ConsistencyFault struct {
	Kind   string
	ID     string
	Reason string
}

func (e *ConsistencyFault) Error() string {
	return fmt.Sprintf("%s %q inconsistent: %s", e.Kind, e.ID, e.Reason)
}

// BackendError wraps a failure of the underlying storage.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return errors.WrapFail(e.Err, e.Op).Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendErr(err error, opFormat string, args ...any) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: fmt.Sprintf(opFormat, args...), Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConsistencyFault(err error) bool {
	var target *ConsistencyFault
	return errors.As(err, &target)
}

func IsBackend(err error) bool {
	var target *BackendError
	return errors.As(err, &target)
}
