// Package errors adds "can't <action>: <cause>" wrapping on top of the standard errors.
package errors

import (
	"errors"
	"fmt"
)

var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// failure is an action that could not be done, with its cause.
type failure struct {
	action string
	cause  error
}

func (f *failure) Error() string {
	return "can't " + f.action + ": " + f.cause.Error()
}

func (f *failure) Unwrap() error {
	return f.cause
}

// WrapFail reports err as "can't <action>: <err>". A nil err stays nil.
func WrapFail(err error, action string) error {
	if err == nil {
		return nil
	}
	return &failure{action: action, cause: err}
}

func WrapFailf(err error, actionFormat string, args ...any) error {
	if err == nil {
		return nil
	}
	return &failure{action: fmt.Sprintf(actionFormat, args...), cause: err}
}
