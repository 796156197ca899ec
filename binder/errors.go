package binder

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnknownMember       = errors.New("unknown member")
	ErrUnknownMethod       = errors.New("unknown method")
	ErrNullCallTarget      = errors.New("method call on null target")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// EvaluationError is a semantic diagnostic: the expression parsed but does
// not resolve against the bound type.
type EvaluationError struct {
	TargetType string
	MemberPath string
	Message    string
	err        error
}

// Error implements the error interface
func (e *EvaluationError) Error() string {
	if e.MemberPath != "" {
		return fmt.Sprintf("%s: %s (type %s)", e.MemberPath, e.Message, e.TargetType)
	}
	return fmt.Sprintf("%s (type %s)", e.Message, e.TargetType)
}

// Unwrap exposes the sentinel for errors.Is
func (e *EvaluationError) Unwrap() error {
	return e.err
}
