// Package app wires configuration, content, audio, the traversal engine
// and its observers into one running session.
package app

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyRunning = errors.New("session already running")
	ErrClosed         = errors.New("application closed")
)

// OperationError reports a failed step of loading a session. Subject is
// the file or exercise id the step worked on.
type OperationError struct {
	Op      string
	Subject string
	Err     error
}

func opError(op, subject string, err error) *OperationError {
	return &OperationError{Op: op, Subject: subject, Err: err}
}

func (e *OperationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Subject, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// InitError reports a component that could not be started.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
