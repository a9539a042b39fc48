package main

import (
	"errors"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
)

// Process exit statuses.
const (
	exitOK          = 0
	exitFatal       = 1
	exitConfig      = 1
	exitRenderError = 2
)

type exitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFatal
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// classify attaches the exit status for a run failure. Output failures
// are distinguished from configuration and matching failures.
func classify(err error) error {
	switch {
	case gerrors.IsConfiguration(err):
		return withExitCode(err, exitConfig)
	case gerrors.IsCode(err, gerrors.ErrCodeRenderWrite):
		return withExitCode(err, exitRenderError)
	default:
		return withExitCode(err, exitFatal)
	}
}

func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return exitFatal
}
