// Package model defines shared data structures.
package model

import "fmt"

// MissingColumnError reports a required column absent from a source table.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s: missing required column %q", e.Table, e.Column)
}

// UnreadableFileError reports a source file that could not be parsed as
// tabular data.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable file %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// ConvergenceError reports a model fit whose optimizer did not converge.
type ConvergenceError struct {
	Reason     string
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("model fit did not converge after %d iterations: %s", e.Iterations, e.Reason)
}

// InsufficientDataError reports a fit requested over too little data.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for model fit: %s", e.Reason)
}
