// Package faults defines the typed error taxonomy shared by the
// capture-to-summary pipeline and its callers. Codes classify where a
// failure originated so callers can decide whether to abort a live
// session or drop a single chunk's contribution and continue.
package faults

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeStaging       Code = "STAGING"
	CodeEnvironment   Code = "ENVIRONMENT"
	CodeTranscription Code = "TRANSCRIPTION"
	CodeSummarization Code = "SUMMARIZATION"
	CodeStorage       Code = "STORAGE"
	CodeValidation    Code = "VALIDATION"
	CodeNotFound      Code = "NOT_FOUND"
)

type Error struct {
	Code   Code
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("%s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(code Code, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// CodeOf returns the fault code carried by err, or an empty code when
// err does not wrap a *Error anywhere in its chain.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
