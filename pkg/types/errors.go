// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors. Callers wrap them with the offending path and test with
// errors.Is.
var (
	// ErrInputNotFound means the transcript file does not exist.
	ErrInputNotFound = errors.New("input not found")

	// ErrInputRead covers every other failure opening, reading or decoding
	// the transcript.
	ErrInputRead = errors.New("reading input")

	// ErrOutputWrite means one of the output artifacts could not be written.
	ErrOutputWrite = errors.New("writing output")

	// ErrInvalidConfig means the extraction configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)
