// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package probe

// InvocationError is returned when the probe could not be started or
// exited with a non-zero status. Diagnostic holds the probe's standard
// error output verbatim, for operator visibility.
type InvocationError struct {
	Diagnostic string
	Err        error
}

func (e *InvocationError) Error() string {
	if e.Diagnostic != "" {
		return e.Diagnostic
	}
	return e.Err.Error()
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
