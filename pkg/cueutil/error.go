// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// FieldIssue is one validation failure at a field path.
	FieldIssue struct {
		// Path is the field path in JSON-path notation, e.g. "watch.patterns[1]".
		// Empty when the failure is not attached to a field.
		Path    string
		Message string
	}

	// SchemaError reports every validation failure of one document.
	SchemaError struct {
		File   string
		Issues []FieldIssue
		// cause is set when the failure did not come from CUE.
		cause error
	}
)

// Error renders "<file>: <path>: <message>" for a single issue and an
// indented list otherwise.
func (e *SchemaError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.File, e.cause)
	}
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			lines = append(lines, is.Message)
			continue
		}
		lines = append(lines, is.Path+": "+is.Message)
	}
	if len(lines) == 1 {
		return e.File + ": " + lines[0]
	}
	return e.File + ": validation failed:\n  " + strings.Join(lines, "\n  ")
}

// Unwrap returns the non-CUE cause, if any.
func (e *SchemaError) Unwrap() error {
	return e.cause
}

// FormatError converts err into a *SchemaError attributed to file. Errors
// that carry no CUE positions are wrapped as the cause. Returns nil for nil.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return &SchemaError{File: file, cause: err}
	}

	se := &SchemaError{File: file}
	for _, e := range cueErrs {
		path := formatPath(errors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path at the start of the message.
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		se.Issues = append(se.Issues, FieldIssue{Path: path, Message: msg})
	}
	return se
}

// formatPath turns CUE's flat selector list (["watch", "patterns", "1"]) into
// "watch.patterns[1]".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
