package table

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, table.ErrInputNotFound).
var (
	// ErrInputNotFound indicates the input path does not exist or cannot be read.
	ErrInputNotFound = errors.New("input not found")
	// ErrInputTooLarge indicates the input exceeds the configured size limit.
	ErrInputTooLarge = errors.New("input too large")
)

// ParseError is returned when input content cannot be decoded into a
// rectangular table. Use errors.As to check for this error type.
type ParseError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("parse error")
	if e.Path != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OutputWriteError is returned when an output artifact cannot be created or written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error {
	return e.Err
}

// DuplicateColumnError is returned when header cleaning maps two or more
// source columns onto the same name.
type DuplicateColumnError struct {
	Name    string   // cleaned name shared by the colliding columns
	Sources []string // original header names, in column order
}

func (e *DuplicateColumnError) Error() string {
	quoted := make([]string, len(e.Sources))
	for i, s := range e.Sources {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("duplicate column %q after cleaning (from %s)", e.Name, strings.Join(quoted, ", "))
}
