package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/mcncl/jsonast/internal/errors"
)

// ParseError captures where and why a JSON text was rejected.
// Line and Column are 1-based; Column counts runes.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Msg    string

	cause error
}

func newParseError(data []byte, offset int, msg string) *ParseError {
	offset = min(max(offset, 0), len(data))
	line := bytes.Count(data[:offset], []byte{'\n'}) + 1
	lineStart := bytes.LastIndexByte(data[:offset], '\n') + 1
	return &ParseError{
		Offset: offset,
		Line:   line,
		Column: utf8.RuneCount(data[lineStart:offset]) + 1,
		Msg:    msg,
		cause:  errors.ErrInvalidJSON,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Where returns the line and column where the syntax error occurred.
func (e *ParseError) Where() (line, col int) {
	return e.Line, e.Column
}

// Unwrap exposes the sentinel class of the error: errors.ErrInvalidJSON, or
// errors.ErrMultipleJSON for a second top-level value.
func (e *ParseError) Unwrap() error {
	return e.cause
}
