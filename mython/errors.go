package mython

import (
	"fmt"
	"strconv"
	"strings"
)

// LexError is raised by the lexer for malformed input: bad indent widths,
// unterminated strings.
type LexError struct {
	Message   string
	Pos       Position
	CodeFrame string
}

func (e *LexError) Error() string {
	if e.CodeFrame == "" {
		return e.Message
	}
	return e.Message + "\n" + e.CodeFrame
}

// RuntimeError is raised by the evaluator: undefined names, type mismatches
// in operators, missing dunder methods, division by zero, calls against
// non-existent methods, and misuse of non-instance values as method
// targets.
type RuntimeError struct {
	Message   string
	Pos       Position
	CodeFrame string
}

func (e *RuntimeError) Error() string {
	if e.CodeFrame == "" {
		return e.Message
	}
	return e.Message + "\n" + e.CodeFrame
}

// ParseError is raised by the parser when tokens don't satisfy the grammar.
// It is distinct from LexError and RuntimeError and never reaches the
// evaluator.
type ParseError struct {
	Message   string
	Pos       Position
	CodeFrame string
}

func (e *ParseError) Error() string {
	if e.CodeFrame == "" {
		return e.Message
	}
	return e.Message + "\n" + e.CodeFrame
}

// formatCodeFrame renders a caret line under the offending column.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := lines[pos.Line-1]
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}

func newRuntimeError(source string, pos Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Message:   fmt.Sprintf(format, args...),
		Pos:       pos,
		CodeFrame: formatCodeFrame(source, pos),
	}
}

func newLexError(source string, pos Position, format string, args ...any) *LexError {
	return &LexError{
		Message:   fmt.Sprintf(format, args...),
		Pos:       pos,
		CodeFrame: formatCodeFrame(source, pos),
	}
}

func newParseError(source string, pos Position, format string, args ...any) *ParseError {
	return &ParseError{
		Message:   fmt.Sprintf(format, args...),
		Pos:       pos,
		CodeFrame: formatCodeFrame(source, pos),
	}
}
