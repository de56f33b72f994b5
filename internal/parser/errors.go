package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError is a syntax error at a position in a labelled source.
type ParseError struct {
	Label  string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Label, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorList collects every syntax error found in one source.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// Lexer errors
var errIllegalChar = errors.New("illegal character")
var errUnclosedString = errors.New("closing quote was expected")
var errInvalidNumber = errors.New("invalid number literal")

// Parser errors
var errUnclosedParen = errors.New("expected ')'")
var errUnclosedBracket = errors.New("expected ']'")
var errUnclosedBrace = errors.New("expected '}'")
var errExpectedBlock = errors.New("expected '{' to open a block")
var errExpectedColon = errors.New("expected ':' after name")
var errExpectedIdentifier = errors.New("expected identifier")
var errExpectedEqual = errors.New("expected '=' after binding name")
var errExpectedPipe = errors.New("expected '|' after lambda parameters")
var errExpectedFrom = errors.New("expected 'from' after import list")
var errExpectedPath = errors.New("expected module path string")
var errExpectedKey = errors.New("expected object key")
var errUndefinedExpr = errors.New("expected expression")
var errTrailingInput = errors.New("unexpected input after expression")
