// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"

	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// LexicalError is source text that cannot be classified as a token. Text is
// the offending character, or the whole literal for out of range numbers.
type LexicalError struct {
	Loc  Location
	Kind string
	Text string
}

var _ Exception = (*LexicalError)(nil)

// NewIllegalCharacter reports a single unrecognized character.
func NewIllegalCharacter(loc Location, r rune) *LexicalError {
	return &LexicalError{Loc: loc, Kind: CodeIllegalCharacter, Text: string(r)}
}

// NewNumberOutOfRange reports a decimal literal that does not fit in 64 bits.
func NewNumberOutOfRange(loc Location, digits string) *LexicalError {
	return &LexicalError{Loc: loc, Kind: CodeNumberOutOfRange, Text: digits}
}

// Character returns the first offending code point.
func (e *LexicalError) Character() rune {
	for _, r := range e.Text {
		return r
	}
	return 0
}

func (e *LexicalError) Error() string {
	return format(e.Loc, e.Kind, e.Message())
}

func (e *LexicalError) Code() string {
	return e.Kind
}

func (e *LexicalError) Message() string {
	switch e.Kind {
	case CodeNumberOutOfRange:
		return fmt.Sprintf("number literal %s out of range", e.Text)
	default:
		return fmt.Sprintf("illegal character %q", e.Text)
	}
}

func (e *LexicalError) Location() Location {
	return e.Loc
}

// SyntaxError is a token that cannot continue any derivation, or a premature
// end of input. Found is nil at end of input.
type SyntaxError struct {
	Loc      Location
	Expected string
	Found    *lang.Token
}

var _ Exception = (*SyntaxError)(nil)

// NewUnexpectedToken reports found at its own position.
func NewUnexpectedToken(uri string, found lang.Token, expected string) *SyntaxError {
	return &SyntaxError{
		Loc:      Location{URI: uri, Location: found.Span.Start},
		Expected: expected,
		Found:    &found,
	}
}

// NewUnexpectedEOF reports the end of input at loc, normally the end of the
// last token read.
func NewUnexpectedEOF(loc Location, expected string) *SyntaxError {
	return &SyntaxError{Loc: loc, Expected: expected}
}

// AtEOF reports whether the input ended before the parse was complete.
func (e *SyntaxError) AtEOF() bool {
	return e.Found == nil
}

func (e *SyntaxError) Error() string {
	return format(e.Loc, e.Code(), e.Message())
}

func (e *SyntaxError) Code() string {
	if e.AtEOF() {
		return CodeUnexpectedEOF
	}
	return CodeUnexpectedToken
}

func (e *SyntaxError) Message() string {
	if e.AtEOF() {
		return fmt.Sprintf("unexpected end of input (expecting %s)", e.Expected)
	}
	return fmt.Sprintf("unexpected %s %q (expecting %s)", e.Found.Type, e.Found.Value, e.Expected)
}

func (e *SyntaxError) Location() Location {
	return e.Loc
}
