// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fun

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/iter"
	"gopkg.funfront.dev/compiler.go/internal/lang"
	"gopkg.funfront.dev/compiler.go/internal/optional"
)

const (
	lexerFunLookahead = 1
)

// keywords is never written after package initialization.
var keywords = map[string]lang.TokenType{
	"int":   lang.TokenTypeKeywordInt,
	"bool":  lang.TokenTypeKeywordBool,
	"true":  lang.TokenTypeKeywordTrue,
	"false": lang.TokenTypeKeywordFalse,
	"let":   lang.TokenTypeKeywordLet,
	"in":    lang.TokenTypeKeywordIn,
	"if":    lang.TokenTypeKeywordIf,
	"then":  lang.TokenTypeKeywordThen,
	"else":  lang.TokenTypeKeywordElse,
}

var punctuation = map[rune]lang.TokenType{
	'(': lang.TokenTypeParenOpen,
	')': lang.TokenTypeParenClose,
	'+': lang.TokenTypePlus,
	'=': lang.TokenTypeEqual,
	',': lang.TokenTypeComma,
}

// LexerFun implements a tokenizer for the fun language. Illegal characters
// are sent to the reporter and skipped so that tokenization always reaches
// the end of the input.
type LexerFun struct {
	reporter exc.Reporter
}

func NewLexerFun(reporter exc.Reporter) *LexerFun {
	return &LexerFun{reporter: reporter}
}

func (self *LexerFun) Lex(ctx context.Context, f lang.File) (lang.LexerFile, error) {
	return &lexerFileFun{
		File:     f,
		reporter: self.reporter,
	}, nil
}

type lexerFileFun struct {
	lang.File
	reporter exc.Reporter
}

// Tokens starts a new pass over the file body. Each call begins again from
// the first byte.
func (self *lexerFileFun) Tokens(ctx context.Context) (lang.Iterator[*lang.Token], error) {
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewUnicodeFileBodyCtx(ctx, b), lexerFunLookahead)
	return &lexerFileFunTokens{
		uri:      self.File.Path(ctx),
		body:     points,
		reporter: self.reporter,
		pos:      lang.Location{Line: 1, Column: 1},
	}, nil
}

type lexerFileFunTokens struct {
	uri      string
	body     lang.Lookahead[lang.CodePoint]
	reporter exc.Reporter
	// pos is the location of the next unread code point.
	pos lang.Location
}

func (self *lexerFileFunTokens) Next(ctx context.Context) optional.Optional[*lang.Token] {
	for {
		start := self.pos
		point := self.next(ctx)
		if !point.IsPresent() {
			return optional.None[*lang.Token]()
		}
		r := rune(point.Value())
		switch {
		case r == ' ' || r == '\t':
			continue
		case r == '\n' || r == '\r':
			// every newline character counts, so \r\n advances two lines.
			self.newLine()
			continue
		case isDigit(r):
			return self.readNumber(ctx, start, r)
		case isLetter(r):
			return self.readWord(ctx, start, r)
		}
		if kind, ok := punctuation[r]; ok {
			return optional.Some(self.token(start, kind, string(r)))
		}
		_ = self.reporter.Report(exc.NewIllegalCharacter(self.loc(start), r))
	}
}

func (self *lexerFileFunTokens) readNumber(ctx context.Context, start lang.Location, first rune) optional.Optional[*lang.Token] {
	var builder strings.Builder
	_, _ = builder.WriteRune(first)
	for n := self.body.Lookahead(ctx, 1); n.IsPresent() && isDigit(rune(n.Value())); n = self.body.Lookahead(ctx, 1) {
		_ = self.next(ctx)
		_, _ = builder.WriteRune(rune(n.Value()))
	}
	t := self.token(start, lang.TokenTypeNumber, builder.String())
	v, err := strconv.ParseUint(t.Value, 10, 64)
	if err != nil {
		_ = self.reporter.Report(exc.NewNumberOutOfRange(self.loc(start), t.Value))
		return optional.Some(t)
	}
	t.Int = v
	return optional.Some(t)
}

func (self *lexerFileFunTokens) readWord(ctx context.Context, start lang.Location, first rune) optional.Optional[*lang.Token] {
	var builder strings.Builder
	_, _ = builder.WriteRune(first)
	for n := self.body.Lookahead(ctx, 1); n.IsPresent() && isWordPart(rune(n.Value())); n = self.body.Lookahead(ctx, 1) {
		_ = self.next(ctx)
		_, _ = builder.WriteRune(rune(n.Value()))
	}
	word := builder.String()
	kind, ok := keywords[word]
	if !ok {
		kind = lang.TokenTypeIdentifier
	}
	return optional.Some(self.token(start, kind, word))
}

func (self *lexerFileFunTokens) next(ctx context.Context) optional.Optional[lang.CodePoint] {
	n := self.body.Next(ctx)
	if n.IsPresent() {
		self.pos.Column = self.pos.Column + 1
		self.pos.Offset = self.pos.Offset + int64(utf8.RuneLen(rune(n.Value())))
	}
	return n
}

func (self *lexerFileFunTokens) newLine() {
	self.pos.Line = self.pos.Line + 1
	self.pos.Column = 1
}

func (self *lexerFileFunTokens) token(start lang.Location, kind lang.TokenType, value string) *lang.Token {
	return &lang.Token{
		Span:  lang.Span{Start: start, End: self.pos},
		Type:  kind,
		Value: value,
	}
}

func (self *lexerFileFunTokens) loc(l lang.Location) exc.Location {
	return exc.Location{URI: self.uri, Location: l}
}

func (self *lexerFileFunTokens) Close(ctx context.Context) error {
	return self.body.Close(ctx)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordPart(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}
