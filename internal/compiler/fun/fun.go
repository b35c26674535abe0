// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package fun is the front end of the fun language: a tokenizer, a recursive
// descent parser, and the tree the parser produces.
//
// The package holds no mutable state between calls. Every operation builds its
// own lexer and parser so that any number of parses may run concurrently.
package fun

import (
	"cmp"
	"context"
	"math"
	"slices"

	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/fs"
	"gopkg.funfront.dev/compiler.go/internal/iter"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// Tokenize converts src into tokens. Illegal characters are skipped and
// returned as errors in source order. The tokens are usable even when errors
// are present but the pass is considered failed.
func Tokenize(ctx context.Context, src string) ([]lang.Token, []*exc.LexicalError) {
	r := exc.NewReporter(nil)
	tokens, _ := TokenizeFile(ctx, r, fs.NewFileString("", src, lang.FileKindFun))
	var lexical []*exc.LexicalError
	for _, e := range r.Reported() {
		if le, ok := e.(*exc.LexicalError); ok {
			lexical = append(lexical, le)
		}
	}
	return tokens, lexical
}

// TokenizeFile reads every token of f. Exceptions are sent to r and the
// returned error combines them.
func TokenizeFile(ctx context.Context, r exc.Reporter, f lang.File) ([]lang.Token, error) {
	local := exc.NewReporter(nil)
	lf, err := NewLexerFun(local).Lex(ctx, f)
	if err != nil {
		return nil, forward(r, local, asException(f.Path(ctx), err))
	}
	it, err := lf.Tokens(ctx)
	if err != nil {
		return nil, forward(r, local, asException(f.Path(ctx), err))
	}
	ptrs, err := iter.Collect(ctx, it)
	tokens := make([]lang.Token, 0, len(ptrs))
	for _, t := range ptrs {
		tokens = append(tokens, *t)
	}
	if err != nil {
		return tokens, forward(r, local, asException(f.Path(ctx), err))
	}
	return tokens, forward(r, local, nil)
}

// Parse parses src as a complete program. The result is either a Program or
// an error, never both. The error is a *exc.SyntaxError, a *exc.LexicalError,
// or a *multierror.Error holding several of them in source order.
func Parse(ctx context.Context, src string, options ...ParserOption) (*Program, error) {
	return ParseFile(ctx, exc.NewReporter(nil), fs.NewFileString("", src, lang.FileKindFun), options...)
}

// ParseFile is Parse for a named file. Every exception is also sent to r.
func ParseFile(ctx context.Context, r exc.Reporter, f lang.File, options ...ParserOption) (*Program, error) {
	uri := f.Path(ctx)
	local := exc.NewReporter(nil)
	lf, err := NewLexerFun(local).Lex(ctx, f)
	if err != nil {
		return nil, forward(r, local, asException(uri, err))
	}
	tokens, err := lf.Tokens(ctx)
	if err != nil {
		return nil, forward(r, local, asException(uri, err))
	}
	program := NewParserFun(local, options...).PrepareParse(ctx, uri, tokens).ParseProgram()
	if err := tokens.Close(ctx); err != nil {
		_ = local.Report(asException(uri, err))
	}
	if err := forward(r, local, nil); err != nil {
		return nil, err
	}
	return program, nil
}

// forward sends everything reported to local, then extra, to r. It returns the
// combined set or nil if there was nothing to send.
//
// The parser peeks one token ahead, so the lexer can report a character after
// the token the parser fails on. Exceptions are sorted by offset before they
// leave the package. Those without a position keep their order at the end.
func forward(r exc.Reporter, local exc.Reporter, extra exc.Exception) error {
	reported := local.Reported()
	if extra != nil {
		reported = append(reported, extra)
	}
	slices.SortStableFunc(reported, func(a exc.Exception, b exc.Exception) int {
		return cmp.Compare(sourceOrder(a), sourceOrder(b))
	})
	for _, e := range reported {
		_ = r.Report(e)
	}
	return exc.Combine(reported)
}

func sourceOrder(e exc.Exception) int64 {
	loc := e.Location()
	if loc.Line == 0 {
		return math.MaxInt64
	}
	return loc.Offset
}

func asException(uri string, err error) exc.Exception {
	if e, ok := err.(exc.Exception); ok {
		return e
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}
