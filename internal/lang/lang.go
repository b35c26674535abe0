// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"context"
	"fmt"

	"gopkg.funfront.dev/compiler.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindFun
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindFun:
		return "fun"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}

// Location is a position in source text. Line and Column are 1-based and
// Column counts code points. Offset is the 0-based byte offset.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span covers the text of a token. End is exclusive.
type Span struct {
	Start Location
	End   Location
}
