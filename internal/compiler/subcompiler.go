package compiler

import (
	"context"

	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// SubCompiler turns one source file of a given kind into a parsed program.
// Exceptions are sent to r. A non-nil error means the file did not parse.
type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file lang.File, dumpTokens bool) (*CompiledFile, error)
}

func DefaultSubCompilers(parserOptions []fun.ParserOption, maxSourceBytes int64) map[lang.FileKind]SubCompiler {
	return map[lang.FileKind]SubCompiler{
		lang.FileKindFun: &SubCompilerFun{
			ParserOptions:  parserOptions,
			MaxSourceBytes: maxSourceBytes,
		},
	}
}
