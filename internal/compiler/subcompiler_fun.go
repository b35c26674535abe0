package compiler

import (
	"context"

	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/fs"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

type SubCompilerFun struct {
	ParserOptions  []fun.ParserOption
	MaxSourceBytes int64
}

func (self *SubCompilerFun) CompileFile(ctx context.Context, r exc.Reporter, file lang.File, dumpTokens bool) (*CompiledFile, error) {
	uri := file.Path(ctx)
	content, err := fs.ReadAll(ctx, file, self.MaxSourceBytes)
	if err != nil {
		e := asException(uri, err)
		_ = r.Report(e)
		return nil, e
	}
	// the body is read once; lexing passes work on the in-memory copy.
	source := fs.NewFileString(uri, content, file.Kind(ctx))
	out := &CompiledFile{URI: uri}
	if dumpTokens {
		// lexical errors are reported by the parse below.
		out.Tokens, _ = fun.TokenizeFile(ctx, exc.NewReporter(nil), source)
	}
	program, err := fun.ParseFile(ctx, r, source, self.ParserOptions...)
	if err != nil {
		return nil, err
	}
	out.Program = program
	return out, nil
}
