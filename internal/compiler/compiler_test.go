package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/exc"
	localfs "gopkg.funfront.dev/compiler.go/internal/fs"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

func newTestCompiler(t *testing.T, files fstest.MapFS, opts ...Option) *Compiler {
	t.Helper()
	lfs, err := localfs.NewFileSystemLocal("/", localfs.WithOptionFSFactory(func(string) fs.FS { return files }))
	require.NoError(t, err)
	c, err := New(append([]Option{OptionWithFS(lfs)}, opts...)...)
	require.NoError(t, err)
	return c
}

func codes(err error) []string {
	var out []string
	for _, e := range exc.Flatten(err) {
		var ex exc.Exception
		if errors.As(e, &ex) {
			out = append(out, ex.Code())
		}
	}
	return out
}

func TestCompile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		files    fstest.MapFS
		targets  []string
		opts     []Option
		expected []string
		codes    []string
	}{
		{
			name: "single file",
			files: fstest.MapFS{
				"main.fun": {Data: []byte("int main() = 1")},
			},
			targets:  []string{"main.fun"},
			expected: []string{"/main.fun"},
		},
		{
			name: "directory and file",
			files: fstest.MapFS{
				"lib/a.fun": {Data: []byte("int a() = 1")},
				"lib/b.ml":  {Data: []byte("int b(int x) = a(x)")},
				"main.fun":  {Data: []byte("int main() = b(1)")},
			},
			targets:  []string{"main.fun", "lib"},
			expected: []string{"/main.fun", "lib/a.fun", "lib/b.ml"},
		},
		{
			name: "same file twice",
			files: fstest.MapFS{
				"main.fun": {Data: []byte("int main() = 1")},
			},
			targets:  []string{"main.fun", "file:///main.fun"},
			expected: []string{"/main.fun"},
		},
		{
			name: "syntax error keeps other files",
			files: fstest.MapFS{
				"good.fun": {Data: []byte("int main() = 1")},
				"bad.fun":  {Data: []byte("int f( = 5")},
			},
			targets:  []string{"good.fun", "bad.fun"},
			expected: []string{"/good.fun"},
			codes:    []string{exc.CodeUnexpectedToken},
		},
		{
			name:    "missing file",
			files:   fstest.MapFS{},
			targets: []string{"nope.fun"},
			codes:   []string{exc.CodeFileNotFound},
		},
		{
			name: "unsupported format",
			files: fstest.MapFS{
				"notes.txt": {Data: []byte("int main() = 1")},
			},
			targets: []string{"notes.txt"},
			codes:   []string{exc.CodeUnsupportedFileFormat},
		},
		{
			name: "source too large",
			files: fstest.MapFS{
				"big.fun": {Data: []byte("int main() = 1234567890")},
			},
			targets: []string{"big.fun"},
			opts:    []Option{OptionWithMaxSourceBytes(8)},
			codes:   []string{exc.CodeSourceTooLarge},
		},
		{
			name: "empty call rejected",
			files: fstest.MapFS{
				"main.fun": {Data: []byte("int main() = f()")},
			},
			targets: []string{"main.fun"},
			codes:   []string{exc.CodeUnexpectedToken},
		},
		{
			name: "empty call allowed",
			files: fstest.MapFS{
				"main.fun": {Data: []byte("int main() = f()")},
			},
			targets:  []string{"main.fun"},
			opts:     []Option{OptionWithParserOptions(fun.WithEmptyCalls())},
			expected: []string{"/main.fun"},
		},
		{
			name: "duplicates are fine without strict",
			files: fstest.MapFS{
				"main.fun": {Data: []byte("int f(int x, int x) = x\nint f() = 1")},
			},
			targets:  []string{"main.fun"},
			expected: []string{"/main.fun"},
		},
		{
			name: "strict duplicates",
			files: fstest.MapFS{
				"main.fun": {Data: []byte("int f(int x, int x) = x\nint f() = 1")},
			},
			targets: []string{"main.fun"},
			opts:    []Option{OptionWithStrict(true)},
			codes:   []string{exc.CodeDuplicateParam, exc.CodeDuplicateFunction},
		},
		{
			name: "strict calls stay within a file",
			files: fstest.MapFS{
				"a.fun": {Data: []byte("int f(int x) = g(x)")},
				"b.fun": {Data: []byte("int g(int x) = x")},
			},
			targets:  []string{"a.fun", "b.fun"},
			opts:     []Option{OptionWithStrict(true)},
			expected: []string{"/b.fun"},
			codes:    []string{exc.CodeUndefinedFunction},
		},
		{
			name: "lexical errors",
			files: fstest.MapFS{
				"main.fun": {Data: []byte("int main() = 1 ?\nbool b() = true #")},
			},
			targets: []string{"main.fun"},
			codes:   []string{exc.CodeIllegalCharacter, exc.CodeIllegalCharacter},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			c := newTestCompiler(t, testCase.files, testCase.opts...)
			resp, err := c.Compile(ctx, &CompileRequest{Files: testCase.targets})
			if len(testCase.codes) > 0 {
				require.Error(t, err)
				require.Equal(t, testCase.codes, codes(err))
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, resp)
			uris := make([]string, 0, len(resp.Files))
			for _, f := range resp.Files {
				uris = append(uris, f.URI)
				require.NotNil(t, f.Program)
				require.Nil(t, f.Tokens)
			}
			require.ElementsMatch(t, testCase.expected, uris)
		})
	}
}

func TestCompileDumpTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newTestCompiler(t, fstest.MapFS{
		"main.fun": {Data: []byte("int main() = 1 + 2")},
	})
	resp, err := c.Compile(ctx, &CompileRequest{Files: []string{"main.fun"}, DumpTokens: true})
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	kinds := make([]lang.TokenType, 0, len(resp.Files[0].Tokens))
	for _, tok := range resp.Files[0].Tokens {
		kinds = append(kinds, tok.Type)
	}
	require.Equal(t, []lang.TokenType{
		lang.TokenTypeKeywordInt,
		lang.TokenTypeIdentifier,
		lang.TokenTypeParenOpen,
		lang.TokenTypeParenClose,
		lang.TokenTypeEqual,
		lang.TokenTypeNumber,
		lang.TokenTypePlus,
		lang.TokenTypeNumber,
	}, kinds)
}

func TestCompileManyFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	files := fstest.MapFS{}
	for x := 0; x < 40; x = x + 1 {
		files[fmt.Sprintf("src/f%02d.fun", x)] = &fstest.MapFile{Data: []byte(fmt.Sprintf("int f%d(int x) = x + %d", x, x))}
	}
	c := newTestCompiler(t, files, OptionWithMaxConcurrency(2))
	resp, err := c.Compile(ctx, &CompileRequest{Files: []string{"src"}})
	require.NoError(t, err)
	require.Len(t, resp.Files, 40)
	for x, f := range resp.Files {
		require.Equal(t, fmt.Sprintf("src/f%02d.fun", x), f.URI)
		require.Equal(t, fmt.Sprintf("f%d", x), f.Program.Functions[0].Name)
	}
}

func TestCompileReporterShared(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := exc.NewReporter(nil)
	c := newTestCompiler(t, fstest.MapFS{
		"bad.fun":  {Data: []byte("int f() =")},
		"good.fun": {Data: []byte("int f() = 1")},
	}, OptionWithExcReporter(r))

	_, err := c.Compile(ctx, &CompileRequest{Files: []string{"bad.fun"}})
	require.Error(t, err)
	_, err = c.Compile(ctx, &CompileRequest{Files: []string{"good.fun"}})
	require.NoError(t, err)
	require.Len(t, r.Reported(), 1)
}

func TestCompileConcurrentCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := exc.NewReporter(nil)
	c := newTestCompiler(t, fstest.MapFS{
		"bad.fun":  {Data: []byte("int f() =")},
		"good.fun": {Data: []byte("int f() = 1")},
	}, OptionWithExcReporter(r))

	const calls = 20
	errs := make(chan error, 2*calls)
	var wg sync.WaitGroup
	for x := 0; x < calls; x = x + 1 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := c.Compile(ctx, &CompileRequest{Files: []string{"bad.fun"}})
			if len(codes(err)) != 1 {
				errs <- fmt.Errorf("bad.fun: want one exception, got %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := c.Compile(ctx, &CompileRequest{Files: []string{"good.fun"}}); err != nil {
				errs <- fmt.Errorf("good.fun: %w", err)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, r.Reported(), calls)
}

func TestCompileCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestCompiler(t, fstest.MapFS{
		"main.fun": {Data: []byte("int main() = 1")},
	})
	_, err := c.Compile(ctx, &CompileRequest{Files: []string{"main.fun"}})
	require.Error(t, err)
}

func TestNewOptions(t *testing.T) {
	t.Parallel()
	_, err := New(OptionWithMaxConcurrency(-1))
	require.Error(t, err)
	_, err = New(OptionWithMaxSourceBytes(-1))
	require.Error(t, err)

	c, err := New(OptionWithLookupEnv(func(string) (string, bool) { return "", false }))
	require.NoError(t, err)
	require.Equal(t, int64(DefaultMaxSourceBytes), c.MaxSourceBytes)
	require.Greater(t, c.MaxConcurrency, 0)
	require.NotNil(t, c.FS)
}
