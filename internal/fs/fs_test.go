package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

func testFS() fs.FS {
	return fstest.MapFS{
		"main.fun":       {Data: []byte("int main() = 1")},
		"lib/a.fun":      {Data: []byte("int a() = 1")},
		"lib/b.ml":       {Data: []byte("int b() = 2")},
		"lib/README.md":  {Data: []byte("not source")},
		"empty/notes.md": {Data: []byte("nothing here")},
	}
}

func TestFileSystemLocal(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		uri   string
		paths []string
		code  string
	}{
		{name: "single file", uri: "/main.fun", paths: []string{"/main.fun"}},
		{name: "file uri", uri: "file:///main.fun", paths: []string{"/main.fun"}},
		{name: "directory", uri: "lib", paths: []string{"lib/a.fun", "lib/b.ml"}},
		{name: "missing", uri: "/nope.fun", code: exc.CodeFileNotFound},
		{name: "no source in directory", uri: "/empty", code: exc.CodeFileNotFound},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			lfs, err := NewFileSystemLocal("/", WithOptionFSFactory(func(string) fs.FS { return testFS() }))
			require.NoError(t, err)
			files, err := lfs.Open(ctx, testCase.uri)
			if testCase.code != "" {
				require.Error(t, err)
				var e exc.Exception
				require.True(t, errors.As(err, &e))
				require.Equal(t, testCase.code, e.Code())
				return
			}
			require.NoError(t, err)
			paths := make([]string, 0, len(files))
			for _, f := range files {
				paths = append(paths, f.Path(ctx))
				require.Equal(t, lang.FileKindFun, f.Kind(ctx))
			}
			require.Equal(t, testCase.paths, paths)
		})
	}
}

func TestFileSystemLocalDisk(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.fun"), []byte("bool x() = true"), 0o644))
	lfs, err := NewFileSystemLocal(root)
	require.NoError(t, err)
	files, err := lfs.Open(ctx, "x.fun")
	require.NoError(t, err)
	require.Len(t, files, 1)
	content, err := ReadAll(ctx, files[0], 0)
	require.NoError(t, err)
	require.Equal(t, "bool x() = true", content)
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	empty, err := NewFileSystemLocal("/", WithOptionFSFactory(func(string) fs.FS { return fstest.MapFS{} }))
	require.NoError(t, err)
	full, err := NewFileSystemLocal("/", WithOptionFSFactory(func(string) fs.FS { return testFS() }))
	require.NoError(t, err)

	files, err := FileSystemMulti{empty, full}.Open(ctx, "main.fun")
	require.NoError(t, err)
	require.Len(t, files, 1)

	_, err = FileSystemMulti{empty}.Open(ctx, "main.fun")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}

func TestReadAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	content := strings.Repeat("int f() = 1\n", 5000)
	f := NewFileString("/big.fun", content, lang.FileKindFun)

	out, err := ReadAll(ctx, f, 0)
	require.NoError(t, err)
	require.Equal(t, content, out)

	_, err = ReadAll(ctx, f, 1024)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeSourceTooLarge, e.Code())
	require.Equal(t, "/big.fun", e.Location().URI)
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	require.Equal(t, lang.FileKindFun, KindOf("a/b.fun"))
	require.Equal(t, lang.FileKindFun, KindOf("b.ml"))
	require.Equal(t, lang.FileKindNone, KindOf("b.proto"))
}
