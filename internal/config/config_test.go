package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.funfront.dev/compiler.go/internal/exc"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		file     string
		content  string
		expected func() *Config
		code     string
	}{
		{
			name: "toml",
			file: "funfront.toml",
			content: `roots = ["src", "lib"]
max_source_bytes = 2048
strict = true

[parser]
allow_empty_calls = true

[output]
tree_format = "json"
dump_tree = true

[log]
verbose = true
`,
			expected: func() *Config {
				cfg := Default()
				cfg.Roots = []string{"src", "lib"}
				cfg.MaxSourceBytes = 2048
				cfg.Strict = true
				cfg.Parser.AllowEmptyCalls = true
				cfg.Output.TreeFormat = "json"
				cfg.Output.DumpTree = true
				cfg.Log.Verbose = true
				return cfg
			},
		},
		{
			name: "yaml",
			file: "funfront.yaml",
			content: `max_concurrency: 3
output:
  tree_format: go
  color: true
`,
			expected: func() *Config {
				cfg := Default()
				cfg.MaxConcurrency = 3
				cfg.Output.TreeFormat = "go"
				cfg.Output.Color = true
				return cfg
			},
		},
		{
			name:     "empty file keeps defaults",
			file:     "empty.yml",
			content:  "",
			expected: Default,
		},
		{
			name:    "bad toml",
			file:    "bad.toml",
			content: "roots = [",
			code:    exc.CodeUnsupportedFileFormat,
		},
		{
			name:    "unknown tree format",
			file:    "bad.yaml",
			content: "output:\n  tree_format: xml\n",
			code:    exc.CodeUnknownFatal,
		},
		{
			name:    "negative limit",
			file:    "bad.toml",
			content: "max_source_bytes = -1\n",
			code:    exc.CodeUnknownFatal,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), testCase.file)
			require.NoError(t, os.WriteFile(path, []byte(testCase.content), 0o644))
			cfg, err := Load(path)
			if testCase.code != "" {
				var e exc.Exception
				require.True(t, errors.As(err, &e), "%v", err)
				require.Equal(t, testCase.code, e.Code())
				require.Equal(t, path, e.Location().URI)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expected(), cfg)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, Default().Validate())
	require.Error(t, Decode([]byte("x"), Format("ini"), Default()))
}
