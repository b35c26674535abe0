// Package config loads driver settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/tree"
)

// DefaultMaxSourceBytes is the source size limit used when none is set.
const DefaultMaxSourceBytes = 1 << 20

// Config holds the complete driver configuration.
type Config struct {
	Roots          []string     `toml:"roots" yaml:"roots"`
	MaxSourceBytes int64        `toml:"max_source_bytes" yaml:"max_source_bytes"`
	MaxConcurrency int          `toml:"max_concurrency" yaml:"max_concurrency"`
	Strict         bool         `toml:"strict" yaml:"strict"`
	Parser         ParserConfig `toml:"parser" yaml:"parser"`
	Output         OutputConfig `toml:"output" yaml:"output"`
	Log            LogConfig    `toml:"log" yaml:"log"`
}

// ParserConfig holds grammar extensions.
type ParserConfig struct {
	AllowEmptyCalls bool `toml:"allow_empty_calls" yaml:"allow_empty_calls"`
}

// OutputConfig holds settings for dumps and diagnostics.
type OutputConfig struct {
	DumpTokens bool   `toml:"dump_tokens" yaml:"dump_tokens"`
	DumpTree   bool   `toml:"dump_tree" yaml:"dump_tree"`
	TreeFormat string `toml:"tree_format" yaml:"tree_format"`
	TreeOut    string `toml:"tree_out" yaml:"tree_out"`
	Color      bool   `toml:"color" yaml:"color"`
}

type LogConfig struct {
	Verbose bool `toml:"verbose" yaml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Roots:          []string{"."},
		MaxSourceBytes: DefaultMaxSourceBytes,
		Output: OutputConfig{
			TreeFormat: string(tree.FormatText),
		},
	}
}

// Load reads the file at path on top of Default. The format follows the
// extension: .yaml and .yml are YAML, everything else is TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, exc.Wrap(exc.Location{URI: path}, exc.CodeFileNotFound, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, exc.Wrap(exc.Location{URI: path}, exc.CodePermissionDenied, err)
		}
		return nil, exc.WrapUnknown(exc.Location{URI: path}, err)
	}
	cfg := Default()
	if err := Decode(content, detectFormat(path), cfg); err != nil {
		return nil, exc.Wrap(exc.Location{URI: path}, exc.CodeUnsupportedFileFormat, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, exc.Wrap(exc.Location{URI: path}, exc.CodeUnknownFatal, err)
	}
	return cfg, nil
}

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Decode parses content into cfg. Fields missing from content keep their
// current value.
func Decode(content []byte, format Format, cfg *Config) error {
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Validate rejects values the driver cannot use.
func (c *Config) Validate() error {
	if c.MaxSourceBytes < 0 {
		return fmt.Errorf("max_source_bytes must not be negative, got %d", c.MaxSourceBytes)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	}
	if _, err := tree.ParseFormat(c.Output.TreeFormat); err != nil {
		return err
	}
	return nil
}
