package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/jcgregorio/logger"
	"github.com/spf13/pflag"

	"gopkg.funfront.dev/compiler.go/internal/compiler"
	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/config"
	"gopkg.funfront.dev/compiler.go/internal/diag"
	"gopkg.funfront.dev/compiler.go/internal/tree"
)

const (
	exitOK      = 0
	exitErrors  = 1
	exitUsage   = 2
	programName = "funfront"
)

type opts struct {
	Config          string
	Roots           []string
	DumpTokens      bool
	DumpTree        bool
	TreeFormat      string
	TreeOut         string
	AllowEmptyCalls bool
	Strict          bool
	MaxSourceBytes  int64
	MaxConcurrency  int
	Color           bool
	Verbose         bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	op := &opts{}
	flags := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&op.Config, "config", "", "Read settings from a TOML or YAML file. Flags override file values.")
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for source files.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream of every file")
	flags.BoolVar(&op.DumpTree, "dump-tree", false, "Output the parse tree after parsing")
	flags.StringVar(&op.TreeFormat, "tree-format", string(tree.FormatText), "Parse tree format: text, go, json or proto")
	flags.StringVar(&op.TreeOut, "tree-out", "", "Write the parse tree to FILE instead of STDOUT")
	flags.BoolVar(&op.AllowEmptyCalls, "allow-empty-calls", false, "Accept calls with no arguments, such as f()")
	flags.BoolVar(&op.Strict, "strict", false, "Reject duplicate parameter and function names")
	flags.Int64Var(&op.MaxSourceBytes, "max-source-bytes", config.DefaultMaxSourceBytes, "Largest accepted source file")
	flags.IntVar(&op.MaxConcurrency, "max-concurrency", 0, "Files parsed at once, 0 for one per CPU")
	flags.BoolVar(&op.Color, "color", false, "Color diagnostics")
	flags.BoolVarP(&op.Verbose, "verbose", "v", false, "Log progress to STDERR and confirm files without errors")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] FILE|DIR...\n", programName)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	targets := flags.Args()
	if len(targets) < 1 {
		flags.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(flags, op)
	printer := diag.NewPrinter(stderr, op.Color)
	if err != nil {
		printer.Errors(err)
		return exitUsage
	}
	printer = diag.NewPrinter(stderr, cfg.Output.Color)
	format := tree.Format(cfg.Output.TreeFormat)

	var log compiler.Logger = logger.NewNopLogger()
	if cfg.Log.Verbose {
		log = logger.NewFromOptions(&logger.Options{
			SyncWriter:   &syncWriter{w: stderr},
			IncludeDebug: true,
		})
	}

	fsys, err := compiler.NewDefaultFS(os.LookupEnv, cfg.Roots...)
	if err != nil {
		printer.Errors(err)
		return exitUsage
	}
	options := []compiler.Option{
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(fsys),
		compiler.OptionWithLogger(log),
		compiler.OptionWithMaxConcurrency(cfg.MaxConcurrency),
		compiler.OptionWithMaxSourceBytes(cfg.MaxSourceBytes),
		compiler.OptionWithStrict(cfg.Strict),
	}
	if cfg.Parser.AllowEmptyCalls {
		options = append(options, compiler.OptionWithParserOptions(fun.WithEmptyCalls()))
	}
	c, err := compiler.New(options...)
	if err != nil {
		printer.Errors(err)
		return exitUsage
	}

	out, compileErr := c.Compile(ctx, &compiler.CompileRequest{
		Files:      targets,
		DumpTokens: cfg.Output.DumpTokens,
	})
	if out == nil {
		printer.Errors(compileErr)
		return exitErrors
	}

	treeOut := stdout
	if cfg.Output.DumpTree && cfg.Output.TreeOut != "" {
		f, err := os.Create(cfg.Output.TreeOut)
		if err != nil {
			printer.Errors(err)
			return exitErrors
		}
		defer f.Close()
		treeOut = f
	}
	results := diag.NewPrinter(stdout, cfg.Output.Color)
	for _, file := range out.Files {
		if cfg.Output.DumpTokens {
			results.Tokens(file.URI, file.Tokens)
		}
		if cfg.Output.DumpTree {
			if err := tree.Render(treeOut, file.Program, format); err != nil {
				printer.Errors(err)
				return exitErrors
			}
		}
		if cfg.Log.Verbose {
			results.OK(file.URI, len(file.Program.Functions))
		}
	}
	if compileErr != nil {
		printer.Errors(compileErr)
		return exitErrors
	}
	return exitOK
}

// loadConfig layers defaults, the config file, and explicitly set flags.
func loadConfig(flags *pflag.FlagSet, op *opts) (*config.Config, error) {
	cfg := config.Default()
	if op.Config != "" {
		loaded, err := config.Load(op.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flags.Changed("root") {
		cfg.Roots = op.Roots
	}
	if flags.Changed("dump-tokens") {
		cfg.Output.DumpTokens = op.DumpTokens
	}
	if flags.Changed("dump-tree") {
		cfg.Output.DumpTree = op.DumpTree
	}
	if flags.Changed("tree-format") {
		cfg.Output.TreeFormat = op.TreeFormat
	}
	if flags.Changed("tree-out") {
		cfg.Output.TreeOut = op.TreeOut
	}
	if flags.Changed("allow-empty-calls") {
		cfg.Parser.AllowEmptyCalls = op.AllowEmptyCalls
	}
	if flags.Changed("strict") {
		cfg.Strict = op.Strict
	}
	if flags.Changed("max-source-bytes") {
		cfg.MaxSourceBytes = op.MaxSourceBytes
	}
	if flags.Changed("max-concurrency") {
		cfg.MaxConcurrency = op.MaxConcurrency
	}
	if flags.Changed("color") {
		cfg.Output.Color = op.Color
	}
	if flags.Changed("verbose") {
		cfg.Log.Verbose = op.Verbose
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// syncWriter adapts any io.Writer for the logger. Writes are serialized
// because files are compiled concurrently.
type syncWriter struct {
	lock sync.Mutex
	w    io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) Sync() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if f, ok := s.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
