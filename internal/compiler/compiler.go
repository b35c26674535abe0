package compiler

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/jcgregorio/logger"

	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// DefaultMaxSourceBytes bounds the size of a single source file.
const DefaultMaxSourceBytes = 1 << 20

// Logger is the subset of the jcgregorio/logger API used by the compiler.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type Option func(c *Compiler) error

func OptionWithFS(fs lang.FileSystem) Option {
	return func(c *Compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *Compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *Compiler) error {
		c.Reporter = reporter
		return nil
	}
}

func OptionWithLogger(l Logger) Option {
	return func(c *Compiler) error {
		c.Logger = l
		return nil
	}
}

func OptionWithMaxConcurrency(n int) Option {
	return func(c *Compiler) error {
		if n < 0 {
			return exc.New(exc.Location{}, exc.CodeUnknownFatal, "max concurrency must not be negative")
		}
		c.MaxConcurrency = n
		return nil
	}
}

// OptionWithMaxSourceBytes sets the largest accepted source file. Zero
// selects DefaultMaxSourceBytes.
func OptionWithMaxSourceBytes(n int64) Option {
	return func(c *Compiler) error {
		if n < 0 {
			return exc.New(exc.Location{}, exc.CodeUnknownFatal, "max source bytes must not be negative")
		}
		c.MaxSourceBytes = n
		return nil
	}
}

func OptionWithParserOptions(opts ...fun.ParserOption) Option {
	return func(c *Compiler) error {
		c.ParserOptions = append(c.ParserOptions, opts...)
		return nil
	}
}

// OptionWithStrict enables the duplicate name checks that the grammar itself
// does not enforce.
func OptionWithStrict(strict bool) Option {
	return func(c *Compiler) error {
		c.Strict = strict
		return nil
	}
}

func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.MaxSourceBytes == 0 {
		c.MaxSourceBytes = DefaultMaxSourceBytes
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.Logger == nil {
		c.Logger = logger.NewNopLogger()
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers(c.ParserOptions, c.MaxSourceBytes)
	}
	return c, nil
}

// Compiler parses sets of source files concurrently. Every file gets its own
// lexer and parser.
type Compiler struct {
	LookupENV      func(string) (string, bool)
	FS             lang.FileSystem
	MaxConcurrency int
	MaxSourceBytes int64
	Semaphore      *semaphore
	Reporter       exc.Reporter
	Logger         Logger
	ParserOptions  []fun.ParserOption
	Strict         bool
	SubCompilers   map[lang.FileKind]SubCompiler
}

type CompileRequest struct {
	// Files are paths or URIs. Directories expand to the source files they
	// directly contain.
	Files      []string
	DumpTokens bool
}

type CompileResponse struct {
	// Files keeps the order in which files were opened.
	Files []*CompiledFile
}

type CompiledFile struct {
	URI     string
	Program *fun.Program
	// Tokens is only set when the request asked for a token dump.
	Tokens []lang.Token
}

// Compile opens and parses every requested file. The response holds every
// file that parsed. The error combines all exceptions reported during the
// call, including those of files that did not parse. Every exception is also
// sent to the compiler's Reporter. Concurrent calls may share a Compiler.
func (self *Compiler) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	reporter := &reporterTee{
		local:  exc.NewReporter(nil),
		shared: self.Reporter,
	}
	targets := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		targets = append(targets, self.targetURI(ctx, f))
	}
	files := make([]lang.File, 0, len(targets))
	for _, target := range targets {
		in, err := self.FS.Open(ctx, target)
		if err != nil {
			_ = reporter.Report(asException(target, err))
			continue
		}
		files = append(files, in...)
	}
	self.Logger.Debugf("compiling %d files from %d targets", len(files), len(targets))

	compiled := make([]*CompiledFile, len(files))
	loaded := &sync.Map{}
	symbols := &symbolTable{}
	results := make(chan fileResult, len(files))

	for offset, file := range files {
		go func(offset int, file lang.File) {
			out, err := self.compileFile(ctx, reporter, file, loaded, symbols, req.DumpTokens)
			results <- fileResult{offset: offset, file: out, err: err}
		}(offset, file)
	}

	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, exc.WrapUnknown(exc.Location{}, ctx.Err())
		case result := <-results:
			if result.err != nil {
				self.Logger.Warningf("%v", result.err)
				continue
			}
			compiled[result.offset] = result.file
		}
	}

	resp := &CompileResponse{}
	for _, f := range compiled {
		if f != nil {
			resp.Files = append(resp.Files, f)
		}
	}
	return resp, exc.Combine(reporter.Reported())
}

func (self *Compiler) compileFile(ctx context.Context, reporter exc.Reporter, file lang.File, loaded *sync.Map, symbols *symbolTable, dumpTokens bool) (*CompiledFile, error) {
	uri := file.Path(ctx)
	if err := self.Semaphore.Lock(ctx); err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: uri}, err)
	}
	defer self.Semaphore.Unlock()
	if _, ok := loaded.LoadOrStore(uri, true); ok {
		self.Logger.Debugf("%s: already compiled", uri)
		return nil, nil
	}
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, "unsupported file format")
		_ = reporter.Report(e)
		return nil, e
	}
	out, err := sc.CompileFile(ctx, reporter, file, dumpTokens)
	if err != nil {
		return nil, err
	}
	if self.Strict {
		if err := check(out.Program, symbols, reporter); err != nil {
			return nil, err
		}
	}
	self.Logger.Debugf("%s: %d functions, %d nodes", uri, len(out.Program.Functions), countNodes(out.Program))
	return out, nil
}

func (self *Compiler) targetURI(ctx context.Context, target string) string {
	// The compiler allows targets to be any valid URI or file path. When
	// the target is a file path or a file URI then we convert the paths to
	// an absolute form in order to work with the local implementation of
	// the FileSystem interface. All non-file URIs are left as-is with the
	// expectation that they will be handled by some other implementation.
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return target
}

// reporterTee keeps the exceptions of one Compile call apart from those of
// other calls sharing the same Reporter.
type reporterTee struct {
	local  exc.Reporter
	shared exc.Reporter
}

func (r *reporterTee) Report(e exc.Exception) exc.Exception {
	_ = r.shared.Report(e)
	return r.local.Report(e)
}

// Reported returns only what was reported through this tee.
func (r *reporterTee) Reported() []exc.Exception {
	return r.local.Reported()
}

type fileResult struct {
	offset int
	file   *CompiledFile
	err    error
}

func countNodes(program *fun.Program) int {
	count := 0
	fun.WalkProgram(program, func(interface{}) {
		count = count + 1
	})
	return count
}

func asException(uri string, err error) exc.Exception {
	if e, ok := err.(exc.Exception); ok {
		return e
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}
