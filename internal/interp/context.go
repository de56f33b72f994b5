// Package interp evaluates parsed programs. A Context owns the root
// environment and the module cache; every evaluation started from it runs
// synchronously on the calling goroutine.
package interp

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"blox/internal/assets"
	"blox/internal/ast"
	"blox/internal/parser"
	"blox/internal/runtime"
	"blox/internal/stdlib"
)

// DefaultMaxDepth bounds how deeply evaluation may nest.
const DefaultMaxDepth = 200000

// DefaultExtension is appended to import paths that have none.
const DefaultExtension = ".blox"

// SourceLoader reads module sources by path relative to the base directory.
type SourceLoader interface {
	Load(path string) ([]byte, error)
}

// Options configures a Context. The zero value is usable.
type Options struct {
	// BaseDir is where user modules are resolved. Defaults to ".".
	BaseDir string
	// Loader reads module sources. Defaults to the files under BaseDir.
	Loader SourceLoader
	// Logger defaults to a logger that discards everything.
	Logger *logrus.Entry
	// MaxDepth defaults to DefaultMaxDepth.
	MaxDepth int
	// Extension defaults to DefaultExtension.
	Extension string
	// Stdout receives the output of the print intrinsic. Defaults to os.Stdout.
	Stdout io.Writer
	// Env is consulted by the env intrinsic. Defaults to os.LookupEnv.
	Env func(string) (string, bool)
}

// Context is one evaluation context: base directory, root environment and
// module cache. Servers build a fresh Context per reload cycle.
type Context struct {
	BaseDir string
	Root    *runtime.Env

	loader    SourceLoader
	log       *logrus.Entry
	maxDepth  int
	extension string

	mu      sync.RWMutex
	modules map[string]*runtime.Module
	group   singleflight.Group
	loadMu  sync.Mutex
}

// NewContext builds a context with the native intrinsics installed in its
// root environment and the embedded standard library loaded into its
// module cache.
func NewContext(opts Options) (*Context, error) {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.Loader == nil {
		opts.Loader = assets.NewFSProvider(os.DirFS(opts.BaseDir))
	}
	if opts.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		opts.Logger = logrus.NewEntry(discard)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Env == nil {
		opts.Env = os.LookupEnv
	}

	c := &Context{
		BaseDir:   opts.BaseDir,
		Root:      runtime.NewEnv(),
		loader:    opts.Loader,
		log:       opts.Logger.WithField("component", "interp"),
		maxDepth:  opts.MaxDepth,
		extension: opts.Extension,
		modules:   make(map[string]*runtime.Module),
	}

	stdlib.Install(c.Root, stdlib.Host{Stdout: opts.Stdout, LookupEnv: opts.Env})

	for _, path := range stdlib.Paths() {
		if _, err := c.LoadModule(path); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Context) newExec() *exec {
	return &exec{ctx: c, log: c.log}
}

// ExecuteProgram runs program in env and returns the value of its last
// statement. env is usually a child of c.Root.
func (c *Context) ExecuteProgram(program *ast.Program, env *runtime.Env) (runtime.Value, error) {
	return c.newExec().evaluateBlock(program.Block, env)
}

// EvaluateExpression evaluates a single expression in env.
func (c *Context) EvaluateExpression(expr ast.Expression, env *runtime.Env) (runtime.Value, error) {
	return c.newExec().evaluate(expr, env)
}

// Run parses source and executes it in a fresh child of the root
// environment. The environment is returned along with the value so that
// callers can read the bindings the program made.
func (c *Context) Run(source, label string) (runtime.Value, *runtime.Env, error) {
	program, err := parser.Parse(source, label)
	if err != nil {
		return nil, nil, err
	}
	env := c.Root.Child()
	value, err := c.ExecuteProgram(program, env)
	return value, env, err
}

// Modules returns the paths currently held in the module cache.
func (c *Context) Modules() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.modules))
	for path := range c.modules {
		paths = append(paths, path)
	}
	return paths
}
