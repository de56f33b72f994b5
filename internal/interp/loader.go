package interp

import (
	"path"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/sirupsen/logrus"

	"blox/internal/parser"
	"blox/internal/runtime"
	"blox/internal/stdlib"
)

// LoadModule returns the module at importPath, parsing and evaluating it
// the first time it is requested. Later calls return the cached module.
func (c *Context) LoadModule(importPath string) (*runtime.Module, error) {
	return c.newExec().importModule(importPath)
}

func (c *Context) cached(key string) (*runtime.Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[key]
	return m, ok
}

func (c *Context) store(m *runtime.Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules[m.Path] = m
}

// moduleKey normalizes an import path into its cache key: slash
// separated, relative to the base directory and without the extension.
func (c *Context) moduleKey(importPath string) string {
	key := path.Clean(strings.TrimPrefix(importPath, "./"))
	return strings.TrimSuffix(key, c.extension)
}

func (e *exec) importModule(importPath string) (*runtime.Module, error) {
	key := e.ctx.moduleKey(importPath)

	for i, p := range e.imports {
		if p == key {
			chain := make([]string, 0, len(e.imports)-i+1)
			chain = append(chain, e.imports[i:]...)
			return nil, &runtime.ImportCycle{Chain: append(chain, key)}
		}
	}

	if m, ok := e.ctx.cached(key); ok {
		return m, nil
	}

	// A chain that is already importing holds loadMu.
	if len(e.imports) > 0 {
		return e.load(key)
	}

	v, err, shared := e.ctx.group.Do(key, func() (interface{}, error) {
		e.ctx.loadMu.Lock()
		defer e.ctx.loadMu.Unlock()
		return e.load(key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		e.log.WithField("module", key).Trace("shared concurrent module load")
	}
	return v.(*runtime.Module), nil
}

// load reads, parses and evaluates the module. Callers hold loadMu.
func (e *exec) load(key string) (*runtime.Module, error) {
	if m, ok := e.ctx.cached(key); ok {
		return m, nil
	}

	source, err := e.ctx.source(key)
	if err != nil {
		return nil, &runtime.ModuleNotFound{Path: key, Err: err}
	}

	log := e.log.WithFields(logrus.Fields{"module": key, "size": bytes.Format(int64(len(source)))})
	log.Debug("loading module")

	program, err := parser.Parse(string(source), key)
	if err != nil {
		return nil, &runtime.ModuleParseError{Path: key, Err: err}
	}

	imports := make([]string, len(e.imports), len(e.imports)+1)
	copy(imports, e.imports)
	moduleExec := &exec{
		ctx:     e.ctx,
		log:     e.log,
		depth:   e.depth,
		imports: append(imports, key),
	}

	env := e.ctx.Root.Child()
	if _, err := moduleExec.evaluateBlock(program.Block, env); err != nil {
		return nil, err
	}

	module := &runtime.Module{Path: key, Exports: env.Bindings()}
	e.ctx.store(module)
	log.WithField("exports", module.Exports.Len()).Debug("module loaded")
	return module, nil
}

// source prefers the embedded standard library over the loader.
func (c *Context) source(key string) ([]byte, error) {
	if stdlib.Has(key) {
		return stdlib.Source(key)
	}
	return c.loader.Load(key + c.extension)
}
