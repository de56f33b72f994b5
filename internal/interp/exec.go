package interp

import (
	"github.com/sirupsen/logrus"

	"blox/internal/ast"
	"blox/internal/runtime"
)

// exec carries the state of one evaluation chain: its nesting depth and
// the modules it is in the middle of importing.
type exec struct {
	ctx *Context
	log *logrus.Entry

	depth   int
	imports []string
}

// enter bumps the nesting depth; the returned func undoes it.
func (e *exec) enter() (func(), error) {
	e.depth++
	if e.depth > e.ctx.maxDepth {
		e.depth--
		return nil, &runtime.StackOverflow{Depth: e.ctx.maxDepth}
	}
	return func() { e.depth-- }, nil
}

func (e *exec) evaluateBlock(block *ast.Block, env *runtime.Env) (runtime.Value, error) {
	var result runtime.Value = runtime.Void{}
	for _, st := range block.Statements {
		value, err := e.execute(st, env)
		if err != nil {
			return nil, err
		}
		result = value
	}
	return result, nil
}

func (e *exec) execute(st ast.Statement, env *runtime.Env) (runtime.Value, error) {
	leave, err := e.enter()
	if err != nil {
		return nil, err
	}
	defer leave()

	switch st := st.(type) {
	case *ast.Binding:
		value, err := e.evaluate(st.Value, env)
		if err != nil {
			return nil, err
		}
		env.Insert(st.Name.Name, value)
		return value, nil

	case *ast.Definition:
		fn := &runtime.Function{Definition: st, Closure: env}
		env.Insert(st.Name.Name, fn)
		return fn, nil

	case *ast.Import:
		return e.executeImport(st, env)

	case *ast.ExpressionStatement:
		return e.evaluate(st.Expression, env)
	}

	panic("unknown statement type")
}

func (e *exec) executeImport(st *ast.Import, env *runtime.Env) (runtime.Value, error) {
	module, err := e.importModule(st.Path)
	if err != nil {
		return nil, err
	}
	for _, symbol := range st.Symbols {
		value, err := module.Export(symbol.Name.Name)
		if err != nil {
			return nil, err
		}
		env.Insert(symbol.Binds().Name, value)
	}
	return module, nil
}
