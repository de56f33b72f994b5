package interp

import (
	"errors"

	"github.com/sirupsen/logrus"

	"blox/internal/ast"
	"blox/internal/runtime"
)

func (e *exec) call(expr *ast.FunctionCall, env *runtime.Env) (runtime.Value, error) {
	callee, err := e.evaluate(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	return e.invoke(expr.Callee, callee, expr.Arguments, env)
}

// methodCall resolves `base.f(args)` to `f(self: base, args)`, where self is
// the first parameter f declares.
func (e *exec) methodCall(expr *ast.MethodCall, env *runtime.Env) (runtime.Value, error) {
	callee, err := env.Get(expr.Function.Name)
	if err != nil {
		return nil, err
	}

	var self string
	switch fn := callee.(type) {
	case *runtime.Function:
		if len(fn.Definition.Parameters) > 0 {
			self = fn.Definition.Parameters[0].Name
		}
	case *runtime.Intrinsic:
		if len(fn.Params) > 0 {
			self = fn.Params[0]
		}
	default:
		return nil, &runtime.NotAFunction{Callee: expr.Function, Value: callee}
	}
	if self == "" {
		return nil, &runtime.MethodCallWithoutSelf{Function: expr.Function, Value: callee}
	}

	args := make([]*ast.Argument, 0, len(expr.Arguments)+1)
	args = append(args, &ast.Argument{
		Location: expr.Base.Pos(),
		Name:     &ast.Identifier{Location: expr.Base.Pos(), Name: self},
		Value:    expr.Base,
	})
	args = append(args, expr.Arguments...)

	return e.invoke(expr.Function, callee, args, env)
}

// invoke calls a function value. Arguments are evaluated in the caller's
// env. Functions bind them to their parameters by position; intrinsics
// receive them by the name used at the call site.
func (e *exec) invoke(calleeExpr ast.Expression, callee runtime.Value, args []*ast.Argument, env *runtime.Env) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.Function:
		callEnv := fn.Closure.Child()
		for i, param := range fn.Definition.Parameters {
			if i >= len(args) {
				break
			}
			value, err := e.evaluate(args[i].Value, env)
			if err != nil {
				return nil, err
			}
			callEnv.Insert(param.Name, value)
		}
		result, err := e.evaluateBlock(fn.Definition.Body, callEnv)
		if err != nil {
			return nil, err
		}
		if e.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
			e.log.Tracef("%s returned %s", fn.Definition.DisplayName(), runtime.Repr(result))
		}
		return result, nil

	case *runtime.Intrinsic:
		values := make(map[string]runtime.Value, len(args))
		for _, arg := range args {
			value, err := e.evaluate(arg.Value, env)
			if err != nil {
				return nil, err
			}
			values[arg.Name.Name] = value
		}
		result, err := fn.Fn(values)
		if err != nil {
			var rerr runtime.RuntimeError
			if !errors.As(err, &rerr) {
				err = &runtime.IntrinsicError{Name: fn.Name, Err: err}
			}
			return nil, err
		}
		return result, nil
	}

	return nil, &runtime.NotAFunction{Callee: calleeExpr, Value: callee}
}
