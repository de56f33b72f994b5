package interp

import (
	"blox/internal/ast"
	"blox/internal/runtime"
)

func (e *exec) evaluate(expr ast.Expression, env *runtime.Env) (runtime.Value, error) {
	leave, err := e.enter()
	if err != nil {
		return nil, err
	}
	defer leave()

	switch expr := expr.(type) {
	case *ast.BooleanLiteral:
		return runtime.Boolean(expr.Value), nil
	case *ast.NumberLiteral:
		return runtime.Number{Value: expr.Value}, nil
	case *ast.StringLiteral:
		return runtime.String(expr.Value), nil
	case *ast.SymbolLiteral:
		return runtime.Symbol(expr.Name), nil
	case *ast.Identifier:
		return env.Get(expr.Name)
	case *ast.Group:
		return e.evaluate(expr.Expression, env)
	case *ast.BinaryExpression:
		return e.binary(expr, env)
	case *ast.UnaryExpression:
		return e.unary(expr, env)
	case *ast.ArrayLiteral:
		return e.array(expr, env)
	case *ast.ObjectLiteral:
		return e.object(expr, env)
	case *ast.ArrayIndex:
		return e.arrayIndex(expr, env)
	case *ast.ArraySlice:
		return e.arraySlice(expr, env)
	case *ast.ObjectIndex:
		return e.objectIndex(expr, env)
	case *ast.If:
		return e.ifExpr(expr, env)
	case *ast.Lambda:
		return &runtime.Function{Definition: expr.Definition, Closure: env}, nil
	case *ast.FunctionCall:
		return e.call(expr, env)
	case *ast.MethodCall:
		return e.methodCall(expr, env)
	}

	panic("unknown expression type")
}

func (e *exec) array(expr *ast.ArrayLiteral, env *runtime.Env) (runtime.Value, error) {
	members := make(runtime.Array, len(expr.Members))
	for i, m := range expr.Members {
		value, err := e.evaluate(m, env)
		if err != nil {
			return nil, err
		}
		members[i] = value
	}
	return members, nil
}

// object evaluates members in source order. A repeated key keeps the
// position where it first appeared and the value it was given last.
func (e *exec) object(expr *ast.ObjectLiteral, env *runtime.Env) (runtime.Value, error) {
	keys := make([]string, len(expr.Members))
	values := make([]runtime.Value, len(expr.Members))
	for i, m := range expr.Members {
		value, err := e.evaluate(m.Value, env)
		if err != nil {
			return nil, err
		}
		keys[i] = m.Key
		values[i] = value
	}
	return runtime.NewObject(keys, values), nil
}

func (e *exec) arrayIndex(expr *ast.ArrayIndex, env *runtime.Env) (runtime.Value, error) {
	base, err := e.evaluate(expr.Base, env)
	if err != nil {
		return nil, err
	}
	array, err := castArray(expr.Base, base)
	if err != nil {
		return nil, err
	}
	index, err := e.evaluate(expr.Index, env)
	if err != nil {
		return nil, err
	}
	i, err := arrayPosition(expr, array, index)
	if err != nil {
		return nil, err
	}
	return array[i], nil
}

func (e *exec) arraySlice(expr *ast.ArraySlice, env *runtime.Env) (runtime.Value, error) {
	base, err := e.evaluate(expr.Base, env)
	if err != nil {
		return nil, err
	}
	array, err := castArray(expr.Base, base)
	if err != nil {
		return nil, err
	}

	start, err := e.sliceBound(expr, array, expr.Start, 0, env)
	if err != nil {
		return nil, err
	}
	end, err := e.sliceBound(expr, array, expr.End, len(array), env)
	if err != nil {
		return nil, err
	}

	if end > len(array) {
		end = len(array)
	}
	if start > end {
		return runtime.Array{}, nil
	}
	out := make(runtime.Array, end-start)
	copy(out, array[start:end])
	return out, nil
}

func (e *exec) sliceBound(expr *ast.ArraySlice, array runtime.Array, bound ast.Expression, def int, env *runtime.Env) (int, error) {
	if bound == nil {
		return def, nil
	}
	value, err := e.evaluate(bound, env)
	if err != nil {
		return 0, err
	}
	n, err := castNumber(bound, value)
	if err != nil {
		return 0, err
	}
	i, ok := integralIndex(n)
	if !ok {
		return 0, &runtime.InvalidArrayIndex{
			Array:      expr.Base,
			ArrayValue: array,
			Index:      bound,
			IndexValue: value,
		}
	}
	return i, nil
}

func (e *exec) objectIndex(expr *ast.ObjectIndex, env *runtime.Env) (runtime.Value, error) {
	base, err := e.evaluate(expr.Base, env)
	if err != nil {
		return nil, err
	}
	object, ok := base.(runtime.Object)
	if !ok {
		return nil, &runtime.NotAnObject{Object: expr.Base, Value: base, Key: expr.Key.Name}
	}
	value, ok := object.Get(expr.Key.Name)
	if !ok {
		return nil, &runtime.ObjectKeyNotFound{Object: expr.Base, Value: base, Key: expr.Key.Name}
	}
	return value, nil
}

func (e *exec) ifExpr(expr *ast.If, env *runtime.Env) (runtime.Value, error) {
	ok, err := e.condition(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	if ok {
		return e.evaluateBlock(expr.Body, env)
	}

	for _, branch := range expr.ElseIfs {
		ok, err := e.condition(branch.Condition, env)
		if err != nil {
			return nil, err
		}
		if ok {
			return e.evaluateBlock(branch.Body, env)
		}
	}

	if expr.Else != nil {
		return e.evaluateBlock(expr.Else, env)
	}
	return runtime.Void{}, nil
}

// condition applies the truthiness rule: booleans are themselves, numbers
// are true when strictly positive, and anything else is an error.
func (e *exec) condition(expr ast.Expression, env *runtime.Env) (bool, error) {
	value, err := e.evaluate(expr, env)
	if err != nil {
		return false, err
	}
	switch v := value.(type) {
	case runtime.Boolean:
		return bool(v), nil
	case runtime.Number:
		return v.Value.IsPositive(), nil
	}
	return false, &runtime.InvalidCondition{Condition: expr, Value: value}
}
