package interp

import (
	"github.com/sirupsen/logrus"

	"blox/internal/ast"
	"blox/internal/runtime"
)

func (e *exec) binary(expr *ast.BinaryExpression, env *runtime.Env) (runtime.Value, error) {
	if expr.Operator == ast.Assignment {
		value, err := e.evaluate(expr.Rhs, env)
		if err != nil {
			return nil, err
		}
		if err := e.assign(expr.Lhs, value, env); err != nil {
			return nil, err
		}
		return value, nil
	}

	// An append target is located once and both read and written through
	// that location.
	var (
		target *place
		lhs    runtime.Value
		err    error
	)
	if expr.Operator == ast.Append && assignable(expr.Lhs) {
		p, err := e.locate(expr.Lhs, env)
		if err != nil {
			return nil, err
		}
		if lhs, err = p.get(); err != nil {
			return nil, err
		}
		target = &p
	} else if lhs, err = e.evaluate(expr.Lhs, env); err != nil {
		return nil, err
	}
	rhs, err := e.evaluate(expr.Rhs, env)
	if err != nil {
		return nil, err
	}

	result, ok := applyOperator(lhs, expr.Operator, rhs)
	if !ok {
		return nil, &runtime.InvalidOperands{
			Lhs:      expr.Lhs,
			LhsValue: lhs,
			Operator: expr.Operator,
			Rhs:      expr.Rhs,
			RhsValue: rhs,
		}
	}

	if e.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		e.log.Tracef("%s %s %s => %s", runtime.Repr(lhs), expr.Operator, runtime.Repr(rhs), runtime.Repr(result))
	}

	if expr.Operator == ast.Append {
		if target == nil {
			return nil, &runtime.LhsNotAssignable{Lhs: expr.Lhs}
		}
		if err := target.store(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// applyOperator reports false when the operator is not defined for the
// operand kinds.
func applyOperator(lhs runtime.Value, op ast.Operator, rhs runtime.Value) (runtime.Value, bool) {
	switch op {
	case ast.Equal:
		return runtime.Boolean(runtime.Equal(lhs, rhs)), true
	case ast.NotEqual:
		if lhs.Kind() != rhs.Kind() {
			return runtime.Boolean(false), true
		}
		return runtime.Boolean(!runtime.Equal(lhs, rhs)), true
	case ast.Concatenate:
		return concatenate(lhs, rhs)
	case ast.Append:
		array, ok := lhs.(runtime.Array)
		if !ok {
			return nil, false
		}
		out := make(runtime.Array, len(array), len(array)+1)
		copy(out, array)
		return append(out, rhs), true
	}

	a, aok := lhs.(runtime.Number)
	b, bok := rhs.(runtime.Number)

	switch op {
	case ast.GreaterThan:
		return runtime.Boolean(aok && bok && a.Value.GreaterThan(b.Value)), true
	case ast.GreaterOrEqual:
		return runtime.Boolean(aok && bok && a.Value.GreaterThanOrEqual(b.Value)), true
	case ast.LessThan:
		return runtime.Boolean(aok && bok && a.Value.LessThan(b.Value)), true
	case ast.LessOrEqual:
		return runtime.Boolean(aok && bok && a.Value.LessThanOrEqual(b.Value)), true
	}

	if !aok || !bok {
		return nil, false
	}

	switch op {
	case ast.Add:
		return runtime.Number{Value: a.Value.Add(b.Value)}, true
	case ast.Subtract:
		return runtime.Number{Value: a.Value.Sub(b.Value)}, true
	case ast.Multiply:
		return runtime.Number{Value: a.Value.Mul(b.Value)}, true
	case ast.Divide:
		if b.Value.IsZero() {
			return nil, false
		}
		return runtime.Number{Value: a.Value.Div(b.Value)}, true
	}
	return nil, false
}

func concatenate(lhs, rhs runtime.Value) (runtime.Value, bool) {
	switch a := lhs.(type) {
	case runtime.String:
		if b, ok := rhs.(runtime.String); ok {
			return a + b, true
		}
	case runtime.Array:
		if b, ok := rhs.(runtime.Array); ok {
			out := make(runtime.Array, 0, len(a)+len(b))
			out = append(out, a...)
			return append(out, b...), true
		}
	}
	return nil, false
}

func (e *exec) unary(expr *ast.UnaryExpression, env *runtime.Env) (runtime.Value, error) {
	operand, err := e.evaluate(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch v := operand.(type) {
	case runtime.Number:
		if expr.Operator == ast.Negate {
			return runtime.Number{Value: v.Value.Neg()}, nil
		}
	case runtime.Boolean:
		if expr.Operator == ast.Not {
			return !v, nil
		}
	}
	return nil, &runtime.InvalidOperand{Operator: expr.Operator, Operand: expr.Operand, Value: operand}
}
