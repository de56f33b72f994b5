package interp

import (
	"blox/internal/ast"
	"blox/internal/runtime"
)

// place is an assignable location whose base and index have been
// evaluated. Composite values are never changed in place: storing to
// `a[0].k` rebuilds the object and the array around it and binds the new
// array to `a`.
type place struct {
	value runtime.Value
	// err is set when the location holds no value yet, such as an unbound
	// identifier or a missing object key. Storing to it is still allowed.
	err   error
	store func(runtime.Value) error
}

func (p place) get() (runtime.Value, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.value, nil
}

func assignable(target ast.Expression) bool {
	switch target.(type) {
	case *ast.Identifier, *ast.ArrayIndex, *ast.ObjectIndex:
		return true
	}
	return false
}

// locate evaluates every subexpression of target exactly once.
func (e *exec) locate(target ast.Expression, env *runtime.Env) (place, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		value, err := env.Get(t.Name)
		return place{
			value: value,
			err:   err,
			store: func(v runtime.Value) error {
				env.Insert(t.Name, v)
				return nil
			},
		}, nil

	case *ast.ArrayIndex:
		base, err := e.locate(t.Base, env)
		if err != nil {
			return place{}, err
		}
		current, err := base.get()
		if err != nil {
			return place{}, err
		}
		array, err := castArray(t.Base, current)
		if err != nil {
			return place{}, err
		}
		index, err := e.evaluate(t.Index, env)
		if err != nil {
			return place{}, err
		}
		i, err := arrayPosition(t, array, index)
		if err != nil {
			return place{}, err
		}
		return place{
			value: array[i],
			store: func(v runtime.Value) error {
				out := make(runtime.Array, len(array))
				copy(out, array)
				out[i] = v
				return base.store(out)
			},
		}, nil

	case *ast.ObjectIndex:
		base, err := e.locate(t.Base, env)
		if err != nil {
			return place{}, err
		}
		current, err := base.get()
		if err != nil {
			return place{}, err
		}
		object, ok := current.(runtime.Object)
		if !ok {
			return place{}, &runtime.NotAnObject{Object: t.Base, Value: current, Key: t.Key.Name}
		}
		p := place{
			store: func(v runtime.Value) error {
				return base.store(object.With(t.Key.Name, v))
			},
		}
		if value, found := object.Get(t.Key.Name); found {
			p.value = value
		} else {
			p.err = &runtime.ObjectKeyNotFound{Object: t.Base, Value: current, Key: t.Key.Name}
		}
		return p, nil
	}

	return place{}, &runtime.LhsNotAssignable{Lhs: target}
}

// assign writes value to target.
func (e *exec) assign(target ast.Expression, value runtime.Value, env *runtime.Env) error {
	p, err := e.locate(target, env)
	if err != nil {
		return err
	}
	return p.store(value)
}
