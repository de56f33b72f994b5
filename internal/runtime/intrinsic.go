package runtime

import (
	"errors"
	"fmt"
)

// ErrMissingArgument is wrapped in an IntrinsicError when a required
// argument was not passed.
var ErrMissingArgument = errors.New("missing argument")

// ErrArgumentType is wrapped in an IntrinsicError when an argument has the
// wrong kind.
var ErrArgumentType = errors.New("wrong argument type")

// Args gives typed access to the arguments of an intrinsic call.
type Args struct {
	Name   string
	Values map[string]Value
}

// Value returns the named argument.
func (a Args) Value(name string) (Value, error) {
	v, ok := a.Values[name]
	if !ok {
		return nil, &IntrinsicError{Name: a.Name, Err: fmt.Errorf("%w: %s", ErrMissingArgument, name)}
	}
	return v, nil
}

// Optional returns the named argument or def when it was not passed.
func (a Args) Optional(name string, def Value) Value {
	if v, ok := a.Values[name]; ok {
		return v
	}
	return def
}

func (a Args) Number(name string) (Number, error) {
	v, err := a.Value(name)
	if err != nil {
		return Number{}, err
	}
	n, ok := v.(Number)
	if !ok {
		return Number{}, a.typeError(name, KindNumber, v)
	}
	return n, nil
}

func (a Args) String(name string) (String, error) {
	v, err := a.Value(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(String)
	if !ok {
		return "", a.typeError(name, KindString, v)
	}
	return s, nil
}

func (a Args) Array(name string) (Array, error) {
	v, err := a.Value(name)
	if err != nil {
		return nil, err
	}
	arr, ok := v.(Array)
	if !ok {
		return nil, a.typeError(name, KindArray, v)
	}
	return arr, nil
}

func (a Args) Object(name string) (Object, error) {
	v, err := a.Value(name)
	if err != nil {
		return Object{}, err
	}
	o, ok := v.(Object)
	if !ok {
		return Object{}, a.typeError(name, KindObject, v)
	}
	return o, nil
}

func (a Args) typeError(name string, want Kind, got Value) error {
	return &IntrinsicError{
		Name: a.Name,
		Err:  fmt.Errorf("%w: %s must be a %s, got %s", ErrArgumentType, name, want, Repr(got)),
	}
}
