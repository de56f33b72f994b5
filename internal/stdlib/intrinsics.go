package stdlib

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"blox/internal/runtime"
)

// Host is what intrinsics need from the process running them.
type Host struct {
	Stdout    io.Writer
	LookupEnv func(string) (string, bool)
}

type intrinsic struct {
	name   string
	params []string
	fn     func(h Host, args runtime.Args) (runtime.Value, error)
}

var intrinsics = []intrinsic{
	{"print", []string{"value"}, printValue},
	{"len", []string{"value"}, length},
	{"str", []string{"value"}, str},
	{"number", []string{"value"}, number},
	{"keys", []string{"object"}, keys},
	{"join", []string{"array", "separator"}, join},
	{"split", []string{"string", "separator"}, split},
	{"upper", []string{"string"}, upper},
	{"lower", []string{"string"}, lower},
	{"floor", []string{"value"}, floor},
	{"type", []string{"value"}, typeOf},
	{"env", []string{"name"}, lookupEnv},
}

// Install binds every intrinsic in env.
func Install(env *runtime.Env, h Host) {
	for _, in := range intrinsics {
		in := in
		env.Insert(in.name, runtime.NewIntrinsic(in.name, in.params, func(values map[string]runtime.Value) (runtime.Value, error) {
			return in.fn(h, runtime.Args{Name: in.name, Values: values})
		}))
	}
}

// Names lists the intrinsics Install binds.
func Names() []string {
	names := make([]string, len(intrinsics))
	for i, in := range intrinsics {
		names[i] = in.name
	}
	return names
}

func printValue(h Host, args runtime.Args) (runtime.Value, error) {
	v, err := args.Value("value")
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(h.Stdout, v.String()); err != nil {
		return nil, &runtime.IntrinsicError{Name: args.Name, Err: err}
	}
	return runtime.Void{}, nil
}

func length(_ Host, args runtime.Args) (runtime.Value, error) {
	v, err := args.Value("value")
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case runtime.String:
		return runtime.NewNumber(int64(utf8.RuneCountInString(string(v)))), nil
	case runtime.Array:
		return runtime.NewNumber(int64(len(v))), nil
	case runtime.Object:
		return runtime.NewNumber(int64(v.Len())), nil
	}
	return nil, &runtime.IntrinsicError{
		Name: args.Name,
		Err:  fmt.Errorf("%w: value must be a string, array or object, got %s", runtime.ErrArgumentType, runtime.Repr(v)),
	}
}

func str(_ Host, args runtime.Args) (runtime.Value, error) {
	v, err := args.Value("value")
	if err != nil {
		return nil, err
	}
	return runtime.String(v.String()), nil
}

func number(_ Host, args runtime.Args) (runtime.Value, error) {
	v, err := args.Value("value")
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case runtime.Number:
		return v, nil
	case runtime.String:
		d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
		if err != nil {
			return nil, &runtime.DecimalConversionError{Input: string(v), Err: err}
		}
		return runtime.Number{Value: d}, nil
	}
	return nil, &runtime.DecimalConversionError{Input: runtime.Repr(v), Err: runtime.ErrArgumentType}
}

func keys(_ Host, args runtime.Args) (runtime.Value, error) {
	o, err := args.Object("object")
	if err != nil {
		return nil, err
	}
	names := o.Keys()
	out := make(runtime.Array, len(names))
	for i, k := range names {
		out[i] = runtime.String(k)
	}
	return out, nil
}

func join(_ Host, args runtime.Args) (runtime.Value, error) {
	array, err := args.Array("array")
	if err != nil {
		return nil, err
	}
	sep, ok := args.Optional("separator", runtime.String("")).(runtime.String)
	if !ok {
		return nil, &runtime.IntrinsicError{
			Name: args.Name,
			Err:  fmt.Errorf("%w: separator must be a string", runtime.ErrArgumentType),
		}
	}
	parts := make([]string, len(array))
	for i, v := range array {
		parts[i] = v.String()
	}
	return runtime.String(strings.Join(parts, string(sep))), nil
}

func split(_ Host, args runtime.Args) (runtime.Value, error) {
	s, err := args.String("string")
	if err != nil {
		return nil, err
	}
	sep, err := args.String("separator")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(string(s), string(sep))
	out := make(runtime.Array, len(parts))
	for i, p := range parts {
		out[i] = runtime.String(p)
	}
	return out, nil
}

func upper(_ Host, args runtime.Args) (runtime.Value, error) {
	s, err := args.String("string")
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.ToUpper(string(s))), nil
}

func lower(_ Host, args runtime.Args) (runtime.Value, error) {
	s, err := args.String("string")
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.ToLower(string(s))), nil
}

func floor(_ Host, args runtime.Args) (runtime.Value, error) {
	n, err := args.Number("value")
	if err != nil {
		return nil, err
	}
	return runtime.Number{Value: n.Value.Floor()}, nil
}

func typeOf(_ Host, args runtime.Args) (runtime.Value, error) {
	v, err := args.Value("value")
	if err != nil {
		return nil, err
	}
	return runtime.Symbol(v.Kind().String()), nil
}

func lookupEnv(h Host, args runtime.Args) (runtime.Value, error) {
	name, err := args.String("name")
	if err != nil {
		return nil, err
	}
	if h.LookupEnv == nil {
		return runtime.Void{}, nil
	}
	if v, ok := h.LookupEnv(string(name)); ok {
		return runtime.String(v), nil
	}
	return runtime.Void{}, nil
}
