package runtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"blox/internal/ast"
)

func TestEnvShadowing(t *testing.T) {
	root := NewEnv()
	root.Insert("x", NewNumber(1))

	child := root.Child()
	child.Insert("x", NewNumber(2))

	v, err := child.Get("x")
	require.NoError(t, err)
	require.True(t, Equal(v, NewNumber(2)))

	v, err = root.Get("x")
	require.NoError(t, err)
	require.True(t, Equal(v, NewNumber(1)), "child insert must not touch the parent")
}

func TestEnvUndefined(t *testing.T) {
	_, err := NewEnv().Child().Get("missing")
	var undefined *UndefinedVariable
	require.True(t, errors.As(err, &undefined))
	require.Equal(t, "missing", undefined.Name)
}

func TestEnvInsertKeepsOrder(t *testing.T) {
	env := NewEnv()
	env.Insert("b", NewNumber(1))
	env.Insert("a", NewNumber(2))
	env.Insert("b", NewNumber(3))

	bindings := env.Bindings()
	if diff := cmp.Diff([]string{"b", "a"}, bindings.Keys()); diff != "" {
		t.Errorf("binding order mismatch (-want +got):\n%s", diff)
	}
	v, _ := bindings.Get("b")
	require.True(t, Equal(v, NewNumber(3)))
}

func TestEnvCloneIsLocalSnapshot(t *testing.T) {
	root := NewEnv()
	root.Insert("shared", String("root"))
	env := root.Child()
	env.Insert("local", NewNumber(1))

	clone := env.Clone()
	env.Insert("local", NewNumber(2))
	root.Insert("shared", String("changed"))

	v, _ := clone.Get("local")
	require.True(t, Equal(v, NewNumber(1)))
	v, _ = clone.Get("shared")
	require.True(t, Equal(v, String("changed")), "clone shares the parent")
	require.Same(t, root, clone.Parent())
}

func TestEnvConcurrentAccess(t *testing.T) {
	env := NewEnv()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				env.Insert("n", NewNumber(int64(i)))
				_, _ = env.Get("n")
				_ = env.Bindings()
			}
		}(i)
	}
	wg.Wait()
	_, err := env.Get("n")
	require.NoError(t, err)
}

func TestObject(t *testing.T) {
	o := NewObject(
		[]string{"a", "b", "a"},
		[]Value{NewNumber(1), NewNumber(2), NewNumber(3)},
	)
	require.Equal(t, "{a: 3, b: 2}", o.String())

	o2 := o.With("c", String("x")).With("a", Boolean(true))
	require.Equal(t, "{a: 3, b: 2}", o.String(), "With must not modify the receiver")
	require.Equal(t, "{a: true, b: 2, c: 'x'}", o2.String())
	require.Equal(t, 3, o2.Len())
}

func TestEqual(t *testing.T) {
	half := Number{Value: decimal.RequireFromString("0.50")}
	fn := &Function{Definition: &ast.Definition{}, Closure: NewEnv()}
	printFn := NewIntrinsic("print", nil, nil)

	cases := []struct {
		a, b  Value
		equal bool
	}{
		{NewNumber(1), Boolean(true), false},
		{String("a"), NewNumber(1), false},
		{String("a"), Symbol("a"), false},
		{half, Number{Value: decimal.RequireFromString("0.5")}, true},
		{Array{NewNumber(1), String("x")}, Array{NewNumber(1), String("x")}, true},
		{Array{NewNumber(1)}, Array{NewNumber(1), NewNumber(2)}, false},
		{
			NewObject([]string{"a", "b"}, []Value{NewNumber(1), NewNumber(2)}),
			NewObject([]string{"b", "a"}, []Value{NewNumber(2), NewNumber(1)}),
			true,
		},
		{fn, fn, true},
		{fn, &Function{Definition: fn.Definition, Closure: fn.Closure}, false},
		{printFn, printFn, true},
		{printFn, NewIntrinsic("print", nil, nil), false},
		{Void{}, Void{}, true},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.equal {
			t.Errorf("Equal(%s, %s) = %v, want %v", Repr(c.a), Repr(c.b), got, c.equal)
		}
	}
}

func TestIntrinsicIDsAreUnique(t *testing.T) {
	a := NewIntrinsic("a", nil, nil)
	b := NewIntrinsic("a", nil, nil)
	require.NotEqual(t, a.ID, b.ID)
}

func TestModuleExport(t *testing.T) {
	m := &Module{Path: "lib", Exports: NewObject([]string{"x"}, []Value{NewNumber(1)})}
	v, err := m.Export("x")
	require.NoError(t, err)
	require.True(t, Equal(v, NewNumber(1)))

	_, err = m.Export("y")
	var notFound *ExportNotFound
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "module lib does not export y", err.Error())
}

func TestArgs(t *testing.T) {
	args := Args{Name: "len", Values: map[string]Value{"value": String("x")}}

	_, err := args.Number("value")
	require.ErrorIs(t, err, ErrArgumentType)

	_, err = args.Array("other")
	require.ErrorIs(t, err, ErrMissingArgument)

	s, err := args.String("value")
	require.NoError(t, err)
	require.Equal(t, String("x"), s)
}

func TestDisplay(t *testing.T) {
	require.Equal(t, "", Void{}.String())
	require.Equal(t, "void", Repr(Void{}))
	require.Equal(t, "hi", String("hi").String())
	require.Equal(t, "'hi'", Repr(String("hi")))
	require.Equal(t, ":ok", Symbol("ok").String())
	require.Equal(t, "[1, 'a', [true]]", Array{NewNumber(1), String("a"), Array{Boolean(true)}}.String())
}
