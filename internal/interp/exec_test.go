package interp

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"blox/internal/assets"
	"blox/internal/parser"
	"blox/internal/runtime"
)

// countingLoader serves sources from memory and counts loads per path.
type countingLoader struct {
	mu    sync.Mutex
	files map[string]string
	loads map[string]int
}

func newCountingLoader(files map[string]string) *countingLoader {
	return &countingLoader{files: files, loads: make(map[string]int)}
}

func (l *countingLoader) Load(path string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads[path]++
	source, ok := l.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, path)
	}
	return []byte(source), nil
}

func (l *countingLoader) count(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[path]
}

type testContext struct {
	*Context
	loader *countingLoader
	stdout *bytes.Buffer
}

func newTestContext(t *testing.T, files map[string]string) *testContext {
	t.Helper()
	loader := newCountingLoader(files)
	stdout := &bytes.Buffer{}
	ctx, err := NewContext(Options{
		Loader: loader,
		Stdout: stdout,
		Env: func(name string) (string, bool) {
			if name == "GREETING" {
				return "hello", true
			}
			return "", false
		},
	})
	require.NoError(t, err)
	return &testContext{Context: ctx, loader: loader, stdout: stdout}
}

func (c *testContext) run(t *testing.T, source string) (runtime.Value, *runtime.Env, error) {
	t.Helper()
	return c.Run(source, "test")
}

func checkExpression(t *testing.T, source string, result string) {
	t.Helper()
	ctx := newTestContext(t, nil)
	value, _, err := ctx.run(t, source)
	if err != nil {
		t.Errorf("Error on: \n%s\n\tunexpected error: %s", source, err)
		return
	}
	if got := runtime.Repr(value); got != result {
		t.Errorf("Error on: \n%s\n\tResult should be equal to %s instead of %s", source, result, got)
	}
}

func checkStatements(t *testing.T, code string, resultVar string, result string) {
	t.Helper()
	ctx := newTestContext(t, nil)
	_, env, err := ctx.run(t, code)
	if err != nil {
		t.Errorf("Error on: \n%s\n\tunexpected error: %s", code, err)
		return
	}
	value, err := env.Get(resultVar)
	if err != nil {
		t.Errorf("Error on: \n%s\n\t%s", code, err)
		return
	}
	if got := runtime.Repr(value); got != result {
		t.Errorf("Error on: \n%s\n\t%s should be equal to %s instead of %s", code, resultVar, result, got)
	}
}

func checkError[E error](t *testing.T, source string) E {
	t.Helper()
	ctx := newTestContext(t, nil)
	_, _, err := ctx.run(t, source)
	var target E
	if !errors.As(err, &target) {
		t.Errorf("Error on: \n%s\n\texpected %T, got %v", source, target, err)
	}
	return target
}

func TestExpressions(t *testing.T) {
	checkExpression(t, "1 + 2 + 3", "6")
	checkExpression(t, "1 + 2 * 3", "7")
	checkExpression(t, "(1 + 2) * 3", "9")
	checkExpression(t, "0.1 + 0.2", "0.3")
	checkExpression(t, "10 / 4", "2.5")
	checkExpression(t, "7 - 10", "-3")
	checkExpression(t, "-3 + 1", "-2")
	checkExpression(t, "!true", "false")
	checkExpression(t, "!(1 > 2)", "true")

	checkExpression(t, "'a' ++ \"b\"", "'ab'")
	checkExpression(t, "[1] ++ [2, 3]", "[1, 2, 3]")

	checkExpression(t, "1 == 1.0", "true")
	checkExpression(t, "1 == true", "false")
	checkExpression(t, "'a' == 1", "false")
	checkExpression(t, "'a' != 1", "false")
	checkExpression(t, "1 != true", "false")
	checkExpression(t, ":a != 'a'", "false")
	checkExpression(t, "1 != 2", "true")
	checkExpression(t, "'a' != 'a'", "false")
	checkExpression(t, "[1] != [2]", "true")
	checkExpression(t, ":a == :a", "true")
	checkExpression(t, ":a == 'a'", "false")
	checkExpression(t, "[1, 'a'] == [1, 'a']", "true")
	checkExpression(t, "{a: 1, b: 2} == {b: 2, a: 1}", "true")

	checkExpression(t, "2 > 1", "true")
	checkExpression(t, "1 >= 1", "true")
	checkExpression(t, "1 < 1", "false")
	checkExpression(t, "1 <= 1", "true")
	checkExpression(t, "'b' > 'a'", "false")
	checkExpression(t, "'a' < 1", "false")
}

func TestCollections(t *testing.T) {
	checkExpression(t, "[1, 2, 3][1]", "2")
	checkExpression(t, "[[1, 2], [3]][0][1]", "2")
	checkExpression(t, "[1, 2, 3, 4][1..3]", "[2, 3]")
	checkExpression(t, "[1, 2, 3][..2]", "[1, 2]")
	checkExpression(t, "[1, 2, 3][1..]", "[2, 3]")
	checkExpression(t, "[1, 2, 3][..]", "[1, 2, 3]")
	checkExpression(t, "[1, 2, 3][2..10]", "[3]")
	checkExpression(t, "[1, 2, 3][2..1]", "[]")

	checkExpression(t, "{a: 1, b: 2}.b", "2")
	checkExpression(t, "{a: {b: :deep}}.a.b", ":deep")
	checkExpression(t, "{a: 1, b: 2, a: 3}", "{a: 3, b: 2}")
	checkExpression(t, "{}", "{}")
}

func TestConditions(t *testing.T) {
	checkExpression(t, "if 0 { 1 } else { 2 }", "2")
	checkExpression(t, "if -1 { 1 } else { 2 }", "2")
	checkExpression(t, "if 1 { 1 } else { 2 }", "1")
	checkExpression(t, "if 0.5 { 1 } else { 2 }", "1")
	checkExpression(t, "if true { :yes }", ":yes")
	checkExpression(t, "if false { 1 }", "void")
	checkExpression(t, "if false { 1 } else if true { 2 } else { 3 }", "2")
	checkExpression(t, "if false { 1 } else if 0 { 2 } else { 3 }", "3")
}

func TestFunctions(t *testing.T) {
	checkExpression(t, `
		def fib(x) { if x == 0 {0} else if x == 1 {1} else { fib(x: x-2) + fib(x: x-1) } }
		fib(x: 10)
	`, "55")
	checkExpression(t, "def f() { 1 }", "<function f>")
	checkExpression(t, "(|x| { x * 2 })(x: 21)", "42")
	checkExpression(t, "let twice = |f, x| { f(x: f(x: x)) }\ntwice(f: |n| { n + 3 }, x: 1)", "7")

	// Closures see the environment they were created in.
	checkExpression(t, "let y = 10\nlet add = |x| { x + y }\nadd(x: 1)", "11")

	// Arguments are evaluated in the caller's environment.
	checkExpression(t, "let a = 5\ndef f(a, b) { a + b }\nf(a: 1, b: a)", "6")

	// Parameters are bound by position.
	checkExpression(t, "def f(a, b) { a - b }\nf(b: 1, a: 3)", "-2")

	// Parameter bindings do not leak into the caller.
	checkStatements(t, "let x = 1\ndef f(x) { x }\nlet r = f(x: 2)", "x", "1")
}

func TestClosuresCaptureByReference(t *testing.T) {
	checkExpression(t, `
		def make() {
			let x = 1
			let get = || { x }
			x = 2
			get
		}
		make()()
	`, "2")
}

func TestMethodCalls(t *testing.T) {
	checkExpression(t, "def double(x) { x * 2 }\n4.double()", "8")
	checkExpression(t, "def add(a, b) { a + b }\n1.add(b: 2).add(b: 3)", "6")
	checkExpression(t, "'abc'.upper()", "'ABC'")
	checkExpression(t, "[1, 2].len()", "2")
}

func TestStatements(t *testing.T) {
	checkExpression(t, "", "void")
	checkExpression(t, "let x = 3", "3")
	checkStatements(t, "let x = 1\nx = x + 1", "x", "2")
	checkExpression(t, "let x = 0\nx = 5", "5")
	checkStatements(t, "let xs = [1, 2]\nxs << 3", "xs", "[1, 2, 3]")
	checkExpression(t, "let xs = [1, 2]\nxs << 3", "[1, 2, 3]")
	checkStatements(t, "let o = {a: [1]}\no.a << 2", "o", "{a: [1, 2]}")
	checkStatements(t, "let xs = [{n: 1}]\nxs[0].n = 5", "xs", "[{n: 5}]")
	checkStatements(t, "let o = {a: 1}\no.b = 2", "o", "{a: 1, b: 2}")
	checkStatements(t, "let m = [[1, 2], [3]]\nm[1][0] = :x", "m", "[[1, 2], [:x]]")

	// Writes rebuild values instead of changing them in place.
	checkStatements(t, "let a = [1]\nlet b = a\nb << 2", "a", "[1]")
}

func TestWriteBackEvaluatesLocationOnce(t *testing.T) {
	ctx := newTestContext(t, nil)
	_, env, err := ctx.run(t, `
		def pick(i) { print(value: i); i }
		let xs = [[1], [2]]
		xs[pick(i: 1)] << 3
		let o = {items: [[0]]}
		o.items[pick(i: 0)][pick(i: 0)] = 9
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n0\n0\n", ctx.stdout.String())

	xs, err := env.Get("xs")
	require.NoError(t, err)
	require.Equal(t, "[[1], [2, 3]]", xs.String())
	o, err := env.Get("o")
	require.NoError(t, err)
	require.Equal(t, "{items: [[9]]}", o.String())
}

func TestEvaluateExpression(t *testing.T) {
	ctx := newTestContext(t, nil)
	env := ctx.Root.Child()
	env.Insert("xs", runtime.Array{runtime.NewNumber(1)})

	expr, err := parser.ParseExpression("xs << len(value: xs) + 1", "expr")
	require.NoError(t, err)
	value, err := ctx.EvaluateExpression(expr, env)
	require.NoError(t, err)
	require.Equal(t, "[1, 2]", value.String())

	xs, err := env.Get("xs")
	require.NoError(t, err)
	require.Equal(t, "[1, 2]", xs.String())
}

func TestIntrinsics(t *testing.T) {
	checkExpression(t, "type(value: :a)", ":symbol")
	checkExpression(t, "type(value: [])", ":array")
	checkExpression(t, "len(value: 'héllo')", "5")
	checkExpression(t, "len(value: {a: 1})", "1")
	checkExpression(t, "str(value: 1.50)", "'1.5'")
	checkExpression(t, "number(value: '2.25') + 1", "3.25")
	checkExpression(t, "join(array: [1, 'a', :b], separator: '-')", "'1-a-:b'")
	checkExpression(t, "split(string: 'a,b', separator: ',')", "['a', 'b']")
	checkExpression(t, "keys(object: {x: 1, y: 2})", "['x', 'y']")
	checkExpression(t, "lower(string: 'ABC')", "'abc'")
	checkExpression(t, "floor(value: 2.7)", "2")
	checkExpression(t, "env(name: 'GREETING')", "'hello'")
	checkExpression(t, "env(name: 'MISSING')", "void")

	ctx := newTestContext(t, nil)
	value, _, err := ctx.run(t, "print(value: 'hi')\nprint(value: [1, 'a'])")
	require.NoError(t, err)
	require.Equal(t, "void", runtime.Repr(value))
	require.Equal(t, "hi\n[1, 'a']\n", ctx.stdout.String())
}

func TestRuntimeErrors(t *testing.T) {
	checkError[*runtime.UndefinedVariable](t, "missing")
	checkError[*runtime.InvalidOperands](t, "1 + 'a'")
	checkError[*runtime.InvalidOperands](t, "'a' + 'b'")
	checkError[*runtime.InvalidOperands](t, "1 / 0")
	checkError[*runtime.InvalidOperands](t, "'a' ++ [1]")
	checkError[*runtime.InvalidOperands](t, "1 << 2")
	checkError[*runtime.InvalidOperand](t, "-'a'")
	checkError[*runtime.InvalidOperand](t, "!1")
	checkError[*runtime.InvalidCondition](t, "if 'a' { 1 }")
	checkError[*runtime.InvalidCondition](t, "if false { 1 } else if [] { 2 }")
	checkError[*runtime.ArrayIndexOutOfBounds](t, "[1, 2, 3][5]")
	checkError[*runtime.InvalidArrayIndex](t, "[1, 2, 3][-1]")
	checkError[*runtime.InvalidArrayIndex](t, "[1, 2, 3][0.5]")
	checkError[*runtime.InvalidArrayIndex](t, "[1][:a]")
	checkError[*runtime.NotAnArray](t, "1[0]")
	checkError[*runtime.NotAnArray](t, "'abc'[0..1]")
	checkError[*runtime.NotANumber](t, "[1][:a..]")
	checkError[*runtime.NotAnObject](t, "1.a")
	checkError[*runtime.ObjectKeyNotFound](t, "{a: 1}.b")
	checkError[*runtime.NotAFunction](t, "1(x: 2)")
	checkError[*runtime.NotAFunction](t, "let n = 1\n2.n()")
	checkError[*runtime.LhsNotAssignable](t, "[1] << 2")
	checkError[*runtime.LhsNotAssignable](t, "1 = 2")
	checkError[*runtime.MethodCallWithoutSelf](t, "def nothing() { 1 }\n1.nothing()")
	checkError[*runtime.UndefinedVariable](t, "def f(a, b) { b }\nf(a: 1)")
	checkError[*runtime.DecimalConversionError](t, "number(value: 'abc')")

	err := checkError[*runtime.IntrinsicError](t, "upper(string: 1)")
	require.ErrorIs(t, err, runtime.ErrArgumentType)
}

func TestErrorMessages(t *testing.T) {
	ctx := newTestContext(t, nil)
	_, _, err := ctx.run(t, "1 + 'a'")
	require.EqualError(t, err, "invalid operands: + cannot be used for 1 (=1) and 'a' (='a')")

	_, _, err = ctx.run(t, "[1, 2, 3][5]")
	require.EqualError(t, err, "array index out of bounds: [1, 2, 3] (=[1, 2, 3])[5 (=5)]")

	_, _, err = ctx.run(t, "{a: 1}.b")
	require.EqualError(t, err, "object key not found: {a: 1} (={a: 1}).b")
}

func TestStackOverflow(t *testing.T) {
	ctx, err := NewContext(Options{Loader: newCountingLoader(nil), MaxDepth: 200})
	require.NoError(t, err)

	_, _, err = ctx.Run("def loop(x) { loop(x: x) }\nloop(x: 1)", "test")
	var overflow *runtime.StackOverflow
	require.True(t, errors.As(err, &overflow), "got %v", err)
	require.Equal(t, 200, overflow.Depth)

	// The context stays usable afterwards.
	value, _, err := ctx.Run("1 + 1", "test")
	require.NoError(t, err)
	require.Equal(t, "2", value.String())
}

func TestConcurrentEvaluations(t *testing.T) {
	ctx := newTestContext(t, nil)
	source := "def fib(x) { if x < 2 { x } else { fib(x: x - 1) + fib(x: x - 2) } }\nfib(x: 12)"

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, _, err := ctx.Run(source, "test")
			if err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = value.String()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, "144", r)
	}
}
