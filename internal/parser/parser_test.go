package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"blox/internal/ast"
)

func checkProgram(t *testing.T, source string, expected ...string) {
	t.Helper()
	program, err := Parse(source, "test")
	require.NoError(t, err, source)
	got := make([]string, len(program.Block.Statements))
	for i, st := range program.Block.Statements {
		got[i] = st.String()
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Parse(%q) mismatch (-want +got):\n%s", source, diff)
	}
}

func checkParseError(t *testing.T, source string, want error) {
	t.Helper()
	_, err := Parse(source, "test")
	require.Error(t, err, source)
	if !errors.Is(err, want) {
		t.Errorf("Parse(%q): expected %q, got %q", source, want, err)
	}
}

func TestLiterals(t *testing.T) {
	checkProgram(t, `1`, "1")
	checkProgram(t, `1.50`, "1.5")
	checkProgram(t, `"hello"`, `'hello'`)
	checkProgram(t, `'it\'s'`, `'it\'s'`)
	checkProgram(t, `true; false`, "true", "false")
	checkProgram(t, `:ok`, ":ok")
	checkProgram(t, `[1, 2, [3]]`, "[1, 2, [3]]")
	checkProgram(t, `{a: 1, "b c": :x}`, `{a: 1, b c: :x}`)
	checkProgram(t, `[]`, "[]")
	checkProgram(t, `{}`, "{}")
}

func TestPrecedence(t *testing.T) {
	checkProgram(t, `1 + 2 * 3`, "(1 + (2 * 3))")
	checkProgram(t, `(1 + 2) * 3`, "((1 + 2) * 3)")
	checkProgram(t, `1 - 2 - 3`, "((1 - 2) - 3)")
	checkProgram(t, `a == b < c`, "(a == (b < c))")
	checkProgram(t, `-a * !b`, "(-a * !b)")
	checkProgram(t, `"a" ++ "b" ++ c`, "(('a' ++ 'b') ++ c)")
	checkProgram(t, `xs << 1 + 2`, "(xs << (1 + 2))")
	checkProgram(t, `a = b = 3`, "(a = (b = 3))")
	checkProgram(t, `a.b[0] = 1`, "(a.b[0] = 1)")
}

func TestStatements(t *testing.T) {
	checkProgram(t, "let x = 1\nx", "let x = 1", "x")
	checkProgram(t, "def add(a, b) { a + b }", "def add(a, b) { (a + b) }")
	checkProgram(t, "def nothing() { }", "def nothing() {  }")
	checkProgram(t,
		"import { a, b as c } from './lib'",
		"import { a, b as c } from './lib'",
	)
	checkProgram(t, "# comment\nlet y = 2 # trailing\n", "let y = 2")
}

func TestPostfix(t *testing.T) {
	checkProgram(t, `f(a: 1, b: x)`, "f(a: 1, b: x)")
	checkProgram(t, `f()`, "f()")
	checkProgram(t, `xs[1]`, "xs[1]")
	checkProgram(t, `xs[1..2]`, "xs[1..2]")
	checkProgram(t, `xs[..2]`, "xs[..2]")
	checkProgram(t, `xs[1..]`, "xs[1..]")
	checkProgram(t, `xs[..]`, "xs[..]")
	checkProgram(t, `obj.key.other`, "obj.key.other")
	checkProgram(t, `obj.len()`, "obj.len()")
	checkProgram(t, `q.where(column: :id).select()`, "q.where(column: :id).select()")
	checkProgram(t, `f(x: 1)(y: 2)`, "f(x: 1)(y: 2)")
}

func TestPostfixRequiresSameLine(t *testing.T) {
	checkProgram(t, "f\n(1)", "f", "(1)")
	checkProgram(t, "xs\n[1]", "xs", "[1]")
	checkProgram(t, "obj\n.key", "obj.key")
}

func TestIfAndLambda(t *testing.T) {
	checkProgram(t, `if a { 1 }`, "if a { 1 }")
	checkProgram(t,
		`if a { 1 } else if b { 2 } else { 3 }`,
		"if a { 1 } else if b { 2 } else { 3 }",
	)
	checkProgram(t, `|a, b| { a * b }`, "|a, b| { (a * b) }")
	checkProgram(t, `|| { 1 }`, "|| { 1 }")
	checkProgram(t, `let double = |x| { x * 2 }`, "let double = |x| { (x * 2) }")
}

func TestLocations(t *testing.T) {
	program, err := Parse("let a = 1\n  b", "main.blox")
	require.NoError(t, err)
	require.Len(t, program.Block.Statements, 2)
	want := ast.Location{File: "main.blox", Line: 2, Column: 3}
	if diff := cmp.Diff(want, program.Block.Statements[1].Pos()); diff != "" {
		t.Errorf("location mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	checkParseError(t, `let = 1`, errExpectedIdentifier)
	checkParseError(t, `let x 1`, errExpectedEqual)
	checkParseError(t, `(1 + 2`, errUnclosedParen)
	checkParseError(t, `[1, 2`, errUnclosedBracket)
	checkParseError(t, `{a: 1`, errUnclosedBrace)
	checkParseError(t, `{a 1}`, errExpectedColon)
	checkParseError(t, `f(1)`, errExpectedIdentifier)
	checkParseError(t, `import { a } './x'`, errExpectedFrom)
	checkParseError(t, `import { a } from x`, errExpectedPath)
	checkParseError(t, `"unterminated`, errUnclosedString)
	checkParseError(t, `1 $ 2`, errIllegalChar)
	checkParseError(t, `*`, errUndefinedExpr)
	checkParseError(t, `if a 1`, errExpectedBlock)
}

func TestParseErrorsAreCollected(t *testing.T) {
	_, err := Parse("let = 1\nlet y 2\nlet z = 3", "multi")
	require.Error(t, err)
	var list ErrorList
	require.True(t, errors.As(err, &list))
	require.Len(t, list, 2)
	require.Equal(t, "multi:1:5: expected identifier", list[0].Error())
	require.Equal(t, 2, list[1].Line)
}

func TestParseExpression(t *testing.T) {
	expr, err := ParseExpression("1 + 2;", "expr")
	require.NoError(t, err)
	require.Equal(t, "(1 + 2)", expr.String())

	_, err = ParseExpression("1 2", "expr")
	require.ErrorIs(t, err, errTrailingInput)
}
