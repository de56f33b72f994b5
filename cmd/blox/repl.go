package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"blox/internal/interp"
	"blox/internal/parser"
	"blox/internal/runtime"
)

const (
	historyFile = ".blox-history"
	promptMain  = "blox> "
	promptCont  = "....> "
)

// session keeps the bindings of every line evaluated at the prompt.
type session struct {
	ctx *interp.Context
	env *runtime.Env
}

func newSession(opts interp.Options) (*session, error) {
	ctx, err := interp.NewContext(opts)
	if err != nil {
		return nil, err
	}
	return &session{ctx: ctx, env: ctx.Root.Child()}, nil
}

// eval evaluates a lone expression directly and anything else as a
// program, both in the session env.
func (s *session) eval(source string) (runtime.Value, error) {
	if expr, err := parser.ParseExpression(source, "repl"); err == nil {
		return s.ctx.EvaluateExpression(expr, s.env)
	}
	program, err := parser.Parse(source, "repl")
	if err != nil {
		return nil, err
	}
	return s.ctx.ExecuteProgram(program, s.env)
}

func (c *cli) repl() error {
	s, err := newSession(c.options())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "%s (:quit to exit)\n", c.color.Cyan("blox"))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		source, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(c.stdout)
			break
		}
		trimmed := strings.TrimSpace(source)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" || trimmed == ":q" {
			break
		}
		ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))

		value, err := s.eval(source)
		if err != nil {
			c.fail(err)
			continue
		}
		fmt.Fprintln(c.stdout, c.color.Blue(runtime.Repr(value)))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// readInput keeps prompting while brackets are left open.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if openBrackets(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// openBrackets counts unclosed (, [ and { outside strings and comments.
func openBrackets(source string) int {
	depth := 0
	var quote rune
	escaped := false
	comment := false
	for _, r := range source {
		switch {
		case comment:
			if r == '\n' {
				comment = false
			}
		case quote != 0:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			comment = true
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		}
	}
	return depth
}
