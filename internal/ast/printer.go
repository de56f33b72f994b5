package ast

import (
	"fmt"
	"strings"
)

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, st := range b.Statements {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(st.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

func (b *Binding) String() string {
	return fmt.Sprintf("let %s = %s", b.Name, b.Value)
}

func (d *Definition) String() string {
	params := joinIdentifiers(d.Parameters)
	if d.Name == nil {
		return fmt.Sprintf("|%s| %s", params, d.Body)
	}
	return fmt.Sprintf("def %s(%s) %s", d.Name, params, d.Body)
}

func (s *ImportedSymbol) String() string {
	if s.Alias != nil {
		return fmt.Sprintf("%s as %s", s.Name, s.Alias)
	}
	return s.Name.String()
}

func (i *Import) String() string {
	symbols := make([]string, len(i.Symbols))
	for n, s := range i.Symbols {
		symbols[n] = s.String()
	}
	return fmt.Sprintf("import { %s } from '%s'", strings.Join(symbols, ", "), i.Path)
}

func (s *ExpressionStatement) String() string {
	return s.Expression.String()
}

func (e *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Lhs, e.Operator, e.Rhs)
}

func (e *UnaryExpression) String() string {
	return fmt.Sprintf("%s%s", e.Operator, e.Operand)
}

func (g *Group) String() string {
	return "(" + g.Expression.String() + ")"
}

func (a *ArrayLiteral) String() string {
	members := make([]string, len(a.Members))
	for i, m := range a.Members {
		members[i] = m.String()
	}
	return "[" + strings.Join(members, ", ") + "]"
}

func (m *ObjectMember) String() string {
	return fmt.Sprintf("%s: %s", m.Key, m.Value)
}

func (o *ObjectLiteral) String() string {
	members := make([]string, len(o.Members))
	for i, m := range o.Members {
		members[i] = m.String()
	}
	return "{" + strings.Join(members, ", ") + "}"
}

func (a *ArrayIndex) String() string {
	return fmt.Sprintf("%s[%s]", a.Base, a.Index)
}

func (a *ArraySlice) String() string {
	var sb strings.Builder
	sb.WriteString(a.Base.String())
	sb.WriteString("[")
	if a.Start != nil {
		sb.WriteString(a.Start.String())
	}
	sb.WriteString("..")
	if a.End != nil {
		sb.WriteString(a.End.String())
	}
	sb.WriteString("]")
	return sb.String()
}

func (o *ObjectIndex) String() string {
	return fmt.Sprintf("%s.%s", o.Base, o.Key)
}

func (a *Argument) String() string {
	return fmt.Sprintf("%s: %s", a.Name, a.Value)
}

func (c *FunctionCall) String() string {
	return fmt.Sprintf("%s(%s)", c.Callee, joinArguments(c.Arguments))
}

func (c *MethodCall) String() string {
	return fmt.Sprintf("%s.%s(%s)", c.Base, c.Function, joinArguments(c.Arguments))
}

func (e *ElseIf) String() string {
	return fmt.Sprintf("else if %s %s", e.Condition, e.Body)
}

func (i *If) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if %s %s", i.Condition, i.Body)
	for _, branch := range i.ElseIfs {
		sb.WriteString(" ")
		sb.WriteString(branch.String())
	}
	if i.Else != nil {
		fmt.Fprintf(&sb, " else %s", i.Else)
	}
	return sb.String()
}

func (l *Lambda) String() string {
	return l.Definition.String()
}

func joinIdentifiers(ids []*Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return strings.Join(names, ", ")
}

func joinArguments(args []*Argument) string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.String()
	}
	return strings.Join(out, ", ")
}

// PrintTree renders a program one statement per line, indenting nested
// blocks. It backs the `ast` command of the CLI.
func PrintTree(program *Program) string {
	var sb strings.Builder
	printBlock(&sb, program.Block, 0)
	return sb.String()
}

func printBlock(sb *strings.Builder, block *Block, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, st := range block.Statements {
		switch st := st.(type) {
		case *Definition:
			fmt.Fprintf(sb, "%s(def %s (%s)\n", indent, st.DisplayName(), joinIdentifiers(st.Parameters))
			printBlock(sb, st.Body, depth+1)
			fmt.Fprintf(sb, "%s)\n", indent)
		default:
			fmt.Fprintf(sb, "%s%s  # %s\n", indent, st, st.Pos())
		}
	}
}
