package ast

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Location
	Value bool
}

func (*BooleanLiteral) expressionNode() {}

// NumberLiteral is an exact decimal literal.
type NumberLiteral struct {
	Location
	Value decimal.Decimal
}

func (*NumberLiteral) expressionNode() {}

// StringLiteral holds the unescaped string contents.
type StringLiteral struct {
	Location
	Value string
}

func (*StringLiteral) expressionNode() {}

// SymbolLiteral is `:name`.
type SymbolLiteral struct {
	Location
	Name string
}

func (*SymbolLiteral) expressionNode() {}

func (l *BooleanLiteral) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

func (l *NumberLiteral) String() string {
	return l.Value.String()
}

func (l *StringLiteral) String() string {
	return "'" + strings.ReplaceAll(l.Value, "'", `\'`) + "'"
}

func (l *SymbolLiteral) String() string {
	return ":" + l.Name
}
