// Package ast holds the syntax tree produced by the parser. Nodes are plain
// data: once built they are only ever read.
package ast

import "fmt"

// Location points at the first character of a node in its source.
type Location struct {
	File   string
	Line   int
	Column int
}

// Pos returns the location itself so that embedding it satisfies Node.
func (l Location) Pos() Location {
	return l
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Node is implemented by every statement and expression.
type Node interface {
	Pos() Location
	String() string
}

// Statement is one of Binding, Definition, Import or ExpressionStatement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a term (identifier, literal, index, call, ...) or an
// operator expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Location
	Block *Block
}

func (p *Program) String() string {
	return p.Block.String()
}

// Block is a sequence of statements sharing one environment.
type Block struct {
	Location
	Statements []Statement
}

// Identifier names a binding. It is also the identifier-reference term.
type Identifier struct {
	Location
	Name string
}

func (*Identifier) expressionNode() {}

func (i *Identifier) String() string {
	return i.Name
}

// Binding is `let name = value`.
type Binding struct {
	Location
	Name  *Identifier
	Value Expression
}

func (*Binding) statementNode() {}

// Definition declares a function. Name is nil for lambdas.
type Definition struct {
	Location
	Name       *Identifier
	Parameters []*Identifier
	Body       *Block
}

func (*Definition) statementNode() {}

// DisplayName is the declared name or "lambda".
func (d *Definition) DisplayName() string {
	if d.Name == nil {
		return "lambda"
	}
	return d.Name.Name
}

// ImportedSymbol is `name` or `name as alias` inside an import list.
type ImportedSymbol struct {
	Location
	Name  *Identifier
	Alias *Identifier
}

// Binds is the name the symbol is bound to in the importing scope.
func (s *ImportedSymbol) Binds() *Identifier {
	if s.Alias != nil {
		return s.Alias
	}
	return s.Name
}

// Import is `import { a, b as c } from 'path'`.
type Import struct {
	Location
	Symbols []*ImportedSymbol
	Path    string
}

func (*Import) statementNode() {}

// ExpressionStatement evaluates an expression for its value.
type ExpressionStatement struct {
	Location
	Expression Expression
}

func (*ExpressionStatement) statementNode() {}

// BinaryExpression is `lhs op rhs`.
type BinaryExpression struct {
	Location
	Lhs      Expression
	Operator Operator
	Rhs      Expression
}

func (*BinaryExpression) expressionNode() {}

// UnaryExpression is `-x` or `!x`.
type UnaryExpression struct {
	Location
	Operator Operator
	Operand  Expression
}

func (*UnaryExpression) expressionNode() {}

// Group is a parenthesized sub-expression.
type Group struct {
	Location
	Expression Expression
}

func (*Group) expressionNode() {}

// ArrayLiteral is `[a, b, c]`.
type ArrayLiteral struct {
	Location
	Members []Expression
}

func (*ArrayLiteral) expressionNode() {}

// ObjectMember is one `key: value` pair of an object literal.
type ObjectMember struct {
	Location
	Key   string
	Value Expression
}

// ObjectLiteral is `{a: 1, b: 2}`; members keep their source order.
type ObjectLiteral struct {
	Location
	Members []*ObjectMember
}

func (*ObjectLiteral) expressionNode() {}

// ArrayIndex is `base[index]`.
type ArrayIndex struct {
	Location
	Base  Expression
	Index Expression
}

func (*ArrayIndex) expressionNode() {}

// ArraySlice is `base[start..end]`; both bounds are optional.
type ArraySlice struct {
	Location
	Base  Expression
	Start Expression
	End   Expression
}

func (*ArraySlice) expressionNode() {}

// ObjectIndex is `base.key`.
type ObjectIndex struct {
	Location
	Base Expression
	Key  *Identifier
}

func (*ObjectIndex) expressionNode() {}

// Argument is a named call argument `name: value`.
type Argument struct {
	Location
	Name  *Identifier
	Value Expression
}

// FunctionCall is `callee(name: value, ...)`.
type FunctionCall struct {
	Location
	Callee    Expression
	Arguments []*Argument
}

func (*FunctionCall) expressionNode() {}

// MethodCall is `base.function(args)`, sugar for calling function with
// base bound to its first parameter.
type MethodCall struct {
	Location
	Base      Expression
	Function  *Identifier
	Arguments []*Argument
}

func (*MethodCall) expressionNode() {}

// ElseIf is one `else if cond { ... }` branch.
type ElseIf struct {
	Location
	Condition Expression
	Body      *Block
}

// If is a conditional expression.
type If struct {
	Location
	Condition Expression
	Body      *Block
	ElseIfs   []*ElseIf
	Else      *Block
}

func (*If) expressionNode() {}

// Lambda is an anonymous function literal `|a, b| { ... }`.
type Lambda struct {
	Location
	Definition *Definition
}

func (*Lambda) expressionNode() {}
