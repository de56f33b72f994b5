// Package parser turns source text into an ast.Program.
package parser

import (
	"github.com/shopspring/decimal"

	"blox/internal/ast"
)

// Parse scans and parses a whole program. label names the source in
// locations and error messages. The returned error is an ErrorList.
func Parse(source, label string) (*ast.Program, error) {
	p := newParser(source, label)
	program := p.parseProgram()
	if !p.state.valid() {
		return nil, p.state.errors
	}
	return program, nil
}

// ParseExpression parses source that must consist of a single expression.
func ParseExpression(source, label string) (ast.Expression, error) {
	p := newParser(source, label)
	var expr ast.Expression
	func() {
		defer p.recoverBailout()
		if !p.state.valid() {
			return
		}
		expr = p.expression()
		for p.match(tkSemicolon) {
		}
		if !p.isAtEnd() {
			tk := p.peek()
			p.state.fatalError(errTrailingInput, tk.line, tk.column)
		}
	}()
	if !p.state.valid() {
		return nil, p.state.errors
	}
	return expr, nil
}

type parser struct {
	current int
	tokens  []token
	state   *parserState
}

func newParser(source, label string) *parser {
	state := &parserState{label: label}
	tokens := newLexer(source, state).scan()
	return &parser{tokens: tokens, state: state}
}

func (p *parser) parseProgram() *ast.Program {
	loc := p.location(p.peek())
	block := &ast.Block{Location: loc}
	if !p.state.valid() {
		return &ast.Program{Location: loc, Block: block}
	}
	for {
		for p.match(tkSemicolon) {
		}
		if p.isAtEnd() {
			break
		}
		if st := p.parseStmt(); st != nil {
			block.Statements = append(block.Statements, st)
		}
	}
	return &ast.Program{Location: loc, Block: block}
}

// parseStmt parses one statement, resynchronizing on the next statement
// boundary after a syntax error.
func (p *parser) parseStmt() (st ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			st = nil
			p.synchronize()
		}
	}()
	return p.statement()
}

func (p *parser) recoverBailout() {
	if r := recover(); r != nil {
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
	}
}

func (p *parser) statement() ast.Statement {
	if p.match(tkLet) {
		return p.binding()
	}
	if p.check(tkDef) && p.checkNext(tkIdentifier) {
		p.advance()
		return p.definition()
	}
	if p.match(tkImport) {
		return p.importStmt()
	}
	expr := p.expression()
	return &ast.ExpressionStatement{Location: expr.Pos(), Expression: expr}
}

func (p *parser) binding() ast.Statement {
	keyword := p.previous()
	name := p.identifier()
	p.consume(tkEqual, errExpectedEqual)
	value := p.expression()
	return &ast.Binding{
		Location: p.location(keyword),
		Name:     name,
		Value:    value,
	}
}

func (p *parser) definition() ast.Statement {
	keyword := p.previous()
	name := p.identifier()
	p.consume(tkLeftParen, errUnclosedParen)
	var params []*ast.Identifier
	if !p.check(tkRightParen) {
		params = p.parameters()
	}
	p.consume(tkRightParen, errUnclosedParen)
	body := p.block()
	return &ast.Definition{
		Location:   p.location(keyword),
		Name:       name,
		Parameters: params,
		Body:       body,
	}
}

func (p *parser) parameters() []*ast.Identifier {
	var params []*ast.Identifier
	for {
		params = append(params, p.identifier())
		if !p.match(tkComma) {
			break
		}
	}
	return params
}

func (p *parser) importStmt() ast.Statement {
	keyword := p.previous()
	p.consume(tkLeftBrace, errExpectedBlock)
	var symbols []*ast.ImportedSymbol
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		name := p.identifier()
		symbol := &ast.ImportedSymbol{Location: name.Location, Name: name}
		if p.match(tkAs) {
			symbol.Alias = p.identifier()
		}
		symbols = append(symbols, symbol)
		if !p.match(tkComma) {
			break
		}
	}
	p.consume(tkRightBrace, errUnclosedBrace)
	p.consume(tkFrom, errExpectedFrom)
	path := p.consume(tkString, errExpectedPath)
	return &ast.Import{
		Location: p.location(keyword),
		Symbols:  symbols,
		Path:     path.literal,
	}
}

func (p *parser) block() *ast.Block {
	open := p.consume(tkLeftBrace, errExpectedBlock)
	block := &ast.Block{Location: p.location(open)}
	for {
		for p.match(tkSemicolon) {
		}
		if p.check(tkRightBrace) || p.isAtEnd() {
			break
		}
		block.Statements = append(block.Statements, p.statement())
	}
	p.consume(tkRightBrace, errUnclosedBrace)
	return block
}

func (p *parser) expression() ast.Expression {
	return p.assignment()
}

func (p *parser) assignment() ast.Expression {
	expr := p.appendExpr()
	if p.match(tkEqual) {
		value := p.assignment()
		return &ast.BinaryExpression{
			Location: expr.Pos(),
			Lhs:      expr,
			Operator: ast.Assignment,
			Rhs:      value,
		}
	}
	return expr
}

func (p *parser) appendExpr() ast.Expression {
	return p.binary(p.equality, map[tokenType]ast.Operator{
		tkLessLess: ast.Append,
	})
}

func (p *parser) equality() ast.Expression {
	return p.binary(p.comparison, map[tokenType]ast.Operator{
		tkEqualEqual: ast.Equal,
		tkBangEqual:  ast.NotEqual,
	})
}

func (p *parser) comparison() ast.Expression {
	return p.binary(p.addition, map[tokenType]ast.Operator{
		tkGreater:      ast.GreaterThan,
		tkGreaterEqual: ast.GreaterOrEqual,
		tkLess:         ast.LessThan,
		tkLessEqual:    ast.LessOrEqual,
	})
}

func (p *parser) addition() ast.Expression {
	return p.binary(p.multiplication, map[tokenType]ast.Operator{
		tkPlus:     ast.Add,
		tkMinus:    ast.Subtract,
		tkPlusPlus: ast.Concatenate,
	})
}

func (p *parser) multiplication() ast.Expression {
	return p.binary(p.unary, map[tokenType]ast.Operator{
		tkStar:  ast.Multiply,
		tkSlash: ast.Divide,
	})
}

// binary parses a left-associative chain of the given operators.
func (p *parser) binary(next func() ast.Expression, operators map[tokenType]ast.Operator) ast.Expression {
	expr := next()
	for {
		op, ok := operators[p.peek().token]
		if !ok {
			return expr
		}
		p.advance()
		right := next()
		expr = &ast.BinaryExpression{
			Location: expr.Pos(),
			Lhs:      expr,
			Operator: op,
			Rhs:      right,
		}
	}
}

func (p *parser) unary() ast.Expression {
	if p.match(tkMinus, tkBang) {
		operator := p.previous()
		op := ast.Negate
		if operator.token == tkBang {
			op = ast.Not
		}
		return &ast.UnaryExpression{
			Location: p.location(operator),
			Operator: op,
			Operand:  p.unary(),
		}
	}
	return p.postfix()
}

func (p *parser) postfix() ast.Expression {
	expr := p.primary()
	for {
		switch {
		case p.sameLine() && p.match(tkLeftParen):
			args := p.arguments()
			expr = &ast.FunctionCall{Location: expr.Pos(), Callee: expr, Arguments: args}
		case p.sameLine() && p.match(tkLeftBracket):
			expr = p.access(expr)
		case p.match(tkDot):
			name := p.identifier()
			if p.sameLine() && p.match(tkLeftParen) {
				args := p.arguments()
				expr = &ast.MethodCall{Location: expr.Pos(), Base: expr, Function: name, Arguments: args}
			} else {
				expr = &ast.ObjectIndex{Location: expr.Pos(), Base: expr, Key: name}
			}
		default:
			return expr
		}
	}
}

// access parses the part of `base[...]` after the bracket: an index or a
// slice with optional bounds.
func (p *parser) access(base ast.Expression) ast.Expression {
	if p.match(tkDotDot) {
		slice := &ast.ArraySlice{Location: base.Pos(), Base: base}
		if !p.check(tkRightBracket) {
			slice.End = p.expression()
		}
		p.consume(tkRightBracket, errUnclosedBracket)
		return slice
	}
	index := p.expression()
	if p.match(tkDotDot) {
		slice := &ast.ArraySlice{Location: base.Pos(), Base: base, Start: index}
		if !p.check(tkRightBracket) {
			slice.End = p.expression()
		}
		p.consume(tkRightBracket, errUnclosedBracket)
		return slice
	}
	p.consume(tkRightBracket, errUnclosedBracket)
	return &ast.ArrayIndex{Location: base.Pos(), Base: base, Index: index}
}

func (p *parser) arguments() []*ast.Argument {
	var args []*ast.Argument
	for !p.check(tkRightParen) && !p.isAtEnd() {
		name := p.identifier()
		p.consume(tkColon, errExpectedColon)
		value := p.expression()
		args = append(args, &ast.Argument{Location: name.Location, Name: name, Value: value})
		if !p.match(tkComma) {
			break
		}
	}
	p.consume(tkRightParen, errUnclosedParen)
	return args
}

func (p *parser) primary() ast.Expression {
	tk := p.peek()
	loc := p.location(tk)
	switch {
	case p.match(tkNumber):
		value, err := decimal.NewFromString(tk.lexeme)
		if err != nil {
			p.state.setError(errInvalidNumber, tk.line, tk.column)
		}
		return &ast.NumberLiteral{Location: loc, Value: value}
	case p.match(tkString):
		return &ast.StringLiteral{Location: loc, Value: tk.literal}
	case p.match(tkSymbol):
		return &ast.SymbolLiteral{Location: loc, Name: tk.literal}
	case p.match(tkTrue):
		return &ast.BooleanLiteral{Location: loc, Value: true}
	case p.match(tkFalse):
		return &ast.BooleanLiteral{Location: loc, Value: false}
	case p.match(tkIdentifier):
		return &ast.Identifier{Location: loc, Name: tk.lexeme}
	case p.match(tkLeftParen):
		expr := p.expression()
		p.consume(tkRightParen, errUnclosedParen)
		return &ast.Group{Location: loc, Expression: expr}
	case p.match(tkLeftBracket):
		return p.array(loc)
	case p.match(tkLeftBrace):
		return p.object(loc)
	case p.match(tkIf):
		return p.ifExpr(loc)
	case p.match(tkPipe):
		return p.lambda(loc)
	}

	p.state.fatalError(errUndefinedExpr, tk.line, tk.column)
	return nil
}

func (p *parser) array(loc ast.Location) ast.Expression {
	array := &ast.ArrayLiteral{Location: loc}
	for !p.check(tkRightBracket) && !p.isAtEnd() {
		array.Members = append(array.Members, p.expression())
		if !p.match(tkComma) {
			break
		}
	}
	p.consume(tkRightBracket, errUnclosedBracket)
	return array
}

func (p *parser) object(loc ast.Location) ast.Expression {
	object := &ast.ObjectLiteral{Location: loc}
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		key := p.peek()
		if !p.match(tkIdentifier, tkString) {
			p.state.fatalError(errExpectedKey, key.line, key.column)
		}
		name := key.lexeme
		if key.token == tkString {
			name = key.literal
		}
		p.consume(tkColon, errExpectedColon)
		object.Members = append(object.Members, &ast.ObjectMember{
			Location: p.location(key),
			Key:      name,
			Value:    p.expression(),
		})
		if !p.match(tkComma) {
			break
		}
	}
	p.consume(tkRightBrace, errUnclosedBrace)
	return object
}

func (p *parser) ifExpr(loc ast.Location) ast.Expression {
	expr := &ast.If{Location: loc}
	expr.Condition = p.expression()
	expr.Body = p.block()
	for p.check(tkElse) {
		elseTk := p.advance()
		if p.match(tkIf) {
			branch := &ast.ElseIf{Location: p.location(elseTk)}
			branch.Condition = p.expression()
			branch.Body = p.block()
			expr.ElseIfs = append(expr.ElseIfs, branch)
			continue
		}
		expr.Else = p.block()
		break
	}
	return expr
}

func (p *parser) lambda(loc ast.Location) ast.Expression {
	var params []*ast.Identifier
	if !p.check(tkPipe) {
		params = p.parameters()
	}
	p.consume(tkPipe, errExpectedPipe)
	body := p.block()
	return &ast.Lambda{
		Location: loc,
		Definition: &ast.Definition{
			Location:   loc,
			Parameters: params,
			Body:       body,
		},
	}
}

func (p *parser) identifier() *ast.Identifier {
	tk := p.consume(tkIdentifier, errExpectedIdentifier)
	return &ast.Identifier{Location: p.location(tk), Name: tk.lexeme}
}

func (p *parser) location(tk token) ast.Location {
	return ast.Location{File: p.state.label, Line: tk.line, Column: tk.column}
}

// sameLine reports whether the next token starts on the line where the
// previous one ended. Calls and indexing must not span a line break, so
// that `f\n[1]` is two statements.
func (p *parser) sameLine() bool {
	if p.current == 0 {
		return true
	}
	return p.peek().line == p.previous().endLine
}

func (p *parser) consume(tk tokenType, err error) token {
	if p.check(tk) {
		return p.advance()
	}
	next := p.peek()
	p.state.fatalError(err, next.line, next.column)
	return token{}
}

func (p *parser) advance() token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(tokens ...tokenType) bool {
	for _, tk := range tokens {
		if p.check(tk) {
			p.current++
			return true
		}
	}
	return false
}

func (p *parser) check(tk tokenType) bool {
	return p.peek().token == tk
}

func (p *parser) checkNext(tk tokenType) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].token == tk
}

func (p *parser) peek() token {
	return p.tokens[p.current]
}

func (p *parser) previous() token {
	return p.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().token == tkEOF
}

// synchronize skips tokens until something that can start a statement.
func (p *parser) synchronize() {
	if !p.isAtEnd() {
		p.advance()
	}
	for !p.isAtEnd() {
		switch p.peek().token {
		case tkLet, tkDef, tkImport:
			return
		case tkSemicolon:
			p.advance()
			return
		}
		p.advance()
	}
}
