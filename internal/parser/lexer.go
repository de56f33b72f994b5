package parser

import "strings"

type lexer struct {
	source    string
	start     int
	current   int
	line      int
	lineStart int

	startLine   int
	startColumn int

	tokens []token
	state  *parserState
}

func newLexer(source string, state *parserState) *lexer {
	return &lexer{source: source, line: 1, state: state}
}

func (l *lexer) scan() []token {
	for !l.isAtEnd() {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.current - l.lineStart + 1
		l.scanToken()
	}
	l.start = l.current
	l.startLine = l.line
	l.startColumn = l.current - l.lineStart + 1
	l.emit(tkEOF, "")
	return l.tokens
}

func (l *lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.emit(tkLeftParen, "")
	case ')':
		l.emit(tkRightParen, "")
	case '[':
		l.emit(tkLeftBracket, "")
	case ']':
		l.emit(tkRightBracket, "")
	case '{':
		l.emit(tkLeftBrace, "")
	case '}':
		l.emit(tkRightBrace, "")
	case ',':
		l.emit(tkComma, "")
	case ';':
		l.emit(tkSemicolon, "")
	case '|':
		l.emit(tkPipe, "")
	case '-':
		l.emit(tkMinus, "")
	case '/':
		l.emit(tkSlash, "")
	case '*':
		l.emit(tkStar, "")
	case '.':
		if l.match('.') {
			l.emit(tkDotDot, "")
		} else {
			l.emit(tkDot, "")
		}
	case '+':
		if l.match('+') {
			l.emit(tkPlusPlus, "")
		} else {
			l.emit(tkPlus, "")
		}
	case '!':
		if l.match('=') {
			l.emit(tkBangEqual, "")
		} else {
			l.emit(tkBang, "")
		}
	case '=':
		if l.match('=') {
			l.emit(tkEqualEqual, "")
		} else {
			l.emit(tkEqual, "")
		}
	case '<':
		if l.match('=') {
			l.emit(tkLessEqual, "")
		} else if l.match('<') {
			l.emit(tkLessLess, "")
		} else {
			l.emit(tkLess, "")
		}
	case '>':
		if l.match('=') {
			l.emit(tkGreaterEqual, "")
		} else {
			l.emit(tkGreater, "")
		}
	case ':':
		l.colon()
	case '#':
		for !l.isAtEnd() && l.peek() != '\n' {
			l.advance()
		}

	// Ignore whitespace
	case ' ', '\r', '\t':

	case '\n':
		l.newline()

	case '"', '\'':
		l.string(c)

	default:
		if isDigit(c) {
			l.number()
		} else if isAlpha(c) {
			l.identifier()
		} else {
			l.state.setError(errIllegalChar, l.startLine, l.startColumn)
		}
	}
}

// colon is a symbol literal when it directly precedes a name and does not
// follow a key (`{a: b}` and `f(x: y)` keep the separator).
func (l *lexer) colon() {
	if n := len(l.tokens); n > 0 {
		prev := l.tokens[n-1].token
		if prev == tkIdentifier || prev == tkString {
			l.emit(tkColon, "")
			return
		}
	}
	if l.isAtEnd() || !isAlpha(l.peek()) {
		l.emit(tkColon, "")
		return
	}
	for !l.isAtEnd() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	l.emit(tkSymbol, l.source[l.start+1:l.current])
}

func (l *lexer) string(quote byte) {
	var sb strings.Builder
	for !l.isAtEnd() && l.peek() != quote {
		c := l.advance()
		switch {
		case c == '\\' && !l.isAtEnd():
			escaped := l.advance()
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(escaped)
			}
		case c == '\n':
			sb.WriteByte(c)
			l.newline()
		default:
			sb.WriteByte(c)
		}
	}

	if l.isAtEnd() {
		l.state.setError(errUnclosedString, l.startLine, l.startColumn)
		return
	}

	// Consume the closing quote
	l.advance()

	l.emit(tkString, sb.String())
}

func (l *lexer) number() {
	for !l.isAtEnd() && isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for !l.isAtEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}

	l.emit(tkNumber, l.source[l.start:l.current])
}

func (l *lexer) identifier() {
	for !l.isAtEnd() && isAlphaNumeric(l.peek()) {
		l.advance()
	}

	identifier := l.source[l.start:l.current]

	tokenType, ok := keywords[identifier]
	if !ok {
		tokenType = tkIdentifier
	}

	l.emit(tokenType, identifier)
}

func (l *lexer) newline() {
	l.line++
	l.lineStart = l.current
}

func (l *lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *lexer) match(c byte) bool {
	if l.isAtEnd() || l.source[l.current] != c {
		return false
	}
	l.current++
	return true
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *lexer) emit(tk tokenType, literal string) {
	l.tokens = append(l.tokens, token{
		token:   tk,
		lexeme:  l.source[l.start:l.current],
		literal: literal,
		line:    l.startLine,
		column:  l.startColumn,
		endLine: l.line,
	})
}

func (l *lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
