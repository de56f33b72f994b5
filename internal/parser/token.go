package parser

import "fmt"

type tokenType int

const (
	tkEOF tokenType = iota

	// Single-character tokens.
	// (, ), [, ], {, }, ',', ., :, ;, |, -, +, /, *, !
	tkLeftParen
	tkRightParen
	tkLeftBracket
	tkRightBracket
	tkLeftBrace
	tkRightBrace
	tkComma
	tkDot
	tkColon
	tkSemicolon
	tkPipe
	tkMinus
	tkPlus
	tkSlash
	tkStar
	tkBang

	// One or two character tokens.
	// .., ++, !=, =, ==, >, >=, <, <=, <<
	tkDotDot
	tkPlusPlus
	tkBangEqual
	tkEqual
	tkEqualEqual
	tkGreater
	tkGreaterEqual
	tkLess
	tkLessEqual
	tkLessLess

	// Literals.
	tkIdentifier
	tkString
	tkNumber
	tkSymbol

	// Keywords.
	tkLet
	tkDef
	tkIf
	tkElse
	tkImport
	tkFrom
	tkAs
	tkTrue
	tkFalse
)

var keywords = map[string]tokenType{
	"let":    tkLet,
	"def":    tkDef,
	"if":     tkIf,
	"else":   tkElse,
	"import": tkImport,
	"from":   tkFrom,
	"as":     tkAs,
	"true":   tkTrue,
	"false":  tkFalse,
}

var tokenNames = map[tokenType]string{
	tkEOF:          "end of input",
	tkLeftParen:    "'('",
	tkRightParen:   "')'",
	tkLeftBracket:  "'['",
	tkRightBracket: "']'",
	tkLeftBrace:    "'{'",
	tkRightBrace:   "'}'",
	tkComma:        "','",
	tkDot:          "'.'",
	tkColon:        "':'",
	tkSemicolon:    "';'",
	tkPipe:         "'|'",
	tkMinus:        "'-'",
	tkPlus:         "'+'",
	tkSlash:        "'/'",
	tkStar:         "'*'",
	tkBang:         "'!'",
	tkDotDot:       "'..'",
	tkPlusPlus:     "'++'",
	tkBangEqual:    "'!='",
	tkEqual:        "'='",
	tkEqualEqual:   "'=='",
	tkGreater:      "'>'",
	tkGreaterEqual: "'>='",
	tkLess:         "'<'",
	tkLessEqual:    "'<='",
	tkLessLess:     "'<<'",
	tkIdentifier:   "identifier",
	tkString:       "string",
	tkNumber:       "number",
	tkSymbol:       "symbol",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	for word, kw := range keywords {
		if kw == t {
			return "'" + word + "'"
		}
	}
	return fmt.Sprintf("token(%d)", int(t))
}

type token struct {
	token   tokenType
	lexeme  string
	literal string
	line    int
	column  int
	endLine int
}
