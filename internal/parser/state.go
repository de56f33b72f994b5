package parser

// parserState stores the errors found while scanning and parsing one source.
type parserState struct {
	label  string
	errors ErrorList
}

func (s *parserState) setError(err error, line, column int) {
	s.errors = append(s.errors, &ParseError{
		Label:  s.label,
		Line:   line,
		Column: column,
		Err:    err,
	})
}

// bailout unwinds the parser to the enclosing statement after a fatal error.
type bailout struct{}

func (s *parserState) fatalError(err error, line, column int) {
	s.setError(err, line, column)
	panic(bailout{})
}

// valid returns true if no error has been recorded
func (s *parserState) valid() bool {
	return len(s.errors) == 0
}
