package ast

// Operator identifies a unary or binary operator.
type Operator int

const (
	// unary
	Negate Operator = iota
	Not

	// binary
	Add
	Subtract
	Multiply
	Divide
	Concatenate
	Equal
	NotEqual
	GreaterOrEqual
	GreaterThan
	LessOrEqual
	LessThan

	// mutating
	Assignment
	Append
)

var operatorSymbols = map[Operator]string{
	Negate:         "-",
	Not:            "!",
	Add:            "+",
	Subtract:       "-",
	Multiply:       "*",
	Divide:         "/",
	Concatenate:    "++",
	Equal:          "==",
	NotEqual:       "!=",
	GreaterOrEqual: ">=",
	GreaterThan:    ">",
	LessOrEqual:    "<=",
	LessThan:       "<",
	Assignment:     "=",
	Append:         "<<",
}

func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return "?"
}

// Mutating reports whether the operator writes its result back to the
// left operand.
func (o Operator) Mutating() bool {
	return o == Assignment || o == Append
}
