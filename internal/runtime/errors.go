package runtime

import (
	"fmt"
	"strings"

	"blox/internal/ast"
)

// RuntimeError is the closed set of evaluation failures. Every variant
// keeps the expressions and values involved so a diagnostic can be
// formatted without walking the tree again. Use errors.As to inspect one.
type RuntimeError interface {
	error
	runtimeError()
}

type UndefinedVariable struct {
	Name string
}

type InvalidOperands struct {
	Lhs      ast.Expression
	LhsValue Value
	Operator ast.Operator
	Rhs      ast.Expression
	RhsValue Value
}

type InvalidOperand struct {
	Operator ast.Operator
	Operand  ast.Expression
	Value    Value
}

type InvalidCondition struct {
	Condition ast.Expression
	Value     Value
}

type InvalidArrayIndex struct {
	Array      ast.Expression
	ArrayValue Value
	Index      ast.Expression
	IndexValue Value
}

type ArrayIndexOutOfBounds struct {
	Array      ast.Expression
	ArrayValue Value
	Index      ast.Expression
	IndexValue Value
}

type NotAnArray struct {
	Expression ast.Expression
	Value      Value
}

type NotANumber struct {
	Expression ast.Expression
	Value      Value
}

type NotAnObject struct {
	Object ast.Expression
	Value  Value
	Key    string
}

type NotAFunction struct {
	Callee ast.Expression
	Value  Value
}

type ObjectKeyNotFound struct {
	Object ast.Expression
	Value  Value
	Key    string
}

type LhsNotAssignable struct {
	Lhs ast.Expression
}

type MethodCallWithoutSelf struct {
	Function ast.Expression
	Value    Value
}

type ModuleNotFound struct {
	Path string
	Err  error
}

type ExportNotFound struct {
	Path string
	Name string
}

// DecimalConversionError is a failed conversion of text to a Number.
type DecimalConversionError struct {
	Input string
	Err   error
}

// ModuleParseError wraps the syntax errors of an imported module.
type ModuleParseError struct {
	Path string
	Err  error
}

// ImportCycle lists the chain of paths that leads back to its first entry.
type ImportCycle struct {
	Chain []string
}

// StackOverflow is returned once evaluation nests deeper than the
// configured limit.
type StackOverflow struct {
	Depth int
}

// IntrinsicError is a failure reported by native code.
type IntrinsicError struct {
	Name string
	Err  error
}

func (*UndefinedVariable) runtimeError()      {}
func (*InvalidOperands) runtimeError()        {}
func (*InvalidOperand) runtimeError()         {}
func (*InvalidCondition) runtimeError()       {}
func (*InvalidArrayIndex) runtimeError()      {}
func (*ArrayIndexOutOfBounds) runtimeError()  {}
func (*NotAnArray) runtimeError()             {}
func (*NotANumber) runtimeError()             {}
func (*NotAnObject) runtimeError()            {}
func (*NotAFunction) runtimeError()           {}
func (*ObjectKeyNotFound) runtimeError()      {}
func (*LhsNotAssignable) runtimeError()       {}
func (*MethodCallWithoutSelf) runtimeError()  {}
func (*ModuleNotFound) runtimeError()         {}
func (*ExportNotFound) runtimeError()         {}
func (*DecimalConversionError) runtimeError() {}
func (*ModuleParseError) runtimeError()       {}
func (*ImportCycle) runtimeError()            {}
func (*StackOverflow) runtimeError()          {}
func (*IntrinsicError) runtimeError()         {}

func (e *UndefinedVariable) Error() string {
	return "undefined variable: " + e.Name
}

func (e *InvalidOperands) Error() string {
	return fmt.Sprintf("invalid operands: %s cannot be used for %s (=%s) and %s (=%s)",
		e.Operator, e.Lhs, Repr(e.LhsValue), e.Rhs, Repr(e.RhsValue))
}

func (e *InvalidOperand) Error() string {
	return fmt.Sprintf("invalid operand: %s cannot be used for %s (=%s)",
		e.Operator, e.Operand, Repr(e.Value))
}

func (e *InvalidCondition) Error() string {
	return fmt.Sprintf("invalid condition: %s (=%s) is neither a boolean nor a number",
		e.Condition, Repr(e.Value))
}

func (e *InvalidArrayIndex) Error() string {
	return fmt.Sprintf("invalid array index: %s (=%s)[%s (=%s)]",
		e.Array, Repr(e.ArrayValue), e.Index, Repr(e.IndexValue))
}

func (e *ArrayIndexOutOfBounds) Error() string {
	return fmt.Sprintf("array index out of bounds: %s (=%s)[%s (=%s)]",
		e.Array, Repr(e.ArrayValue), e.Index, Repr(e.IndexValue))
}

func (e *NotAnArray) Error() string {
	return fmt.Sprintf("%s (=%s) is not an array", e.Expression, Repr(e.Value))
}

func (e *NotANumber) Error() string {
	return fmt.Sprintf("%s (=%s) is not a number", e.Expression, Repr(e.Value))
}

func (e *NotAnObject) Error() string {
	return fmt.Sprintf("%s (=%s) is not an object: %s", e.Object, Repr(e.Value), e.Key)
}

func (e *NotAFunction) Error() string {
	return fmt.Sprintf("%s is not a function: %s", e.Callee, Repr(e.Value))
}

func (e *ObjectKeyNotFound) Error() string {
	return fmt.Sprintf("object key not found: %s (=%s).%s", e.Object, Repr(e.Value), e.Key)
}

func (e *LhsNotAssignable) Error() string {
	return fmt.Sprintf("cannot assign to %s", e.Lhs)
}

func (e *MethodCallWithoutSelf) Error() string {
	return fmt.Sprintf("method call on %s (=%s): function takes no parameters", e.Function, Repr(e.Value))
}

func (e *ModuleNotFound) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("module not found: %s: %v", e.Path, e.Err)
	}
	return "module not found: " + e.Path
}

func (e *ModuleNotFound) Unwrap() error { return e.Err }

func (e *ExportNotFound) Error() string {
	return fmt.Sprintf("module %s does not export %s", e.Path, e.Name)
}

func (e *DecimalConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to a number: %v", e.Input, e.Err)
}

func (e *DecimalConversionError) Unwrap() error { return e.Err }

func (e *ModuleParseError) Error() string {
	return fmt.Sprintf("parse error in %s:\n%v", e.Path, e.Err)
}

func (e *ModuleParseError) Unwrap() error { return e.Err }

func (e *ImportCycle) Error() string {
	return "import cycle: " + strings.Join(e.Chain, " -> ")
}

func (e *StackOverflow) Error() string {
	return fmt.Sprintf("stack overflow: nesting exceeds %d levels", e.Depth)
}

func (e *IntrinsicError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *IntrinsicError) Unwrap() error { return e.Err }
