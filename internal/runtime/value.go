// Package runtime holds the values, environments and errors shared by the
// evaluator, the module loader and native intrinsics.
package runtime

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"blox/internal/ast"
)

// Kind tags the variant of a Value.
type Kind int

const (
	KindVoid Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindSymbol
	KindArray
	KindObject
	KindFunction
	KindModule
	KindIntrinsic
)

var kindNames = [...]string{
	KindVoid:      "void",
	KindBoolean:   "boolean",
	KindNumber:    "number",
	KindString:    "string",
	KindSymbol:    "symbol",
	KindArray:     "array",
	KindObject:    "object",
	KindFunction:  "function",
	KindModule:    "module",
	KindIntrinsic: "intrinsic",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is the closed set of values a program can produce. String returns
// the display text used when a value is rendered into a template.
type Value interface {
	Kind() Kind
	String() string
	value()
}

// Void is the unit value of empty blocks and unmatched conditionals.
type Void struct{}

type Boolean bool

// Number is an exact decimal.
type Number struct {
	Value decimal.Decimal
}

type String string

// Symbol is an interned name, distinct from String.
type Symbol string

// Array is never modified in place: operations build a new slice.
type Array []Value

// Function is a closure: a definition plus the environment it was created in.
type Function struct {
	Definition *ast.Definition
	Closure    *Env
}

// Module is an evaluated source file and the bindings it exports.
type Module struct {
	Path    string
	Exports Object
}

// IntrinsicFunc is the native side of an Intrinsic. Arguments arrive keyed
// by the name used at the call site.
type IntrinsicFunc func(args map[string]Value) (Value, error)

// Intrinsic is a natively implemented callable. Params is optional and only
// consulted by method calls, which bind the receiver to the first entry.
type Intrinsic struct {
	ID     uint64
	Name   string
	Params []string
	Fn     IntrinsicFunc
}

var intrinsicIDs atomic.Uint64

// NewIntrinsic registers fn under a process-unique identity.
func NewIntrinsic(name string, params []string, fn IntrinsicFunc) *Intrinsic {
	return &Intrinsic{
		ID:     intrinsicIDs.Add(1),
		Name:   name,
		Params: params,
		Fn:     fn,
	}
}

func (Void) Kind() Kind       { return KindVoid }
func (Boolean) Kind() Kind    { return KindBoolean }
func (Number) Kind() Kind     { return KindNumber }
func (String) Kind() Kind     { return KindString }
func (Symbol) Kind() Kind     { return KindSymbol }
func (Array) Kind() Kind      { return KindArray }
func (Object) Kind() Kind     { return KindObject }
func (*Function) Kind() Kind  { return KindFunction }
func (*Module) Kind() Kind    { return KindModule }
func (*Intrinsic) Kind() Kind { return KindIntrinsic }

func (Void) value()       {}
func (Boolean) value()    {}
func (Number) value()     {}
func (String) value()     {}
func (Symbol) value()     {}
func (Array) value()      {}
func (Object) value()     {}
func (*Function) value()  {}
func (*Module) value()    {}
func (*Intrinsic) value() {}

func (Void) String() string { return "" }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (n Number) String() string { return n.Value.String() }
func (s String) String() string { return string(s) }
func (s Symbol) String() string { return ":" + string(s) }

func (a Array) String() string {
	members := make([]string, len(a))
	for i, m := range a {
		members[i] = Repr(m)
	}
	return "[" + strings.Join(members, ", ") + "]"
}

func (f *Function) String() string {
	return fmt.Sprintf("<function %s>", f.Definition.DisplayName())
}

func (m *Module) String() string {
	return fmt.Sprintf("<module %s>", m.Path)
}

func (i *Intrinsic) String() string {
	return fmt.Sprintf("<intrinsic %s>", i.Name)
}

// Repr is the display text with strings quoted, as used inside composite
// values and by the REPL.
func Repr(v Value) string {
	switch v := v.(type) {
	case nil:
		return "?"
	case String:
		return "'" + strings.ReplaceAll(string(v), "'", `\'`) + "'"
	case Void:
		return "void"
	default:
		return v.String()
	}
}

// NewNumber builds a Number from an integer.
func NewNumber(n int64) Number {
	return Number{Value: decimal.NewFromInt(n)}
}

// Export looks up a single binding exported by the module.
func (m *Module) Export(name string) (Value, error) {
	if v, ok := m.Exports.Get(name); ok {
		return v, nil
	}
	return nil, &ExportNotFound{Path: m.Path, Name: name}
}

// Equal compares two values. Values of different kinds are never equal.
// Functions compare by identity and intrinsics by ID.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Void:
		_, ok := b.(Void)
		return ok
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a == b
	case Number:
		b, ok := b.(Number)
		return ok && a.Value.Equal(b.Value)
	case String:
		b, ok := b.(String)
		return ok && a == b
	case Symbol:
		b, ok := b.(Symbol)
		return ok && a == b
	case Array:
		b, ok := b.(Array)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Object:
		b, ok := b.(Object)
		return ok && a.equal(b)
	case *Function:
		b, ok := b.(*Function)
		return ok && a == b
	case *Module:
		b, ok := b.(*Module)
		return ok && a.Path == b.Path && a.Exports.equal(b.Exports)
	case *Intrinsic:
		b, ok := b.(*Intrinsic)
		return ok && a.ID == b.ID
	}
	return false
}
