package interp

import (
	"math"

	"github.com/shopspring/decimal"

	"blox/internal/ast"
	"blox/internal/runtime"
)

var maxIndex = decimal.NewFromInt(math.MaxInt32)

func castArray(expr ast.Expression, value runtime.Value) (runtime.Array, error) {
	array, ok := value.(runtime.Array)
	if !ok {
		return nil, &runtime.NotAnArray{Expression: expr, Value: value}
	}
	return array, nil
}

func castNumber(expr ast.Expression, value runtime.Value) (runtime.Number, error) {
	n, ok := value.(runtime.Number)
	if !ok {
		return runtime.Number{}, &runtime.NotANumber{Expression: expr, Value: value}
	}
	return n, nil
}

// integralIndex converts a non-negative whole number to an int. Values past
// any possible array length saturate.
func integralIndex(n runtime.Number) (int, bool) {
	if !n.Value.IsInteger() || n.Value.IsNegative() {
		return 0, false
	}
	if n.Value.GreaterThan(maxIndex) {
		return math.MaxInt32, true
	}
	return int(n.Value.IntPart()), true
}

func arrayPosition(expr *ast.ArrayIndex, array runtime.Array, index runtime.Value) (int, error) {
	n, ok := index.(runtime.Number)
	if !ok {
		return 0, &runtime.InvalidArrayIndex{
			Array:      expr.Base,
			ArrayValue: array,
			Index:      expr.Index,
			IndexValue: index,
		}
	}
	i, ok := integralIndex(n)
	if !ok {
		return 0, &runtime.InvalidArrayIndex{
			Array:      expr.Base,
			ArrayValue: array,
			Index:      expr.Index,
			IndexValue: index,
		}
	}
	if i >= len(array) {
		return 0, &runtime.ArrayIndexOutOfBounds{
			Array:      expr.Base,
			ArrayValue: array,
			Index:      expr.Index,
			IndexValue: index,
		}
	}
	return i, nil
}
