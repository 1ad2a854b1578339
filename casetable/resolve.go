package casetable

import (
	"math"
	"strconv"
)

// ParseLiteral parses a numeric literal using Go's syntax for integer and
// floating-point literals, such as 42, -7, 0x1F, 1_000 or 2.5e3.
func ParseLiteral(s string) (float64, error) {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i), nil
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return float64(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &Error{ErrMalformedLiteral, -1, s, "not a finite number"}
	}
	return f, nil
}

// Resolve returns the numbers for which the condition has the assumed truth
// value. The condition must be in the form 'parameter operator literal'.
//
// A false condition is resolved as its negation, see Operator.Negate.
func Resolve(cond AtomicCondition, assumedTrue bool) (IntervalSet, error) {
	v, err := ParseLiteral(cond.Right)
	if err != nil {
		return nil, &Error{ErrMalformedLiteral, cond.Guard, cond.String(),
			strconv.Quote(cond.Right) + " is not a finite number"}
	}

	op := cond.Op
	if !assumedTrue {
		op = op.Negate()
	}
	return resolveOp(op, v), nil
}

func resolveOp(op Operator, v float64) IntervalSet {
	inf := math.Inf(1)
	switch op {
	case Less:
		return IntervalSet{mustInterval(false, -inf, v, false)}
	case LessEqual:
		return IntervalSet{mustInterval(false, -inf, v, true)}
	case Greater:
		return IntervalSet{mustInterval(false, v, inf, false)}
	case GreaterEqual:
		return IntervalSet{mustInterval(true, v, inf, false)}
	case Equal:
		return IntervalSet{mustInterval(true, v, v, true)}
	case NotEqual:
		return IntervalSet{
			mustInterval(false, -inf, v, false),
			mustInterval(false, v, inf, false),
		}
	}
	panic("invalid operator " + strconv.Quote(string(op)))
}
