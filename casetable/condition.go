package casetable

import (
	"fmt"
	"strings"
)

// Operator is a relational operator of an atomic condition.
type Operator string

const (
	Less         Operator = "<"
	LessEqual    Operator = "<="
	Greater      Operator = ">"
	GreaterEqual Operator = ">="
	Equal        Operator = "=="
	NotEqual     Operator = "!="
)

func (op Operator) Valid() bool {
	switch op {
	case Less, LessEqual, Greater, GreaterEqual, Equal, NotEqual:
		return true
	}
	return false
}

// Negate returns the operator that is true exactly when op is false.
func (op Operator) Negate() Operator {
	switch op {
	case Less:
		return GreaterEqual
	case LessEqual:
		return Greater
	case Greater:
		return LessEqual
	case GreaterEqual:
		return Less
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	}
	panic(fmt.Sprintf("invalid operator %q", string(op)))
}

// Mirror returns the operator to use when both operands are swapped,
// so that 'x op y' is equivalent to 'y op.Mirror() x'.
func (op Operator) Mirror() Operator {
	switch op {
	case Less:
		return Greater
	case LessEqual:
		return GreaterEqual
	case Greater:
		return Less
	case GreaterEqual:
		return LessEqual
	case Equal, NotEqual:
		return op
	}
	panic(fmt.Sprintf("invalid operator %q", string(op)))
}

// AtomicCondition is a single comparison from a guard, such as 'score > 2600'.
type AtomicCondition struct {
	Left  string
	Op    Operator
	Right string
	Guard int // index of the guard expression the condition comes from
}

func (c AtomicCondition) String() string {
	return c.Left + " " + string(c.Op) + " " + c.Right
}

// swapped returns the equivalent condition with both operands swapped.
func (c AtomicCondition) swapped() AtomicCondition {
	return AtomicCondition{c.Right, c.Op.Mirror(), c.Left, c.Guard}
}

func isConnective(token string) bool {
	return token == "&&" || token == "||"
}

// Split decomposes a guard expression into its atomic conditions.
//
// The guard is split on whitespace; each '&&' or '||' ends one condition.
// There is no operator precedence and no grouping, so parentheses are just
// part of the surrounding tokens.
func Split(guard string, guardIndex int) ([]AtomicCondition, error) {
	var conds []AtomicCondition
	var run []string

	closeRun := func() error {
		if len(run) != 3 || !Operator(run[1]).Valid() {
			return &Error{ErrMalformedGuard, guardIndex, guard,
				fmt.Sprintf("%q is not of the form 'operand operator operand'", strings.Join(run, " "))}
		}
		conds = append(conds, AtomicCondition{run[0], Operator(run[1]), run[2], guardIndex})
		run = nil
		return nil
	}

	for _, token := range strings.Fields(guard) {
		if isConnective(token) {
			if err := closeRun(); err != nil {
				return nil, err
			}
			continue
		}
		run = append(run, token)
	}
	if err := closeRun(); err != nil {
		return nil, err
	}
	return conds, nil
}

// SplitAll splits each guard and concatenates the resulting conditions,
// in the order of the guards.
func SplitAll(guards []string) ([]AtomicCondition, error) {
	var all []AtomicCondition
	for i, guard := range guards {
		conds, err := Split(guard, i)
		if err != nil {
			return nil, err
		}
		all = append(all, conds...)
	}
	return all, nil
}
