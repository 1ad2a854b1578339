// Package casetable computes the semantically distinct test cases of a
// function from the numeric conditions of its 'if' statements.
//
// Each guard expression is split into atomic conditions of the form
// 'operand operator operand'. The conditions are grouped by the parameter
// they restrict, and for each parameter, all combinations of truth values
// are resolved to the intervals of numbers that satisfy them. The Cartesian
// product of these per-parameter tables is the decision table, and a row
// is feasible if each parameter has at least one number left.
package casetable

import "fmt"

// MaxConditions limits the number of atomic conditions that take part in
// the decision table, which has 2^n rows for n conditions.
const MaxConditions = 24

// Result is the outcome of a successful analysis.
type Result struct {
	Table    *DecisionTable
	Feasible []int // indexes into Table, see DecisionTable.Feasible
	Warnings []Warning
}

// Case returns the row for the given 1-based case number.
func (r *Result) Case(number int) (CaseRow, bool) {
	if number < 1 || number > len(r.Feasible) {
		return CaseRow{}, false
	}
	return r.Table.Row(r.Feasible[number-1]), true
}

// Analyze computes the decision table for the given parameters and guard
// expressions.
//
// Either the whole analysis succeeds or it fails with an *Error;
// conditions that cannot be attributed to a single parameter are not errors
// but are listed in Result.Warnings.
func Analyze(params []Parameter, guards []string) (*Result, error) {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if err := CheckKind(p); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, &Error{ErrDuplicateParameter, -1, p.Name, "parameter is declared twice"}
		}
		seen[p.Name] = true
	}

	conds, err := SplitAll(guards)
	if err != nil {
		return nil, err
	}

	assignments, warnings := Group(params, conds)

	total := 0
	for _, a := range assignments {
		total += len(a.Conditions)
	}
	if total > MaxConditions {
		return nil, &Error{ErrTooManyConditions, -1, fmt.Sprint(total),
			fmt.Sprintf("the decision table would have 2^%d rows, the limit is 2^%d", total, MaxConditions)}
	}

	tables := make([][]ParameterCase, len(assignments))
	for i, a := range assignments {
		tables[i], err = Enumerate(a)
		if err != nil {
			return nil, err
		}
	}

	table := Combine(assignments, tables)
	return &Result{table, table.Feasible(), warnings}, nil
}
