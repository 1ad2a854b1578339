package casetable

import "iter"

// CaseRow is one row of the decision table.
type CaseRow struct {
	Index  int
	Truth  []bool                 // one value per column of the table
	Ranges map[string]IntervalSet // by parameter name
}

// Feasible tells whether there are values for all parameters that make
// each condition of the row have the assumed truth value.
func (r CaseRow) Feasible() bool {
	for _, set := range r.Ranges {
		if set.IsEmpty() {
			return false
		}
	}
	return true
}

// DecisionTable is the Cartesian product of the truth tables of all
// parameters.
//
// The rows are computed on demand from the per-parameter tables, so the
// table never holds all rows in memory.
type DecisionTable struct {
	params  []Parameter
	columns []AtomicCondition
	tables  [][]ParameterCase
	size    int
}

// Combine combines the truth tables of the parameters, which must be given
// in the same order as the assignments.
//
// The first parameter varies slowest. The truth vector of a row is the
// concatenation of the parameters' truth vectors, in parameter order.
func Combine(assignments []ParameterAssignment, tables [][]ParameterCase) *DecisionTable {
	if len(assignments) != len(tables) {
		panic("each assignment needs exactly one truth table")
	}

	t := DecisionTable{size: 1}
	for i, a := range assignments {
		t.params = append(t.params, a.Parameter)
		t.columns = append(t.columns, a.Conditions...)
		t.tables = append(t.tables, tables[i])
		t.size *= len(tables[i])
	}
	return &t
}

// Len returns the number of rows, including the infeasible ones.
func (t *DecisionTable) Len() int { return t.size }

// Parameters returns the parameters in the order of the table.
func (t *DecisionTable) Parameters() []Parameter {
	return append([]Parameter(nil), t.params...)
}

// Columns returns the atomic conditions, in the same order as the truth
// vectors of the rows. This order is grouped by parameter.
func (t *DecisionTable) Columns() []AtomicCondition {
	return append([]AtomicCondition(nil), t.columns...)
}

// parts returns for each parameter the index into its own truth table.
func (t *DecisionTable) parts(index int) []int {
	parts := make([]int, len(t.tables))
	for p := len(t.tables) - 1; p >= 0; p-- {
		n := len(t.tables[p])
		parts[p] = index % n
		index /= n
	}
	return parts
}

// Row returns the row with the given index, which must be in [0, Len()).
func (t *DecisionTable) Row(index int) CaseRow {
	if index < 0 || index >= t.size {
		panic("row index out of range")
	}

	row := CaseRow{
		Index:  index,
		Truth:  make([]bool, 0, len(t.columns)),
		Ranges: make(map[string]IntervalSet, len(t.params)),
	}
	for p, part := range t.parts(index) {
		pc := t.tables[p][part]
		row.Truth = append(row.Truth, pc.Truth...)
		row.Ranges[t.params[p].Name] = pc.Range
	}
	return row
}

// All yields the rows in table order. The sequence can be iterated
// multiple times.
func (t *DecisionTable) All() iter.Seq2[int, CaseRow] {
	return func(yield func(int, CaseRow) bool) {
		for i := 0; i < t.size; i++ {
			if !yield(i, t.Row(i)) {
				return
			}
		}
	}
}

// Feasible returns the indexes of the feasible rows, in table order.
// The k-th entry is presented to the user as "case k+1".
func (t *DecisionTable) Feasible() []int {
	var feasible []int
	for i := 0; i < t.size; i++ {
		if t.feasible(i) {
			feasible = append(feasible, i)
		}
	}
	return feasible
}

func (t *DecisionTable) feasible(index int) bool {
	for p, part := range t.parts(index) {
		if t.tables[p][part].Range.IsEmpty() {
			return false
		}
	}
	return true
}
