package casetable

import (
	"fmt"

	"gopkg.in/check.v1"
)

func (s *Suite) Test_Enumerate(c *check.C) {
	a := ParameterAssignment{
		Parameter{"score", "int"},
		[]AtomicCondition{
			{"score", Greater, "2600", 0},
			{"score", Greater, "900", 1},
		},
	}

	rows, err := Enumerate(a)

	c.Check(err, check.IsNil)
	c.Check(rows, check.HasLen, 4)
	var got []string
	for _, row := range rows {
		got = append(got, fmt.Sprint(row.Truth, " ", row.Range))
	}
	c.Check(got, check.DeepEquals, []string{
		"[false false] (-Inf, 900]",
		"[false true] (900, 2600]",
		"[true false] ∅",
		"[true true] (2600, +Inf)"})
}

func (s *Suite) Test_Enumerate__no_conditions(c *check.C) {
	rows, err := Enumerate(ParameterAssignment{Parameter{"x", "int"}, nil})

	c.Check(err, check.IsNil)
	c.Check(rows, check.DeepEquals, []ParameterCase{{[]bool{}, Everything()}})
}

// The truth vectors of the rows cover each combination exactly once.
func (s *Suite) Test_Enumerate__hypercube(c *check.C) {
	for n := 1; n <= 6; n++ {
		var conds []AtomicCondition
		for i := 0; i < n; i++ {
			conds = append(conds, AtomicCondition{"x", LessEqual, fmt.Sprint(i), 0})
		}

		rows, err := Enumerate(ParameterAssignment{Parameter{"x", "int"}, conds})

		c.Check(err, check.IsNil)
		c.Check(rows, check.HasLen, 1<<n)
		seen := map[string]bool{}
		for _, row := range rows {
			c.Check(row.Truth, check.HasLen, n)
			key := fmt.Sprint(row.Truth)
			c.Check(seen[key], check.Equals, false)
			seen[key] = true
		}
		c.Check(seen, check.HasLen, 1<<n)
	}
}

func (s *Suite) Test_Enumerate__malformed_literal(c *check.C) {
	a := ParameterAssignment{
		Parameter{"x", "int"},
		[]AtomicCondition{{"x", Greater, "y", 0}},
	}

	rows, err := Enumerate(a)

	c.Check(rows, check.IsNil)
	c.Check(err, check.ErrorMatches, `malformed literal .*`)
}

// Each row's range is the left fold of the resolved conditions.
func (s *Suite) Test_Enumerate__fold(c *check.C) {
	conds := []AtomicCondition{
		{"x", Less, "10", 0},
		{"x", NotEqual, "3", 0},
		{"x", GreaterEqual, "-2.5", 1},
	}
	rows, err := Enumerate(ParameterAssignment{Parameter{"x", "float64"}, conds})
	c.Assert(err, check.IsNil)

	for _, row := range rows {
		var sets []IntervalSet
		for i, cond := range conds {
			set, err := Resolve(cond, row.Truth[i])
			c.Assert(err, check.IsNil)
			sets = append(sets, set)
		}
		c.Check(row.Range, check.DeepEquals, IntersectAll(sets...))
	}
	c.Check(rows[7].Range.String(), check.Equals, "[-2.5, 3) ∪ (3, 10)")
}
