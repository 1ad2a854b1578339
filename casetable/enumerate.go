package casetable

// ParameterCase is one row of a parameter's truth table: an assumed truth
// value for each of the parameter's conditions, and the numbers that
// satisfy all of them at the same time.
type ParameterCase struct {
	Truth []bool
	Range IntervalSet
}

// Enumerate builds the truth table of a single parameter.
//
// For n conditions, there are 2^n rows. Row r assumes condition i to be true
// if bit (n-1-i) of r is set, so the first condition is the most significant
// bit, and the first row assumes all conditions to be false.
//
// A parameter without conditions has a single row that allows any number.
func Enumerate(a ParameterAssignment) ([]ParameterCase, error) {
	n := len(a.Conditions)

	// Each condition is resolved only twice instead of once per row.
	resolved := make([][2]IntervalSet, n)
	for i, cond := range a.Conditions {
		for _, truth := range []bool{false, true} {
			set, err := Resolve(cond, truth)
			if err != nil {
				return nil, err
			}
			resolved[i][b2i(truth)] = set
		}
	}

	rows := make([]ParameterCase, 1<<n)
	for r := range rows {
		truth := make([]bool, n)
		sets := make([]IntervalSet, n)
		for i := range truth {
			truth[i] = r&(1<<(n-1-i)) != 0
			sets[i] = resolved[i][b2i(truth[i])]
		}
		rows[r] = ParameterCase{truth, IntersectAll(sets...)}
	}
	return rows, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
