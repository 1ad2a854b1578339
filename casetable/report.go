package casetable

// Report is the serializable form of a Result, for JSON and YAML output.
type Report struct {
	Parameters []ReportParameter `json:"parameters" yaml:"parameters"`
	Columns    []string          `json:"columns" yaml:"columns"`
	Rows       []ReportRow       `json:"rows" yaml:"rows"`
	Warnings   []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type ReportParameter struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
}

type ReportRow struct {
	Truth    []bool   `json:"truth" yaml:"truth,flow"`
	Feasible bool     `json:"feasible" yaml:"feasible"`
	Case     int      `json:"case,omitempty" yaml:"case,omitempty"` // 1-based, only for feasible rows
	Ranges   []string `json:"ranges" yaml:"ranges,flow"`            // in parameter order
}

// Report converts the result. If all is false, only the feasible rows are
// included.
func (r *Result) Report(all bool) Report {
	var rep Report
	params := r.Table.Parameters()
	for _, p := range params {
		rep.Parameters = append(rep.Parameters, ReportParameter{p.Name, string(p.Kind)})
	}
	for _, c := range r.Table.Columns() {
		rep.Columns = append(rep.Columns, c.String())
	}

	caseNumber := make(map[int]int, len(r.Feasible))
	for i, index := range r.Feasible {
		caseNumber[index] = i + 1
	}

	for index, row := range r.Table.All() {
		n := caseNumber[index]
		if n == 0 && !all {
			continue
		}
		ranges := make([]string, len(params))
		for i, p := range params {
			ranges[i] = row.Ranges[p.Name].String()
		}
		rep.Rows = append(rep.Rows, ReportRow{row.Truth, n != 0, n, ranges})
	}

	for _, w := range r.Warnings {
		rep.Warnings = append(rep.Warnings, w.String())
	}
	return rep
}
