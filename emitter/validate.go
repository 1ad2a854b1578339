package emitter

import (
	"fmt"
	"go/token"
	"math"
	"strings"

	"github.com/rillig/gocase/casetable"
	"github.com/rillig/gocase/locator"
)

// Problem describes why a sample cannot be turned into a test.
type Problem struct {
	Case int    `json:"case"`
	Name string `json:"name,omitempty"`
	Msg  string `json:"msg"`
}

func (p Problem) String() string {
	if p.Name == "" {
		return fmt.Sprintf("case %d: %s", p.Case, p.Msg)
	}
	return fmt.Sprintf("case %d (%s): %s", p.Case, p.Name, p.Msg)
}

// ValidationError lists all problems with the samples.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "invalid sample values:\n\t" + strings.Join(msgs, "\n\t")
}

func analyzedNames(res *casetable.Result) []string {
	var names []string
	for _, p := range res.Table.Parameters() {
		names = append(names, p.Name)
	}
	return names
}

// Validate checks that each complete sample refers to a feasible case and
// that its values lie in the ranges of that case.
//
// If ev is not nil, it additionally checks that each atomic condition
// evaluates to the truth value that the case assumes.
func Validate(fn *locator.Function, res *casetable.Result, ev *Evaluator, samples Samples) []Problem {
	var problems []Problem
	names := map[string]bool{}
	analyzed := analyzedNames(res)

	for _, s := range samples.Cases {
		if !s.complete(analyzed) {
			continue
		}
		add := func(format string, args ...interface{}) {
			problems = append(problems, Problem{s.Case, s.Name, fmt.Sprintf(format, args...)})
		}

		if !token.IsIdentifier(s.Name) {
			add("the name must be a Go identifier")
		} else if names[s.Name] {
			add("the name is already used by another case")
		}
		names[s.Name] = true

		for name := range s.Values {
			if !hasParam(fn, name) {
				add("%s is not a parameter of %s", name, fn.QualifiedName())
			}
		}

		row, ok := res.Case(s.Case)
		if !ok {
			add("there is no such case, the feasible cases are 1 to %d", len(res.Feasible))
			continue
		}

		before := len(problems)
		values := make(map[string]float64, len(analyzed))
		for _, p := range res.Table.Parameters() {
			lit := s.Values[p.Name]
			v, err := casetable.ParseLiteral(lit)
			switch {
			case err != nil:
				add("%s: %s is not a number", p.Name, lit)
			case p.Kind.IsInteger() && v != math.Trunc(v):
				add("%s: %s is not an integer", p.Name, lit)
			case !row.Ranges[p.Name].Contains(v):
				add("%s: %s is not in %s", p.Name, lit, row.Ranges[p.Name])
			}
			values[p.Name] = v
		}

		if ev == nil || len(problems) > before {
			continue
		}
		for i, o := range ev.Columns(values) {
			if o.Err == nil && o.Value != row.Truth[i] {
				add("%s is %v, but the case needs it to be %v", o.Code, o.Value, row.Truth[i])
			}
		}
	}
	return problems
}

func hasParam(fn *locator.Function, name string) bool {
	for _, p := range fn.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}
