// Package emitter writes Go test skeletons for the feasible cases of a
// decision table, using sample values that the user chose.
package emitter

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rillig/gocase/casetable"
	"github.com/rillig/gocase/locator"
)

//go:embed templates/test.go.tmpl
var testTemplateText string

var testTemplate = template.Must(template.New("test").Parse(testTemplateText))

// Output is the generated test file.
type Output struct {
	Code    []byte
	Tests   []string // the names of the generated test functions
	Skipped int      // incomplete samples, which have no name or lack a value
}

type testFile struct {
	Package string
	Source  string
	Tests   []testFunc
}

type testFunc struct {
	Title    string
	Comments []string
	FuncName string
	T        string // the name of the *testing.T parameter
	Receiver string
	Recv     string // the name of the receiver variable
	Decls    []string
	Call     string
	Fail     string
}

// names hands out local variable names for a generated test,
// avoiding those that are already taken.
type names map[string]bool

func (n names) free(base string) string {
	name := base
	for i := 2; n[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	n[name] = true
	return name
}

// Emit generates a test file for the function, with one test for each
// complete sample. The samples are validated first; if there are any
// problems, the error is a *ValidationError.
func Emit(fn *locator.Function, res *casetable.Result, samples Samples) (*Output, error) {
	ev, err := NewEvaluator(res.Table.Parameters(), res.Table.Columns(), guardCodes(fn))
	if err != nil {
		return nil, err
	}
	if problems := Validate(fn, res, ev, samples); len(problems) > 0 {
		return nil, &ValidationError{problems}
	}

	file := testFile{Package: fn.Package, Source: filepath.Base(fn.File)}
	var out Output
	analyzed := analyzedNames(res)
	for _, s := range samples.Cases {
		if !s.complete(analyzed) {
			out.Skipped++
			continue
		}
		row, _ := res.Case(s.Case)
		t := newTestFunc(fn, res, ev, s, row)
		file.Tests = append(file.Tests, t)
		out.Tests = append(out.Tests, t.FuncName)
	}

	var buf bytes.Buffer
	if err := testTemplate.Execute(&buf, file); err != nil {
		return nil, err
	}
	code, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code does not compile: %w\n%s", err, buf.Bytes())
	}
	out.Code = code
	return &out, nil
}

func guardCodes(fn *locator.Function) []string {
	codes := make([]string, len(fn.Guards))
	for i, g := range fn.Guards {
		codes[i] = g.Code
	}
	return codes
}

func newTestFunc(fn *locator.Function, res *casetable.Result, ev *Evaluator, s Sample, row casetable.CaseRow) testFunc {
	t := testFunc{
		Title:    fmt.Sprintf("Case %d of %s:", s.Case, fn.QualifiedName()),
		FuncName: "Test_" + strings.Replace(fn.QualifiedName(), ".", "_", -1) + "__" + s.Name,
	}

	for i, c := range res.Table.Columns() {
		t.Comments = append(t.Comments, fmt.Sprintf("%s: %v", c, row.Truth[i]))
	}
	values := map[string]float64{}
	for _, p := range res.Table.Parameters() {
		t.Comments = append(t.Comments, fmt.Sprintf("%s in %s", p.Name, row.Ranges[p.Name]))
		values[p.Name], _ = casetable.ParseLiteral(s.Values[p.Name])
	}
	for _, o := range ev.Guards(values) {
		t.Comments = append(t.Comments, "if "+o.String())
	}

	// The parameters keep their names unless one would hide the function
	// itself. The helper variables take names that no parameter uses.
	taken := names{}
	for _, p := range fn.Params {
		taken[p.Name] = true
	}
	if fn.Receiver == "" {
		taken[fn.Name] = true
	}
	locals := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		locals[i] = p.Name
		if fn.Receiver == "" && p.Name == fn.Name {
			locals[i] = taken.free(p.Name + "Arg")
		}
	}
	t.T = taken.free("t")

	var args []string
	for i, p := range fn.Params {
		typ, arg := p.Type, locals[i]
		if strings.HasPrefix(typ, "...") {
			typ, arg = "[]"+typ[3:], arg+"..."
		}
		if v := s.Values[p.Name]; v != "" {
			t.Decls = append(t.Decls, fmt.Sprintf("var %s %s = %s", locals[i], typ, v))
		} else {
			t.Decls = append(t.Decls, fmt.Sprintf("var %s %s", locals[i], typ))
		}
		args = append(args, arg)
	}

	call := fn.Name + "(" + strings.Join(args, ", ") + ")"
	if fn.Receiver != "" {
		t.Receiver = strings.TrimPrefix(fn.Receiver, "*")
		t.Recv = taken.free("recv")
		call = t.Recv + "." + call
	}

	var got []string
	for i := range fn.Results {
		if len(fn.Results) == 1 {
			got = append(got, taken.free("got"))
		} else {
			got = append(got, taken.free(fmt.Sprintf("got%d", i)))
		}
	}

	switch len(got) {
	case 0:
		t.Call = call
		t.Fail = t.T + `.Errorf("TODO: assert the expected effect")`
	default:
		t.Call = strings.Join(got, ", ") + " := " + call
		t.Fail = fmt.Sprintf(`%s.Errorf("TODO: assert the expected result, got %s", %s)`,
			t.T, strings.TrimSuffix(strings.Repeat("%v, ", len(got)), ", "),
			strings.Join(got, ", "))
	}
	return t
}
