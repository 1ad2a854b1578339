package emitter

import (
	"fmt"
	"math"

	"github.com/google/cel-go/cel"

	"github.com/rillig/gocase/casetable"
)

// Evaluator evaluates the conditions of a function for concrete parameter
// values, using CEL, whose syntax for comparisons and boolean operators
// matches Go's.
//
// Unlike the decision table, the evaluator respects operator precedence
// and parentheses, so it shows which way each 'if' statement really goes.
type Evaluator struct {
	params  []casetable.Parameter
	columns []program
	guards  []program
}

type program struct {
	code string
	prg  cel.Program
	err  error // why the code cannot be evaluated
}

// Outcome is the result of evaluating a condition.
type Outcome struct {
	Code  string
	Value bool
	Err   error // if the condition cannot be evaluated, e.g. since it calls a function
}

func (o Outcome) String() string {
	if o.Err != nil {
		return o.Code + ": unknown"
	}
	return fmt.Sprintf("%s: %v", o.Code, o.Value)
}

// NewEvaluator compiles the columns of the decision table and the guard
// expressions. Expressions that are not valid CEL are not an error here;
// their outcomes will be unknown.
func NewEvaluator(params []casetable.Parameter, columns []casetable.AtomicCondition, guards []string) (*Evaluator, error) {
	opts := []cel.EnvOption{cel.CrossTypeNumericComparisons(true)}
	for _, p := range params {
		opts = append(opts, cel.Variable(p.Name, cel.DynType))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ev := Evaluator{params: params}
	for _, c := range columns {
		ev.columns = append(ev.columns, compile(env, c.String()))
	}
	for _, g := range guards {
		ev.guards = append(ev.guards, compile(env, g))
	}
	return &ev, nil
}

func compile(env *cel.Env, code string) program {
	ast, issues := env.Compile(code)
	if issues != nil && issues.Err() != nil {
		return program{code, nil, fmt.Errorf("compile error: %w", issues.Err())}
	}
	if !ast.OutputType().IsAssignableType(cel.BoolType) {
		return program{code, nil, fmt.Errorf("%q is not a boolean expression", code)}
	}
	prg, err := env.Program(ast, cel.CostLimit(100000))
	if err != nil {
		return program{code, nil, fmt.Errorf("program creation error: %w", err)}
	}
	return program{code, prg, nil}
}

// activation converts the parsed sample values to CEL values.
func (ev *Evaluator) activation(values map[string]float64) map[string]any {
	vars := make(map[string]any, len(ev.params))
	for _, p := range ev.params {
		v, ok := values[p.Name]
		switch {
		case !ok:
			continue
		case p.Kind.IsInteger() && v > math.MaxInt64:
			vars[p.Name] = uint64(v)
		case p.Kind.IsInteger():
			vars[p.Name] = int64(v)
		default:
			vars[p.Name] = v
		}
	}
	return vars
}

func (ev *Evaluator) eval(programs []program, values map[string]float64) []Outcome {
	vars := ev.activation(values)
	outcomes := make([]Outcome, len(programs))
	for i, p := range programs {
		outcomes[i] = Outcome{Code: p.code, Err: p.err}
		if p.err != nil {
			continue
		}
		out, _, err := p.prg.Eval(vars)
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		b, ok := out.Value().(bool)
		if !ok {
			outcomes[i].Err = fmt.Errorf("%q evaluates to %v, not a boolean", p.code, out.Value())
			continue
		}
		outcomes[i].Value = b
	}
	return outcomes
}

// Columns evaluates each atomic condition of the decision table,
// in the order of the table's columns.
func (ev *Evaluator) Columns(values map[string]float64) []Outcome {
	return ev.eval(ev.columns, values)
}

// Guards evaluates each complete guard expression.
func (ev *Evaluator) Guards(values map[string]float64) []Outcome {
	return ev.eval(ev.guards, values)
}
