package casetable

import "fmt"

// Kind is the declared type of a parameter, such as "int" or "float64".
type Kind string

var integerKinds = map[Kind]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,

	// Common spellings in hand-written parameter lists.
	"short": true, "long": true,
}

var floatKinds = map[Kind]bool{
	"float32": true, "float64": true,
	"float": true, "double": true,
}

// IsNumeric tells whether the parameter kind is supported by the analysis.
// All numeric kinds are treated as the real number line.
func (k Kind) IsNumeric() bool { return integerKinds[k] || floatKinds[k] }

func (k Kind) IsInteger() bool { return integerKinds[k] }

// CheckKind fails with ErrUnsupportedParameterKind for non-numeric kinds.
func CheckKind(p Parameter) error {
	if p.Kind.IsNumeric() {
		return nil
	}
	return &Error{ErrUnsupportedParameterKind, -1, p.Name,
		fmt.Sprintf("type %q is not numeric", string(p.Kind))}
}

// Parameter is a parameter of the analyzed function.
type Parameter struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// ParameterAssignment lists the conditions that restrict a single parameter.
//
// Each condition is in the form 'parameter operator literal'.
// The order of the conditions is the order in which they appear in the
// guards; it defines the bit positions of the parameter's truth vectors.
type ParameterAssignment struct {
	Parameter  Parameter
	Conditions []AtomicCondition
}

// Group assigns each condition to the parameter it references.
//
// A condition that has the parameter on the right-hand side is swapped,
// so that '5 < x' becomes 'x > 5'. Conditions that reference no parameter
// or two parameters are reported as warnings.
func Group(params []Parameter, conds []AtomicCondition) ([]ParameterAssignment, []Warning) {
	index := make(map[string]int, len(params))
	assignments := make([]ParameterAssignment, len(params))
	for i, p := range params {
		index[p.Name] = i
		assignments[i].Parameter = p
	}

	var warnings []Warning
	for _, cond := range conds {
		li, leftIsParam := index[cond.Left]
		ri, rightIsParam := index[cond.Right]

		switch {
		case leftIsParam && rightIsParam:
			warnings = append(warnings, Warning{cond, "compares two parameters"})
		case leftIsParam:
			assignments[li].Conditions = append(assignments[li].Conditions, cond)
		case rightIsParam:
			assignments[ri].Conditions = append(assignments[ri].Conditions, cond.swapped())
		default:
			warnings = append(warnings, Warning{cond, "references no parameter"})
		}
	}
	return assignments, warnings
}
