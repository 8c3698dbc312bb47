// Package variable implements InputVariable and OutputVariable: linguistic
// variables with a numeric domain and an ordered set of labeled membership
// functions ("terms"). Term order is the insertion order in which `mf`
// directives were parsed (or synthesized by the learner); callers that
// iterate terms — the CLI's `show`, `apply`'s class-label columns, the
// serializer — observe that same order, never map iteration order.
package variable

import (
	"fmt"

	"github.com/loian/mamdani/membership"
)

// Term pairs a label with its membership function.
type Term struct {
	Label string
	MF    membership.MembershipFunction
}

// terms is the ordered-map building block shared by InputVariable and
// OutputVariable: an append-only slice plus an index for O(1) lookup.
type terms struct {
	order []Term
	index map[string]int
}

func newTerms() terms {
	return terms{index: make(map[string]int)}
}

func (t *terms) add(label string, mf membership.MembershipFunction) error {
	if label == "" {
		return fmt.Errorf("term label cannot be empty")
	}
	if _, exists := t.index[label]; exists {
		return fmt.Errorf("label %q already defined", label)
	}
	t.index[label] = len(t.order)
	t.order = append(t.order, Term{Label: label, MF: mf})
	return nil
}

func (t *terms) get(label string) (membership.MembershipFunction, bool) {
	i, ok := t.index[label]
	if !ok {
		return nil, false
	}
	return t.order[i].MF, true
}

func (t *terms) all() []Term {
	return t.order
}

// InputVariable carries a name, a numeric domain, and its ordered terms.
type InputVariable struct {
	Name string
	VMin float64
	VMax float64
	t    terms
}

// NewInputVariable creates an input variable. Requires vmin < vmax.
func NewInputVariable(name string, vmin, vmax float64) (*InputVariable, error) {
	if name == "" {
		return nil, fmt.Errorf("variable name cannot be empty")
	}
	if vmin >= vmax {
		return nil, fmt.Errorf("vmin (%.4f) must be < vmax (%.4f) for variable %q", vmin, vmax, name)
	}
	return &InputVariable{Name: name, VMin: vmin, VMax: vmax, t: newTerms()}, nil
}

// AddTerm adds a labeled membership function. Labels must be unique per variable.
func (v *InputVariable) AddTerm(label string, mf membership.MembershipFunction) error {
	if err := v.t.add(label, mf); err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}
	return nil
}

// Term returns the membership function for label, if defined.
func (v *InputVariable) Term(label string) (membership.MembershipFunction, bool) {
	return v.t.get(label)
}

// Terms returns the terms in insertion order.
func (v *InputVariable) Terms() []Term {
	return v.t.all()
}

// Fuzzify returns the membership degree of x under every term, keyed by label.
func (v *InputVariable) Fuzzify(x float64) map[string]float64 {
	out := make(map[string]float64, len(v.t.order))
	for _, term := range v.t.order {
		out[term.Label] = term.MF.Evaluate(x)
	}
	return out
}

// Clamp restricts x to [VMin, VMax].
func (v *InputVariable) Clamp(x float64) float64 {
	if x < v.VMin {
		return v.VMin
	}
	if x > v.VMax {
		return v.VMax
	}
	return x
}

// Grid is the (ymin, ymax, n) sampling range used for defuzzification.
// N must be >= 3. The sentinel (0, 1, 101) requests that the engine derive
// the range from the union of the variable's MF supports (see package
// defuzz's ResolveGrid).
type Grid struct {
	YMin float64
	YMax float64
	N    int
}

// SentinelGrid is the default grid recorded on a freshly constructed
// OutputVariable, before any `defuzz grid ...` directive narrows it.
var SentinelGrid = Grid{YMin: 0, YMax: 1, N: 101}

// OutputVariable adds a defuzzification grid to the base linguistic variable.
type OutputVariable struct {
	Name string
	VMin float64
	VMax float64
	Grid Grid
	t    terms
}

// NewOutputVariable creates an output variable with the sentinel grid.
func NewOutputVariable(name string, vmin, vmax float64) (*OutputVariable, error) {
	if name == "" {
		return nil, fmt.Errorf("variable name cannot be empty")
	}
	if vmin >= vmax {
		return nil, fmt.Errorf("vmin (%.4f) must be < vmax (%.4f) for variable %q", vmin, vmax, name)
	}
	return &OutputVariable{Name: name, VMin: vmin, VMax: vmax, Grid: SentinelGrid, t: newTerms()}, nil
}

// AddTerm adds a labeled membership function. Labels must be unique per variable.
func (v *OutputVariable) AddTerm(label string, mf membership.MembershipFunction) error {
	if err := v.t.add(label, mf); err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}
	return nil
}

// Term returns the membership function for label, if defined.
func (v *OutputVariable) Term(label string) (membership.MembershipFunction, bool) {
	return v.t.get(label)
}

// Terms returns the terms in insertion order.
func (v *OutputVariable) Terms() []Term {
	return v.t.all()
}

// Clamp restricts y to [VMin, VMax].
func (v *OutputVariable) Clamp(y float64) float64 {
	if y < v.VMin {
		return v.VMin
	}
	if y > v.VMax {
		return v.VMax
	}
	return y
}
