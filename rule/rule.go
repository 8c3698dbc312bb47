// Package rule implements the fuzzy IF-THEN rule: a non-empty conjunction of
// (variable,label) antecedent literals and a single consequent literal,
// combined by a caller-supplied T-norm into a firing strength.
package rule

import (
	"fmt"

	"github.com/loian/mamdani/norms"
)

// Literal is a (variable,label) pair: an antecedent term or a consequent.
type Literal struct {
	Var   string
	Label string
}

// Rule is antecedent AND consequent AND weight AND active, exactly as read
// from a `rule IF ... THEN ...` directive or synthesized by the learner.
// There is no per-rule OR or negation: the antecedent literals are always
// AND-combined via the knowledge base's configured T-norm.
type Rule struct {
	Antecedent []Literal
	Consequent Literal
	Weight     float64
	Active     bool
}

// New creates a rule with the given consequent and one or more antecedent
// literals. Weight defaults to 1.0 and active defaults to true; callers that
// need `inactive` or an explicit weight set the fields directly afterward.
func New(consequent Literal, antecedent ...Literal) (*Rule, error) {
	if consequent.Var == "" || consequent.Label == "" {
		return nil, fmt.Errorf("consequent variable and label cannot be empty")
	}
	if len(antecedent) == 0 {
		return nil, fmt.Errorf("rule antecedent cannot be empty")
	}
	for _, lit := range antecedent {
		if lit.Var == "" || lit.Label == "" {
			return nil, fmt.Errorf("antecedent variable and label cannot be empty")
		}
	}
	ant := make([]Literal, len(antecedent))
	copy(ant, antecedent)
	return &Rule{
		Antecedent: ant,
		Consequent: consequent,
		Weight:     1.0,
		Active:     true,
	}, nil
}

// AddAntecedent appends a literal to the rule's antecedent conjunction.
func (r *Rule) AddAntecedent(v, label string) error {
	if v == "" || label == "" {
		return fmt.Errorf("antecedent variable and label cannot be empty")
	}
	r.Antecedent = append(r.Antecedent, Literal{Var: v, Label: label})
	return nil
}

// SetWeight sets the rule's real-valued weight. Weight must be >= 0; unlike
// the teacher's [0,1]-clamped weight, no upper bound is enforced here, since
// the knowledge-base model only requires weight >= 0.
func (r *Rule) SetWeight(weight float64) error {
	if weight < 0 {
		return fmt.Errorf("weight must be >= 0, got %.4f", weight)
	}
	r.Weight = weight
	return nil
}

// ActivationResult carries a rule's per-literal membership degrees together
// with the combined firing strength alpha, as an explicit record rather than
// an untyped map.
type ActivationResult struct {
	Memberships []float64 // parallel to r.Antecedent
	Alpha       float64
	Skipped     bool // an antecedent literal referenced an undefined term
}

// Activate computes the rule's firing strength given a membership lookup
// mu(variable, label) (degree, ok). A literal whose variable or label is
// undefined marks the rule Skipped (a soft RuntimeSkip) rather than failing;
// otherwise alpha is clip01(T(mu...) * weight).
func (r *Rule) Activate(tnorm norms.Func, mu func(variable, label string) (float64, bool)) ActivationResult {
	values := make([]float64, len(r.Antecedent))
	for i, lit := range r.Antecedent {
		degree, ok := mu(lit.Var, lit.Label)
		if !ok {
			return ActivationResult{Skipped: true}
		}
		values[i] = degree
	}
	alpha := tnorm(values) * r.Weight
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return ActivationResult{Memberships: values, Alpha: alpha}
}
