// Package inference implements the Mamdani inference engine: fuzzification,
// per-rule activation, FIT/FATI aggregation, and grid-based defuzzification,
// producing a crisp value per output variable. Predict is a pure function
// of (knowledge base, input vector); it holds no state and performs no I/O.
package inference

import (
	"fmt"

	"github.com/loian/mamdani/defuzz"
	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/norms"
	"github.com/loian/mamdani/rule"
	"github.com/loian/mamdani/variable"
)

// RuleActivation is one fired rule's contribution toward its consequent's
// output variable: the stable rule index, the rule itself, and its
// computed ActivationResult (per-literal memberships and alpha).
type RuleActivation struct {
	RuleIndex int
	Rule      *rule.Rule
	Result    rule.ActivationResult
}

// FireRules runs the shared activation pipeline (fuzzify inputs, evaluate
// each active rule's antecedent under the configured T-norm, prune
// zero-alpha and skipped rules) and groups the survivors by the output
// variable name their consequent targets. Both Predict and package
// classify's Explain/Classify build on this.
func FireRules(k *kb.KnowledgeBase, inputs map[string]float64) (map[string][]RuleActivation, error) {
	tnorm, _ := norms.ResolveTNorm(k.TNorm)

	mu := func(v, label string) (float64, bool) {
		iv, ok := k.Input(v)
		if !ok {
			return 0, false
		}
		x, ok := inputs[v]
		if !ok {
			return 0, false
		}
		term, ok := iv.Term(label)
		if !ok {
			return 0, false
		}
		return term.Evaluate(iv.Clamp(x)), true
	}

	byOutput := make(map[string][]RuleActivation)
	for i, r := range k.Rules {
		if !r.Active {
			continue
		}
		if !k.IsOutput(r.Consequent.Var) {
			continue
		}
		result := r.Activate(tnorm, mu)
		if result.Skipped || result.Alpha <= 0 {
			continue
		}
		byOutput[r.Consequent.Var] = append(byOutput[r.Consequent.Var], RuleActivation{
			RuleIndex: i,
			Rule:      r,
			Result:    result,
		})
	}
	return byOutput, nil
}

// Predict computes a crisp value for every output variable in k given a
// map of input variable name -> crisp value. Missing inputs for an
// antecedent variable deactivate only the rules that reference them, not
// the whole prediction. If no rule fires for an output, its prediction is
// the midpoint of the resolved grid.
func Predict(k *kb.KnowledgeBase, inputs map[string]float64) (map[string]float64, error) {
	if len(k.Outputs()) == 0 {
		return nil, fmt.Errorf("knowledge base has no output variables")
	}

	activations, err := FireRules(k, inputs)
	if err != nil {
		return nil, err
	}
	snorm, _ := norms.ResolveSNorm(k.SNorm)

	results := make(map[string]float64, len(k.Outputs()))
	for _, out := range k.Outputs() {
		fired := activations[out.Name]
		ymin, ymax, n := defuzz.ResolveGrid(out)

		var mu defuzz.Func
		switch k.Mode {
		case kb.FATI:
			mu = fatiAggregate(out, fired, snorm)
		default:
			mu = fitAggregate(out, fired, snorm)
		}

		var y float64
		switch k.Defuzz {
		case kb.MeanOfMaxima:
			y = defuzz.MeanOfMaximaOnGrid(ymin, ymax, n, mu)
		case kb.Bisector:
			y = defuzz.BisectorOnGrid(ymin, ymax, n, mu)
		case kb.CentroidAdaptive:
			y = defuzz.CentroidAdaptive(ymin, ymax, defuzz.ResolveAdaptiveOptions(n), mu)
		default:
			y = defuzz.CentroidOnGrid(ymin, ymax, n, mu)
		}

		results[out.Name] = out.Clamp(y)
	}
	return results, nil
}

// fitAggregate builds FIT's single aggregated surface: the S-norm,
// left-folded over rules in stable order, of min(alpha(r), MF_consequent(y)).
func fitAggregate(out *variable.OutputVariable, fired []RuleActivation, snorm norms.Func) defuzz.Func {
	return func(y float64) float64 {
		if len(fired) == 0 {
			return 0
		}
		grades := make([]float64, 0, len(fired))
		for _, act := range fired {
			term, ok := out.Term(act.Rule.Consequent.Label)
			if !ok {
				continue
			}
			mfVal := term.Evaluate(y)
			grades = append(grades, min(act.Result.Alpha, mfVal))
		}
		return snorm(grades)
	}
}

// fatiAggregate first aggregates alpha per consequent label (S-norm over
// rules sharing that label), then builds the surface as FIT does over the
// per-label aggregated alphas, one label per distinct consequent.
func fatiAggregate(out *variable.OutputVariable, fired []RuleActivation, snorm norms.Func) defuzz.Func {
	labelAlphas := labelStrengths(fired, snorm)
	labels := labelOrder(fired)

	return func(y float64) float64 {
		if len(labelAlphas) == 0 {
			return 0
		}
		grades := make([]float64, 0, len(labels))
		for _, label := range labels {
			term, ok := out.Term(label)
			if !ok {
				continue
			}
			mfVal := term.Evaluate(y)
			grades = append(grades, min(labelAlphas[label], mfVal))
		}
		return snorm(grades)
	}
}

// labelStrengths computes, for each consequent label appearing among fired,
// the S-norm aggregation of every rule's alpha targeting that label.
func labelStrengths(fired []RuleActivation, snorm norms.Func) map[string]float64 {
	byLabel := make(map[string][]float64)
	order := labelOrder(fired)
	for _, act := range fired {
		label := act.Rule.Consequent.Label
		byLabel[label] = append(byLabel[label], act.Result.Alpha)
	}
	out := make(map[string]float64, len(order))
	for _, label := range order {
		out[label] = snorm(byLabel[label])
	}
	return out
}

// labelOrder returns the distinct consequent labels among fired, in the
// order of first appearance — the "sibling map" ordering spec §9 calls for
// instead of a Python-style sentinel first entry.
func labelOrder(fired []RuleActivation) []string {
	seen := make(map[string]bool)
	var order []string
	for _, act := range fired {
		label := act.Rule.Consequent.Label
		if !seen[label] {
			seen[label] = true
			order = append(order, label)
		}
	}
	return order
}
