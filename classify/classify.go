// Package classify implements rule-activation explanation and label-strength
// classification: the same fuzzification/activation pipeline the inference
// engine uses, without defuzzification. Explain and Classify are pure
// functions of (knowledge base, input vector).
package classify

import (
	"github.com/loian/mamdani/inference"
	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/norms"
)

// AntecedentEntry is one antecedent literal's contribution to an
// explanation entry: the variable/label it matched, the crisp input value,
// and the resulting membership degree.
type AntecedentEntry struct {
	Var   string  `json:"var"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Mu    float64 `json:"mu"`
}

// Entry is one fired rule's explanation record, an explicit struct in
// place of the untyped dictionaries the original source used.
type Entry struct {
	RuleIndex  int               `json:"rule_index"`
	Antecedent []AntecedentEntry `json:"antecedent"`
	Alpha      float64           `json:"alpha"`
	Weight     float64           `json:"weight"`
	Consequent struct {
		Var   string `json:"var"`
		Label string `json:"label"`
	} `json:"consequent"`
}

// Explanation is one output variable's explanation: the fired entries plus,
// in FATI mode, the per-label S-norm aggregation as a sibling map rather
// than a sentinel first entry (per spec §9's explicit design note).
type Explanation struct {
	Entries        []Entry            `json:"entries"`
	LabelStrengths map[string]float64 `json:"label_strengths,omitempty"` // non-nil only in FATI mode
}

// Explain runs the shared activation pipeline and reports, per output
// variable, every rule whose alpha is >= threshold. In FATI mode each
// Explanation also carries the label-strengths sibling map.
func Explain(k *kb.KnowledgeBase, inputs map[string]float64, threshold float64) (map[string]Explanation, error) {
	activations, err := inference.FireRules(k, inputs)
	if err != nil {
		return nil, err
	}
	snorm, _ := norms.ResolveSNorm(k.SNorm)

	out := make(map[string]Explanation, len(k.Outputs()))
	for _, o := range k.Outputs() {
		fired := activations[o.Name]

		var entries []Entry
		var labelAlphas map[string][]float64
		if k.Mode == kb.FATI {
			labelAlphas = make(map[string][]float64)
		}

		for _, act := range fired {
			if act.Result.Alpha < threshold {
				continue
			}
			entry := Entry{
				RuleIndex: act.RuleIndex,
				Alpha:     act.Result.Alpha,
				Weight:    act.Rule.Weight,
			}
			entry.Consequent.Var = act.Rule.Consequent.Var
			entry.Consequent.Label = act.Rule.Consequent.Label
			for i, lit := range act.Rule.Antecedent {
				entry.Antecedent = append(entry.Antecedent, AntecedentEntry{
					Var:   lit.Var,
					Label: lit.Label,
					Value: inputs[lit.Var],
					Mu:    act.Result.Memberships[i],
				})
			}
			entries = append(entries, entry)

			if labelAlphas != nil {
				label := act.Rule.Consequent.Label
				labelAlphas[label] = append(labelAlphas[label], act.Result.Alpha)
			}
		}

		exp := Explanation{Entries: entries}
		if labelAlphas != nil {
			exp.LabelStrengths = make(map[string]float64, len(labelAlphas))
			for label, alphas := range labelAlphas {
				exp.LabelStrengths[label] = snorm(alphas)
			}
		}
		out[o.Name] = exp
	}
	return out, nil
}

// Classification is one output variable's chosen label (nil if no rule
// fired) plus the per-label strength map it was chosen from.
type Classification struct {
	Chosen    *string
	Strengths map[string]float64
}

// Classify reports, per output variable, the chosen label and its
// per-label strengths. FIT: strengths[L] = max alpha over rules with
// consequent label L. FATI: strengths is Explain's label-strengths map.
// Ties are broken by first-encountered label.
func Classify(k *kb.KnowledgeBase, inputs map[string]float64) (map[string]Classification, error) {
	explanations, err := Explain(k, inputs, 0)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Classification, len(explanations))
	for name, exp := range explanations {
		if k.Mode == kb.FATI {
			out[name] = classificationFromStrengths(exp.LabelStrengths, fatiLabelOrder(exp))
			continue
		}

		strengths := make(map[string]float64)
		var order []string
		for _, entry := range exp.Entries {
			label := entry.Consequent.Label
			if _, seen := strengths[label]; !seen {
				order = append(order, label)
			}
			if entry.Alpha > strengths[label] {
				strengths[label] = entry.Alpha
			}
		}
		out[name] = classificationFromStrengths(strengths, order)
	}
	return out, nil
}

func fatiLabelOrder(exp Explanation) []string {
	seen := make(map[string]bool)
	var order []string
	for _, entry := range exp.Entries {
		label := entry.Consequent.Label
		if !seen[label] {
			seen[label] = true
			order = append(order, label)
		}
	}
	return order
}

func classificationFromStrengths(strengths map[string]float64, order []string) Classification {
	if len(strengths) == 0 {
		return Classification{Strengths: map[string]float64{}}
	}
	var chosen string
	best := -1.0
	for _, label := range order {
		if strengths[label] > best {
			best = strengths[label]
			chosen = label
		}
	}
	return Classification{Chosen: &chosen, Strengths: strengths}
}
