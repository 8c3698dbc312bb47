package learn

import "github.com/loian/mamdani/rule"

// dedupEntry is one surviving (antecedent, consequent) combination and the
// maximum strength observed for it across the training table.
type dedupEntry struct {
	antecedent []rule.Literal
	consequent rule.Literal
	strength   float64
}

// ruleDedup keeps the maximum-strength rule per (antecedent tuple,
// consequent label) key, preserving the order each key was first seen —
// the insertion order the assembled KB's rules must follow per §4.7.
type ruleDedup struct {
	order   []string
	entries map[string]*dedupEntry
}

func newRuleDedup() *ruleDedup {
	return &ruleDedup{entries: make(map[string]*dedupEntry)}
}

func (d *ruleDedup) add(antecedent []rule.Literal, consequent rule.Literal, strength float64) {
	key := dedupKey(antecedent, consequent)
	if e, ok := d.entries[key]; ok {
		if strength > e.strength {
			e.strength = strength
		}
		return
	}
	ant := make([]rule.Literal, len(antecedent))
	copy(ant, antecedent)
	d.entries[key] = &dedupEntry{antecedent: ant, consequent: consequent, strength: strength}
	d.order = append(d.order, key)
}

func (d *ruleDedup) ordered() []dedupEntry {
	out := make([]dedupEntry, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, *d.entries[key])
	}
	return out
}

func dedupKey(antecedent []rule.Literal, consequent rule.Literal) string {
	key := make([]byte, 0, 32)
	for _, lit := range antecedent {
		key = append(key, lit.Var...)
		key = append(key, '=')
		key = append(key, lit.Label...)
		key = append(key, ';')
	}
	key = append(key, '|')
	key = append(key, consequent.Var...)
	key = append(key, '=')
	key = append(key, consequent.Label...)
	return string(key)
}
