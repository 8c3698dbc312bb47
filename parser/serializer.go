package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/membership"
)

// Serialize renders k as a `.fz` document: the inverse of Parse on the
// subset of the grammar the learner produces. The result must round-trip
// through Parse for any KB produced by package learn.
func Serialize(k *kb.KnowledgeBase) string {
	var b strings.Builder

	fmt.Fprintf(&b, "schema %d\n", k.SchemaVersion)

	for _, v := range k.Inputs() {
		fmt.Fprintf(&b, "var input %s %s %s\n", v.Name, formatFloat(v.VMin), formatFloat(v.VMax))
	}
	for _, v := range k.Outputs() {
		fmt.Fprintf(&b, "var output %s %s %s\n", v.Name, formatFloat(v.VMin), formatFloat(v.VMax))
	}

	for _, v := range k.Inputs() {
		for _, term := range v.Terms() {
			writeMF(&b, v.Name, term.Label, term.MF)
		}
	}
	for _, v := range k.Outputs() {
		for _, term := range v.Terms() {
			writeMF(&b, v.Name, term.Label, term.MF)
		}
	}

	for _, r := range k.Rules {
		var cond []string
		for _, lit := range r.Antecedent {
			cond = append(cond, fmt.Sprintf("%s is %s", lit.Var, lit.Label))
		}
		line := fmt.Sprintf("rule IF %s THEN %s is %s weight %s",
			strings.Join(cond, " AND "), r.Consequent.Var, r.Consequent.Label, formatFloat(r.Weight))
		if !r.Active {
			line += " inactive"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "tnorm %s\n", k.TNorm)
	fmt.Fprintf(&b, "snorm %s\n", k.SNorm)
	fmt.Fprintf(&b, "mode %s\n", k.Mode)

	if len(k.Outputs()) > 0 {
		g := k.Outputs()[0].Grid
		fmt.Fprintf(&b, "defuzz %s grid %s %s %d\n", k.Defuzz, formatFloat(g.YMin), formatFloat(g.YMax), g.N)
	} else {
		fmt.Fprintf(&b, "defuzz %s\n", k.Defuzz)
	}

	return b.String()
}

func writeMF(b *strings.Builder, varName, label string, mf membership.MembershipFunction) {
	switch t := mf.(type) {
	case *membership.Triangular:
		fmt.Fprintf(b, "mf %s %s tri %s %s %s\n", varName, label, formatFloat(t.A), formatFloat(t.B), formatFloat(t.C))
	case *membership.Trapezoidal:
		fmt.Fprintf(b, "mf %s %s trap %s %s %s %s\n", varName, label,
			formatFloat(t.A), formatFloat(t.B), formatFloat(t.C), formatFloat(t.D))
	case *membership.Gaussian:
		fmt.Fprintf(b, "mf %s %s gauss %s %s\n", varName, label, formatFloat(t.Center), formatFloat(t.Width))
	}
}

// formatFloat renders a float with enough precision for exact round-trip
// through strconv.ParseFloat, trimming the common integer case to "5"
// rather than "5.000000".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
