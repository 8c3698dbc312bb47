package learn

import (
	"math"
	"testing"

	"github.com/loian/mamdani/membership"
)

const epsilon = 1e-9

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestBuildKB_S6_DuplicateRowsDedupToOneRule(t *testing.T) {
	header := []string{"x", "y"}
	rows := make([][]float64, 100)
	for i := range rows {
		rows[i] = []float64{5.0, 5.0}
	}
	cfg := DefaultConfig()
	cfg.ShowProgress = false

	k, err := BuildKB(header, rows, cfg)
	if err != nil {
		t.Fatalf("BuildKB failed: %v", err)
	}
	if len(k.Rules) != 1 {
		t.Fatalf("expected exactly 1 rule after dedup, got %d", len(k.Rules))
	}

	// Re-derive the single-row strength by learning from one copy of the row.
	oneRow := rows[:1]
	kOne, err := BuildKB(header, oneRow, cfg)
	if err != nil {
		t.Fatalf("BuildKB (single row) failed: %v", err)
	}
	if len(kOne.Rules) != 1 {
		t.Fatalf("expected 1 rule from a single row, got %d", len(kOne.Rules))
	}
	if !floatEqual(k.Rules[0].Weight, kOne.Rules[0].Weight) {
		t.Errorf("expected dedup strength %f to equal single-row strength %f", k.Rules[0].Weight, kOne.Rules[0].Weight)
	}
}

func TestBuildKB_AssemblesVariablesAndGrid(t *testing.T) {
	header := []string{"a", "b", "out"}
	rows := [][]float64{
		{0, 0, 0},
		{5, 5, 5},
		{10, 10, 10},
		{2, 8, 4},
		{8, 2, 6},
	}
	cfg := DefaultConfig()
	cfg.ShowProgress = false

	k, err := BuildKB(header, rows, cfg)
	if err != nil {
		t.Fatalf("BuildKB failed: %v", err)
	}
	if len(k.Inputs()) != 2 {
		t.Fatalf("expected 2 input variables, got %d", len(k.Inputs()))
	}
	if len(k.Outputs()) != 1 {
		t.Fatalf("expected 1 output variable, got %d", len(k.Outputs()))
	}
	out := k.Outputs()[0]
	if out.Name != "out" {
		t.Errorf("expected output named 'out', got %q", out.Name)
	}
	if out.Grid.N != 201 {
		t.Errorf("expected learner's output grid n=201, got %d", out.Grid.N)
	}
	if len(out.Terms()) != 3 {
		t.Errorf("expected 3 default terms (n=3 labels small/medium/large), got %d", len(out.Terms()))
	}
	want := []string{"small", "medium", "large"}
	for i, term := range out.Terms() {
		if term.Label != want[i] {
			t.Errorf("expected default label %q at position %d, got %q", want[i], i, term.Label)
		}
	}
}

func TestBuildKB_MinWeightFiltersWeakRules(t *testing.T) {
	header := []string{"x", "y"}
	rows := [][]float64{
		{0, 0},
		{10, 10},
		{5, 5},
	}
	cfg := DefaultConfig()
	cfg.ShowProgress = false
	cfg.MinWeight = 2.0 // strength is always in [0,1], so nothing survives

	k, err := BuildKB(header, rows, cfg)
	if err != nil {
		t.Fatalf("BuildKB failed: %v", err)
	}
	if len(k.Rules) != 0 {
		t.Errorf("expected min_weight=2.0 to filter every rule, got %d", len(k.Rules))
	}
}

func TestBuildKB_RuleAntecedentsReferenceInputsOnly(t *testing.T) {
	header := []string{"x", "y", "out"}
	rows := [][]float64{
		{0, 0, 0},
		{10, 10, 10},
	}
	cfg := DefaultConfig()
	cfg.ShowProgress = false

	k, err := BuildKB(header, rows, cfg)
	if err != nil {
		t.Fatalf("BuildKB failed: %v", err)
	}
	for _, r := range k.Rules {
		if len(r.Antecedent) != 2 {
			t.Fatalf("expected 2 antecedent literals per rule, got %d", len(r.Antecedent))
		}
		for _, lit := range r.Antecedent {
			if k.IsOutput(lit.Var) {
				t.Errorf("antecedent literal %+v references an output variable", lit)
			}
		}
		if r.Consequent.Var != "out" {
			t.Errorf("expected consequent variable 'out', got %q", r.Consequent.Var)
		}
	}
}

func TestBestLabel_TiesBreakFirstEncountered(t *testing.T) {
	tri, _ := membership.NewTriangular(0, 0, 10)
	p := partition{terms: []labeledMF{
		{Label: "first", MF: tri},
		{Label: "second", MF: tri},
	}}
	label, _ := bestLabel(p, 20) // both evaluate to 0; must pick "first"
	if label != "first" {
		t.Errorf("expected tie-break to favor first-encountered label, got %q", label)
	}
}

func TestBuildPartition_TrapezoidalRespectsDomainEdges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MF.Default = ShapeConfig{Shape: "trap", PlateauRatio: 0.5}
	cfg.Terms = 3

	p, err := buildPartition("x", 0, 10, cfg)
	if err != nil {
		t.Fatalf("buildPartition failed: %v", err)
	}
	if len(p.terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(p.terms))
	}
	firstMin, _ := p.terms[0].MF.Support()
	if firstMin != 0 {
		t.Errorf("expected first trapezoid's left support to be the domain min 0, got %f", firstMin)
	}
	_, lastMax := p.terms[2].MF.Support()
	if lastMax != 10 {
		t.Errorf("expected last trapezoid's right support to be the domain max 10, got %f", lastMax)
	}
}

func TestBuildPartition_GaussianSigmaModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MF.Default = ShapeConfig{Shape: "gauss", SigmaMode: "fixed", SigmaValue: 2.5}
	cfg.Terms = 3

	p, err := buildPartition("x", 0, 10, cfg)
	if err != nil {
		t.Fatalf("buildPartition failed: %v", err)
	}
	g, ok := p.terms[0].MF.(*membership.Gaussian)
	if !ok {
		t.Fatalf("expected *membership.Gaussian, got %T", p.terms[0].MF)
	}
	if !floatEqual(g.Width, 2.5) {
		t.Errorf("expected fixed sigma 2.5, got %f", g.Width)
	}
}

func TestBuildPartition_ManualModeUsesExplicitTerms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MF.Mode = "manual"
	lo, _ := membership.NewTriangular(0, 0, 5)
	hi, _ := membership.NewTriangular(5, 10, 10)
	cfg.MF.Explicit = map[string][]ExplicitTerm{
		"x": {{Label: "lo", MF: lo}, {Label: "hi", MF: hi}},
	}

	p, err := buildPartition("x", 0, 10, cfg)
	if err != nil {
		t.Fatalf("buildPartition failed: %v", err)
	}
	if len(p.terms) != 2 || p.terms[0].Label != "lo" || p.terms[1].Label != "hi" {
		t.Errorf("expected explicit terms preserved verbatim, got %+v", p.terms)
	}
}
