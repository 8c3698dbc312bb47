package parser

import (
	"math"
	"testing"

	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/membership"
	"github.com/loian/mamdani/rule"
	"github.com/loian/mamdani/variable"
)

func buildRoundTripKB(t *testing.T) *kb.KnowledgeBase {
	t.Helper()
	k := kb.New()

	service, _ := variable.NewInputVariable("service", 0, 10)
	poor, _ := membership.NewTriangular(0, 0, 5)
	good, _ := membership.NewTrapezoidal(0, 2, 5, 8)
	excellent, _ := membership.NewGaussian(9, 1.5)
	service.AddTerm("poor", poor)
	service.AddTerm("good", good)
	service.AddTerm("excellent", excellent)
	k.AddInput(service)

	tip, _ := variable.NewOutputVariable("tip", 0, 30)
	low, _ := membership.NewTriangular(0, 0, 13)
	high, _ := membership.NewTriangular(13, 26, 30)
	tip.AddTerm("low", low)
	tip.AddTerm("high", high)
	tip.Grid = variable.Grid{YMin: 0, YMax: 30, N: 201}
	k.AddOutput(tip)

	r1, _ := rule.New(rule.Literal{Var: "tip", Label: "low"}, rule.Literal{Var: "service", Label: "poor"})
	r1.Weight = 0.75
	r2, _ := rule.New(rule.Literal{Var: "tip", Label: "high"}, rule.Literal{Var: "service", Label: "excellent"})
	r2.Active = false
	k.AddRule(r1)
	k.AddRule(r2)

	k.TNorm = "prod"
	k.SNorm = "bsum"
	k.Mode = kb.FATI
	k.Defuzz = kb.Bisector
	return k
}

func TestSerialize_RoundTrip(t *testing.T) {
	original := buildRoundTripKB(t)
	doc := Serialize(original)

	reparsed, err := ParseString(doc)
	if err != nil {
		t.Fatalf("reparsing serialized KB failed: %v\n--- document ---\n%s", err, doc)
	}

	if len(reparsed.Inputs()) != len(original.Inputs()) {
		t.Fatalf("input count mismatch: %d vs %d", len(reparsed.Inputs()), len(original.Inputs()))
	}
	if len(reparsed.Outputs()) != len(original.Outputs()) {
		t.Fatalf("output count mismatch: %d vs %d", len(reparsed.Outputs()), len(original.Outputs()))
	}
	if len(reparsed.Rules) != len(original.Rules) {
		t.Fatalf("rule count mismatch: %d vs %d", len(reparsed.Rules), len(original.Rules))
	}

	for i, want := range original.Inputs() {
		got := reparsed.Inputs()[i]
		if got.Name != want.Name || got.VMin != want.VMin || got.VMax != want.VMax {
			t.Errorf("input %d mismatch: got %+v want %+v", i, got, want)
		}
		if len(got.Terms()) != len(want.Terms()) {
			t.Errorf("input %d term count mismatch: %d vs %d", i, len(got.Terms()), len(want.Terms()))
		}
	}

	for i, want := range original.Rules {
		got := reparsed.Rules[i]
		if math.Abs(got.Weight-want.Weight) > 1e-9 {
			t.Errorf("rule %d weight mismatch: %f vs %f", i, got.Weight, want.Weight)
		}
		if got.Active != want.Active {
			t.Errorf("rule %d active mismatch: %v vs %v", i, got.Active, want.Active)
		}
		if got.Consequent != want.Consequent {
			t.Errorf("rule %d consequent mismatch: %+v vs %+v", i, got.Consequent, want.Consequent)
		}
	}

	if reparsed.TNorm != original.TNorm || reparsed.SNorm != original.SNorm {
		t.Errorf("norm mismatch: got tnorm=%s snorm=%s", reparsed.TNorm, reparsed.SNorm)
	}
	if reparsed.Mode != original.Mode {
		t.Errorf("mode mismatch: got %s want %s", reparsed.Mode, original.Mode)
	}
	if reparsed.Defuzz != original.Defuzz {
		t.Errorf("defuzz mismatch: got %s want %s", reparsed.Defuzz, original.Defuzz)
	}

	outGot, _ := reparsed.Output("tip")
	outWant, _ := original.Output("tip")
	if outGot.Grid != outWant.Grid {
		t.Errorf("grid mismatch: got %+v want %+v", outGot.Grid, outWant.Grid)
	}
}

func TestSerialize_TriangularParameters(t *testing.T) {
	k := kb.New()
	v, _ := variable.NewInputVariable("x", 0, 10)
	mf, _ := membership.NewTriangular(1, 5, 9)
	v.AddTerm("mid", mf)
	k.AddInput(v)
	out, _ := variable.NewOutputVariable("y", 0, 10)
	omf, _ := membership.NewTriangular(0, 5, 10)
	out.AddTerm("z", omf)
	k.AddOutput(out)

	doc := Serialize(k)
	if !containsLine(doc, "mf x mid tri 1 5 9") {
		t.Errorf("expected serialized mf line for triangular, got:\n%s", doc)
	}
}

func containsLine(doc, want string) bool {
	for _, line := range splitLines(doc) {
		if line == want {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
