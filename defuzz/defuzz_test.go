package defuzz

import (
	"math"
	"testing"

	"github.com/loian/mamdani/membership"
	"github.com/loian/mamdani/variable"
)

const epsilon = 1e-6

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func triangleMu(y float64) float64 {
	// Symmetric triangle peaking at 5 on [0,10].
	if y <= 0 || y >= 10 {
		return 0
	}
	if y <= 5 {
		return y / 5
	}
	return (10 - y) / 5
}

func TestCentroidOnGrid_SymmetricTriangle(t *testing.T) {
	got := CentroidOnGrid(0, 10, 201, triangleMu)
	if !floatEqual(got, 5.0) {
		t.Errorf("expected centroid 5.0 for symmetric triangle, got %f", got)
	}
}

func TestCentroidOnGrid_ZeroMembershipReturnsMidpoint(t *testing.T) {
	got := CentroidOnGrid(0, 10, 101, func(y float64) float64 { return 0 })
	if !floatEqual(got, 5.0) {
		t.Errorf("expected midpoint 5.0, got %f", got)
	}
}

func TestMeanOfMaximaOnGrid_SingleMax(t *testing.T) {
	got := MeanOfMaximaOnGrid(0, 10, 201, triangleMu)
	if !floatEqual(got, 5.0) {
		t.Errorf("expected mom 5.0 at single peak, got %f", got)
	}
}

func TestMeanOfMaximaOnGrid_Plateau(t *testing.T) {
	mu := func(y float64) float64 {
		if y >= 4 && y <= 6 {
			return 1.0
		}
		return 0.0
	}
	got := MeanOfMaximaOnGrid(0, 10, 101, mu)
	if !floatEqual(got, 5.0) {
		t.Errorf("expected mom 5.0 over plateau [4,6], got %f", got)
	}
}

func TestMeanOfMaximaOnGrid_ZeroReturnsMidpoint(t *testing.T) {
	got := MeanOfMaximaOnGrid(0, 10, 101, func(y float64) float64 { return 0 })
	if !floatEqual(got, 5.0) {
		t.Errorf("expected midpoint 5.0, got %f", got)
	}
}

func TestBisectorOnGrid_SymmetricTriangle(t *testing.T) {
	got := BisectorOnGrid(0, 10, 2001, triangleMu)
	if !floatEqual(got, 5.0) {
		t.Errorf("expected bisector 5.0 for symmetric triangle, got %f", got)
	}
}

func TestBisectorOnGrid_ZeroReturnsMidpoint(t *testing.T) {
	got := BisectorOnGrid(0, 10, 101, func(y float64) float64 { return 0 })
	if !floatEqual(got, 5.0) {
		t.Errorf("expected midpoint 5.0, got %f", got)
	}
}

func TestCentroidAdaptive_SinglePeak(t *testing.T) {
	got := CentroidAdaptive(0, 10, DefaultAdaptiveOptions, triangleMu)
	if !floatEqual(got, 5.0) {
		t.Errorf("expected centroid 5.0, got %f", got)
	}
}

func TestCentroidAdaptive_ZeroReturnsMidpoint(t *testing.T) {
	got := CentroidAdaptive(0, 10, DefaultAdaptiveOptions, func(y float64) float64 { return 0 })
	if !floatEqual(got, 5.0) {
		t.Errorf("expected midpoint 5.0, got %f", got)
	}
}

func TestCentroidAdaptive_TwoPeaksSymmetric(t *testing.T) {
	// Two equal symmetric triangular peaks at 2 and 8 on [0,10]: centroid
	// of the combined shape should land at the domain midpoint.
	mu := func(y float64) float64 {
		p1 := 0.0
		if y > 0 && y < 4 {
			if y <= 2 {
				p1 = y / 2
			} else {
				p1 = (4 - y) / 2
			}
		}
		p2 := 0.0
		if y > 6 && y < 10 {
			if y <= 8 {
				p2 = (y - 6) / 2
			} else {
				p2 = (10 - y) / 2
			}
		}
		if p1 > p2 {
			return p1
		}
		return p2
	}
	got := CentroidAdaptive(0, 10, DefaultAdaptiveOptions, mu)
	if !floatEqual(got, 5.0) {
		t.Errorf("expected symmetric centroid 5.0, got %f", got)
	}
}

func TestResolveGrid_SentinelDerivesFromSupports(t *testing.T) {
	v, _ := variable.NewOutputVariable("Fan", 0, 1)
	low, _ := membership.NewTriangular(0, 10, 25)
	high, _ := membership.NewTriangular(25, 40, 50)
	v.AddTerm("Low", low)
	v.AddTerm("High", high)

	ymin, ymax, n := ResolveGrid(v)
	if !floatEqual(ymin, 0) || !floatEqual(ymax, 50) {
		t.Errorf("expected resolved grid (0,50), got (%f,%f)", ymin, ymax)
	}
	if n != 101 {
		t.Errorf("expected sentinel n=101 preserved, got %d", n)
	}
}

func TestResolveGrid_ExplicitGridKept(t *testing.T) {
	v, _ := variable.NewOutputVariable("Fan", 0, 100)
	v.Grid = variable.Grid{YMin: 10, YMax: 90, N: 301}

	ymin, ymax, n := ResolveGrid(v)
	if !floatEqual(ymin, 10) || !floatEqual(ymax, 90) || n != 301 {
		t.Errorf("expected explicit grid preserved, got (%f,%f,%d)", ymin, ymax, n)
	}
}

func TestResolveGrid_NBumpedTo201WhenTooSmall(t *testing.T) {
	v, _ := variable.NewOutputVariable("Fan", 0, 100)
	v.Grid = variable.Grid{YMin: 0, YMax: 100, N: 2}

	_, _, n := ResolveGrid(v)
	if n != 201 {
		t.Errorf("expected n bumped to 201, got %d", n)
	}
}

func TestResolveGrid_NoTermsFallsBackToDomain(t *testing.T) {
	v, _ := variable.NewOutputVariable("Fan", 5, 25)

	ymin, ymax, _ := ResolveGrid(v)
	if !floatEqual(ymin, 5) || !floatEqual(ymax, 25) {
		t.Errorf("expected fallback to variable domain (5,25), got (%f,%f)", ymin, ymax)
	}
}
