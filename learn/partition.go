package learn

import (
	"fmt"
	"math"
	"strconv"

	"github.com/loian/mamdani/membership"
)

// labeledMF pairs a label with its membership function, the building block
// a partition assembles and InputVariable/OutputVariable ultimately store.
type labeledMF struct {
	Label string
	MF    membership.MembershipFunction
}

type partition struct {
	terms []labeledMF
}

// bestLabel returns the label with the largest membership degree at x,
// ties broken by first-encountered label (the partition's insertion order).
func bestLabel(p partition, x float64) (string, float64) {
	bestIdx := 0
	bestMu := -1.0
	for i, term := range p.terms {
		mu := term.MF.Evaluate(x)
		if mu > bestMu {
			bestMu = mu
			bestIdx = i
		}
	}
	return p.terms[bestIdx].Label, bestMu
}

func mergeShapeConfig(base, override ShapeConfig) ShapeConfig {
	merged := base
	if override.Shape != "" {
		merged.Shape = override.Shape
	}
	if override.Terms != 0 {
		merged.Terms = override.Terms
	}
	if len(override.Labels) != 0 {
		merged.Labels = override.Labels
	}
	if override.PlateauRatio != 0 {
		merged.PlateauRatio = override.PlateauRatio
	}
	if override.SigmaMode != "" {
		merged.SigmaMode = override.SigmaMode
	}
	if override.SigmaValue != 0 {
		merged.SigmaValue = override.SigmaValue
	}
	return merged
}

func defaultLabels(n int) []string {
	if n == 3 {
		return []string{"small", "medium", "large"}
	}
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = "t" + strconv.Itoa(i+1)
	}
	return labels
}

// evenCenters places n centers evenly across [vmin,vmax]; n==1 yields the
// midpoint.
func evenCenters(vmin, vmax float64, n int) []float64 {
	centers := make([]float64, n)
	if n == 1 {
		centers[0] = (vmin + vmax) / 2
		return centers
	}
	step := (vmax - vmin) / float64(n-1)
	for i := 0; i < n; i++ {
		centers[i] = vmin + step*float64(i)
	}
	return centers
}

// buildPartition constructs a variable's labeled terms per the learner's
// configuration (§4.7): an explicit user-supplied list in manual mode, or
// an auto-built tri/trap/gauss partition over evenly spaced centers.
func buildPartition(name string, vmin, vmax float64, cfg Config) (partition, error) {
	if cfg.MF.Mode == "manual" {
		explicit, ok := cfg.MF.Explicit[name]
		if !ok {
			return partition{}, fmt.Errorf("manual MF mode requires an explicit term list for variable %q", name)
		}
		terms := make([]labeledMF, len(explicit))
		for i, e := range explicit {
			terms[i] = labeledMF{Label: e.Label, MF: e.MF}
		}
		return partition{terms: terms}, nil
	}

	shape := cfg.MF.Default
	if cfg.MF.PerVariable != nil {
		if override, ok := cfg.MF.PerVariable[name]; ok {
			shape = mergeShapeConfig(cfg.MF.Default, override)
		}
	}
	n := shape.Terms
	if n <= 0 {
		n = cfg.Terms
	}
	if n <= 0 {
		n = 3
	}
	labels := shape.Labels
	if len(labels) == 0 {
		labels = defaultLabels(n)
	}
	if len(labels) != n {
		return partition{}, fmt.Errorf("variable %q: %d labels given for %d terms", name, len(labels), n)
	}

	centers := evenCenters(vmin, vmax, n)
	kind := shape.Shape
	if kind == "" {
		kind = "tri"
	}

	switch kind {
	case "tri":
		return buildTriangularPartition(labels, centers, vmin, vmax)
	case "trap":
		return buildTrapezoidalPartition(labels, centers, vmin, vmax, shape)
	case "gauss":
		return buildGaussianPartition(labels, centers, shape)
	default:
		return partition{}, fmt.Errorf("unknown auto MF shape %q for variable %q", kind, name)
	}
}

func buildTriangularPartition(labels []string, centers []float64, vmin, vmax float64) (partition, error) {
	n := len(centers)
	terms := make([]labeledMF, n)
	for i, center := range centers {
		left := vmin
		if i > 0 {
			left = centers[i-1]
		}
		right := vmax
		if i < n-1 {
			right = centers[i+1]
		}
		mf, err := membership.NewTriangular(left, center, right)
		if err != nil {
			return partition{}, fmt.Errorf("building triangular term %q: %w", labels[i], err)
		}
		terms[i] = labeledMF{Label: labels[i], MF: mf}
	}
	return partition{terms: terms}, nil
}

func buildTrapezoidalPartition(labels []string, centers []float64, vmin, vmax float64, shape ShapeConfig) (partition, error) {
	n := len(centers)
	step := vmax - vmin
	if n > 1 {
		step = centers[1] - centers[0]
	}
	ratio := shape.PlateauRatio
	if ratio == 0 {
		ratio = 0.5
	}
	halfWidth := ratio * step / 2

	terms := make([]labeledMF, n)
	for i, center := range centers {
		left := vmin
		if i > 0 {
			left = centers[i-1]
		}
		right := vmax
		if i < n-1 {
			right = centers[i+1]
		}
		b := center - halfWidth
		c := center + halfWidth
		if b < left {
			b = left
		}
		if c > right {
			c = right
		}
		mf, err := membership.NewTrapezoidal(left, b, c, right)
		if err != nil {
			return partition{}, fmt.Errorf("building trapezoidal term %q: %w", labels[i], err)
		}
		terms[i] = labeledMF{Label: labels[i], MF: mf}
	}
	return partition{terms: terms}, nil
}

func buildGaussianPartition(labels []string, centers []float64, shape ShapeConfig) (partition, error) {
	n := len(centers)
	step := 1.0
	if n > 1 {
		step = centers[1] - centers[0]
	}
	sigmaValue := shape.SigmaValue
	if sigmaValue == 0 {
		sigmaValue = 1.0
	}
	sigmaMode := shape.SigmaMode
	if sigmaMode == "" {
		sigmaMode = "factor"
	}

	var sigma float64
	switch sigmaMode {
	case "factor":
		sigma = sigmaValue * step
	case "fwhm":
		sigma = sigmaValue * step / (2 * math.Sqrt(2*math.Log(2)))
	case "fixed":
		sigma = sigmaValue
	default:
		return partition{}, fmt.Errorf("unknown sigma_mode %q", sigmaMode)
	}

	terms := make([]labeledMF, n)
	for i, center := range centers {
		mf, err := membership.NewGaussian(center, sigma)
		if err != nil {
			return partition{}, fmt.Errorf("building gaussian term %q: %w", labels[i], err)
		}
		terms[i] = labeledMF{Label: labels[i], MF: mf}
	}
	return partition{terms: terms}, nil
}

