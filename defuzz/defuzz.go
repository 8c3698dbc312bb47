// Package defuzz implements the grid-based defuzzification methods: centroid,
// mean-of-maxima, bisector, and an adaptive centroid that refines sampling
// around local peaks. Each operates on a caller-supplied aggregated
// membership function over [ymin, ymax] with n >= 3 samples.
package defuzz

import (
	"github.com/loian/mamdani/variable"
)

// Func evaluates the aggregated output membership at y.
type Func func(y float64) float64

func linspace(ymin, ymax float64, n int) []float64 {
	if n <= 1 {
		return []float64{(ymin + ymax) / 2.0}
	}
	step := (ymax - ymin) / float64(n-1)
	ys := make([]float64, n)
	for i := range ys {
		ys[i] = ymin + float64(i)*step
	}
	return ys
}

// CentroidOnGrid returns Σyᵢμ(yᵢ)/Σμ(yᵢ) over n equally spaced samples; the
// domain midpoint when the aggregated membership is everywhere zero.
func CentroidOnGrid(ymin, ymax float64, n int, mu Func) float64 {
	mid := (ymin + ymax) / 2.0
	if n <= 1 {
		return mid
	}
	ys := linspace(ymin, ymax, n)
	var num, den float64
	for _, y := range ys {
		w := mu(y)
		num += y * w
		den += w
	}
	if den <= 0.0 {
		return mid
	}
	return num / den
}

// MeanOfMaximaOnGrid returns the mean of the yᵢ whose membership is within
// a numerical tolerance of the grid's maximum; the domain midpoint when the
// maximum is zero.
func MeanOfMaximaOnGrid(ymin, ymax float64, n int, mu Func) float64 {
	mid := (ymin + ymax) / 2.0
	ys := linspace(ymin, ymax, n)
	ws := make([]float64, len(ys))
	m := 0.0
	for i, y := range ys {
		ws[i] = mu(y)
		if ws[i] > m {
			m = ws[i]
		}
	}
	if m <= 0.0 {
		return mid
	}
	tol := 1e-6 * m
	if tol < 1e-12 {
		tol = 1e-12
	}
	var sum float64
	var count int
	for i, w := range ws {
		if absf(w-m) <= tol {
			sum += ys[i]
			count++
		}
	}
	if count == 0 {
		return mid
	}
	return sum / float64(count)
}

// BisectorOnGrid returns the first yᵢ whose prefix area reaches half the
// total area under the aggregated membership; the domain midpoint when the
// total area is zero, the last sample if no prefix reaches the half point.
func BisectorOnGrid(ymin, ymax float64, n int, mu Func) float64 {
	mid := (ymin + ymax) / 2.0
	if n <= 1 {
		return mid
	}
	ys := linspace(ymin, ymax, n)
	dy := (ymax - ymin) / float64(len(ys)-1)
	var total float64
	ws := make([]float64, len(ys))
	for i, y := range ys {
		ws[i] = mu(y)
		total += ws[i] * dy
	}
	if total <= 0.0 {
		return mid
	}
	half := total / 2.0
	var acc float64
	for i, w := range ws {
		acc += w * dy
		if acc >= half {
			return ys[i]
		}
	}
	return ys[len(ys)-1]
}

// AdaptiveOptions configures CentroidAdaptive's peak-refinement behavior.
type AdaptiveOptions struct {
	BaseN         int     // base grid resolution, >= 101
	RefinePerPeak int     // refinement samples per peak multiplier, default 5
	WindowFrac    float64 // symmetric window fraction of (ymax-ymin), default 0.1
}

// DefaultAdaptiveOptions are the learner/engine defaults.
var DefaultAdaptiveOptions = AdaptiveOptions{BaseN: 201, RefinePerPeak: 5, WindowFrac: 0.1}

// CentroidAdaptive evaluates on a base grid, detects interior local maxima,
// and refines sampling in a symmetric window around each peak before
// computing the centroid over the union of samples. Per spec the refined
// linspace around each peak carries at least 3*RefinePerPeak samples — not
// the 10x multiplier some implementations use.
func CentroidAdaptive(ymin, ymax float64, opts AdaptiveOptions, mu Func) float64 {
	mid := (ymin + ymax) / 2.0
	baseN := opts.BaseN
	if baseN < 101 {
		baseN = 101
	}
	ys := linspace(ymin, ymax, baseN)
	ws := make([]float64, len(ys))
	anyPositive := false
	for i, y := range ys {
		ws[i] = mu(y)
		if ws[i] > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return mid
	}

	var peaks []float64
	for i := 1; i < len(ws)-1; i++ {
		if ws[i] >= ws[i-1] && ws[i] >= ws[i+1] && ws[i] > 0 {
			peaks = append(peaks, ys[i])
		}
	}

	rng := ymax - ymin
	win := opts.WindowFrac * rng
	if win < 1e-9 {
		win = 1e-9
	}
	refineN := 3 * opts.RefinePerPeak
	if refineN < 3 {
		refineN = 3
	}

	yall := append([]float64(nil), ys...)
	for _, p := range peaks {
		a := p - win
		if a < ymin {
			a = ymin
		}
		b := p + win
		if b > ymax {
			b = ymax
		}
		yall = append(yall, linspace(a, b, refineN)...)
	}

	var num, den float64
	for _, y := range yall {
		w := mu(y)
		num += y * w
		den += w
	}
	if den <= 0.0 {
		return mid
	}
	return num / den
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// ResolveGrid applies the §4.3 numerical policy: when v's grid is the
// sentinel (0,1,101) or ymin>=ymax, derive [ymin,ymax] from the union of
// the variable's MF supports (falling back to the variable's domain if it
// has no terms), and bump n up to 201 when n<3.
func ResolveGrid(v *variable.OutputVariable) (ymin, ymax float64, n int) {
	g := v.Grid
	n = g.N
	if n < 3 {
		n = 201
	}

	if g != variable.SentinelGrid && g.YMin < g.YMax {
		return g.YMin, g.YMax, n
	}

	terms := v.Terms()
	if len(terms) == 0 {
		return v.VMin, v.VMax, n
	}

	ymin, ymax = terms[0].MF.Support()
	for _, term := range terms[1:] {
		lo, hi := term.MF.Support()
		if lo < ymin {
			ymin = lo
		}
		if hi > ymax {
			ymax = hi
		}
	}
	return ymin, ymax, n
}

// ResolveAdaptiveOptions derives AdaptiveOptions from a resolved grid,
// keeping the learner/engine default refinement knobs and raising the base
// grid resolution to the resolved n when n exceeds the default BaseN (201).
func ResolveAdaptiveOptions(n int) AdaptiveOptions {
	opts := DefaultAdaptiveOptions
	if n > opts.BaseN {
		opts.BaseN = n
	}
	return opts
}
