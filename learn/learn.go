// Package learn implements Wang-Mendel rule induction: given a numeric
// table (header row, last column the output), it partitions each variable
// into labeled membership functions and derives one rule per distinct
// antecedent/consequent combination observed in the data.
package learn

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"

	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/membership"
	"github.com/loian/mamdani/norms"
	"github.com/loian/mamdani/rule"
	"github.com/loian/mamdani/variable"
)

// ShapeConfig configures one variable's auto-built partition.
type ShapeConfig struct {
	Shape        string // "tri" | "trap" | "gauss"
	Terms        int    // number of centers; 0 means inherit Config.Terms
	Labels       []string
	PlateauRatio float64 // trap only; default 0.5 if zero
	SigmaMode    string  // gauss only: "factor" | "fwhm" | "fixed"; default "factor"
	SigmaValue   float64 // gauss only; default 1.0 if zero
}

// ExplicitTerm is one user-supplied label/MF pair for Explicit mode.
type ExplicitTerm struct {
	Label string
	MF    membership.MembershipFunction
}

// MFConfig selects how each variable's terms are produced.
type MFConfig struct {
	Mode        string // "auto_from_data" | "manual"
	Default     ShapeConfig
	PerVariable map[string]ShapeConfig
	Explicit    map[string][]ExplicitTerm // used when Mode == "manual"
}

// Config is the learner's full configuration; all fields are optional and
// fall back to the spec's defaults via DefaultConfig.
type Config struct {
	Terms        int
	Partition    string // "grid" is the only supported value
	TNorm        string
	SNorm        string
	Mode         string // "FIT" | "FATI"
	MinWeight    float64
	RangeMargin  float64
	MF           MFConfig
	ShowProgress bool
}

// DefaultConfig returns the spec's default learner configuration: 3 terms,
// grid partitioning, tnorm=min, snorm=max, mode=FIT, no minimum weight, no
// range margin, auto-built triangular MFs.
func DefaultConfig() Config {
	return Config{
		Terms:     3,
		Partition: "grid",
		TNorm:     "min",
		SNorm:     "max",
		Mode:      string(kb.FIT),
		MF: MFConfig{
			Mode:    "auto_from_data",
			Default: ShapeConfig{Shape: "tri"},
		},
		ShowProgress: true,
	}
}

// LearnFromCSV reads path as a numeric table (header row, last column the
// output) and induces a knowledge base per §4.7.
func LearnFromCSV(path string, cfg Config) (*kb.KnowledgeBase, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return BuildKB(header, rows, cfg)
}

func readCSV(path string) ([]string, [][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row width is checked below, as a DataError
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil, &DataError{Path: path, Message: "expected a header row plus at least one data row"}
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, nil, &DataError{
				Path:    path,
				Row:     i + 2,
				Message: fmt.Sprintf("has %d columns, header has %d", len(rec), len(header)),
				err:     ErrRowShape,
			}
		}
		row := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, &DataError{
					Path:    path,
					Row:     i + 2,
					Column:  header[j],
					Message: fmt.Sprintf("non-numeric value %q", cell),
					err:     ErrNonNumericCell,
				}
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// columnRange is the observed [min,max] of one column, optionally inflated
// by a symmetric fractional margin; a zero-width range is widened to unit
// width.
type columnRange struct {
	min, max float64
}

func columnRanges(header []string, rows [][]float64, margin float64) []columnRange {
	ranges := make([]columnRange, len(header))
	for j := range header {
		ranges[j] = columnRange{min: rows[0][j], max: rows[0][j]}
	}
	for _, row := range rows {
		for j, v := range row {
			if v < ranges[j].min {
				ranges[j].min = v
			}
			if v > ranges[j].max {
				ranges[j].max = v
			}
		}
	}
	if margin > 0 {
		for j := range ranges {
			span := ranges[j].max - ranges[j].min
			pad := span * margin
			if pad == 0 {
				pad = margin
			}
			ranges[j].min -= pad
			ranges[j].max += pad
		}
	}
	// A constant column still needs vmin < vmax for its variable: widen it
	// to a unit-wide range centered on the constant.
	for j := range ranges {
		if ranges[j].min == ranges[j].max {
			ranges[j].min -= 0.5
			ranges[j].max += 0.5
		}
	}
	return ranges
}

// BuildKB induces a knowledge base from an in-memory table: header names
// every column, the last column is the output, rows hold parsed cells.
func BuildKB(header []string, rows [][]float64, cfg Config) (*kb.KnowledgeBase, error) {
	if len(header) < 2 {
		return nil, fmt.Errorf("table must have at least one input column and one output column")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}
	if cfg.Terms <= 0 {
		cfg.Terms = 3
	}
	if cfg.TNorm == "" {
		cfg.TNorm = "min"
	}
	if cfg.SNorm == "" {
		cfg.SNorm = "max"
	}
	tnorm, ok := norms.LookupTNorm(cfg.TNorm)
	if !ok {
		return nil, fmt.Errorf("unknown tnorm %q", cfg.TNorm)
	}

	outCol := len(header) - 1
	inputNames := header[:outCol]
	outputName := header[outCol]

	ranges := columnRanges(header, rows, cfg.RangeMargin)

	k := kb.New()
	k.TNorm = cfg.TNorm
	k.SNorm = cfg.SNorm
	k.Mode = kb.FIT
	if cfg.Mode == string(kb.FATI) {
		k.Mode = kb.FATI
	}
	k.Defuzz = kb.Centroid

	inputPartitions := make([]partition, outCol)
	for j, name := range inputNames {
		p, err := buildPartition(name, ranges[j].min, ranges[j].max, cfg)
		if err != nil {
			return nil, err
		}
		inputPartitions[j] = p

		iv, err := variable.NewInputVariable(name, ranges[j].min, ranges[j].max)
		if err != nil {
			return nil, err
		}
		for _, term := range p.terms {
			if err := iv.AddTerm(term.Label, term.MF); err != nil {
				return nil, err
			}
		}
		if err := k.AddInput(iv); err != nil {
			return nil, err
		}
	}

	outPartition, err := buildPartition(outputName, ranges[outCol].min, ranges[outCol].max, cfg)
	if err != nil {
		return nil, err
	}
	ov, err := variable.NewOutputVariable(outputName, ranges[outCol].min, ranges[outCol].max)
	if err != nil {
		return nil, err
	}
	for _, term := range outPartition.terms {
		if err := ov.AddTerm(term.Label, term.MF); err != nil {
			return nil, err
		}
	}
	ov.Grid = variable.Grid{YMin: ranges[outCol].min, YMax: ranges[outCol].max, N: 201}
	if err := k.AddOutput(ov); err != nil {
		return nil, err
	}

	dedup := newRuleDedup()

	var bar *progressbar.ProgressBar
	if cfg.ShowProgress {
		bar = progressbar.Default(int64(len(rows)))
	}

	for _, row := range rows {
		antecedent := make([]rule.Literal, outCol)
		antMus := make([]float64, outCol)
		for j := 0; j < outCol; j++ {
			label, mu := bestLabel(inputPartitions[j], row[j])
			antecedent[j] = rule.Literal{Var: inputNames[j], Label: label}
			antMus[j] = mu
		}
		consLabel, consMu := bestLabel(outPartition, row[outCol])
		strength := tnorm(antMus) * consMu

		dedup.add(antecedent, rule.Literal{Var: outputName, Label: consLabel}, strength)

		if bar != nil {
			bar.Add(1)
		}
	}

	for _, entry := range dedup.ordered() {
		if entry.strength < cfg.MinWeight {
			continue
		}
		r, err := rule.New(entry.consequent, entry.antecedent...)
		if err != nil {
			return nil, err
		}
		r.Weight = entry.strength
		k.AddRule(r)
	}

	return k, nil
}
