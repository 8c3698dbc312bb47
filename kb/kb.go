// Package kb defines KnowledgeBase: the immutable container aggregating a
// model's input/output variables, rules, and engine settings. A
// KnowledgeBase is built once (by the parser or the learner) and then
// shared read-only across predict/classify/explain calls.
package kb

import (
	"fmt"

	"github.com/loian/mamdani/rule"
	"github.com/loian/mamdani/variable"
)

// Mode selects the inference strategy: FIT defuzzifies a single aggregated
// surface per output; FATI aggregates per consequent label first.
type Mode string

const (
	FIT  Mode = "FIT"
	FATI Mode = "FATI"
)

// DefuzzMethod names one of the grid-based defuzzifiers in package defuzz.
type DefuzzMethod string

const (
	Centroid         DefuzzMethod = "centroid"
	MeanOfMaxima     DefuzzMethod = "mom"
	Bisector         DefuzzMethod = "bisector"
	CentroidAdaptive DefuzzMethod = "centroid_adaptive"
)

// ColumnSpec describes one source column of a tabular dataset: its storage
// type, its role relative to the model, and (for text columns) how it was
// encoded or scaled. This is the Go counterpart of the original's
// per-column schema entry; no package in this repository reads or writes
// it.
type ColumnSpec struct {
	Name   string
	Dtype  string // "num" | "str"
	Role   string // "in" | "out" | "ignore"
	Encode string // "label" | "onehot" | "binary" | ""
	Scale  string // "none" | "minmax" | "zscore" | ""
}

// ScalerParams holds the parameters of a numeric scaler fit during
// `prepare`, e.g. {"min": 0, "max": 100} or {"mean": 5, "std": 1.2}.
type ScalerParams map[string]float64

// DatasetMetadata carries a dataset's column schema, text-label encodings,
// and scaler parameters alongside a KnowledgeBase. Nothing in this
// repository sets it (`prepare` writes its mapping to a separate JSON file,
// and the parser and learner leave it nil); no invariant in the data model
// depends on it.
type DatasetMetadata struct {
	Schema        map[string]ColumnSpec
	LabelMappings map[string]map[string]int
	ScalerParams  map[string]ScalerParams
}

// orderedInputs / orderedOutputs are the ordered-map building blocks shared
// with package variable: an append-only slice plus a name index, so
// iteration always reflects insertion order.
type orderedInputs struct {
	order []*variable.InputVariable
	index map[string]int
}

type orderedOutputs struct {
	order []*variable.OutputVariable
	index map[string]int
}

// KnowledgeBase aggregates everything needed to run inference: variables,
// rules, and engine settings. Rule order is preserved because it defines
// the stable rule index surfaced in `explain`.
type KnowledgeBase struct {
	inputs  orderedInputs
	outputs orderedOutputs
	Rules   []*rule.Rule

	TNorm  string
	SNorm  string
	Mode   Mode
	Defuzz DefuzzMethod

	SchemaVersion int
	Metadata      *DatasetMetadata
}

// New creates an empty knowledge base with the spec's default engine
// settings (tnorm=min, snorm=max, mode=FIT, defuzz=centroid, schema
// version 1); `parser`/`learn` override these as directives are read.
func New() *KnowledgeBase {
	return &KnowledgeBase{
		inputs:        orderedInputs{index: make(map[string]int)},
		outputs:       orderedOutputs{index: make(map[string]int)},
		TNorm:         "min",
		SNorm:         "max",
		Mode:          FIT,
		Defuzz:        Centroid,
		SchemaVersion: 1,
	}
}

// AddInput registers an input variable. Its name must be unique across both
// inputs and outputs.
func (kb *KnowledgeBase) AddInput(v *variable.InputVariable) error {
	if _, exists := kb.lookupName(v.Name); exists {
		return &SchemaError{Op: "AddInput", Message: fmt.Sprintf("variable %q already defined", v.Name), err: ErrDuplicateVariable}
	}
	kb.inputs.index[v.Name] = len(kb.inputs.order)
	kb.inputs.order = append(kb.inputs.order, v)
	return nil
}

// AddOutput registers an output variable. Its name must be unique across
// both inputs and outputs.
func (kb *KnowledgeBase) AddOutput(v *variable.OutputVariable) error {
	if _, exists := kb.lookupName(v.Name); exists {
		return &SchemaError{Op: "AddOutput", Message: fmt.Sprintf("variable %q already defined", v.Name), err: ErrDuplicateVariable}
	}
	kb.outputs.index[v.Name] = len(kb.outputs.order)
	kb.outputs.order = append(kb.outputs.order, v)
	return nil
}

// AddRule appends a rule, preserving insertion order for the stable rule
// index used in explanations.
func (kb *KnowledgeBase) AddRule(r *rule.Rule) {
	kb.Rules = append(kb.Rules, r)
}

// Input returns the named input variable, if defined.
func (kb *KnowledgeBase) Input(name string) (*variable.InputVariable, bool) {
	i, ok := kb.inputs.index[name]
	if !ok {
		return nil, false
	}
	return kb.inputs.order[i], true
}

// Output returns the named output variable, if defined.
func (kb *KnowledgeBase) Output(name string) (*variable.OutputVariable, bool) {
	i, ok := kb.outputs.index[name]
	if !ok {
		return nil, false
	}
	return kb.outputs.order[i], true
}

// Inputs returns the input variables in insertion order.
func (kb *KnowledgeBase) Inputs() []*variable.InputVariable {
	return kb.inputs.order
}

// Outputs returns the output variables in insertion order.
func (kb *KnowledgeBase) Outputs() []*variable.OutputVariable {
	return kb.outputs.order
}

// IsOutput reports whether name is a registered output variable.
func (kb *KnowledgeBase) IsOutput(name string) bool {
	_, ok := kb.outputs.index[name]
	return ok
}

// IsInput reports whether name is a registered input variable.
func (kb *KnowledgeBase) IsInput(name string) bool {
	_, ok := kb.inputs.index[name]
	return ok
}

func (kb *KnowledgeBase) lookupName(name string) (any, bool) {
	if _, ok := kb.inputs.index[name]; ok {
		return nil, true
	}
	if _, ok := kb.outputs.index[name]; ok {
		return nil, true
	}
	return nil, false
}
