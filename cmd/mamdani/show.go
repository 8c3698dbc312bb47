package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/norms"
	"github.com/loian/mamdani/parser"
	"github.com/loian/mamdani/rule"
)

func showCmd() *cobra.Command {
	var modelPath string
	var at []string
	var includeInactive bool
	var firedOnly bool
	var minAlpha float64

	cmd := &cobra.Command{
		Use:   "show --model PATH [--at k=v ...] [--include-inactive] [--fired-only] [--min-alpha F]",
		Short: "Print a model's inputs, outputs, and rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if firedOnly && len(at) == 0 {
				return fmt.Errorf("--fired-only requires --at")
			}
			k, err := parser.ParseFile(modelPath)
			if err != nil {
				return err
			}
			checkNormFallback(k)

			var inputs map[string]float64
			var haveInputs bool
			if len(at) > 0 {
				inputs, err = parseKeyVals(at)
				if err != nil {
					return err
				}
				haveInputs = true
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Inputs:")
			for _, iv := range k.Inputs() {
				fmt.Fprintf(out, "  %s [%g, %g]\n", iv.Name, iv.VMin, iv.VMax)
				var fz map[string]float64
				if haveInputs {
					if x, ok := inputs[iv.Name]; ok {
						fz = iv.Fuzzify(iv.Clamp(x))
					}
				}
				for _, term := range iv.Terms() {
					if fz != nil {
						fmt.Fprintf(out, "    %s  μ=%.4f\n", term.Label, fz[term.Label])
					} else {
						fmt.Fprintf(out, "    %s\n", term.Label)
					}
				}
			}

			fmt.Fprintln(out, "Outputs:")
			for _, ov := range k.Outputs() {
				fmt.Fprintf(out, "  %s [%g, %g]  grid=(%g,%g,%d)\n", ov.Name, ov.VMin, ov.VMax, ov.Grid.YMin, ov.Grid.YMax, ov.Grid.N)
				for _, term := range ov.Terms() {
					fmt.Fprintf(out, "    %s\n", term.Label)
				}
			}

			fmt.Fprintln(out, "Rules:")
			tnorm, _ := norms.ResolveTNorm(k.TNorm)
			for i, r := range k.Rules {
				if !r.Active && !includeInactive {
					continue
				}
				var result rule.ActivationResult
				if haveInputs {
					result = evalRuleAlpha(k, r, inputs, tnorm)
					if firedOnly && (result.Skipped || result.Alpha < minAlpha) {
						continue
					}
				}
				printRule(out, i, r, haveInputs, result)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to a .fz model (required)")
	cmd.Flags().StringArrayVar(&at, "at", nil, "var=value, repeatable; annotates terms and rules")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "also list inactive rules")
	cmd.Flags().BoolVar(&firedOnly, "fired-only", false, "only list rules with alpha >= --min-alpha (requires --at)")
	cmd.Flags().Float64Var(&minAlpha, "min-alpha", 0, "minimum alpha for --fired-only")
	cmd.MarkFlagRequired("model")
	return cmd
}

// evalRuleAlpha computes a rule's activation against an explicit input map,
// independent of whether the rule is active or its consequent names a
// registered output — show annotates every rule, inference.FireRules only
// the ones that would actually fire.
func evalRuleAlpha(k *kb.KnowledgeBase, r *rule.Rule, at map[string]float64, tnorm norms.Func) rule.ActivationResult {
	mu := func(v, label string) (float64, bool) {
		iv, ok := k.Input(v)
		if !ok {
			return 0, false
		}
		x, ok := at[v]
		if !ok {
			return 0, false
		}
		term, ok := iv.Term(label)
		if !ok {
			return 0, false
		}
		return term.Evaluate(iv.Clamp(x)), true
	}
	return r.Activate(tnorm, mu)
}

func printRule(out io.Writer, i int, r *rule.Rule, haveInputs bool, result rule.ActivationResult) {
	ants := ""
	for j, lit := range r.Antecedent {
		if j > 0 {
			ants += " AND "
		}
		ants += fmt.Sprintf("%s is %s", lit.Var, lit.Label)
	}
	status := ""
	if !r.Active {
		status = " (inactive)"
	}
	if haveInputs && !result.Skipped {
		fmt.Fprintf(out, "  R%d: IF %s THEN %s is %s  weight=%g alpha=%.4f%s\n",
			i, ants, r.Consequent.Var, r.Consequent.Label, r.Weight, result.Alpha, status)
		return
	}
	if haveInputs && result.Skipped {
		fmt.Fprintf(out, "  R%d: IF %s THEN %s is %s  weight=%g alpha=skipped%s\n",
			i, ants, r.Consequent.Var, r.Consequent.Label, r.Weight, status)
		return
	}
	fmt.Fprintf(out, "  R%d: IF %s THEN %s is %s  weight=%g%s\n",
		i, ants, r.Consequent.Var, r.Consequent.Label, r.Weight, status)
}
