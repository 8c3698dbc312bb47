package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loian/mamdani/classify"
	"github.com/loian/mamdani/parser"
)

func explainCmd() *cobra.Command {
	var modelPath string
	var jsonOut bool
	var threshold float64

	cmd := &cobra.Command{
		Use:   "explain --model PATH k=v ...",
		Short: "Show which rules fired, at what strength, for a given input",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parser.ParseFile(modelPath)
			if err != nil {
				return err
			}
			checkNormFallback(k)

			inputs, err := parseKeyVals(args)
			if err != nil {
				return err
			}
			result, err := classify.Explain(k, inputs, threshold)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			for _, out := range k.Outputs() {
				exp := result[out.Name]
				fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", out.Name)
				if exp.LabelStrengths != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  FATI label strengths: %v\n", exp.LabelStrengths)
				}
				for _, e := range exp.Entries {
					ants := ""
					for i, a := range e.Antecedent {
						if i > 0 {
							ants += " AND "
						}
						ants += fmt.Sprintf("%s is %s (μ=%.3f)", a.Var, a.Label, a.Mu)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  R%d: IF %s THEN %s is %s  alpha=%.4f weight=%g\n",
						e.RuleIndex, ants, e.Consequent.Var, e.Consequent.Label, e.Alpha, e.Weight)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to a .fz model (required)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the explain() structure as JSON")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum alpha to include a fired rule")
	cmd.MarkFlagRequired("model")
	return cmd
}
