package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loian/mamdani/inference"
	"github.com/loian/mamdani/parser"
)

func predictCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "predict --model PATH k=v ...",
		Short: "Defuzzify a crisp prediction for every output variable",
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
			results, err := inference.Predict(k, inputs)
			if err != nil {
				return err
			}
			for _, out := range k.Outputs() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %.6g\n", out.Name, results[out.Name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to a .fz model (required)")
	cmd.MarkFlagRequired("model")
	return cmd
}
