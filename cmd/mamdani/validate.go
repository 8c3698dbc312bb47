package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loian/mamdani/parser"
)

func validateCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse a .fz model and summarize its counts and engine settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parser.ParseFile(modelPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: inputs=%d, outputs=%d, rules=%d\n",
				len(k.Inputs()), len(k.Outputs()), len(k.Rules))
			fmt.Fprintf(cmd.OutOrStdout(), "tnorm=%s, snorm=%s, mode=%s, defuzz=%s\n",
				k.TNorm, k.SNorm, k.Mode, k.Defuzz)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to a .fz model (required)")
	cmd.MarkFlagRequired("model")
	return cmd
}
