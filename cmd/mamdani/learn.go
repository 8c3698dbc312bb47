package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/learn"
	"github.com/loian/mamdani/parser"
)

func learnCmd() *cobra.Command {
	var csvPath, outPath string
	var terms int
	var partition, induction, mode, tnorm, snorm string
	var minWeight float64

	cmd := &cobra.Command{
		Use:   "learn --csv PATH --out PATH",
		Short: "Induce a knowledge base from a numeric CSV table via Wang-Mendel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if induction != "wm" {
				return fmt.Errorf("unsupported --induction %q: only \"wm\" is implemented", induction)
			}
			if partition != "grid" {
				return fmt.Errorf("unsupported --partition %q: only \"grid\" is implemented", partition)
			}
			if mode != string(kb.FIT) && mode != string(kb.FATI) {
				return fmt.Errorf("--mode must be FIT or FATI, got %q", mode)
			}

			cfg := learn.DefaultConfig()
			cfg.Terms = terms
			cfg.Partition = partition
			cfg.TNorm = tnorm
			cfg.SNorm = snorm
			cfg.Mode = mode
			cfg.MinWeight = minWeight

			k, err := learn.LearnFromCSV(csvPath, cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, []byte(parser.Serialize(k)), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "learned %d rules -> %s\n", len(k.Rules), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "training CSV (header row, last column the output) (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the induced .fz model (required)")
	cmd.Flags().IntVar(&terms, "terms", 3, "number of terms per auto-built variable")
	cmd.Flags().StringVar(&partition, "partition", "grid", "partitioning strategy (only \"grid\" is supported)")
	cmd.Flags().StringVar(&induction, "induction", "wm", "induction algorithm (only \"wm\" is supported)")
	cmd.Flags().StringVar(&mode, "mode", string(kb.FIT), "inference mode for the induced model: FIT|FATI")
	cmd.Flags().StringVar(&tnorm, "tnorm", "min", "T-norm for the induced model")
	cmd.Flags().StringVar(&snorm, "snorm", "max", "S-norm for the induced model")
	cmd.Flags().Float64Var(&minWeight, "min-weight", 0, "drop induced rules with strength below this")
	cmd.MarkFlagRequired("csv")
	cmd.MarkFlagRequired("out")
	return cmd
}
