package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/loian/mamdani/classify"
	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/parser"
)

func applyCmd() *cobra.Command {
	var modelPath, csvPath, outPath string
	var colMap, inCols, ignoreCols, encoding, mode string
	var inputsN int

	cmd := &cobra.Command{
		Use:   "apply --model PATH --csv PATH",
		Short: "Batch-classify every row of a CSV against a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parser.ParseFile(modelPath)
			if err != nil {
				return err
			}
			checkNormFallback(k)
			if len(k.Outputs()) == 0 {
				return fmt.Errorf("model has no output variable")
			}
			if mode != "" {
				if mode != string(kb.FIT) && mode != string(kb.FATI) {
					return fmt.Errorf("--mode must be FIT or FATI, got %q", mode)
				}
				k.Mode = kb.Mode(mode)
			}

			f, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", csvPath, err)
			}
			defer f.Close()
			r := csv.NewReader(f)
			first, err := r.Read()
			if err != nil {
				return fmt.Errorf("%s: empty CSV", csvPath)
			}

			headerMode := detectHeader(first)
			rest, err := r.ReadAll()
			if err != nil {
				return fmt.Errorf("reading %s: %w", csvPath, err)
			}

			var colnames []string
			var dataRows [][]string
			if headerMode {
				colnames = first
				dataRows = rest
			} else {
				colnames = syntheticHeader(len(first))
				dataRows = append([][]string{first}, rest...)
			}

			modelInputs := make([]string, 0, len(k.Inputs()))
			for _, iv := range k.Inputs() {
				modelInputs = append(modelInputs, iv.Name)
			}
			if inputsN > 0 && inputsN < len(modelInputs) {
				modelInputs = modelInputs[:inputsN]
			}

			ignoreSpec := parseColsList(ignoreCols)
			var ignoreIdxs []int
			if len(ignoreSpec) > 0 {
				ignoreIdxs, err = resolveNamesToIndices(ignoreSpec, colnames)
				if err != nil {
					return err
				}
			}

			mapping, err := resolveApplyMapping(colMap, inCols, modelInputs, colnames, ignoreIdxs, headerMode)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "[apply] var -> column mapping:")
			for _, vn := range modelInputs {
				idx := mapping[vn]
				label := "c?"
				if idx >= 0 && idx < len(colnames) {
					label = colnames[idx]
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s <- [%d] %s\n", vn, idx, label)
			}

			out := k.Outputs()[0]
			classLabels := make([]string, 0, len(out.Terms()))
			for _, term := range out.Terms() {
				classLabels = append(classLabels, term.Label)
			}

			var header []string
			switch encoding {
			case "decimal":
				header = append(header, "_pred_decimal")
			case "binary":
				for _, lbl := range classLabels {
					header = append(header, "_pred_"+lbl)
				}
			default:
				header = append(header, "_pred_label")
			}
			for _, lbl := range classLabels {
				header = append(header, "_score_"+lbl)
			}

			var w *csv.Writer
			var outFile *os.File
			if outPath != "" {
				outFile, err = os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer outFile.Close()
				w = csv.NewWriter(outFile)
				defer w.Flush()
				w.Write(header)
			}

			var bar *progressbar.ProgressBar
			if len(dataRows) > 0 {
				bar = progressbar.Default(int64(len(dataRows)))
			}
			for _, row := range dataRows {
				if len(row) == 0 {
					continue
				}
				if err := applyRow(k, out.Name, mapping, modelInputs, classLabels, encoding, row, w, cmd); err != nil {
					return err
				}
				if bar != nil {
					bar.Add(1)
				}
			}

			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "[apply] results written to %s\n", outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to a .fz model (required)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "input CSV (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output CSV; stdout if omitted")
	cmd.Flags().StringVar(&colMap, "col-map", "", "explicit var=column mapping, comma-separated")
	cmd.Flags().StringVar(&inCols, "in-cols", "", "ordered input columns (names or indices), comma-separated")
	cmd.Flags().StringVar(&ignoreCols, "ignore-cols", "", "columns to exclude from positional mapping")
	cmd.Flags().IntVar(&inputsN, "inputs", 0, "limit to the model's first N input variables")
	cmd.Flags().StringVar(&encoding, "encoding", "label", "prediction encoding: label|decimal|binary")
	cmd.Flags().StringVar(&mode, "mode", "", "override the model's inference mode: FIT|FATI")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("csv")
	return cmd
}

// resolveApplyMapping implements apply.py's column-resolution fallback
// chain: explicit --col-map, then --in-cols (positional, minus ignored),
// then header-name auto-match, then a positional fallback over whatever
// columns remain.
func resolveApplyMapping(colMap, inCols string, modelInputs, colnames []string, ignoreIdxs []int, headerMode bool) (map[string]int, error) {
	mapping := make(map[string]int)

	if entries := parseMappingArg(colMap); len(entries) > 0 {
		for _, e := range entries {
			idxs, err := resolveNamesToIndices([]string{e.column}, colnames)
			if err != nil {
				return nil, err
			}
			mapping[e.variable] = idxs[0]
		}
		return mapping, nil
	}

	if specs := parseColsList(inCols); len(specs) > 0 {
		idxs, err := resolveNamesToIndices(specs, colnames)
		if err != nil {
			return nil, err
		}
		selected := make([]int, 0, len(idxs))
		for _, i := range idxs {
			if !containsInt(ignoreIdxs, i) {
				selected = append(selected, i)
			}
		}
		if len(selected) != len(modelInputs) {
			return nil, fmt.Errorf("--in-cols has %d columns, model expects %d inputs", len(selected), len(modelInputs))
		}
		for i, vn := range modelInputs {
			mapping[vn] = selected[i]
		}
		return mapping, nil
	}

	if headerMode {
		for _, vn := range modelInputs {
			for i, name := range colnames {
				if name == vn {
					mapping[vn] = i
					break
				}
			}
		}
		if len(mapping) == len(modelInputs) {
			return mapping, nil
		}
		mapping = make(map[string]int)
	}

	candidates := make([]int, 0, len(colnames))
	for i := range colnames {
		if !containsInt(ignoreIdxs, i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < len(modelInputs) {
		return nil, fmt.Errorf("too few columns: available=%d, needed=%d", len(candidates), len(modelInputs))
	}
	for i, vn := range modelInputs {
		mapping[vn] = candidates[i]
	}
	return mapping, nil
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// applyRow classifies one CSV row and either writes it to w (batch CSV
// output) or prints it to cmd's stdout (no --out given).
func applyRow(k *kb.KnowledgeBase, outName string, mapping map[string]int, modelInputs, classLabels []string, encoding string, row []string, w *csv.Writer, cmd *cobra.Command) error {
	data := make(map[string]float64, len(modelInputs))
	for _, vn := range modelInputs {
		idx := mapping[vn]
		if idx < 0 || idx >= len(row) || row[idx] == "" {
			data[vn] = 0
			continue
		}
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return fmt.Errorf("column %d: non-numeric value %q", idx, row[idx])
		}
		data[vn] = v
	}

	result, err := classify.Classify(k, data)
	if err != nil {
		return err
	}
	c := result[outName]

	var outRow []string
	switch encoding {
	case "decimal":
		if c.Chosen == nil {
			outRow = append(outRow, "")
		} else {
			outRow = append(outRow, strconv.Itoa(indexOfLabel(classLabels, *c.Chosen)))
		}
	case "binary":
		for _, lbl := range classLabels {
			if c.Chosen != nil && lbl == *c.Chosen {
				outRow = append(outRow, "1")
			} else {
				outRow = append(outRow, "0")
			}
		}
	default:
		if c.Chosen == nil {
			outRow = append(outRow, "")
		} else {
			outRow = append(outRow, *c.Chosen)
		}
	}
	for _, lbl := range classLabels {
		outRow = append(outRow, strconv.FormatFloat(c.Strengths[lbl], 'g', -1, 64))
	}

	if w != nil {
		return w.Write(outRow)
	}
	fmt.Fprintln(cmd.OutOrStdout(), joinCSVRow(outRow))
	return nil
}

func indexOfLabel(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

func joinCSVRow(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
