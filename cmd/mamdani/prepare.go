package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

// mappingDoc is the JSON document prepare writes alongside the numeric CSV,
// per §6.3.
type mappingDoc struct {
	Inputs     []string                  `json:"inputs"`
	Output     string                    `json:"output"`
	Ignored    []string                  `json:"ignored"`
	LabelMaps  map[string]map[string]int `json:"label_maps"`
	SourceCSV  string                    `json:"source_csv"`
	HeaderMode bool                      `json:"header_mode"`
}

func prepareCmd() *cobra.Command {
	var csvPath, inColsArg, outColArg, numColsArg, strColsArg, ignoreColsArg string
	var outPath, mappingPath string

	cmd := &cobra.Command{
		Use:   "prepare --csv PATH --in-cols ... --out-col ... --out PATH --mapping PATH",
		Short: "Produce a numeric training CSV and its JSON column mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outColArg == "" {
				return fmt.Errorf("--out-col is required")
			}

			f, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", csvPath, err)
			}
			r := csv.NewReader(f)
			first, err := r.Read()
			if err != nil {
				f.Close()
				return fmt.Errorf("%s: empty CSV", csvPath)
			}
			headerMode := detectHeader(first)
			var colnames []string
			var dataRows [][]string
			if headerMode {
				colnames = first
				dataRows, err = r.ReadAll()
			} else {
				colnames = syntheticHeader(len(first))
				var rest [][]string
				rest, err = r.ReadAll()
				dataRows = append([][]string{first}, rest...)
			}
			f.Close()
			if err != nil {
				return fmt.Errorf("reading %s: %w", csvPath, err)
			}

			inSpecs := parseColsList(inColsArg)
			numSpecs := parseColsList(numColsArg)
			strSpecs := parseColsList(strColsArg)
			ignoreSpecs := parseColsList(ignoreColsArg)

			inIdxs, err := resolveNamesToIndices(inSpecs, colnames)
			if err != nil {
				return err
			}
			outIdxs, err := resolveNamesToIndices([]string{outColArg}, colnames)
			if err != nil {
				return err
			}
			outIdx := outIdxs[0]
			// numeric-column spec is validation-only; no numeric coercion beyond the float parse already performed below
			if _, err := resolveNamesToIndices(numSpecs, colnames); err != nil {
				return err
			}
			strIdxs, err := resolveNamesToIndices(strSpecs, colnames)
			if err != nil {
				return err
			}
			ignoreIdxs, err := resolveNamesToIndices(ignoreSpecs, colnames)
			if err != nil {
				return err
			}

			if containsInt(ignoreIdxs, outIdx) {
				return fmt.Errorf("output column cannot also be in --ignore-cols")
			}
			for _, i := range inIdxs {
				if containsInt(ignoreIdxs, i) {
					return fmt.Errorf("input column %d is also in --ignore-cols", i)
				}
				if i == outIdx {
					return fmt.Errorf("a column cannot be both an input and the output")
				}
			}

			autoStr := make(map[int]bool, len(strIdxs))
			for _, i := range strIdxs {
				autoStr[i] = true
			}
			if len(strSpecs) == 0 {
				probeLimit := len(dataRows)
				if probeLimit > 50 {
					probeLimit = 50
				}
				for j := range colnames {
					if containsInt(ignoreIdxs, j) {
						continue
					}
					nonnum, total := 0, 0
					for _, row := range dataRows[:probeLimit] {
						if j >= len(row) {
							continue
						}
						total++
						if !isFloatCell(row[j]) {
							nonnum++
						}
					}
					if total > 0 && nonnum*2 > total {
						autoStr[j] = true
					}
				}
			}

			labelMaps := make(map[string]map[string]int)
			if autoStr[outIdx] {
				lm := make(map[string]int)
				next := 0
				for _, row := range dataRows {
					if outIdx >= len(row) {
						continue
					}
					val := row[outIdx]
					if _, seen := lm[val]; !seen {
						lm[val] = next
						next++
					}
				}
				labelMaps[colnames[outIdx]] = lm
			}

			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return err
				}
			}
			outF, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			w := csv.NewWriter(outF)

			headerOut := make([]string, 0, len(inIdxs)+1)
			for _, i := range inIdxs {
				headerOut = append(headerOut, colnames[i])
			}
			headerOut = append(headerOut, colnames[outIdx])
			w.Write(headerOut)

			lm, outIsLabel := labelMaps[colnames[outIdx]]
			for _, row := range dataRows {
				if len(row) == 0 {
					continue
				}
				newRow := make([]string, 0, len(inIdxs)+1)
				for _, i := range inIdxs {
					cell := ""
					if i < len(row) {
						cell = row[i]
					}
					if _, err := strconv.ParseFloat(cell, 64); err != nil {
						newRow = append(newRow, "NaN")
					} else {
						newRow = append(newRow, cell)
					}
				}
				if outIsLabel {
					val := ""
					if outIdx < len(row) {
						val = row[outIdx]
					}
					if _, seen := lm[val]; !seen {
						lm[val] = len(lm)
					}
					newRow = append(newRow, strconv.Itoa(lm[val]))
				} else {
					cell := ""
					if outIdx < len(row) {
						cell = row[outIdx]
					}
					if _, err := strconv.ParseFloat(cell, 64); err != nil {
						newRow = append(newRow, "NaN")
					} else {
						newRow = append(newRow, cell)
					}
				}
				w.Write(newRow)
			}
			w.Flush()
			outF.Close()
			if err := w.Error(); err != nil {
				return err
			}

			ignoredNames := make([]string, 0, len(ignoreIdxs))
			for _, i := range ignoreIdxs {
				ignoredNames = append(ignoredNames, colnames[i])
			}
			inputNames := make([]string, 0, len(inIdxs))
			for _, i := range inIdxs {
				inputNames = append(inputNames, colnames[i])
			}
			doc := mappingDoc{
				Inputs:     inputNames,
				Output:     colnames[outIdx],
				Ignored:    ignoredNames,
				LabelMaps:  labelMaps,
				SourceCSV:  csvPath,
				HeaderMode: headerMode,
			}
			if dir := filepath.Dir(mappingPath); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return err
				}
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(mappingPath, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", mappingPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[prepare] wrote: %s\n", outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "[prepare] mapping: %s\n", mappingPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "input CSV (required)")
	cmd.Flags().StringVar(&inColsArg, "in-cols", "", "input columns (names or indices), comma-separated (required)")
	cmd.Flags().StringVar(&outColArg, "out-col", "", "output column (name or index) (required)")
	cmd.Flags().StringVar(&numColsArg, "num-cols", "", "numeric columns (validation only)")
	cmd.Flags().StringVar(&strColsArg, "str-cols", "", "text columns to label-encode; auto-detected when omitted")
	cmd.Flags().StringVar(&ignoreColsArg, "ignore-cols", "", "columns to exclude")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the numeric CSV (required)")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "path to write the JSON mapping document (required)")
	cmd.MarkFlagRequired("csv")
	cmd.MarkFlagRequired("in-cols")
	cmd.MarkFlagRequired("out-col")
	cmd.MarkFlagRequired("out")
	cmd.MarkFlagRequired("mapping")
	return cmd
}
