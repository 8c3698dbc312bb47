package main

import (
	"fmt"
	"strconv"
	"strings"
)

// isFloatCell reports whether s parses as a float64, the same probe
// apply.py/prepare.py use to decide whether a CSV's first row is a header.
func isFloatCell(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// detectHeader reports whether row looks like a header: any cell that isn't
// itself numeric. When false, synthetic column names c0,c1,... are used and
// the row is data, not a header.
func detectHeader(row []string) bool {
	for _, cell := range row {
		if !isFloatCell(cell) {
			return true
		}
	}
	return false
}

func syntheticHeader(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("c%d", i)
	}
	return names
}

// parseColsList splits a comma-separated column spec into tokens; each
// token is matched against colnames literally (named columns) or, when it
// parses as an integer, used as a column index.
func parseColsList(spec string) []string {
	if spec == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(spec, ",") {
		t := strings.TrimSpace(tok)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// resolveNamesToIndices maps a list of column names or decimal indices to
// integer column indices. Each name must exist in colnames; a decimal index
// is used as given, without a range check.
func resolveNamesToIndices(specs []string, colnames []string) ([]int, error) {
	idxs := make([]int, 0, len(specs))
	for _, spec := range specs {
		if n, err := strconv.Atoi(spec); err == nil {
			idxs = append(idxs, n)
			continue
		}
		found := -1
		for i, name := range colnames {
			if name == spec {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("column %q does not exist in CSV (columns: %v)", spec, colnames)
		}
		idxs = append(idxs, found)
	}
	return idxs, nil
}

// parseMappingArg parses --col-map's "var=col,var=col" form into an ordered
// variable-name -> column-spec-token map, preserving the order variables
// were given so output is deterministic.
type mappingEntry struct {
	variable string
	column   string
}

func parseMappingArg(spec string) []mappingEntry {
	if spec == "" {
		return nil
	}
	var out []mappingEntry
	for _, part := range strings.Split(spec, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		out = append(out, mappingEntry{variable: strings.TrimSpace(kv[0]), column: strings.TrimSpace(kv[1])})
	}
	return out
}
