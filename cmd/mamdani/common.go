package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loian/mamdani/internal/logx"
	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/norms"
)

// parseKeyVals parses a list of "var=value" tokens (the positional arguments
// to predict/explain/show's --at) into a crisp input map.
func parseKeyVals(kvs []string) (map[string]float64, error) {
	data := make(map[string]float64, len(kvs))
	for _, kv := range kvs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected var=value, got %q", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kv, err)
		}
		data[strings.TrimSpace(parts[0])] = v
	}
	return data, nil
}

// checkNormFallback logs a warning for each of a knowledge base's tnorm/snorm
// names that isn't registered, mirroring §7's runtime LookupError: fall back
// to min/max rather than abort, but make the substitution visible.
func checkNormFallback(k *kb.KnowledgeBase) {
	if _, ok := norms.LookupTNorm(k.TNorm); !ok {
		logx.Warn("unknown tnorm, falling back to min", "tnorm", k.TNorm)
	}
	if _, ok := norms.LookupSNorm(k.SNorm); !ok {
		logx.Warn("unknown snorm, falling back to max", "snorm", k.SNorm)
	}
}
