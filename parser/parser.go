// Package parser reads the `.fz` textual knowledge-base grammar: a
// line-oriented DSL of `var`/`mf`/`rule`/engine directives, case-insensitive
// keywords, `#` comments, and quote-grouped tokens. Rule cross-references
// are validated once at EOF so rules may forward-reference MFs defined
// later in the file.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/loian/mamdani/kb"
	"github.com/loian/mamdani/membership"
	"github.com/loian/mamdani/norms"
	"github.com/loian/mamdani/rule"
	"github.com/loian/mamdani/variable"
)

// ParseError reports a grammar or cross-reference violation pinned to the
// offending source line.
type ParseError struct {
	Line    int
	Content string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Message, e.Content)
}

func perr(line int, content, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Content: content, Message: fmt.Sprintf(format, args...)}
}

// pendingRule is a rule directive read before its MFs are necessarily
// defined; it is validated and appended to the KB only at EOF.
type pendingRule struct {
	line       int
	content    string
	antecedent []rule.Literal
	consequent rule.Literal
	weight     float64
	active     bool
}

// ParseFile opens path and parses its contents as a `.fz` document.
func ParseFile(path string) (*kb.KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString parses a `.fz` document held in memory.
func ParseString(content string) (*kb.KnowledgeBase, error) {
	return Parse(strings.NewReader(content))
}

// Parse reads a `.fz` document from r and returns the assembled knowledge
// base, or the first error encountered: a *ParseError for a line-level
// problem, or the *kb.SchemaError from Validate when no output is defined.
func Parse(r io.Reader) (*kb.KnowledgeBase, error) {
	k := kb.New()

	var pending []pendingRule
	var gridDirective *gridSpec
	var bareGridN int

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		tok, err := tokenize(line)
		if err != nil {
			return nil, perr(lineNum, raw, "%s", err.Error())
		}
		if len(tok) == 0 {
			continue
		}

		head := strings.ToLower(tok[0])
		switch head {
		case "schema":
			if err := parseSchema(k, tok, lineNum, raw); err != nil {
				return nil, err
			}
		case "var":
			if err := parseVar(k, tok, lineNum, raw); err != nil {
				return nil, err
			}
		case "mf":
			if err := parseMF(k, tok, lineNum, raw); err != nil {
				return nil, err
			}
		case "rule":
			pr, err := parseRule(tok, lineNum, raw)
			if err != nil {
				return nil, err
			}
			pending = append(pending, pr)
		case "tnorm":
			if len(tok) < 2 {
				return nil, perr(lineNum, raw, "tnorm requires a name")
			}
			name := strings.ToLower(tok[1])
			if _, ok := norms.LookupTNorm(name); !ok {
				return nil, perr(lineNum, raw, "unknown tnorm %q", name)
			}
			k.TNorm = name
		case "snorm":
			if len(tok) < 2 {
				return nil, perr(lineNum, raw, "snorm requires a name")
			}
			name := strings.ToLower(tok[1])
			if _, ok := norms.LookupSNorm(name); !ok {
				return nil, perr(lineNum, raw, "unknown snorm %q", name)
			}
			k.SNorm = name
		case "mode":
			if len(tok) < 2 {
				return nil, perr(lineNum, raw, "mode requires FIT or FATI")
			}
			switch strings.ToUpper(tok[1]) {
			case "FIT":
				k.Mode = kb.FIT
			case "FATI":
				k.Mode = kb.FATI
			default:
				return nil, perr(lineNum, raw, "unknown mode %q", tok[1])
			}
		case "defuzz":
			g, n, err := parseDefuzz(k, tok, lineNum, raw)
			if err != nil {
				return nil, err
			}
			if g != nil {
				gridDirective = g
			}
			if n > 0 {
				bareGridN = n
			}
		case "dtype", "aggregation", "implication":
			// reserved; parsed (tokenized above) and ignored.
		default:
			return nil, perr(lineNum, raw, "unknown directive %q", tok[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	applyGridDirectives(k, gridDirective, bareGridN)

	if err := k.Validate(); err != nil {
		return nil, err
	}

	for _, pr := range pending {
		r, err := resolveRule(k, pr)
		if err != nil {
			return nil, err
		}
		k.AddRule(r)
	}

	return k, nil
}

type gridSpec struct {
	ymin, ymax float64
	n          int
}

func applyGridDirectives(k *kb.KnowledgeBase, grid *gridSpec, bareN int) {
	for _, out := range k.Outputs() {
		if grid != nil {
			out.Grid = variable.Grid{YMin: grid.ymin, YMax: grid.ymax, N: grid.n}
		} else if bareN > 0 {
			out.Grid = variable.Grid{YMin: out.Grid.YMin, YMax: out.Grid.YMax, N: bareN}
		}
	}
}

func stripComment(line string) string {
	inSingle, inDouble := false, false
	for i, r := range line {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return line[:i]
			}
		}
	}
	return line
}

// tokenize splits line on whitespace, treating single- or double-quoted
// spans as one token (quotes stripped).
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := rune(0)
	hasToken := false

	flush := func() {
		if hasToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasToken = false
		}
	}

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			inQuote = r
			hasToken = true
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if inQuote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	return tokens, nil
}

func parseFloat(tok, raw string, lineNum int) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, perr(lineNum, raw, "invalid number %q", tok)
	}
	return v, nil
}

func parseSchema(k *kb.KnowledgeBase, tok []string, lineNum int, raw string) error {
	if len(tok) < 2 {
		return perr(lineNum, raw, "schema requires a version number")
	}
	v, err := strconv.Atoi(tok[1])
	if err != nil {
		return perr(lineNum, raw, "invalid schema version %q", tok[1])
	}
	k.SchemaVersion = v
	return nil
}

func parseVar(k *kb.KnowledgeBase, tok []string, lineNum int, raw string) error {
	if len(tok) < 5 {
		return perr(lineNum, raw, "var requires kind, name, vmin, vmax")
	}
	kind := strings.ToLower(tok[1])
	name := tok[2]
	vmin, err := parseFloat(tok[3], raw, lineNum)
	if err != nil {
		return err
	}
	vmax, err := parseFloat(tok[4], raw, lineNum)
	if err != nil {
		return err
	}
	switch kind {
	case "input":
		iv, err := variable.NewInputVariable(name, vmin, vmax)
		if err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
		if err := k.AddInput(iv); err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
	case "output":
		ov, err := variable.NewOutputVariable(name, vmin, vmax)
		if err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
		if err := k.AddOutput(ov); err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
	default:
		return perr(lineNum, raw, "unknown var kind %q", kind)
	}
	return nil
}

func parseMF(k *kb.KnowledgeBase, tok []string, lineNum int, raw string) error {
	if len(tok) < 4 {
		return perr(lineNum, raw, "mf requires variable, label, shape, parameters")
	}
	vname, label, shape := tok[1], tok[2], strings.ToLower(tok[3])
	params := tok[4:]

	var mf membership.MembershipFunction
	switch shape {
	case "tri":
		if len(params) < 3 {
			return perr(lineNum, raw, "tri requires 3 parameters")
		}
		a, b, c, err := threeFloats(params, lineNum, raw)
		if err != nil {
			return err
		}
		t, err := membership.NewTriangular(a, b, c)
		if err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
		mf = t
	case "trap":
		if len(params) < 4 {
			return perr(lineNum, raw, "trap requires 4 parameters")
		}
		vals, err := floats(params[:4], lineNum, raw)
		if err != nil {
			return err
		}
		t, err := membership.NewTrapezoidal(vals[0], vals[1], vals[2], vals[3])
		if err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
		mf = t
	case "gauss":
		if len(params) < 2 {
			return perr(lineNum, raw, "gauss requires 2 parameters")
		}
		vals, err := floats(params[:2], lineNum, raw)
		if err != nil {
			return err
		}
		g, err := membership.NewGaussian(vals[0], vals[1])
		if err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
		mf = g
	default:
		return perr(lineNum, raw, "unknown mf shape %q", shape)
	}

	if iv, ok := k.Input(vname); ok {
		if err := iv.AddTerm(label, mf); err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
		return nil
	}
	if ov, ok := k.Output(vname); ok {
		if err := ov.AddTerm(label, mf); err != nil {
			return perr(lineNum, raw, "%s", err.Error())
		}
		return nil
	}
	return perr(lineNum, raw, "mf refers to unknown variable %q", vname)
}

func threeFloats(params []string, lineNum int, raw string) (float64, float64, float64, error) {
	vals, err := floats(params[:3], lineNum, raw)
	if err != nil {
		return 0, 0, 0, err
	}
	return vals[0], vals[1], vals[2], nil
}

func floats(params []string, lineNum int, raw string) ([]float64, error) {
	out := make([]float64, len(params))
	for i, p := range params {
		v, err := parseFloat(p, raw, lineNum)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseRule tokenizes `rule IF <v> is <L> (AND <v> is <L>)* THEN <ov> is <OL>
// [weight <w>] [inactive]` without resolving variable/label existence; that
// is deferred to resolveRule at EOF.
func parseRule(tok []string, lineNum int, raw string) (pendingRule, error) {
	words := tok[1:]
	if len(words) == 0 || strings.ToUpper(words[0]) != "IF" {
		return pendingRule{}, perr(lineNum, raw, "rule must start with IF")
	}

	thenIdx := -1
	for i, w := range words {
		if strings.ToUpper(w) == "THEN" {
			thenIdx = i
			break
		}
	}
	if thenIdx == -1 {
		return pendingRule{}, perr(lineNum, raw, "rule missing THEN")
	}

	cond := words[1:thenIdx]
	if len(cond) == 0 || len(cond)%3 != 0 {
		return pendingRule{}, perr(lineNum, raw, "malformed antecedent")
	}
	var antecedent []rule.Literal
	i := 0
	for i < len(cond) {
		if i+2 >= len(cond) || strings.ToLower(cond[i+1]) != "is" {
			return pendingRule{}, perr(lineNum, raw, "expected '<var> is <label>' in antecedent")
		}
		antecedent = append(antecedent, rule.Literal{Var: cond[i], Label: cond[i+2]})
		i += 3
		if i < len(cond) {
			if strings.ToUpper(cond[i]) != "AND" {
				return pendingRule{}, perr(lineNum, raw, "expected AND between antecedent literals")
			}
			i++
		}
	}

	cons := words[thenIdx+1:]
	if len(cons) < 3 || strings.ToLower(cons[1]) != "is" {
		return pendingRule{}, perr(lineNum, raw, "expected '<var> is <label>' in consequent")
	}
	consequent := rule.Literal{Var: cons[0], Label: cons[2]}

	weight := 1.0
	active := true
	rest := cons[3:]
	for j := 0; j < len(rest); j++ {
		switch strings.ToLower(rest[j]) {
		case "weight":
			if j+1 >= len(rest) {
				return pendingRule{}, perr(lineNum, raw, "weight requires a value")
			}
			w, err := parseFloat(rest[j+1], raw, lineNum)
			if err != nil {
				return pendingRule{}, err
			}
			weight = w
			j++
		case "inactive":
			active = false
		default:
			return pendingRule{}, perr(lineNum, raw, "unexpected token %q in rule", rest[j])
		}
	}

	return pendingRule{
		line:       lineNum,
		content:    raw,
		antecedent: antecedent,
		consequent: consequent,
		weight:     weight,
		active:     active,
	}, nil
}

func resolveRule(k *kb.KnowledgeBase, pr pendingRule) (*rule.Rule, error) {
	if !k.IsOutput(pr.consequent.Var) {
		return nil, perr(pr.line, pr.content, "consequent variable %q is not a defined output", pr.consequent.Var)
	}
	out, _ := k.Output(pr.consequent.Var)
	if _, ok := out.Term(pr.consequent.Label); !ok {
		return nil, perr(pr.line, pr.content, "consequent label %q not defined on %q", pr.consequent.Label, pr.consequent.Var)
	}

	for _, lit := range pr.antecedent {
		if k.IsOutput(lit.Var) {
			return nil, perr(pr.line, pr.content, "antecedent variable %q must be an input, not an output", lit.Var)
		}
		iv, ok := k.Input(lit.Var)
		if !ok {
			return nil, perr(pr.line, pr.content, "antecedent variable %q is not defined", lit.Var)
		}
		if _, ok := iv.Term(lit.Label); !ok {
			return nil, perr(pr.line, pr.content, "antecedent label %q not defined on %q", lit.Label, lit.Var)
		}
	}

	r, err := rule.New(pr.consequent, pr.antecedent...)
	if err != nil {
		return nil, perr(pr.line, pr.content, "%s", err.Error())
	}
	r.Weight = pr.weight
	r.Active = pr.active
	return r, nil
}

func parseDefuzz(k *kb.KnowledgeBase, tok []string, lineNum int, raw string) (*gridSpec, int, error) {
	if len(tok) < 2 {
		return nil, 0, perr(lineNum, raw, "defuzz requires a method")
	}
	switch strings.ToLower(tok[1]) {
	case "centroid":
		k.Defuzz = kb.Centroid
	case "mom":
		k.Defuzz = kb.MeanOfMaxima
	case "bisector":
		k.Defuzz = kb.Bisector
	case "centroid_adaptive":
		k.Defuzz = kb.CentroidAdaptive
	default:
		return nil, 0, perr(lineNum, raw, "unknown defuzz method %q", tok[1])
	}

	if len(tok) == 2 {
		return nil, 0, nil
	}
	switch strings.ToLower(tok[2]) {
	case "grid":
		if len(tok) < 6 {
			return nil, 0, perr(lineNum, raw, "defuzz grid requires ymin ymax n")
		}
		ymin, err := parseFloat(tok[3], raw, lineNum)
		if err != nil {
			return nil, 0, err
		}
		ymax, err := parseFloat(tok[4], raw, lineNum)
		if err != nil {
			return nil, 0, err
		}
		n, err := strconv.Atoi(tok[5])
		if err != nil {
			return nil, 0, perr(lineNum, raw, "invalid grid n %q", tok[5])
		}
		return &gridSpec{ymin: ymin, ymax: ymax, n: n}, 0, nil
	case "n":
		if len(tok) < 4 {
			return nil, 0, perr(lineNum, raw, "defuzz n requires a value")
		}
		n, err := strconv.Atoi(tok[3])
		if err != nil {
			return nil, 0, perr(lineNum, raw, "invalid n %q", tok[3])
		}
		return nil, n, nil
	default:
		return nil, 0, perr(lineNum, raw, "unknown defuzz qualifier %q", tok[2])
	}
}
