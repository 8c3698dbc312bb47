package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// pipelineStep is one entry of a run document: Name is the subcommand to
// execute, Args its positional arguments (predict/explain's "k=v" tokens;
// show takes its inputs from the "at" flag instead), Flags its "--flag
// value" pairs.
type pipelineStep struct {
	Name  string
	Args  []string
	Flags map[string]string
}

func runCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run --config PATH",
		Short: "Orchestrate subcommands from a JSON or YAML pipeline document",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := loadPipeline(configPath)
			if err != nil {
				return err
			}
			for _, step := range steps {
				sub := lookupSubcommand(step.Name)
				if sub == nil {
					return fmt.Errorf("run: unknown subcommand %q", step.Name)
				}
				for flag, value := range step.Flags {
					if err := sub.Flags().Set(flag, value); err != nil {
						return fmt.Errorf("run: step %q: --%s: %w", step.Name, flag, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[run] %s\n", step.Name)
				if err := sub.RunE(sub, step.Args); err != nil {
					return fmt.Errorf("run: step %q: %w", step.Name, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON or YAML pipeline document (required)")
	cmd.MarkFlagRequired("config")
	return cmd
}

// lookupSubcommand constructs a fresh instance of the named subcommand, so
// each pipeline step gets its own unshared flag state.
func lookupSubcommand(name string) *cobra.Command {
	switch name {
	case "validate":
		return validateCmd()
	case "show":
		return showCmd()
	case "predict":
		return predictCmd()
	case "explain":
		return explainCmd()
	case "learn":
		return learnCmd()
	case "apply":
		return applyCmd()
	case "prepare":
		return prepareCmd()
	default:
		return nil
	}
}

// loadPipeline reads a run document and returns its steps in the order they
// appear: a top-level object whose keys name subcommands, each value an
// object with optional "args" (list of positional tokens) and "flags" (map
// of flag name to value) keys. JSON preserves key order via token-based
// decoding; YAML preserves it via yaml.Node's mapping content, since a
// decode straight into a Go map would lose the ordering §6.2 requires.
func loadPipeline(path string) ([]pipelineStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return loadPipelineYAML(data)
	}
	return loadPipelineJSON(data)
}

type rawStep struct {
	Args  []string          `json:"args" yaml:"args"`
	Flags map[string]string `json:"flags" yaml:"flags"`
}

func loadPipelineJSON(data []byte) ([]pipelineStep, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing pipeline document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("pipeline document must be a JSON object at top level")
	}

	var steps []pipelineStep
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("pipeline document: expected string key")
		}
		var rs rawStep
		if err := dec.Decode(&rs); err != nil {
			return nil, fmt.Errorf("pipeline document: step %q: %w", name, err)
		}
		steps = append(steps, pipelineStep{Name: name, Args: rs.Args, Flags: rs.Flags})
	}
	return steps, nil
}

func loadPipelineYAML(data []byte) ([]pipelineStep, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing pipeline document: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("pipeline document is empty")
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("pipeline document must be a mapping at top level")
	}

	var steps []pipelineStep
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		name := mapping.Content[i].Value
		var rs rawStep
		if err := mapping.Content[i+1].Decode(&rs); err != nil {
			return nil, fmt.Errorf("pipeline document: step %q: %w", name, err)
		}
		steps = append(steps, pipelineStep{Name: name, Args: rs.Args, Flags: rs.Flags})
	}
	return steps, nil
}
