// Package main implements the ogvalid CLI tool.
// It validates JSON documents against a YAML ruleset of JSONPath-targeted
// checks, using the same rule engine the library exposes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ohler55/ojg/oj"

	og "github.com/govalid/objectgraph"
	"github.com/govalid/objectgraph/engine"
)

const usage = `ogvalid - rule-based JSON document validator

Usage:
  ogvalid -ruleset rules.yaml [options] <file>...
  ogvalid -ruleset rules.yaml [options] -   (read from stdin)
  cat doc.json | ogvalid -ruleset rules.yaml -

Examples:
  ogvalid -ruleset rules.yaml order.json
  ogvalid -ruleset rules.yaml -output json *.json
  cat order.json | ogvalid -ruleset rules.yaml -

Options:
`

// OutputFormat specifies the output format.
type OutputFormat string

// Output format constants.
const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config holds CLI configuration
type Config struct {
	RuleSetPath string
	Output      OutputFormat
	Quiet       bool
	ShowVersion bool
	Help        bool
	Files       []string
}

// ValidationOutput represents the JSON output structure
type ValidationOutput struct {
	Document   string            `json:"document"`
	Valid      bool              `json:"valid"`
	Failures   int               `json:"failures"`
	Violations []ViolationOutput `json:"violations,omitempty"`
	Duration   string            `json:"duration"`
}

// ViolationOutput represents a single failure in JSON output
type ViolationOutput struct {
	Rule    string `json:"rule"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("ogvalid v%s\n", og.Version)
		os.Exit(0)
	}

	if config.Help || config.RuleSetPath == "" || len(config.Files) == 0 {
		flag.Usage()
		os.Exit(0)
	}

	os.Exit(run(config))
}

func parseFlags() *Config {
	config := &Config{Output: OutputText}
	var output string

	flag.StringVar(&config.RuleSetPath, "ruleset", "", "YAML ruleset file (required)")
	flag.StringVar(&output, "output", "text", "Output format: text, json")
	flag.BoolVar(&config.Quiet, "quiet", false, "Only report failing documents")
	flag.BoolVar(&config.ShowVersion, "v", false, "Show version")
	flag.BoolVar(&config.Help, "help", false, "Show help")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	flag.Parse()

	if strings.EqualFold(output, "json") {
		config.Output = OutputJSON
	}
	config.Files = flag.Args()

	return config
}

func run(config *Config) int {
	rs, err := loadRuleSet(config.RuleSetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	v := engine.New()

	hasFailures := false
	outputs := make([]ValidationOutput, 0, len(config.Files))

	for _, file := range config.Files {
		if file == "-" {
			data, err := readStdin()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				hasFailures = true
				continue
			}
			out, failed := validateData(v, rs, data, "stdin", config)
			outputs = append(outputs, out)
			hasFailures = hasFailures || failed
			continue
		}

		matches, globErr := filepath.Glob(file)
		if globErr != nil {
			fmt.Fprintf(os.Stderr, "Error with pattern '%s': %v\n", file, globErr)
			hasFailures = true
			continue
		}
		if len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "No files match pattern: %s\n", file)
			hasFailures = true
			continue
		}

		for _, match := range matches {
			out, failed := validateFile(v, rs, match, config)
			outputs = append(outputs, out)
			hasFailures = hasFailures || failed
		}
	}

	if config.Output == OutputJSON {
		jsonOutput, _ := json.MarshalIndent(outputs, "", "  ")
		fmt.Println(string(jsonOutput))
	}

	if hasFailures {
		return 1
	}
	return 0
}

func readStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

func validateFile(v *engine.Validator, rs *RuleSet, path string, config *Config) (ValidationOutput, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if config.Output == OutputText {
			fmt.Printf("Error reading %s: %v\n", path, err)
		}
		return ValidationOutput{
			Document: path,
			Valid:    false,
			Failures: 1,
			Violations: []ViolationOutput{{
				Rule:    "io",
				Message: fmt.Sprintf("failed to read file: %v", err),
			}},
		}, true
	}
	return validateData(v, rs, data, path, config)
}

func validateData(v *engine.Validator, rs *RuleSet, data []byte, name string, config *Config) (ValidationOutput, bool) {
	ctx := context.Background()
	start := time.Now()

	doc, err := oj.Parse(data)
	if err != nil {
		if config.Output == OutputText {
			fmt.Printf("Error parsing %s: %v\n", name, err)
		}
		return ValidationOutput{
			Document: name,
			Valid:    false,
			Failures: 1,
			Violations: []ViolationOutput{{
				Rule:    "json",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			}},
			Duration: time.Since(start).String(),
		}, true
	}

	var violations []ViolationOutput

	for i := range rs.Rules {
		spec := &rs.Rules[i]
		ruleList := spec.compile()
		if len(ruleList) == 0 {
			continue
		}

		values := spec.expr.Get(doc)
		if len(values) == 0 {
			// Absent targets still face the required check.
			values = []any{nil}
		}

		for _, value := range values {
			store := og.NewStore()
			vc := og.NewValidationContext(value, nil)
			vc.DisplayName = spec.Name

			ok, err := v.TryValidateValue(ctx, vc, value, store, ruleList)
			if err != nil {
				violations = append(violations, ViolationOutput{
					Rule:    "engine",
					Path:    spec.Path,
					Message: err.Error(),
				})
				continue
			}
			if ok {
				continue
			}
			for _, vs := range store.Entries() {
				for _, viol := range vs {
					o := ViolationOutput{
						Path:    spec.Path,
						Message: viol.Message,
					}
					if viol.Rule != nil {
						o.Rule = viol.Rule.RuleName()
					}
					if viol.Value != nil {
						o.Value = truncate(fmt.Sprintf("%v", viol.Value), 80)
					}
					violations = append(violations, o)
				}
			}
		}
	}

	duration := time.Since(start)
	out := ValidationOutput{
		Document:   name,
		Valid:      len(violations) == 0,
		Failures:   len(violations),
		Violations: violations,
		Duration:   duration.Round(time.Microsecond).String(),
	}

	if config.Output == OutputText {
		printTextResult(out, config)
	}
	return out, !out.Valid
}

func printTextResult(out ValidationOutput, config *Config) {
	if config.Quiet && out.Valid {
		return
	}

	status := "VALID"
	if !out.Valid {
		status = "INVALID"
	}

	fmt.Printf("== %s ==\n", out.Document)
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Failures: %d\n", out.Failures)
	fmt.Printf("Duration: %s\n", out.Duration)

	if len(out.Violations) > 0 {
		fmt.Println("\nViolations:")
		for _, v := range out.Violations {
			location := ""
			if v.Path != "" {
				location = fmt.Sprintf(" @ %s", v.Path)
			}
			fmt.Printf("  [%s] %s%s\n", v.Rule, v.Message, location)
		}
	}

	fmt.Println()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
