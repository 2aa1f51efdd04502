package main

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"gopkg.in/yaml.v3"

	"github.com/govalid/objectgraph/rules"
)

// RuleSet is a YAML-declared list of path-targeted checks.
type RuleSet struct {
	Rules []RuleSpec `yaml:"rules"`
}

// RuleSpec declares the checks applied to every value its JSONPath
// selects in a document.
type RuleSpec struct {
	Path      string     `yaml:"path"`
	Name      string     `yaml:"name"`
	Required  bool       `yaml:"required"`
	Pattern   string     `yaml:"pattern"`
	MinLength int        `yaml:"minLength"`
	MaxLength int        `yaml:"maxLength"`
	Range     *RangeSpec `yaml:"range"`
	UUID      bool       `yaml:"uuid"`
	Expr      string     `yaml:"expr"`
	Message   string     `yaml:"message"`

	expr jp.Expr
}

// RangeSpec bounds a numeric value. Min and Max accept YAML numbers or
// numeric strings.
type RangeSpec struct {
	Min any `yaml:"min"`
	Max any `yaml:"max"`
}

// loadRuleSet reads and validates a YAML ruleset file, parsing each
// entry's JSONPath up front.
func loadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("ruleset %s declares no rules", path)
	}

	for i := range rs.Rules {
		spec := &rs.Rules[i]
		if spec.Path == "" {
			return nil, fmt.Errorf("ruleset %s: rule %d has no path", path, i)
		}
		expr, err := jp.ParseString(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("ruleset %s: rule %d: invalid JSONPath %q: %w", path, i, spec.Path, err)
		}
		spec.expr = expr
		if spec.Name == "" {
			spec.Name = spec.Path
		}
	}
	return &rs, nil
}

// compile turns a spec into the rule list evaluated per selected value.
func (s *RuleSpec) compile() []rules.Rule {
	var rs []rules.Rule
	if s.Required {
		rs = append(rs, &rules.Required{Message: s.Message})
	}
	if s.Pattern != "" {
		rs = append(rs, &rules.Pattern{Expr: s.Pattern, Message: s.Message})
	}
	if s.MinLength > 0 || s.MaxLength > 0 {
		rs = append(rs, &rules.Length{Min: s.MinLength, Max: s.MaxLength, Message: s.Message})
	}
	if s.Range != nil {
		rs = append(rs, &rules.Range{Min: s.Range.Min, Max: s.Range.Max, Message: s.Message})
	}
	if s.UUID {
		rs = append(rs, &rules.UUID{Message: s.Message})
	}
	if s.Expr != "" {
		rs = append(rs, &rules.Expression{Code: s.Expr, Message: s.Message})
	}
	return rs
}
