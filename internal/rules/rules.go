// Package rules is the default rule engine: an ordered, data-driven list
// of known log signatures compiled from an embedded ruleset.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"diagbot/internal/domain"
)

//go:embed rules.yaml
var rulesYAML []byte

type ruleSpec struct {
	Title   string `yaml:"title"`
	Pattern string `yaml:"pattern"`
	Advice  string `yaml:"advice"`
}

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type compiledRule struct {
	title  string
	re     *regexp.Regexp
	advice string
}

// Engine applies the embedded ruleset in order. It implements
// domain.RuleEngine and is safe for concurrent use after construction.
type Engine struct {
	rules []compiledRule
}

// NewEngine parses and compiles the embedded ruleset.
func NewEngine() (*Engine, error) {
	var file ruleFile
	if err := yaml.Unmarshal(rulesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("ruleset is empty")
	}

	compiled := make([]compiledRule, 0, len(file.Rules))
	for _, r := range file.Rules {
		if r.Title == "" || r.Advice == "" {
			return nil, fmt.Errorf("rule %q: title and advice are required", r.Title)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Title, err)
		}
		compiled = append(compiled, compiledRule{title: r.Title, re: re, advice: r.Advice})
	}
	return &Engine{rules: compiled}, nil
}

// Analyze returns one finding per matching rule, in ruleset order,
// deduplicated by title.
func (e *Engine) Analyze(text string) []domain.Finding {
	var findings []domain.Finding
	seen := make(map[string]bool)
	for _, r := range e.rules {
		if seen[r.title] {
			continue
		}
		if r.re.MatchString(text) {
			seen[r.title] = true
			findings = append(findings, domain.Finding{Title: r.title, Body: r.advice})
		}
	}
	return findings
}

// Len returns the number of compiled rules.
func (e *Engine) Len() int { return len(e.rules) }
