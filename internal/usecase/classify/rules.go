// Package classify implements deterministic multi-label categorization and
// lexical sentiment for news items. Classification is a pure function of the
// title and summary text; the keyword taxonomy is loaded from YAML so that
// deployments can reconfigure labels without a rebuild.
package classify

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// KeywordRule is one independent label test: the label applies when any of
// its keywords appears in the text.
type KeywordRule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// ConjunctiveRule applies its label only when both a primary keyword AND a
// context keyword appear, avoiding false positives on generic vocabulary.
type ConjunctiveRule struct {
	Label           string   `yaml:"label"`
	Keywords        []string `yaml:"keywords"`
	ContextKeywords []string `yaml:"context_keywords"`
}

// CompanionRule applies its label plus a companion label on any keyword hit.
type CompanionRule struct {
	Label          string   `yaml:"label"`
	CompanionLabel string   `yaml:"companion_label"`
	Keywords       []string `yaml:"keywords"`
}

// FallbackRule names the residual label and the generic vocabulary that
// triggers it even when other labels already matched.
type FallbackRule struct {
	Label           string   `yaml:"label"`
	TriggerKeywords []string `yaml:"trigger_keywords"`
}

// SentimentLexicon holds the positive and negative keyword lists for the
// counting heuristic.
type SentimentLexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// Rules is the full classification taxonomy.
type Rules struct {
	Industry    []KeywordRule    `yaml:"industry"`
	Economy     ConjunctiveRule  `yaml:"economy"`
	Consumption CompanionRule    `yaml:"consumption"`
	ShortHaul   KeywordRule      `yaml:"short_haul"`
	LongHaul    KeywordRule      `yaml:"long_haul"`
	Fallback    FallbackRule     `yaml:"fallback"`
	Sentiment   SentimentLexicon `yaml:"sentiment"`
}

// Validate checks that the taxonomy is usable: the fallback label must exist
// because it is the totality guarantee.
func (r *Rules) Validate() error {
	if r.Fallback.Label == "" {
		return fmt.Errorf("fallback label is required")
	}
	for i, rule := range r.Industry {
		if rule.Label == "" {
			return fmt.Errorf("industry rule %d has no label", i)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("industry rule %q has no keywords", rule.Label)
		}
	}
	return nil
}

// DefaultRules returns the embedded taxonomy.
func DefaultRules() (*Rules, error) {
	return parseRules(defaultRulesYAML)
}

// LoadRules loads the taxonomy from CLASSIFIER_RULES_PATH when set,
// otherwise returns the embedded default.
func LoadRules() (*Rules, error) {
	path := os.Getenv("CLASSIFIER_RULES_PATH")
	if path == "" {
		return DefaultRules()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}
	return parseRules(data)
}

func parseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return &rules, nil
}
