package classify

import (
	"strings"

	"htc-intelligence/internal/domain/entity"
)

// Classifier assigns category labels and a sentiment to a news item based on
// keyword rules. Classify is a pure function of its inputs: identical text
// always yields identical results.
type Classifier struct {
	rules *Rules
}

// New creates a Classifier with the given taxonomy.
func New(rules *Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify derives the category set and sentiment from the lower-cased
// concatenation of title and summary. Category rules are independent: one
// text may carry several labels. The result is never empty — the fallback
// label fills in when nothing else matched.
func (c *Classifier) Classify(title, summary string) entity.Classification {
	text := strings.ToLower(title + " " + summary)

	var categories []string
	seen := make(map[string]struct{})
	add := func(label string) {
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		categories = append(categories, label)
	}

	// Industry tags
	for _, rule := range c.rules.Industry {
		if containsAny(text, rule.Keywords) {
			add(rule.Label)
		}
	}

	// Macro economy: conjunctive rule, keyword AND country context
	if containsAny(text, c.rules.Economy.Keywords) && containsAny(text, c.rules.Economy.ContextKeywords) {
		add(c.rules.Economy.Label)
	}

	// Consumption: label plus companion trend label
	if containsAny(text, c.rules.Consumption.Keywords) {
		add(c.rules.Consumption.Label)
		if c.rules.Consumption.CompanionLabel != "" {
			add(c.rules.Consumption.CompanionLabel)
		}
	}

	// Geographic reach: both may match
	if containsAny(text, c.rules.ShortHaul.Keywords) {
		add(c.rules.ShortHaul.Label)
	}
	if containsAny(text, c.rules.LongHaul.Keywords) {
		add(c.rules.LongHaul.Label)
	}

	// Residual label: empty set, or generic trend vocabulary
	if len(categories) == 0 || containsAny(text, c.rules.Fallback.TriggerKeywords) {
		add(c.rules.Fallback.Label)
	}

	return entity.Classification{
		Categories: categories,
		Sentiment:  c.sentiment(text),
	}
}

// sentiment counts positive vs negative keyword hits; majority wins, ties
// (including zero hits) are Neutral.
func (c *Classifier) sentiment(text string) entity.Sentiment {
	positive := countMatches(text, c.rules.Sentiment.Positive)
	negative := countMatches(text, c.rules.Sentiment.Negative)

	switch {
	case positive > negative:
		return entity.SentimentPositive
	case negative > positive:
		return entity.SentimentNegative
	default:
		return entity.SentimentNeutral
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}
