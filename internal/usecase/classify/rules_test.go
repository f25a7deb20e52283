package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htc-intelligence/internal/usecase/classify"
)

func TestDefaultRules(t *testing.T) {
	rules, err := classify.DefaultRules()
	require.NoError(t, err)

	assert.NotEmpty(t, rules.Industry)
	assert.Equal(t, "Macro Economy", rules.Economy.Label)
	assert.NotEmpty(t, rules.Economy.ContextKeywords)
	assert.Equal(t, "Consumption Trend", rules.Consumption.CompanionLabel)
	assert.Equal(t, "Outbound Trend", rules.Fallback.Label)
	assert.NotEmpty(t, rules.Sentiment.Positive)
	assert.NotEmpty(t, rules.Sentiment.Negative)
}

func TestLoadRules_Default(t *testing.T) {
	t.Setenv("CLASSIFIER_RULES_PATH", "")

	rules, err := classify.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, "Outbound Trend", rules.Fallback.Label)
}

func TestLoadRules_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	custom := `
industry:
  - label: Gaming
    keywords: [casino, gaming]
fallback:
  label: Other
  trigger_keywords: [misc]
sentiment:
  positive: [win]
  negative: [lose]
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))
	t.Setenv("CLASSIFIER_RULES_PATH", path)

	rules, err := classify.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, "Other", rules.Fallback.Label)
	require.Len(t, rules.Industry, 1)
	assert.Equal(t, "Gaming", rules.Industry[0].Label)

	got := classify.New(rules).Classify("Casino revenue report", "")
	assert.Contains(t, got.Categories, "Gaming")
}

func TestLoadRules_MissingFile(t *testing.T) {
	t.Setenv("CLASSIFIER_RULES_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := classify.LoadRules()
	assert.Error(t, err)
}

func TestLoadRules_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("industry: [unclosed"), 0o600))
	t.Setenv("CLASSIFIER_RULES_PATH", path)

	_, err := classify.LoadRules()
	assert.Error(t, err)
}

func TestLoadRules_ValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	// Industry rule without keywords fails validation
	invalid := `
industry:
  - label: Aviation
fallback:
  label: Other
`
	require.NoError(t, os.WriteFile(path, []byte(invalid), 0o600))
	t.Setenv("CLASSIFIER_RULES_PATH", path)

	_, err := classify.LoadRules()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no keywords")
}
