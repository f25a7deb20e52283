package fixtures_test

import (
	"strings"
	"testing"

	"htc-intelligence/tests/fixtures"
)

func TestGenerateShortNews(t *testing.T) {
	body := fixtures.GenerateShortNews()

	length := len([]rune(body))
	if length < 450 || length > 550 {
		t.Errorf("Expected length between 450 and 550, got %d", length)
	}
}

func TestGenerateMediumNews(t *testing.T) {
	body := fixtures.GenerateMediumNews()

	length := len([]rune(body))
	if length < 1800 || length > 2200 {
		t.Errorf("Expected length between 1800 and 2200, got %d", length)
	}
}

func TestGenerateLongNews(t *testing.T) {
	body := fixtures.GenerateLongNews()

	length := len([]rune(body))
	if length < 9000 || length > 11000 {
		t.Errorf("Expected length between 9000 and 11000, got %d", length)
	}
}

func TestGenerateNewsBody_English(t *testing.T) {
	body := fixtures.GenerateNewsBody(fixtures.NewsOptions{Length: 500, Language: "en"})

	if body == "" {
		t.Fatal("Generated body is empty")
	}
	if !strings.Contains(body, "outbound") && !strings.Contains(body, "travel") {
		t.Errorf("English body does not look like travel coverage: %q", body[:80])
	}
}

func TestGenerateNewsBody_DefaultsToChinese(t *testing.T) {
	body := fixtures.GenerateNewsBody(fixtures.NewsOptions{Length: 500})

	if !strings.Contains(body, "出境游") {
		t.Errorf("default body should be Chinese travel coverage")
	}
}
