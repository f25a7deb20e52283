package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testConfig() ExcerptConfig {
	cfg := DefaultConfig()
	cfg.DenyPrivateIPs = false // allow httptest servers
	return cfg
}

func TestFetchExcerpt_Readability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := `<html><head><title>Visa policy update</title></head><body>
<article>
<h1>Thailand extends visa-free entry</h1>
<p>The Thai government announced an extension of visa-free entry for Chinese passport holders through the end of 2026. Tourism operators expect arrivals to grow as a result of the policy change, which removes a key friction point for independent travellers.</p>
<p>Airlines have already begun adding capacity on routes from Shanghai, Guangzhou and Chengdu to Bangkok and Phuket in anticipation of stronger demand during the coming high season.</p>
</article>
</body></html>`
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	f := NewReadabilityFetcher(testConfig())

	excerpt, err := f.FetchExcerpt(context.Background(), server.URL, "")
	if err != nil {
		t.Fatalf("FetchExcerpt() error = %v", err)
	}

	if !strings.Contains(excerpt, "visa-free entry for Chinese passport holders") {
		t.Errorf("excerpt missing article body, got %q", excerpt)
	}
	if strings.Contains(excerpt, "<p>") {
		t.Errorf("excerpt contains HTML tags: %q", excerpt)
	}
}

func TestFetchExcerpt_BodySelector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := `<html><body>
<div class="sidebar">Unrelated navigation links</div>
<div class="article-content">出境游市场持续复苏，航空公司加密航班。</div>
</body></html>`
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	f := NewReadabilityFetcher(testConfig())

	excerpt, err := f.FetchExcerpt(context.Background(), server.URL, ".article-content")
	if err != nil {
		t.Fatalf("FetchExcerpt() error = %v", err)
	}

	if excerpt != "出境游市场持续复苏，航空公司加密航班。" {
		t.Errorf("excerpt = %q, want selector text only", excerpt)
	}
	if strings.Contains(excerpt, "Unrelated") {
		t.Errorf("excerpt leaked non-selected content: %q", excerpt)
	}
}

func TestFetchExcerpt_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("Outbound travel demand keeps climbing. ", 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="body">` + long + `</div></body></html>`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRunes = 100
	f := NewReadabilityFetcher(cfg)

	excerpt, err := f.FetchExcerpt(context.Background(), server.URL, ".body")
	if err != nil {
		t.Fatalf("FetchExcerpt() error = %v", err)
	}

	if got := len([]rune(excerpt)); got > 103 { // 100 + ellipsis
		t.Errorf("excerpt length = %d runes, want <= 103", got)
	}
	if !strings.HasSuffix(excerpt, "...") {
		t.Errorf("excerpt = %q, want trailing ellipsis", excerpt)
	}
}

func TestFetchExcerpt_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	f := NewReadabilityFetcher(cfg)

	excerpt, err := f.FetchExcerpt(context.Background(), "https://example.com/article", "")
	if err != nil {
		t.Fatalf("FetchExcerpt() error = %v", err)
	}
	if excerpt != "" {
		t.Errorf("excerpt = %q, want empty when disabled", excerpt)
	}
}

func TestFetchExcerpt_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	f := NewReadabilityFetcher(testConfig())

	if _, err := f.FetchExcerpt(context.Background(), server.URL, ""); err == nil {
		t.Fatal("FetchExcerpt() error = nil, want HTTP error")
	}
}

func TestFetchExcerpt_InvalidScheme(t *testing.T) {
	f := NewReadabilityFetcher(testConfig())

	if _, err := f.FetchExcerpt(context.Background(), "ftp://example.com/file", ""); err == nil {
		t.Fatal("FetchExcerpt() error = nil, want invalid URL error")
	}
}

func TestValidateURL_PrivateIP(t *testing.T) {
	err := validateURL("http://127.0.0.1/admin", true)
	if err == nil {
		t.Fatal("validateURL() error = nil, want private IP rejection")
	}
}
