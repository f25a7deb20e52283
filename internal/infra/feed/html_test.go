package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/infra/feed"
)

func htmlSource(url string, sel *entity.SelectorConfig) *entity.Source {
	return &entity.Source{
		ID:         2,
		Name:       "China Tourism News",
		FeedURL:    url,
		Active:     true,
		SourceType: entity.SourceTypeHTML,
		Selectors:  sel,
	}
}

func TestHTMLExtractor_Extract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := `<html><body>
<ul class="news-list">
  <li class="news-item">
    <a class="title" href="/news/visa-free">Thailand extends visa-free entry for Chinese tourists</a>
    <p class="summary">The scheme is <b>extended</b> through 2026</p>
    <span class="date">Aug 4, 2025</span>
  </li>
  <li class="news-item">
    <a class="title" href="https://example.com/news/flights">New direct flights from Chengdu</a>
    <p class="summary">Three weekly services launch in September</p>
    <span class="date">Aug 5, 2025</span>
  </li>
</ul>
</body></html>`
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	sel := &entity.SelectorConfig{
		ArticleSelector: "li.news-item",
		TitleSelector:   "a.title",
		LinkSelector:    "a.title",
		SummarySelector: "p.summary",
		DateSelector:    "span.date",
		DateFormat:      "Jan 2, 2006",
		URLPrefix:       "https://example.com",
	}

	client := &http.Client{Timeout: 10 * time.Second}
	extractor := feed.NewHTMLExtractor(client)

	items, err := extractor.Extract(context.Background(), htmlSource(server.URL, sel))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("items length = %d, want 2", len(items))
	}

	if items[0].Title != "Thailand extends visa-free entry for Chinese tourists" {
		t.Errorf("items[0].Title = %q", items[0].Title)
	}
	if items[0].Link != "https://example.com/news/visa-free" {
		t.Errorf("items[0].Link = %q, want prefixed absolute URL", items[0].Link)
	}
	if items[0].Summary != "The scheme is extended through 2026" {
		t.Errorf("items[0].Summary = %q, want tags stripped", items[0].Summary)
	}
	if !items[0].DateKnown {
		t.Error("items[0].DateKnown = false, want true")
	}
	want := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Errorf("items[0].PublishedAt = %v, want %v", items[0].PublishedAt, want)
	}

	// Already-absolute link passes through untouched
	if items[1].Link != "https://example.com/news/flights" {
		t.Errorf("items[1].Link = %q", items[1].Link)
	}
}

func TestHTMLExtractor_Extract_GBKEncoding(t *testing.T) {
	page := `<html><body>
<div class="article"><a class="headline" href="/n/1">中国游客出境游持续增长</a></div>
</body></html>`

	encoded, err := simplifiedchinese.GBK.NewEncoder().String(page)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=GBK")
		_, _ = w.Write([]byte(encoded))
	}))
	defer server.Close()

	sel := &entity.SelectorConfig{
		ArticleSelector: "div.article",
		TitleSelector:   "a.headline",
		URLPrefix:       "https://news.example.cn",
	}
	src := htmlSource(server.URL, sel)
	src.Encoding = "GBK"

	client := &http.Client{Timeout: 10 * time.Second}
	extractor := feed.NewHTMLExtractor(client)

	items, err := extractor.Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("items length = %d, want 1", len(items))
	}
	if items[0].Title != "中国游客出境游持续增长" {
		t.Errorf("items[0].Title = %q, want decoded GBK text", items[0].Title)
	}
	if items[0].Link != "https://news.example.cn/n/1" {
		t.Errorf("items[0].Link = %q", items[0].Link)
	}
}

func TestHTMLExtractor_Extract_LinkFallsBackToTitleAnchor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := `<html><body><div class="item"><a class="t" href="/story">Cruise bookings rebound</a></div></body></html>`
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	sel := &entity.SelectorConfig{
		ArticleSelector: "div.item",
		TitleSelector:   "a.t",
		URLPrefix:       "https://example.com",
	}

	client := &http.Client{Timeout: 10 * time.Second}
	extractor := feed.NewHTMLExtractor(client)

	items, err := extractor.Extract(context.Background(), htmlSource(server.URL, sel))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items length = %d, want 1", len(items))
	}
	if items[0].Link != "https://example.com/story" {
		t.Errorf("items[0].Link = %q", items[0].Link)
	}
}

func TestHTMLExtractor_Extract_UnknownDateUsesFetchTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := `<html><body><div class="item"><a class="t" href="/s">Hotel occupancy rises</a><span class="d">not a date</span></div></body></html>`
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	sel := &entity.SelectorConfig{
		ArticleSelector: "div.item",
		TitleSelector:   "a.t",
		DateSelector:    "span.d",
		URLPrefix:       "https://example.com",
	}

	client := &http.Client{Timeout: 10 * time.Second}
	extractor := feed.NewHTMLExtractor(client)

	items, err := extractor.Extract(context.Background(), htmlSource(server.URL, sel))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items length = %d, want 1", len(items))
	}
	if items[0].DateKnown {
		t.Error("items[0].DateKnown = true, want false for unparseable date")
	}
}

func TestHTMLExtractor_Extract_NoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer server.Close()

	sel := &entity.SelectorConfig{
		ArticleSelector: "div.missing",
		TitleSelector:   "a.t",
	}

	client := &http.Client{Timeout: 10 * time.Second}
	extractor := feed.NewHTMLExtractor(client)

	_, err := extractor.Extract(context.Background(), htmlSource(server.URL, sel))
	if err == nil {
		t.Fatal("Extract() error = nil, want no-items error")
	}
	if !strings.Contains(err.Error(), "div.missing") {
		t.Errorf("error = %v, want selector in message", err)
	}
}

func TestHTMLExtractor_Extract_MissingSelectors(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}
	extractor := feed.NewHTMLExtractor(client)

	_, err := extractor.Extract(context.Background(), htmlSource("http://127.0.0.1:39999", nil))
	if err == nil {
		t.Fatal("Extract() error = nil, want selectors error")
	}
	if !strings.Contains(err.Error(), "selectors are required") {
		t.Errorf("error = %v", err)
	}
}

func TestHTMLExtractor_Extract_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	sel := &entity.SelectorConfig{
		ArticleSelector: "div.item",
		TitleSelector:   "a.t",
	}

	client := &http.Client{Timeout: 10 * time.Second}
	extractor := feed.NewHTMLExtractor(client)

	_, err := extractor.Extract(context.Background(), htmlSource(server.URL, sel))
	if err == nil {
		t.Fatal("Extract() error = nil, want HTTP error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want status in message", err)
	}
}
