package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/resilience"
	"htc-intelligence/internal/resilience/circuitbreaker"
	"htc-intelligence/internal/resilience/retry"
	"htc-intelligence/internal/utils/text"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// maxBodySize caps listing-page downloads at 10MB.
const maxBodySize = 10 << 20

// HTMLExtractor implements Extractor for sources that publish plain HTML
// listing pages instead of feeds. It uses goquery with the per-source CSS
// selectors stored in the source configuration.
type HTMLExtractor struct {
	client *http.Client
	guard  resilience.Guard
}

// NewHTMLExtractor creates an HTMLExtractor whose page fetches run behind
// the page-fetch circuit breaker and retry schedule.
func NewHTMLExtractor(client *http.Client) *HTMLExtractor {
	return &HTMLExtractor{
		client: client,
		guard:  resilience.NewGuard("page-fetch", circuitbreaker.PageFetchConfig(), retry.PageFetchConfig()),
	}
}

// Extract retrieves and parses candidate items from an HTML listing page.
// The source must carry selector configuration; sources without it are
// rejected up front.
func (e *HTMLExtractor) Extract(ctx context.Context, source *entity.Source) ([]entity.RawItem, error) {
	if source.Selectors == nil {
		return nil, errors.New("selectors are required for HTML sources")
	}

	return resilience.Do(ctx, e.guard, source.FeedURL, func() ([]entity.RawItem, error) {
		return e.doExtract(ctx, source)
	})
}

// doExtract performs one scrape, outside any retry or breaker.
func (e *HTMLExtractor) doExtract(ctx context.Context, source *entity.Source) ([]entity.RawItem, error) {
	// SSRF prevention
	if err := validateURL(source.FeedURL); err != nil {
		return nil, fmt.Errorf("URL validation failed: %w", err)
	}

	doc, err := e.fetchHTML(ctx, source.FeedURL, source.Encoding)
	if err != nil {
		return nil, fmt.Errorf("fetch HTML failed: %w", err)
	}

	items := e.extractItems(doc, source)
	if len(items) == 0 {
		return nil, fmt.Errorf("no items found with selector: %s", source.Selectors.ArticleSelector)
	}
	return items, nil
}

// fetchHTML fetches and parses HTML from the given URL, decoding from the
// source charset (e.g. GBK) when one is configured. The body read is capped
// at maxBodySize.
func (e *HTMLExtractor) fetchHTML(ctx context.Context, urlStr string, encoding string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	var reader io.Reader = io.LimitReader(resp.Body, maxBodySize)
	if encoding != "" && !strings.EqualFold(encoding, "UTF-8") {
		enc, err := ianaindex.IANA.Encoding(encoding)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unsupported charset: %s", encoding)
		}
		reader = transform.NewReader(reader, enc.NewDecoder())
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// extractItems walks the article selector matches and converts each into a
// candidate item, up to the per-feed cap.
func (e *HTMLExtractor) extractItems(doc *goquery.Document, source *entity.Source) []entity.RawItem {
	var items []entity.RawItem
	doc.Find(source.Selectors.ArticleSelector).Each(func(i int, itemEl *goquery.Selection) {
		if len(items) >= maxItemsPerFeed {
			return
		}
		if item, ok := itemFromSelection(i, itemEl, source); ok {
			items = append(items, item)
		}
	})
	return items
}

// itemFromSelection builds one RawItem from an article element. Items
// without a title or a resolvable link are skipped.
func itemFromSelection(index int, itemEl *goquery.Selection, source *entity.Source) (entity.RawItem, bool) {
	sel := source.Selectors

	title := strings.TrimSpace(itemEl.Find(sel.TitleSelector).Text())
	if title == "" {
		slog.Debug("skipping item with empty title", slog.Int("index", index))
		return entity.RawItem{}, false
	}

	// The title element commonly doubles as the anchor.
	link := hrefOf(itemEl, sel.LinkSelector)
	if link == "" {
		link = hrefOf(itemEl, sel.TitleSelector)
	}
	if link == "" {
		slog.Debug("skipping item with empty link", slog.Int("index", index), slog.String("title", title))
		return entity.RawItem{}, false
	}
	link = makeAbsoluteURL(link, sel.URLPrefix)

	summary := ""
	if sel.SummarySelector != "" {
		summary = text.Truncate(text.StripTags(itemEl.Find(sel.SummarySelector).Text()), summaryMaxRunes)
	}

	publishedAt, dateKnown := time.Now(), false
	if sel.DateSelector != "" {
		publishedAt, dateKnown = parseDate(strings.TrimSpace(itemEl.Find(sel.DateSelector).Text()), sel.DateFormat)
	}

	return entity.RawItem{
		Title:       title,
		Link:        link,
		Summary:     summary,
		SourceName:  source.Name,
		PublishedAt: publishedAt,
		DateKnown:   dateKnown,
	}, true
}

func hrefOf(itemEl *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	href, _ := itemEl.Find(selector).Attr("href")
	return strings.TrimSpace(href)
}

// fallbackDateLayouts are tried in order when the configured format does
// not match.
var fallbackDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// parseDate parses a date string using the given format, defaulting to
// "Jan 2, 2006". Returns the current time and false when parsing fails.
func parseDate(dateStr string, format string) (time.Time, bool) {
	if dateStr == "" {
		return time.Now(), false
	}
	if format == "" {
		format = "Jan 2, 2006"
	}

	for _, layout := range append([]string{format}, fallbackDateLayouts...) {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}

	slog.Warn("failed to parse date, using fetch time",
		slog.String("date_str", dateStr),
		slog.String("format", format))
	return time.Now(), false
}

// makeAbsoluteURL joins a relative URL onto the source's configured prefix.
// Absolute URLs and a missing prefix pass through unchanged.
func makeAbsoluteURL(urlStr string, prefix string) string {
	if strings.HasPrefix(urlStr, "http://") || strings.HasPrefix(urlStr, "https://") || prefix == "" {
		return urlStr
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(urlStr, "/")
}
