package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"htc-intelligence/internal/resilience/circuitbreaker"
	"htc-intelligence/internal/utils/text"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// ReadabilityFetcher fetches article pages and extracts a plain-text
// excerpt for the enricher, using a configured CSS selector when the source
// provides one and the Mozilla Readability algorithm otherwise. Requests go
// through URL validation, a circuit breaker, and the configured size and
// timeout limits. Safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ExcerptConfig
}

// NewReadabilityFetcher builds a fetcher around the given limits. The
// circuit breaker opens after sustained failures so one dead article site
// cannot stall every remaining item in a run.
func NewReadabilityFetcher(config ExcerptConfig) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		config: config,
		circuitBreaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             "excerpt-fetch",
			MaxRequests:      5,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			FailureThreshold: 0.6,
			MinRequests:      5,
		}),
	}
	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: f.checkRedirect,
	}
	return f
}

// checkRedirect applies the same SSRF validation to redirect targets as to
// the original URL, and caps the redirect chain.
func (f *ReadabilityFetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= f.config.MaxRedirects {
		return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
	}
	if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
		return fmt.Errorf("redirect target validation failed: %w", err)
	}
	return nil
}

// FetchExcerpt fetches the article at pageURL and returns a plain-text
// excerpt capped at the configured rune count. A non-empty bodySelector
// takes the matching elements' text directly, which covers sites whose
// markup defeats the Readability heuristics.
//
// Callers should treat errors as non-fatal and fall back to the feed summary.
func (f *ReadabilityFetcher) FetchExcerpt(ctx context.Context, pageURL string, bodySelector string) (string, error) {
	if !f.config.Enabled {
		return "", nil
	}
	if err := validateURL(pageURL, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		excerpt, fetchErr := f.doFetch(ctx, pageURL, bodySelector)
		return excerpt, fetchErr
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// doFetch does the HTTP request and content extraction; FetchExcerpt calls
// it through the circuit breaker.
func (f *ReadabilityFetcher) doFetch(ctx context.Context, pageURL string, bodySelector string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "HTCIntelligenceBot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		// Unwrap so redirect validation failures keep their sentinel.
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	// Read one byte past the cap so an at-limit body is distinguishable
	// from an over-limit one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			ErrBodyTooLarge, len(body), f.config.MaxBodySize)
	}

	// Selector-based extraction when the source configures one
	if bodySelector != "" {
		excerpt, selErr := f.extractBySelector(body, bodySelector)
		if selErr == nil && excerpt != "" {
			return excerpt, nil
		}
		slog.Debug("body selector matched nothing, falling back to readability",
			slog.String("url", pageURL),
			slog.String("selector", bodySelector))
	}

	// Prefer the post-redirect URL so Readability resolves relative links
	// against the page that actually served the content. A nil parse result
	// is acceptable downstream.
	parsedURL, _ := url.Parse(pageURL)
	if resp.Request != nil && resp.Request.URL != nil {
		parsedURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	content := article.TextContent
	if content == "" {
		if article.Content == "" {
			return "", fmt.Errorf("%w: no readable content found", ErrExtractFailed)
		}
		content = text.StripTags(article.Content)
	}
	return text.Truncate(strings.TrimSpace(content), f.config.MaxRunes), nil
}

// extractBySelector extracts the text of the first matching elements.
func (f *ReadabilityFetcher) extractBySelector(body []byte, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var parts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return "", nil
	}
	return text.Truncate(text.StripTags(strings.Join(parts, " ")), f.config.MaxRunes), nil
}
