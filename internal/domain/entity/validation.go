package entity

import (
	"fmt"
	"net"
	"net/url"
)

// maxURLLength bounds URL inputs so a malformed source config cannot feed
// arbitrarily large strings into the fetcher.
const maxURLLength = 2048

func urlError(message string) error {
	return &ValidationError{Field: "url", Message: message}
}

// ValidateURL checks that a URL is well-formed http(s) with a host, and
// that it does not resolve to a private address. The resolution check
// blocks SSRF through a compromised source configuration; hosts that do
// not resolve pass here and fail later at fetch time.
func ValidateURL(rawURL string) error {
	switch {
	case rawURL == "":
		return urlError("URL is required")
	case len(rawURL) > maxURLLength:
		return urlError(fmt.Sprintf("url must not exceed %d characters", maxURLLength))
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return urlError("URL must use http or https scheme")
	}
	if parsed.Host == "" {
		return urlError("URL must have a valid host")
	}

	ips, err := net.LookupIP(parsed.Hostname())
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return urlError("url cannot point to private network")
		}
	}
	return nil
}

// isPrivateIP reports whether the address is loopback, RFC1918 private, or
// link-local (which covers cloud metadata endpoints).
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
