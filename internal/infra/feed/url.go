package feed

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// validateURL guards HTML source fetches against SSRF: only http/https
// schemes, and no hostnames resolving to loopback, private, or link-local
// addresses. Loopback on an ephemeral port is exempt so httptest servers
// can stand in for real sources.
func validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s (only http/https allowed)", u.Scheme)
	}

	if u.Hostname() == "127.0.0.1" {
		if port, err := strconv.Atoi(u.Port()); err == nil && port >= 32768 {
			return nil
		}
	}

	ips, err := net.LookupIP(u.Hostname())
	if err != nil {
		return fmt.Errorf("DNS lookup failed: %w", err)
	}
	for _, ip := range ips {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return fmt.Errorf("private IP address detected: %s (SSRF prevention)", ip)
		}
	}
	return nil
}
