// Package url provides URL helpers shared by the settings and engine layers.
package url

import (
	"net"
	"net/url"
	"strings"
)

// Normalize adds https:// prefix if missing for URL-like inputs.
// Returns the input unchanged if it already has a scheme or doesn't look like a URL.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if strings.Contains(input, "://") || strings.HasPrefix(input, "about:") {
		return input
	}
	if LooksLikeURL(input) {
		return "https://" + input
	}
	return input
}

// LooksLikeURL checks if the input appears to be a URL rather than free text.
func LooksLikeURL(input string) bool {
	if input == "" {
		return false
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return true
	}
	if strings.HasPrefix(input, "localhost") {
		return true
	}
	// Contains a dot and no spaces = likely a URL
	return strings.Contains(input, ".") && !strings.Contains(input, " ")
}

// NormalizeDomain extracts the domain used to key site overrides.
// The host is lowercased, the port dropped and a single "www." prefix stripped
// so youtube.com and www.youtube.com resolve to the same value.
// Pages that are not served over http(s) have no domain.
func NormalizeDomain(rawURL string) string {
	normalized := Normalize(rawURL)
	if normalized == "" {
		return ""
	}
	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}

	host := parsed.Host
	if h, _, splitErr := net.SplitHostPort(host); splitErr == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	return strings.TrimPrefix(host, "www.")
}
