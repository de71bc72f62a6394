package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/url"
	"strings"
)

// ErrNotHTTP is returned when a URL is not an absolute http or https URL.
var ErrNotHTTP = errors.New("url must be absolute with http or https scheme")

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (*url.URL, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(relURL), nil
}

// ParseHTTPURL parses rawURL and requires an absolute http(s) URL with a host.
func ParseHTTPURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}
	if !IsHTTP(u) || u.Host == "" {
		return nil, ErrNotHTTP
	}
	return u, nil
}

// IsHTTP reports whether u uses the http or https scheme.
func IsHTTP(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// NormalizeURL returns the canonical string form used for deduplication:
// lowercase scheme and host, no default port, no fragment, "/" for an empty path.
// The query string is kept as-is since it can select different content.
func NormalizeURL(u *url.URL) string {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	host := strings.ToLower(n.Hostname())
	if port := n.Port(); port != "" && defaultPorts[n.Scheme] != port {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	n.Host = host
	n.Fragment = ""
	n.RawFragment = ""
	n.User = nil
	if n.Path == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return n.String()
}

// NormalizeRawURL parses and normalizes an absolute http(s) URL.
func NormalizeRawURL(rawURL string) (string, error) {
	u, err := ParseHTTPURL(rawURL)
	if err != nil {
		return "", err
	}
	return NormalizeURL(u), nil
}

// SameHost reports whether a and b share a hostname, ignoring case and port.
func SameHost(a, b *url.URL) bool {
	return strings.EqualFold(a.Hostname(), b.Hostname())
}
