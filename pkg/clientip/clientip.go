package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are consulted in order before falling back to RemoteAddr.
// X-Forwarded-For may carry a chain; the first valid address wins.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// FromRequest extracts the client address from proxy headers, falling back
// to the connection's remote address. The result is a normalized IP string,
// suitable for the login throttle key and the attempt audit trail.
func FromRequest(r *http.Request) string {
	for _, header := range proxyHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		for part := range strings.SplitSeq(value, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port is already a bare IP.
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an address, returning "" when invalid.
// Normalization keeps equal IPv6 addresses from producing distinct throttle
// keys.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
