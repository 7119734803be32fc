package utils

import (
	"net"
	"net/url"
	"strings"
)

// IsAllowedOrigin reports whether an Origin header value should be trusted
// for CORS. Localhost, RFC1918 and link-local addresses, .local mDNS names,
// and single-label LAN hostnames are allowed; public internet origins are
// not.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Hostname()

	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	// A hostname without dots is a LAN name
	if !strings.Contains(host, ".") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
}
