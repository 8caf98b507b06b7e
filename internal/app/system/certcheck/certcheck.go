// internal/app/system/certcheck/certcheck.go

// Package certcheck inspects the TLS certificate served at a base URL.
// Used by the health endpoint for an informational expiry readout.
package certcheck

import (
	"crypto/tls"
	"net"
	"net/url"
	"time"
)

const dialTimeout = 5 * time.Second

// Info summarizes the leaf certificate presented by the host.
type Info struct {
	Host      string
	NotAfter  time.Time
	DaysLeft  int
	IsValid   bool
	CheckedAt time.Time
	Error     string
}

// Check connects to the host named in baseURL and reports on its leaf
// certificate. A baseURL that is not https, or any dial failure, yields
// IsValid=false with the reason in Error.
func Check(baseURL string) Info {
	info := Info{CheckedAt: time.Now().UTC()}

	u, err := url.Parse(baseURL)
	if err != nil {
		info.Error = "invalid base URL: " + err.Error()
		return info
	}
	if u.Scheme != "https" {
		info.Error = "not an https URL"
		return info
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "443"
	}
	info.Host = host

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(host, port), &tls.Config{
		ServerName: host,
	})
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		info.Error = "no peer certificates presented"
		return info
	}

	leaf := certs[0]
	info.NotAfter = leaf.NotAfter
	info.DaysLeft = int(time.Until(leaf.NotAfter).Hours() / 24)
	info.IsValid = time.Now().Before(leaf.NotAfter) && time.Now().After(leaf.NotBefore)
	return info
}
