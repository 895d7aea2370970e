package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Service represents a urlmap server discovered on the network
type Service struct {
	// Instance is the mDNS instance name (e.g., "docs-host")
	Instance string

	// Hostname is the mDNS hostname (e.g., "docs-host.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the service was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the service
func (s *Service) String() string {
	return fmt.Sprintf("urlmap server %s (%s) at %s", s.Instance, s.Hostname, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// Scheme returns "https" for servers advertising TLS, "http" otherwise
func (s *Service) Scheme() string {
	if s.GetMetadata("scheme") == "https" {
		return "https"
	}
	return "http"
}

// BaseURL returns the root URL of the server
func (s *Service) BaseURL() string {
	return s.Scheme() + "://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// APIURL returns the advertised API root
func (s *Service) APIURL() string {
	path := s.GetMetadata("path")
	if path == "" {
		path = DefaultAPIPath
	}
	return s.BaseURL() + path
}

// Entries returns the advertised table size, or -1 if unknown
func (s *Service) Entries() int {
	n, err := strconv.Atoi(s.GetMetadata("entries"))
	if err != nil {
		return -1
	}
	return n
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
