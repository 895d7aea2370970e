package discovery

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/imfreedom/urlmap/internal/logging"
)

// Advertisement describes the TXT records a server publishes
type Advertisement struct {
	Instance string // Instance name; defaults to the hostname
	Port     int
	Version  string
	Entries  int
	TLS      bool // Server only accepts https
}

// TXT returns the TXT records for the advertisement
func (a Advertisement) TXT() []string {
	scheme := "http"
	if a.TLS {
		scheme = "https"
	}
	return []string{
		"version=" + a.Version,
		"entries=" + strconv.Itoa(a.Entries),
		"path=" + DefaultAPIPath,
		"scheme=" + scheme,
	}
}

// announcer is the part of *zeroconf.Server a Registration drives
type announcer interface {
	SetText(text []string)
	Shutdown()
}

// Registration is a live mDNS advertisement
type Registration struct {
	mu     sync.Mutex
	ad     Advertisement
	server announcer
	closed bool
}

// SetEntries re-announces the TXT records with a new table size.
// A nil Registration ignores the call.
func (r *Registration) SetEntries(n int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.ad.Entries == n {
		return
	}
	r.ad.Entries = n
	r.server.SetText(r.ad.TXT())
	logging.Debug("mDNS TXT records updated", zap.Int("entries", n))
}

// Advertise registers the server over mDNS until ctx is cancelled
func Advertise(ctx context.Context, ad Advertisement) (*Registration, error) {
	instance := ad.Instance
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("cannot determine instance name: %w", err)
		}
		instance = host
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, ad.Port, ad.TXT(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", ad.Port),
		zap.Bool("tls", ad.TLS),
	)

	ad.Instance = instance
	reg := &Registration{ad: ad, server: server}

	go func() {
		<-ctx.Done()
		reg.close()
		logging.Debug("mDNS registration withdrawn", zap.String("instance", instance))
	}()

	return reg, nil
}

func (r *Registration) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed {
		r.closed = true
		r.server.Shutdown()
	}
}
