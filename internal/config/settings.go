package config

import (
	"fmt"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

// CurrentVersion is the only configuration schema version understood.
const CurrentVersion = 1

// Server defaults used when the configuration file has no server section.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8377
)

// Settings represents the entire user configuration file.
type Settings struct {
	Version    int            `yaml:"version"`
	Namespaces []urlmap.Entry `yaml:"namespaces,omitempty"`
	Server     *ServerPrefs   `yaml:"server,omitempty"`

	// path is where the settings were loaded from and will be saved to
	path string
}

// ServerPrefs holds defaults for 'urlmap serve'.
type ServerPrefs struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"`          // Register the server over mDNS
	Instance  string `yaml:"instance,omitempty"` // mDNS instance name (defaults to hostname)
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Server:  defaultServerPrefs(),
	}
}

func defaultServerPrefs() *ServerPrefs {
	return &ServerPrefs{
		Host: DefaultHost,
		Port: DefaultPort,
	}
}

// Path returns the file the settings are bound to.
func (s *Settings) Path() string {
	return s.path
}

// Table builds the effective namespace table: the built-in table with the
// configured namespaces applied on top.
func (s *Settings) Table() (*urlmap.Table, error) {
	if len(s.Namespaces) == 0 {
		return urlmap.Default(), nil
	}

	table, err := urlmap.Default().With(s.Namespaces...)
	if err != nil {
		return nil, fmt.Errorf("invalid namespaces in %s: %w", s.describe(), err)
	}
	return table, nil
}

// SetNamespace adds or replaces a configured namespace.
// The base URL is validated before the settings are changed.
func (s *Settings) SetNamespace(namespace, baseURL string) error {
	if err := urlmap.ValidateNamespace(namespace); err != nil {
		return err
	}
	if err := urlmap.ValidateBaseURL(baseURL); err != nil {
		return err
	}

	for i := range s.Namespaces {
		if s.Namespaces[i].Namespace == namespace {
			s.Namespaces[i].BaseURL = baseURL
			return nil
		}
	}
	s.Namespaces = append(s.Namespaces, urlmap.Entry{Namespace: namespace, BaseURL: baseURL})
	return nil
}

// RemoveNamespace drops a configured namespace.
// Built-in namespaces cannot be removed, only overridden.
// Returns false if the namespace was not configured.
func (s *Settings) RemoveNamespace(namespace string) bool {
	for i := range s.Namespaces {
		if s.Namespaces[i].Namespace == namespace {
			s.Namespaces = append(s.Namespaces[:i], s.Namespaces[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Settings) describe() string {
	if s.path == "" {
		return "configuration"
	}
	return s.path
}
