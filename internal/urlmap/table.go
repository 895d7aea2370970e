package urlmap

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry is a single namespace to base URL pair.
type Entry struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	BaseURL   string `json:"base_url" yaml:"base_url"`
}

// Table is an immutable, ordered namespace to base URL mapping.
// The zero value is an empty table.
type Table struct {
	entries []Entry
	index   map[string]int // namespace -> position in entries
}

// New validates entries and builds a table that preserves their order.
//
// Every namespace must be non-empty, unique and free of whitespace or
// control characters, and every base URL must be
// an absolute http or https URL ending in "/" since page names are appended
// to it directly.
func New(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, &EntryError{Index: i, Entry: e, Err: err}
		}
		if _, exists := t.index[e.Namespace]; exists {
			return nil, &EntryError{Index: i, Entry: e, Err: ErrDuplicateNamespace}
		}
		t.index[e.Namespace] = len(t.entries)
		t.entries = append(t.entries, e)
	}

	return t, nil
}

// MustNew is like New but panics on invalid input.
// It is intended for tables built from literals.
func MustNew(entries ...Entry) *Table {
	t, err := New(entries...)
	if err != nil {
		panic(fmt.Sprintf("urlmap: %v", err))
	}
	return t
}

func validateEntry(e Entry) error {
	if err := ValidateNamespace(e.Namespace); err != nil {
		return err
	}
	return ValidateBaseURL(e.BaseURL)
}

// ValidateNamespace checks that namespace is non-empty valid UTF-8 without
// whitespace or control characters.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return ErrEmptyNamespace
	}
	if !utf8.ValidString(namespace) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidNamespace, namespace)
	}
	for _, r := range namespace {
		if unicode.IsSpace(r) || unicode.IsControl(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: %q contains %U", ErrInvalidNamespace, namespace, r)
		}
	}
	return nil
}

// ValidateBaseURL checks that raw can be used as a link prefix.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBaseURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q must use http or https", ErrInvalidBaseURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidBaseURL, raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%w: %q must not carry a query or fragment", ErrInvalidBaseURL, raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		return fmt.Errorf("%w: %q must end with /", ErrInvalidBaseURL, raw)
	}

	return nil
}

// Lookup returns the base URL for namespace.
// The match is exact and case-sensitive; there is no fallback.
func (t *Table) Lookup(namespace string) (string, error) {
	if namespace == "" {
		return "", ErrEmptyNamespace
	}
	if t == nil {
		return "", &NotFoundError{Namespace: namespace}
	}

	i, ok := t.index[namespace]
	if !ok {
		return "", &NotFoundError{Namespace: namespace}
	}
	return t.entries[i].BaseURL, nil
}

// Has reports whether namespace is in the table.
func (t *Table) Has(namespace string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[namespace]
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Namespaces returns the namespaces in insertion order.
func (t *Table) Namespaces() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Namespace
	}
	return names
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// With returns a new table with overrides applied.
//
// An override for an existing namespace replaces its base URL in place;
// any other override is appended. The receiver is not modified.
func (t *Table) With(overrides ...Entry) (*Table, error) {
	merged := t.Entries()
	positions := make(map[string]int, len(merged))
	for i, e := range merged {
		positions[e.Namespace] = i
	}

	for _, o := range overrides {
		if i, ok := positions[o.Namespace]; ok && o.Namespace != "" {
			merged[i].BaseURL = o.BaseURL
			continue
		}
		positions[o.Namespace] = len(merged)
		merged = append(merged, o)
	}

	return New(merged...)
}

// Similar returns namespaces that differ from namespace only in case, or
// that share a case-insensitive prefix with it. It is meant for "did you
// mean" hints after a failed Lookup and never affects lookup results.
func (t *Table) Similar(namespace string) []string {
	if t == nil || namespace == "" {
		return nil
	}

	lower := strings.ToLower(namespace)
	var out []string
	for _, e := range t.entries {
		candidate := strings.ToLower(e.Namespace)
		if e.Namespace == namespace {
			continue
		}
		if candidate == lower ||
			strings.HasPrefix(candidate, lower) ||
			strings.HasPrefix(lower, candidate) {
			out = append(out, e.Namespace)
		}
	}
	sort.Strings(out)
	return out
}
