package urlmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a serialization of a table.
type Format string

const (
	// FormatJS is the urlmap.js file loaded by gi-docgen
	FormatJS Format = "js"
	// FormatJSON is a JSON list of [namespace, base_url] pairs
	FormatJSON Format = "json"
	// FormatYAML is a YAML sequence of namespace/base_url mappings
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJS, FormatJSON, FormatYAML}

// ParseFormat converts a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "js", "javascript":
		return FormatJS, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		names := make([]string, len(Formats))
		for i, f := range Formats {
			names[i] = string(f)
		}
		return "", fmt.Errorf("unknown format %q (expected one of %s)", name, strings.Join(names, ", "))
	}
}

// FormatFromPath guesses the format of a file from its extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot determine format of %q: no file extension", path)
	}
	return ParseFormat(ext)
}

// Encode writes t to w in the given format.
func Encode(w io.Writer, t *Table, format Format) error {
	switch format {
	case FormatJS:
		return RenderJS(w, t)
	case FormatJSON:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal table: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("failed to marshal table: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Decode parses data in the given format and builds a validated table.
func Decode(data []byte, format Format) (*Table, error) {
	switch format {
	case FormatJS:
		return ParseJS(data)
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// MarshalJSON encodes the table as a list of [namespace, base_url] pairs.
func (t *Table) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, t.Len())
	for _, e := range t.Entries() {
		pairs = append(pairs, [2]string{e.Namespace, e.BaseURL})
	}
	return json.Marshal(pairs)
}

// DecodeJSON builds a table from a JSON list of pairs. An object mapping
// namespaces to base URLs is also accepted; since objects are unordered its
// entries are sorted by namespace.
func DecodeJSON(data []byte) (*Table, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty JSON document", ErrMalformed)
	}

	switch trimmed[0] {
	case '[':
		var pairs [][]string
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		entries := make([]Entry, 0, len(pairs))
		for i, p := range pairs {
			if len(p) != 2 {
				return nil, fmt.Errorf("%w: pair %d has %d elements (expected 2)", ErrMalformed, i, len(p))
			}
			entries = append(entries, Entry{Namespace: p[0], BaseURL: p[1]})
		}
		return New(entries...)

	case '{':
		entries, err := decodeJSONObject(trimmed)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Namespace < entries[j].Namespace
		})
		return New(entries...)

	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrMalformed)
	}
}

// decodeJSONObject reads {"namespace": "base URL", ...} token by token so a
// repeated key is reported instead of silently overwritten.
func decodeJSONObject(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var entries []Entry
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected %v", ErrMalformed, tok)
		}

		var baseURL string
		if err := dec.Decode(&baseURL); err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", ErrMalformed, name, err)
		}

		entry := Entry{Namespace: name, BaseURL: baseURL}
		if seen[name] {
			return nil, &EntryError{Index: len(entries), Entry: entry, Err: ErrDuplicateNamespace}
		}
		seen[name] = true
		entries = append(entries, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	return entries, nil
}

// MarshalYAML encodes the table as a sequence of entries.
func (t *Table) MarshalYAML() (interface{}, error) {
	return t.Entries(), nil
}

// DecodeYAML builds a table from a YAML sequence of entries.
func DecodeYAML(data []byte) (*Table, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return New(entries...)
}
