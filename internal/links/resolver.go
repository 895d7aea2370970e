package links

import (
	"regexp"
	"strings"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

// Resolver builds documentation URLs from references using a namespace table.
type Resolver struct {
	table *urlmap.Table
}

// NewResolver creates a resolver backed by table.
func NewResolver(table *urlmap.Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve parses text as a reference and returns its URL.
// Unknown namespaces are reported with an error matching urlmap.ErrNotFound.
func (r *Resolver) Resolve(text string) (string, error) {
	ref, err := ParseRef(text)
	if err != nil {
		return "", err
	}
	return r.URL(ref)
}

// URL returns the documentation URL for a parsed reference.
func (r *Resolver) URL(ref Ref) (string, error) {
	base, err := r.table.Lookup(ref.Namespace)
	if err != nil {
		return "", err
	}
	return base + ref.Page(), nil
}

// refPattern finds bracketed references that are not already the text of a
// markdown link.
var refPattern = regexp.MustCompile(`\[([a-z]+@[^\[\]\s]+)\](\()?`)

// Unresolved is a reference ReplaceRefs left untouched.
type Unresolved struct {
	Ref    string // The reference as written, including brackets
	Offset int    // Byte offset in the input
	Err    error
}

// ReplaceRefs rewrites every reference in text into a markdown link.
// References that cannot be resolved are left as written and returned.
func (r *Resolver) ReplaceRefs(text string) (string, []Unresolved) {
	var (
		b          strings.Builder
		unresolved []Unresolved
		last       int
	)

	for _, m := range refPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		// Already a link target: "[class@Gtk.Widget](...)"
		if m[4] >= 0 {
			continue
		}

		written := text[start:end]
		ref, err := ParseRef(written)
		var url string
		if err == nil {
			url, err = r.URL(ref)
		}
		if err != nil {
			unresolved = append(unresolved, Unresolved{Ref: written, Offset: start, Err: err})
			continue
		}

		b.WriteString(text[last:start])
		b.WriteString("[" + ref.Symbol() + "](" + url + ")")
		last = end
	}
	b.WriteString(text[last:])

	return b.String(), unresolved
}
