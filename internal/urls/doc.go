// Package urls provides centralized constants for the base URLs of every
// documentation namespace the project links against.
//
// All base URLs are defined here as exported constants so a namespace that
// moves to a new documentation host can be updated in a single location.
// The default namespace table in package urlmap is built from these values.
//
// Usage:
//
//	import "github.com/imfreedom/urlmap/internal/urls"
//
//	fmt.Printf("GLib reference: %s\n", urls.GLib)
package urls
