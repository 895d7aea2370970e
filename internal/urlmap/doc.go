// Package urlmap provides the namespace table used to resolve documentation
// cross-references into hyperlinks.
//
// A Table maps a documentation namespace (for example "GLib" or
// "GPlugin-Gtk3") to the base URL under which that namespace's generated
// reference pages are published. Documentation generators read the table to
// turn a reference such as [class@Gtk.Widget] into a link.
//
// # Lookup
//
// Lookups are exact and case-sensitive. An unknown namespace is reported as
// a *NotFoundError, which matches ErrNotFound with errors.Is:
//
//	base, err := urlmap.Default().Lookup("Gtk")
//	if errors.Is(err, urlmap.ErrNotFound) {
//	    // render the reference without a link
//	}
//
// # Serialization
//
// Tables can be written and read as a JSON list of pairs, as YAML, and as
// the urlmap.js file loaded by gi-docgen:
//
//	urlmap.Encode(os.Stdout, urlmap.Default(), urlmap.FormatJS)
//
// # Thread Safety
//
// A Table is immutable once New returns. It may be shared freely between
// goroutines without synchronization. Derived tables are built with With,
// which never modifies the receiver.
package urlmap
