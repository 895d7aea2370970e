package urlmap

import "github.com/imfreedom/urlmap/internal/urls"

var defaultTable = MustNew(
	Entry{Namespace: "GLib", BaseURL: urls.GLib},
	Entry{Namespace: "GObject", BaseURL: urls.GObject},
	Entry{Namespace: "GPlugin", BaseURL: urls.GPlugin},
	Entry{Namespace: "GPlugin-Gtk3", BaseURL: urls.GPluginGtk3},
	Entry{Namespace: "Gtk", BaseURL: urls.Gtk},
	Entry{Namespace: "Purple3", BaseURL: urls.Purple3},
	Entry{Namespace: "Talkatu", BaseURL: urls.Talkatu},
)

// Default returns the built-in namespace table.
// The returned table is shared and, like every Table, read-only.
func Default() *Table {
	return defaultTable
}
