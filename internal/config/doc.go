// Package config provides user configuration management for urlmap.
//
// This package manages a YAML-based configuration file that adds to or
// overrides the built-in namespace table and stores defaults for the table
// server. The configuration follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/urlmap/config.yaml or $HOME/.config/urlmap/config.yaml
//   - macOS: $HOME/.config/urlmap/config.yaml
//   - Windows: %LOCALAPPDATA%\urlmap\config.yaml
//
// # File Format
//
//	version: 1
//	namespaces:
//	  - namespace: Gtk
//	    base_url: https://docs.gtk.org/gtk4/
//	  - namespace: Pidgin3
//	    base_url: https://docs.imfreedom.org/pidgin3/
//	server:
//	  host: 127.0.0.1
//	  port: 8377
//	  advertise: false
//
// Entries under namespaces override a built-in namespace of the same name
// in place, or are appended after the built-in entries.
//
// # Usage Example
//
//	settings, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := settings.Table()
//
// # Thread Safety
//
// Save is protected by a mutex and writes atomically through a temporary
// file. Settings values themselves are not safe for concurrent mutation.
package config
