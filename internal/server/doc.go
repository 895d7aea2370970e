// Package server serves a namespace table to other tools over HTTP and
// WebSocket.
//
// # Endpoints
//
//	GET /api/v1/namespaces               JSON list of [namespace, base_url] pairs
//	GET /api/v1/namespaces/{namespace}   {"namespace": ..., "base_url": ...}
//	GET /api/v1/resolve?ref=[class@Gtk.Widget]
//	                                     {"ref": ..., "url": ...}
//	GET /api/v1/status                   server version and table size
//	GET /urlmap.js                       the table as a gi-docgen urlmap.js
//	GET /go/{namespace}/{page...}        302 redirect into the namespace's docs
//	GET /ws                              WebSocket lookups
//
// Unknown namespaces are reported with 404 and a JSON error body carrying
// case-insensitive suggestions. Lookups are always exact.
//
// # WebSocket Protocol
//
// Clients send one JSON object per text message and receive one reply:
//
//	-> {"id": "1", "namespace": "Gtk"}
//	<- {"id": "1", "namespace": "Gtk", "url": "https://docs.gtk.org/gtk3/"}
//	-> {"id": "2", "ref": "[method@Gtk.Widget.show]"}
//	<- {"id": "2", "url": "https://docs.gtk.org/gtk3/method.Widget.show.html"}
//	-> {"id": "3", "namespace": "gtk"}
//	<- {"id": "3", "error": "namespace \"gtk\" not found", "not_found": true}
//
// # Reloading
//
// The served table is held behind an atomic pointer. Reload swaps in a new
// table without interrupting in-flight requests; each request sees exactly
// one table for its whole duration. Tables themselves are never mutated.
package server
