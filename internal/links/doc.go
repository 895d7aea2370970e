// Package links turns gi-docgen cross-references into documentation URLs.
//
// A cross-reference has the form [fragment@Namespace.Symbol], for example:
//
//	[class@Gtk.Widget]            -> <Gtk base>class.Widget.html
//	[method@Gtk.Widget.show]      -> <Gtk base>method.Widget.show.html
//	[property@Gtk.Widget:visible] -> <Gtk base>property.Widget.visible.html
//	[signal@Gtk.Widget::destroy]  -> <Gtk base>signal.Widget.destroy.html
//	[func@GLib.idle_add]          -> <GLib base>func.idle_add.html
//
// The namespace is looked up in a urlmap.Table; the page name is derived
// from the fragment and symbol the same way gi-docgen names its output.
package links
