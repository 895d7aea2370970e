package urls

// Base URLs for the GNOME platform libraries.
// Published at https://docs.gtk.org/

// GLib is the base URL for the GLib reference.
const GLib = "https://docs.gtk.org/glib/"

// GObject is the base URL for the GObject reference.
const GObject = "https://docs.gtk.org/gobject/"

// Gtk is the base URL for the GTK 3 reference.
// The namespace is versionless, so this must track the major version we build against.
const Gtk = "https://docs.gtk.org/gtk3/"

// Base URLs for the Instant Messaging Freedom libraries.
// Published at https://docs.imfreedom.org/

// GPlugin is the base URL for the GPlugin reference.
const GPlugin = "https://docs.imfreedom.org/gplugin/"

// GPluginGtk3 is the base URL for the GPlugin GTK 3 widgets reference.
const GPluginGtk3 = "https://docs.imfreedom.org/gplugin-gtk3/"

// Purple3 is the base URL for the libpurple 3 reference.
const Purple3 = "https://docs.imfreedom.org/purple3/"

// Talkatu is the base URL for the Talkatu reference.
const Talkatu = "https://docs.imfreedom.org/talkatu/"
