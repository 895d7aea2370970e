package links

import (
	"errors"
	"testing"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		input    string
		want     Ref
		wantPage string
	}{
		{
			input:    "[class@Gtk.Widget]",
			want:     Ref{Fragment: FragmentClass, Namespace: "Gtk", Name: "Widget"},
			wantPage: "class.Widget.html",
		},
		{
			input:    "iface@GPlugin.Loader",
			want:     Ref{Fragment: FragmentIface, Namespace: "GPlugin", Name: "Loader"},
			wantPage: "iface.Loader.html",
		},
		{
			input:    "[method@Gtk.Widget.show]",
			want:     Ref{Fragment: FragmentMethod, Namespace: "Gtk", Type: "Widget", Name: "show"},
			wantPage: "method.Widget.show.html",
		},
		{
			input:    "[ctor@Purple3.Account.new]",
			want:     Ref{Fragment: FragmentCtor, Namespace: "Purple3", Type: "Account", Name: "new"},
			wantPage: "ctor.Account.new.html",
		},
		{
			input:    "[vfunc@GObject.Object.dispose]",
			want:     Ref{Fragment: FragmentVfunc, Namespace: "GObject", Type: "Object", Name: "dispose"},
			wantPage: "vfunc.Object.dispose.html",
		},
		{
			input:    "[func@GLib.idle_add]",
			want:     Ref{Fragment: FragmentFunc, Namespace: "GLib", Name: "idle_add"},
			wantPage: "func.idle_add.html",
		},
		{
			input:    "[func@Gtk.Widget.set_default_direction]",
			want:     Ref{Fragment: FragmentFunc, Namespace: "Gtk", Type: "Widget", Name: "set_default_direction"},
			wantPage: "type_func.Widget.set_default_direction.html",
		},
		{
			input:    "[property@Gtk.Widget:can-focus]",
			want:     Ref{Fragment: FragmentProperty, Namespace: "Gtk", Type: "Widget", Name: "can-focus"},
			wantPage: "property.Widget.can-focus.html",
		},
		{
			input:    "[signal@Gtk.Widget::destroy]",
			want:     Ref{Fragment: FragmentSignal, Namespace: "Gtk", Type: "Widget", Name: "destroy"},
			wantPage: "signal.Widget.destroy.html",
		},
		{
			input:    "[const@GLib.MAXINT]",
			want:     Ref{Fragment: FragmentConst, Namespace: "GLib", Name: "MAXINT"},
			wantPage: "const.MAXINT.html",
		},
		{
			input:    "[class@GPlugin-Gtk3.View]",
			want:     Ref{Fragment: FragmentClass, Namespace: "GPlugin-Gtk3", Name: "View"},
			wantPage: "class.View.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if err != nil {
				t.Fatalf("ParseRef(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if page := got.Page(); page != tt.wantPage {
				t.Errorf("Page() = %q, want %q", page, tt.wantPage)
			}
		})
	}
}

func TestParseRefErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"Gtk.Widget", ErrInvalidRef},
		{"[class@]", ErrInvalidRef},
		{"[@Gtk.Widget]", ErrInvalidRef},
		{"[class@Widget]", ErrInvalidRef},
		{"[class@Gtk.Widget.show]", ErrInvalidRef},
		{"[method@Gtk.Widget]", ErrInvalidRef},
		{"[property@Gtk.Widget.visible]", ErrInvalidRef},
		{"[signal@Gtk.Widget:destroy]", ErrInvalidRef},
		{"[func@GLib.1bad]", ErrInvalidRef},
		{"[id@gtk_widget_show]", ErrUnknownFragment},
		{"[type@Gtk.Widget]", ErrUnknownFragment},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseRef(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRef(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRefString(t *testing.T) {
	inputs := []string{
		"[class@Gtk.Widget]",
		"[method@Gtk.Widget.show]",
		"[property@Gtk.Widget:visible]",
		"[signal@Gtk.Widget::destroy]",
		"[func@GLib.idle_add]",
	}

	for _, input := range inputs {
		ref, err := ParseRef(input)
		if err != nil {
			t.Fatalf("ParseRef(%q) error = %v", input, err)
		}
		if ref.String() != input {
			t.Errorf("String() = %q, want %q", ref.String(), input)
		}
	}
}
