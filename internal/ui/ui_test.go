package ui

import (
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

func TestClampWidth(t *testing.T) {
	tests := []struct {
		width int
		err   error
		want  int
	}{
		{80, nil, 80},
		{10, nil, MinTerminalWidth},
		{500, nil, MaxContentWidth},
		{80, errors.New("not a terminal"), MinTerminalWidth},
	}

	for _, tt := range tests {
		if got := clampWidth(tt.width, tt.err); got != tt.want {
			t.Errorf("clampWidth(%d, %v) = %d, want %d", tt.width, tt.err, got, tt.want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(urlmap.Default(), 80)

	for _, e := range urlmap.Default().Entries() {
		if !strings.Contains(out, e.Namespace) {
			t.Errorf("RenderTable() missing namespace %q", e.Namespace)
		}
		if !strings.Contains(out, e.BaseURL) {
			t.Errorf("RenderTable() missing URL %q", e.BaseURL)
		}
	}
	if !strings.Contains(out, "(7)") {
		t.Error("RenderTable() should include the entry count")
	}
}

func TestResultRender(t *testing.T) {
	success := NewSuccessResult("Gtk", Detail{Key: "Base URL", Value: "https://docs.gtk.org/gtk3/"}).SetWidth(80).Render()
	if !strings.Contains(success, SuccessMarker) || !strings.Contains(success, "https://docs.gtk.org/gtk3/") {
		t.Errorf("success render missing content:\n%s", success)
	}

	failure := NewFailureResult("gtk", errors.New(`namespace "gtk" not found`), []string{"Gtk"}).SetWidth(80).Render()
	if !strings.Contains(failure, FailureMarker) || !strings.Contains(failure, "Did you mean: Gtk?") {
		t.Errorf("failure render missing content:\n%s", failure)
	}
}

func typeText(m BrowseModel, text string) BrowseModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(BrowseModel)
}

func press(m BrowseModel, keyType tea.KeyType) (BrowseModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return next.(BrowseModel), cmd
}

func TestBrowseFilterAndSelect(t *testing.T) {
	m := NewBrowseModel(urlmap.Default())
	if len(m.Visible()) != 7 {
		t.Fatalf("initial visible = %d, want 7", len(m.Visible()))
	}

	m = typeText(m, "imfreedom")
	if got := len(m.Visible()); got != 4 {
		t.Fatalf("visible after filter = %d, want 4 (%v)", got, m.Visible())
	}

	m, _ = press(m, tea.KeyDown)
	m, cmd := press(m, tea.KeyEnter)

	if m.Selected == nil {
		t.Fatal("Selected should be set after enter")
	}
	if m.Selected.Namespace != "GPlugin-Gtk3" {
		t.Errorf("Selected = %q, want GPlugin-Gtk3", m.Selected.Namespace)
	}
	if cmd == nil {
		t.Error("enter should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestBrowseCursorBounds(t *testing.T) {
	m := NewBrowseModel(urlmap.Default())

	m, _ = press(m, tea.KeyUp)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top, want 0", m.cursor)
	}

	for i := 0; i < 20; i++ {
		m, _ = press(m, tea.KeyDown)
	}
	if m.cursor != 6 {
		t.Errorf("cursor = %d after many downs, want 6", m.cursor)
	}

	// Narrowing the list pulls the cursor back into range
	m = typeText(m, "glib")
	if len(m.Visible()) != 1 || m.cursor != 0 {
		t.Errorf("visible = %v cursor = %d, want GLib only at 0", m.Visible(), m.cursor)
	}
}

func TestBrowseQuitWithoutSelection(t *testing.T) {
	m := NewBrowseModel(urlmap.Default())
	m = typeText(m, "zzz")

	if !strings.Contains(m.View(), "no matching namespaces") {
		t.Errorf("View() should report no matches:\n%s", m.View())
	}

	m, _ = press(m, tea.KeyEsc)
	if m.Selected != nil {
		t.Errorf("Selected = %+v, want nil after esc", m.Selected)
	}
}

func TestIsTerminalWriter(t *testing.T) {
	if IsTerminalWriter(&strings.Builder{}) {
		t.Error("IsTerminalWriter(strings.Builder) = true")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminalWriter(f) {
		t.Error("IsTerminalWriter(regular file) = true")
	}
}
