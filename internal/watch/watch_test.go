package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

const gtk4Config = `version: 1
namespaces:
  - namespace: Gtk
    base_url: https://docs.gtk.org/gtk4/
`

// waitForGtk waits for a reload that maps Gtk to want. Earlier reloads may
// observe a partially written file and are skipped.
func waitForGtk(t *testing.T, tables <-chan *urlmap.Table, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case table := <-tables:
			if got, _ := table.Lookup("Gtk"); got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload with Gtk = %q", want)
		}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	tables := make(chan *urlmap.Table, 16)
	w, err := New(path, func(table *urlmap.Table) { tables <- table })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.SetDebounce(10 * time.Millisecond)
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(path, []byte(gtk4Config), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	waitForGtk(t, tables, "https://docs.gtk.org/gtk4/")
}

func TestWatcherIgnoresInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	tables := make(chan *urlmap.Table, 16)
	w, err := New(path, func(table *urlmap.Table) { tables <- table })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.SetDebounce(10 * time.Millisecond)
	w.Start()
	defer w.Stop()

	// Replace atomically so no reload can observe an empty file
	tmp := filepath.Join(dir, "config.tmp")
	if err := os.WriteFile(tmp, []byte("version: 7\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte(gtk4Config), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case table := <-tables:
		t.Fatalf("invalid config produced a table with %d entries", table.Len())
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "config.yaml"), func(*urlmap.Table) {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.Start()

	if err := w.Stop(); err != nil {
		t.Errorf("first Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
