package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "urlmap"); got != want {
		t.Errorf("GetConfigDir() = %q, want %q", got, want)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", settings.Version, CurrentVersion)
	}
	if settings.Path() != path {
		t.Errorf("Path() = %q, want %q", settings.Path(), path)
	}

	table, err := settings.Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if table != urlmap.Default() {
		t.Error("settings without namespaces should use the default table")
	}
}

func TestParse(t *testing.T) {
	input := `
version: 1
namespaces:
  - namespace: Gtk
    base_url: https://docs.gtk.org/gtk4/
  - namespace: Pidgin3
    base_url: https://docs.imfreedom.org/pidgin3/
server:
  port: 9000
  advertise: true
`
	settings, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if settings.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", settings.Server.Port)
	}
	if settings.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default %q", settings.Server.Host, DefaultHost)
	}
	if !settings.Server.Advertise {
		t.Error("Server.Advertise should be true")
	}

	table, err := settings.Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if table.Len() != 8 {
		t.Errorf("Table().Len() = %d, want 8", table.Len())
	}
	if got, _ := table.Lookup("Gtk"); got != "https://docs.gtk.org/gtk4/" {
		t.Errorf("Gtk = %q, want override", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:  "bad version",
			input: "version: 2\n",
		},
		{
			name:  "bad yaml",
			input: "version: [\n",
		},
		{
			name: "bad base url",
			input: `version: 1
namespaces:
  - namespace: Gtk
    base_url: docs.gtk.org
`,
			wantErr: urlmap.ErrInvalidBaseURL,
		},
		{
			name: "empty namespace",
			input: `version: 1
namespaces:
  - base_url: https://example.org/
`,
			wantErr: urlmap.ErrEmptyNamespace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	settings, err := Parse([]byte("# nothing here\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if settings.Server == nil || settings.Server.Port != DefaultPort {
		t.Errorf("empty document should yield default server prefs, got %+v", settings.Server)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	settings := NewSettings()
	if err := settings.SetNamespace("Pidgin3", "https://docs.imfreedom.org/pidgin3/"); err != nil {
		t.Fatalf("SetNamespace() error = %v", err)
	}
	if err := settings.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# urlmap configuration file") {
		t.Errorf("saved file should start with header comment:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Namespaces) != 1 || loaded.Namespaces[0].Namespace != "Pidgin3" {
		t.Errorf("loaded namespaces = %+v", loaded.Namespaces)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("config file permissions = %o, want 600", perm)
		}
	}
}

func TestSetNamespace(t *testing.T) {
	settings := NewSettings()

	if err := settings.SetNamespace("Gtk", "https://docs.gtk.org/gtk4/"); err != nil {
		t.Fatalf("SetNamespace() error = %v", err)
	}
	if err := settings.SetNamespace("Gtk", "https://docs.gtk.org/gtk3/"); err != nil {
		t.Fatalf("SetNamespace() error = %v", err)
	}
	if len(settings.Namespaces) != 1 {
		t.Fatalf("SetNamespace() should replace, got %+v", settings.Namespaces)
	}
	if settings.Namespaces[0].BaseURL != "https://docs.gtk.org/gtk3/" {
		t.Errorf("BaseURL = %q", settings.Namespaces[0].BaseURL)
	}

	if err := settings.SetNamespace("", "https://example.org/"); !errors.Is(err, urlmap.ErrEmptyNamespace) {
		t.Errorf("SetNamespace(\"\") error = %v", err)
	}
	if err := settings.SetNamespace("Bad", "example.org"); !errors.Is(err, urlmap.ErrInvalidBaseURL) {
		t.Errorf("SetNamespace(bad url) error = %v", err)
	}
	if err := settings.SetNamespace("Bad\nName", "https://example.org/"); !errors.Is(err, urlmap.ErrInvalidNamespace) {
		t.Errorf("SetNamespace(control character) error = %v", err)
	}
	if len(settings.Namespaces) != 1 {
		t.Errorf("failed SetNamespace() should not change settings, got %+v", settings.Namespaces)
	}
}

func TestRemoveNamespace(t *testing.T) {
	settings := NewSettings()
	_ = settings.SetNamespace("A", "https://a.example.org/")
	_ = settings.SetNamespace("B", "https://b.example.org/")

	if !settings.RemoveNamespace("A") {
		t.Error("RemoveNamespace(A) = false, want true")
	}
	if settings.RemoveNamespace("A") {
		t.Error("second RemoveNamespace(A) = true, want false")
	}
	if len(settings.Namespaces) != 1 || settings.Namespaces[0].Namespace != "B" {
		t.Errorf("remaining namespaces = %+v", settings.Namespaces)
	}
}
