package courseclear

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/smileynet/courseclear/internal/config"
)

func TestEmbeddedExampleConfig(t *testing.T) {
	data, err := fs.ReadFile(Templates, ExampleConfigName)
	if err != nil {
		t.Fatalf("reading embedded %s: %v", ExampleConfigName, err)
	}
	if len(data) == 0 {
		t.Errorf("embedded %s is empty", ExampleConfigName)
	}
}

func TestExampleConfig_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteExampleConfig(Templates, path, false); err != nil {
		t.Fatalf("WriteExampleConfig() error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if want := config.DefaultConfig(); *cfg != want {
		t.Errorf("example config = %+v, want defaults %+v", *cfg, want)
	}
}

func TestWriteExampleConfig_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteExampleConfig(Templates, path, false)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("WriteExampleConfig() error = %v, want ErrExists", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "mine" {
		t.Error("existing file was modified")
	}

	if err := WriteExampleConfig(Templates, path, true); err != nil {
		t.Fatalf("WriteExampleConfig(force) error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) == "mine" {
		t.Error("force did not replace the file")
	}
}

func TestWriteExampleConfig_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	if err := WriteExampleConfig(Templates, path, false); err != nil {
		t.Fatalf("WriteExampleConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestWriteExampleConfig_MissingTemplate(t *testing.T) {
	err := WriteExampleConfig(fstest.MapFS{}, filepath.Join(t.TempDir(), "x.yaml"), false)
	if err == nil {
		t.Fatal("expected error when the template is missing")
	}
}

func TestOverlayFS_EmbeddedOnly(t *testing.T) {
	embedded := fstest.MapFS{
		"hello.txt": &fstest.MapFile{Data: []byte("from embedded")},
	}

	data, err := fs.ReadFile(OverlayFS(t.TempDir(), embedded), "hello.txt")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "from embedded" {
		t.Errorf("got %q, want %q", string(data), "from embedded")
	}
}

func TestOverlayFS_LocalOverride(t *testing.T) {
	embedded := fstest.MapFS{
		"a.txt": &fstest.MapFile{Data: []byte("embedded-a")},
		"b.txt": &fstest.MapFile{Data: []byte("embedded-b")},
	}
	localDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(localDir, "a.txt"), []byte("local-a"), 0o644); err != nil {
		t.Fatal(err)
	}

	ofs := OverlayFS(localDir, embedded)
	for name, want := range map[string]string{"a.txt": "local-a", "b.txt": "embedded-b"} {
		data, err := fs.ReadFile(ofs, name)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, string(data), want)
		}
	}
}

func TestOverlayFS_EmptyLocalDir(t *testing.T) {
	embedded := fstest.MapFS{"a.txt": &fstest.MapFile{Data: []byte("embedded")}}
	data, err := fs.ReadFile(OverlayFS("", embedded), "a.txt")
	if err != nil || string(data) != "embedded" {
		t.Errorf("ReadFile() = %q, %v; want embedded content", data, err)
	}
}

func TestOverlayFS_RejectsInvalidPath(t *testing.T) {
	ofs := OverlayFS(t.TempDir(), fstest.MapFS{})

	for _, name := range []string{"../escape", "/absolute", "missing.txt"} {
		if _, err := ofs.Open(name); err == nil {
			t.Errorf("Open(%q) should return error", name)
		}
	}
}
