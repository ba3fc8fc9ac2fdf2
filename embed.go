// Package courseclear provides embedded runtime resources (the example
// config) and an overlay filesystem that checks local disk first, falling
// back to embedded.
package courseclear

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ExampleConfigName is the name of the example config inside Templates.
const ExampleConfigName = "config.example.yaml"

// ErrExists is returned when refusing to overwrite an existing file.
var ErrExists = errors.New("file already exists")

//go:embed templates/*.yaml
var rawTemplates embed.FS

// Templates is the embedded templates filesystem with the "templates/" prefix stripped.
var Templates = mustSub(rawTemplates, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if o.localDir != "" {
		if f, err := os.Open(filepath.Join(o.localDir, filepath.FromSlash(name))); err == nil {
			return f, nil
		}
	}
	return o.embedded.Open(name)
}

// WriteExampleConfig copies the example config from fsys to path. An existing
// file is only replaced when force is set.
func WriteExampleConfig(fsys fs.FS, path string, force bool) error {
	data, err := fs.ReadFile(fsys, ExampleConfigName)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ExampleConfigName, err)
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
