package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Persist implements the phrasebook.Catalog interface for loading
// translation documents from, and storing snapshots in, a directory.
// Names are slash-separated paths relative to the directory.
type Persist struct {
	basepath string
}

// Load loads the bytes persisted in the named file.
func (p Persist) Load(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(p.basepath, filepath.FromSlash(name)))
}

// Store persists the given bytes in a file of the given name, if it
// doesn't exist already. Missing parent directories are created.
func (p Persist) Store(ctx context.Context, name string, bytes []byte) error {
	path := filepath.Join(p.basepath, filepath.FromSlash(name))
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, bytes, 0o644)
	}
	return err
}

// List returns the sorted names of the regular files below the directory
// that start with prefix.
func (p Persist) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(p.basepath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(p.basepath, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// NewPersistForPath returns a Persist over the directory at the given path.
//
//	p := NewPersistForPath("/srv/app/config/locales")
//	n, err := store.LoadAll(ctx, p, "")
func NewPersistForPath(path string) Persist {
	return Persist{path}
}
