package phrasebook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
)

// Options configures a Store. The zero value is usable.
type Options struct {
	// Parser turns document text into nodes. Defaults to YAMLParser, whose
	// syntax errors carry Column 0; use goccy.Parser from parser/goccy
	// when error columns matter.
	Parser Parser

	// Init runs at most once before the first AvailableLocales or Lookup
	// result, and again after each Reload. It usually loads the
	// application's translation files.
	Init func(*Store) error

	// Logger receives load and snapshot events. Defaults to a logger that
	// discards everything.
	Logger *slog.Logger

	// Debug logs every node the Document Builder produces.
	Debug bool

	// SnapshotCache caches snapshots saved or restored by the store and
	// may be shared across multiple stores.
	SnapshotCache SnapshotCache
}

// Store holds the cumulative translation tree. A Store performs no
// locking; see Synchronized for sharing one between goroutines.
type Store struct {
	root          *Mapping
	initialized   bool
	keys          *KeyCache
	parser        Parser
	init          func(*Store) error
	logger        *slog.Logger
	debug         bool
	snapshotCache SnapshotCache
}

// New returns an empty store.
func New(opts *Options) *Store {
	if opts == nil {
		opts = &Options{}
	}
	s := &Store{
		root:          NewMapping(),
		keys:          NewKeyCache(),
		parser:        opts.Parser,
		init:          opts.Init,
		logger:        opts.Logger,
		debug:         opts.Debug,
		snapshotCache: opts.SnapshotCache,
	}
	if s.parser == nil {
		s.parser = YAMLParser{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Load merges a document into the store and returns the number of string
// translations it contained. On error the store is unchanged.
func (s *Store) Load(src []byte) (int, error) {
	doc, count, err := build(s.parser, src, s.debug, s.logger)
	if err != nil {
		s.logger.Warn("document rejected", "err", err)
		return 0, err
	}
	Merge(s.root, doc)
	s.logger.Debug("document loaded", "strings", count, "locales", s.root.Len())
	return count, nil
}

// LoadString is Load for document text held in a string.
func (s *Store) LoadString(src string) (int, error) {
	return s.Load([]byte(src))
}

// LoadFile loads the named YAML document from p. Names without a .yml or
// .yaml extension are refused with *UnknownFileTypeError.
func (s *Store) LoadFile(ctx context.Context, p Persist, name string) (int, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if !isYAMLExt(ext) {
		return 0, &UnknownFileTypeError{Type: ext, Name: name}
	}
	b, err := p.Load(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", name, err)
	}
	count, err := s.Load(b)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	s.logger.Info("translations loaded", "name", name, "strings", count)
	return count, nil
}

// LoadAll loads every YAML document listed under prefix, in name order.
// Other names are skipped. Loading stops at the first failure; documents
// loaded before it stay merged.
func (s *Store) LoadAll(ctx context.Context, c Catalog, prefix string) (int, error) {
	names, err := c.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("list %q: %w", prefix, err)
	}
	total := 0
	for _, name := range names {
		if !isYAMLExt(strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))) {
			continue
		}
		n, err := s.LoadFile(ctx, c, name)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func isYAMLExt(ext string) bool {
	return ext == "yml" || ext == "yaml"
}

// StoreTranslations merges plain Go data under locale, stringifying map
// keys, and marks the store initialized.
func (s *Store) StoreTranslations(locale string, data interface{}) (int, error) {
	v, err := FromInterface(data)
	if err != nil {
		return 0, fmt.Errorf("store translations for %s: %w", locale, err)
	}
	doc := NewMapping()
	doc.Set(locale, v)
	count := countStrings(v)
	Merge(s.root, doc)
	s.initialized = true
	return count, nil
}

// DirectLookup returns the value at path. With no arguments it returns the
// root mapping.
func (s *Store) DirectLookup(path ...string) (Value, bool) {
	return Lookup(s.root, path)
}

// Lookup resolves key, optionally under scope, for locale. Composite keys
// are split on separator (DefaultSeparator when empty) through the store's
// key cache. The Init hook runs first if the store is not initialized.
func (s *Store) Lookup(locale string, key, scope interface{}, separator string) (Value, bool, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, false, err
	}
	v, ok := Lookup(s.root, s.keys.NormalizeKeys(locale, key, scope, separator))
	return v, ok, nil
}

// AvailableLocales returns the top-level keys of the tree in load order,
// running the Init hook first if the store is not initialized.
func (s *Store) AvailableLocales() ([]string, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	return s.root.Keys(), nil
}

// ensureInitialized marks the store initialized before running the hook,
// so a hook that loads documents or lists locales does not recurse and a
// failing hook is not retried until the next Reload.
func (s *Store) ensureInitialized() error {
	if s.initialized {
		return nil
	}
	s.initialized = true
	if s.init == nil {
		return nil
	}
	if err := s.init(s); err != nil {
		return fmt.Errorf("init translations: %w", err)
	}
	return nil
}

// Initialized reports whether the Init hook has run since the last Reload.
func (s *Store) Initialized() bool {
	return s.initialized
}

// Reload discards every translation and resets the initialized flag.
func (s *Store) Reload() {
	s.root.Clear()
	s.initialized = false
	s.logger.Debug("translations cleared")
}

// Normalize splits a composite key through the store's key cache.
func (s *Store) Normalize(key interface{}, separator string) Path {
	return s.keys.Normalize(key, separator)
}

// KeyCache returns the store's normalized key cache.
func (s *Store) KeyCache() *KeyCache {
	return s.keys
}

// Root returns the store's root mapping. It must not be modified.
func (s *Store) Root() *Mapping {
	return s.root
}

// Save writes a snapshot of the tree to p and returns its content address.
// A snapshot already known to the snapshot cache is not stored again.
func (s *Store) Save(ctx context.Context, p Persist) (string, error) {
	encoded, err := EncodeSnapshot(s.root)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	name := SnapshotName(encoded)
	if s.snapshotCache != nil && s.snapshotCache.Contains(name) {
		return name, nil
	}
	if err := p.Store(ctx, name, encoded); err != nil {
		return "", fmt.Errorf("persist store: %w", err)
	}
	if s.snapshotCache != nil {
		s.snapshotCache.Add(name, Clone(s.root))
	}
	s.logger.Info("snapshot saved", "name", name, "bytes", len(encoded))
	return name, nil
}

// Restore replaces the tree with the snapshot stored under name and marks
// the store initialized. The store is unchanged on error.
func (s *Store) Restore(ctx context.Context, p Persist, name string) error {
	var snapshot *Mapping
	if s.snapshotCache != nil {
		if cached, ok := s.snapshotCache.Get(name); ok {
			snapshot = cached.(*Mapping)
		}
	}
	if snapshot == nil {
		encoded, err := p.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("persist load %s: %w", name, err)
		}
		if got := SnapshotName(encoded); got != name {
			return fmt.Errorf("snapshot %s: content hashes to %s", name, got)
		}
		snapshot, err = DecodeSnapshot(encoded)
		if err != nil {
			return fmt.Errorf("decode snapshot %s: %w", name, err)
		}
		if s.snapshotCache != nil {
			s.snapshotCache.Add(name, snapshot)
		}
	}
	s.root = Clone(snapshot).(*Mapping)
	s.initialized = true
	s.logger.Info("snapshot restored", "name", name, "locales", s.root.Len())
	return nil
}
