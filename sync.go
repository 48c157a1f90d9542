package phrasebook

import (
	"context"
	"sync"
)

// Synchronized wraps a Store for use from several goroutines. Operations
// that may write (loads, Reload, Normalize, and Lookup/AvailableLocales,
// which can run the Init hook or fill the key cache) are serialized;
// DirectLookup calls only exclude writers.
type Synchronized struct {
	l sync.RWMutex
	s *Store
}

// NewSynchronized returns a new store wrapped for concurrent use.
func NewSynchronized(opts *Options) *Synchronized {
	return &Synchronized{s: New(opts)}
}

func (ss *Synchronized) Load(src []byte) (int, error) {
	ss.l.Lock()
	defer ss.l.Unlock()
	return ss.s.Load(src)
}

func (ss *Synchronized) LoadFile(ctx context.Context, p Persist, name string) (int, error) {
	ss.l.Lock()
	defer ss.l.Unlock()
	return ss.s.LoadFile(ctx, p, name)
}

func (ss *Synchronized) LoadAll(ctx context.Context, c Catalog, prefix string) (int, error) {
	ss.l.Lock()
	defer ss.l.Unlock()
	return ss.s.LoadAll(ctx, c, prefix)
}

func (ss *Synchronized) StoreTranslations(locale string, data interface{}) (int, error) {
	ss.l.Lock()
	defer ss.l.Unlock()
	return ss.s.StoreTranslations(locale, data)
}

// DirectLookup returns a deep copy of the value at path, so the result
// stays valid while other goroutines load documents.
func (ss *Synchronized) DirectLookup(path ...string) (Value, bool) {
	ss.l.RLock()
	defer ss.l.RUnlock()
	v, ok := ss.s.DirectLookup(path...)
	if !ok {
		return nil, false
	}
	return Clone(v), true
}

func (ss *Synchronized) Lookup(locale string, key, scope interface{}, separator string) (Value, bool, error) {
	ss.l.Lock()
	defer ss.l.Unlock()
	v, ok, err := ss.s.Lookup(locale, key, scope, separator)
	if !ok || err != nil {
		return nil, ok, err
	}
	return Clone(v), true, nil
}

func (ss *Synchronized) AvailableLocales() ([]string, error) {
	ss.l.Lock()
	defer ss.l.Unlock()
	return ss.s.AvailableLocales()
}

func (ss *Synchronized) Reload() {
	ss.l.Lock()
	defer ss.l.Unlock()
	ss.s.Reload()
}

func (ss *Synchronized) Normalize(key interface{}, separator string) Path {
	ss.l.Lock()
	defer ss.l.Unlock()
	return ss.s.Normalize(key, separator)
}

func (ss *Synchronized) Save(ctx context.Context, p Persist) (string, error) {
	ss.l.RLock()
	defer ss.l.RUnlock()
	return ss.s.Save(ctx, p)
}

func (ss *Synchronized) Restore(ctx context.Context, p Persist, name string) error {
	ss.l.Lock()
	defer ss.l.Unlock()
	return ss.s.Restore(ctx, p, name)
}
