package phrasebook

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type inMemoryStore struct {
	entries map[string][]byte
	l       sync.Mutex
}

// NewInMemoryStore provides a Catalog that keeps named blobs in a map,
// usually for testing.
func NewInMemoryStore() Catalog {
	return &inMemoryStore{}
}

func (ims *inMemoryStore) Store(ctx context.Context, name string, value []byte) error {
	ims.l.Lock()
	if ims.entries == nil {
		ims.entries = map[string][]byte{name: value}
	} else {
		ims.entries[name] = value
	}
	ims.l.Unlock()
	return nil
}

func (ims *inMemoryStore) Load(ctx context.Context, name string) ([]byte, error) {
	ims.l.Lock()
	value, ok := ims.entries[name]
	ims.l.Unlock()
	if !ok {
		return nil, fmt.Errorf("inMemoryStore entry not found for %s", name)
	}
	return value, nil
}

func (ims *inMemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	ims.l.Lock()
	names := make([]string, 0, len(ims.entries))
	for name := range ims.entries {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	ims.l.Unlock()
	sort.Strings(names)
	return names, nil
}
