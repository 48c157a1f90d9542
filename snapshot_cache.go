package phrasebook

import lru "github.com/hashicorp/golang-lru"

// SnapshotCache caches decoded snapshots by content address. It is also
// used to avoid re-storing snapshots, so care should be taken to
// switch/invalidate the cache when the Persist is changed.
type SnapshotCache interface {
	// Add adds a freshly-persisted or freshly-decoded snapshot.
	Add(key, value interface{})
	// Contains indicates the snapshot with the given name has already been persisted.
	Contains(key interface{}) bool
	// Get retrieves the decoded snapshot with the given name, if cached.
	Get(key interface{}) (value interface{}, ok bool)
}

// NewSnapshotCache creates a new ARC-based snapshot cache of the given
// size. One cache can be shared by any number of stores.
func NewSnapshotCache(size int) SnapshotCache {
	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return cache
}
