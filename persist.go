package phrasebook

import "context"

// Persist loads and stores named blobs: translation documents and store
// snapshots.
type Persist interface {
	// Store makes the given bytes accessible by the given name.
	Store(context.Context, string, []byte) error
	// Load retrieves the previously-stored bytes by the given name.
	Load(context.Context, string) ([]byte, error)
}

// Lister enumerates stored names.
type Lister interface {
	// List returns the sorted names that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Catalog is a Persist whose names can be listed, such as a directory of
// translation files.
type Catalog interface {
	Persist
	Lister
}
