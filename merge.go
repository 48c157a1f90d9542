package phrasebook

// Merge deep-merges src into dst. Entries missing from dst are moved over;
// when both sides hold a Mapping under the same key the incoming one is
// merged into the existing one; any other collision replaces the existing
// value with the incoming one. src is left empty. A nil dst leaves src
// untouched.
func Merge(dst, src *Mapping) {
	if dst == nil || dst == src || src == nil {
		return
	}
	for _, k := range src.keys {
		mergeEntry(dst, k, src.values[k])
	}
	src.Clear()
}

// mergeEntry inserts a single key/value into dst using the Merge rules. It
// also resolves duplicate keys while a document is being built.
func mergeEntry(dst *Mapping, key string, incoming Value) {
	if existing, ok := dst.Get(key); ok {
		if em, ok := existing.(*Mapping); ok {
			if im, ok := incoming.(*Mapping); ok {
				Merge(em, im)
				return
			}
		}
	}
	dst.Set(key, incoming)
}
