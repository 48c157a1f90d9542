package phrasebook

// Lookup walks path from root. Every step must land on a Mapping holding
// the next segment; otherwise Lookup reports false. An empty path returns
// root itself.
func Lookup(root Value, path []string) (Value, bool) {
	current := root
	for _, segment := range path {
		m, ok := current.(*Mapping)
		if !ok || m == nil {
			return nil, false
		}
		current, ok = m.values[segment]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}
