package phrasebook

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSeparator splits composite keys when no separator is given.
const DefaultSeparator = "."

// Path is an ordered list of non-empty key segments.
type Path []string

// Value renders p as a Sequence of Strings.
func (p Path) Value() Sequence {
	out := make(Sequence, len(p))
	for i, s := range p {
		out[i] = String(s)
	}
	return out
}

// KeyCacheStats counts normalization requests served from and added to a
// KeyCache.
type KeyCacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// KeyCache memoizes normalized keys per separator. It never evicts.
type KeyCache struct {
	bySeparator map[string]map[string]Path
	stats       KeyCacheStats
}

// NewKeyCache returns an empty cache.
func NewKeyCache() *KeyCache {
	return &KeyCache{bySeparator: map[string]map[string]Path{}}
}

// Normalize splits key on every occurrence of separator, dropping empty
// segments. Lists are rendered by joining their normalized elements with
// separator before splitting; other non-text keys are converted to text
// first. The returned Path is shared with the cache and must not be
// modified.
func (c *KeyCache) Normalize(key interface{}, separator string) Path {
	if separator == "" {
		separator = DefaultSeparator
	}
	return c.normalizeText(keyString(key, separator), separator)
}

func (c *KeyCache) normalizeText(text, separator string) Path {
	byKey, ok := c.bySeparator[separator]
	if !ok {
		byKey = map[string]Path{}
		c.bySeparator[separator] = byKey
	}
	if p, ok := byKey[text]; ok {
		c.stats.Hits++
		return p
	}
	c.stats.Misses++
	p := splitKey(text, separator)
	byKey[text] = p
	c.stats.Entries++
	return p
}

// NormalizeKeys builds the full lookup path for a key under a locale and
// an optional scope.
func (c *KeyCache) NormalizeKeys(locale string, key, scope interface{}, separator string) Path {
	var out Path
	for _, part := range []interface{}{locale, scope, key} {
		if part == nil {
			continue
		}
		out = append(out, c.Normalize(part, separator)...)
	}
	return out
}

// Stats returns the cache counters.
func (c *KeyCache) Stats() KeyCacheStats {
	return c.stats
}

// Reset drops every cached entry and zeroes the counters.
func (c *KeyCache) Reset() {
	c.bySeparator = map[string]map[string]Path{}
	c.stats = KeyCacheStats{}
}

func splitKey(text, separator string) Path {
	parts := strings.Split(text, separator)
	out := make(Path, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func keyString(key interface{}, separator string) string {
	switch k := key.(type) {
	case string:
		return k
	case Path:
		return strings.Join(k, separator)
	case []string:
		return joinKeys(len(k), func(i int) interface{} { return k[i] }, separator)
	case []interface{}:
		return joinKeys(len(k), func(i int) interface{} { return k[i] }, separator)
	case String:
		return string(k)
	case Symbol:
		return string(k)
	case Integer:
		return string(k)
	case Float:
		return string(k)
	case Sequence:
		return joinKeys(len(k), func(i int) interface{} { return k[i] }, separator)
	case fmt.Stringer:
		return k.String()
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case bool:
		return strconv.FormatBool(k)
	case nil:
		return ""
	default:
		return fmt.Sprint(k)
	}
}

func joinKeys(n int, at func(int) interface{}, separator string) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, keyString(at(i), separator))
	}
	return strings.Join(parts, separator)
}
