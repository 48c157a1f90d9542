package phrasebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	c := NewKeyCache()
	assert.Equal(t, Path{"a", "b", "c"}, c.Normalize("a.b.c", ""))
	assert.Equal(t, Path{"a.b.c"}, c.Normalize("a.b.c", ":"))
	assert.Equal(t, Path{"a", "b"}, c.Normalize("a..b.", "."))
	assert.Equal(t, Path{"a", "b", "c"}, c.Normalize([]interface{}{"a", []string{"b", "c"}}, "."))
	assert.Equal(t, Path{"x", "y"}, c.Normalize(Sequence{Symbol("x"), String("y")}, "."))
	assert.Equal(t, Path{"1", "true"}, c.Normalize([]interface{}{1, true}, "."))
	assert.Equal(t, Path{}, c.Normalize([]string{}, "."))
	assert.Equal(t, Path{}, c.Normalize("", "."))
}

func TestNormalizeKeys(t *testing.T) {
	c := NewKeyCache()
	assert.Equal(t, Path{"en", "foo", "bar", "baz"}, c.NormalizeKeys("en", "baz", "foo.bar", ""))
	assert.Equal(t, Path{"en", "foo", "bar", "baz"}, c.NormalizeKeys("en", "baz", []string{"foo", "bar"}, ""))
	assert.Equal(t, Path{"en", "foo"}, c.NormalizeKeys("en", "foo", nil, ""))
	assert.Equal(t, Path{"en", "a.b"}, c.NormalizeKeys("en", "a.b", nil, "|"))
}

func TestKeyCacheCounts(t *testing.T) {
	c := NewKeyCache()
	first := c.Normalize("a.b", ".")
	second := c.Normalize("a.b", ".")
	assert.Equal(t, first, second)
	c.Normalize("a.b", ":")
	assert.Equal(t, KeyCacheStats{Hits: 1, Misses: 2, Entries: 2}, c.Stats())

	c.Reset()
	assert.Equal(t, KeyCacheStats{}, c.Stats())
	c.Normalize("a.b", ".")
	assert.Equal(t, uint64(1), c.Stats().Misses)
}

func TestPathValue(t *testing.T) {
	assert.Equal(t, Sequence{String("a"), String("b")}, Path{"a", "b"}.Value())
}

func TestLookup(t *testing.T) {
	root := NewMapping()
	en := NewMapping()
	en.Set("foo", String("bar"))
	en.Set("list", Sequence{String("a")})
	en.Set("nothing", Null{})
	root.Set("en", en)

	v, ok := Lookup(root, nil)
	assert.True(t, ok)
	assert.Same(t, root, v)
	v, ok = Lookup(root, []string{"en", "foo"})
	assert.True(t, ok)
	assert.Equal(t, String("bar"), v)
	v, ok = Lookup(root, []string{"en", "nothing"})
	assert.True(t, ok)
	assert.Equal(t, Null{}, v)

	for _, path := range [][]string{
		{"es"},
		{"en", "missing"},
		{"en", "foo", "deeper"},
		{"en", "list", "0"},
	} {
		_, ok := Lookup(root, path)
		assert.False(t, ok, "%v", path)
	}
	_, ok = Lookup(String("x"), []string{"a"})
	assert.False(t, ok)
}
