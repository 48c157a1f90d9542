package phrasebook

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/arbitrary"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultGopterParameters = gopter.DefaultTestParameters()

func TestMergeRules(t *testing.T) {
	dst := NewMapping()
	en := NewMapping()
	en.Set("foo", String("bar"))
	en.Set("list", Sequence{String("a")})
	dst.Set("en", en)

	src := NewMapping()
	en2 := NewMapping()
	en2.Set("baz", String("new"))
	en2.Set("list", Sequence{String("b")})
	en2.Set("foo", NewMapping())
	src.Set("en", en2)
	src.Set("es", String("hola"))

	Merge(dst, src)
	assert.Equal(t, 0, src.Len())
	assert.Equal(t, []string{"en", "es"}, dst.Keys())
	got, _ := dst.Get("en")
	assert.Equal(t, []string{"foo", "list", "baz"}, got.(*Mapping).Keys())
	v, _ := Lookup(dst, []string{"en", "list"})
	assert.Equal(t, Sequence{String("b")}, v)
	v, _ = Lookup(dst, []string{"en", "foo"})
	assert.Equal(t, MappingKind, v.Kind())
}

func TestMergeIntoSelf(t *testing.T) {
	m := NewMapping()
	m.Set("en", String("x"))
	Merge(m, m)
	Merge(m, nil)
	assert.Equal(t, 1, m.Len())
}

func TestMergeIntoNil(t *testing.T) {
	src := NewMapping()
	src.Set("en", String("x"))
	assert.NotPanics(t, func() { Merge(nil, src) })
	assert.Equal(t, 1, src.Len())
}

type mergeOp struct {
	Locale uint8
	Key    uint8
	Value  uint8
}

func (op mergeOp) doc() *Mapping {
	inner := NewMapping()
	inner.Set(fmt.Sprint("k", op.Key%8), String(fmt.Sprint(op.Value)))
	doc := NewMapping()
	doc.Set(fmt.Sprint("l", op.Locale%3), inner)
	return doc
}

func checkLastWriteWins(t *testing.T, ops []mergeOp) bool {
	root := NewMapping()
	expected := map[string]map[string]string{}
	for _, op := range ops {
		Merge(root, op.doc())
		locale, key := fmt.Sprint("l", op.Locale%3), fmt.Sprint("k", op.Key%8)
		if expected[locale] == nil {
			expected[locale] = map[string]string{}
		}
		expected[locale][key] = fmt.Sprint(op.Value)
	}
	if root.Len() != len(expected) {
		return false
	}
	for locale, keys := range expected {
		m, ok := root.Get(locale)
		if !ok || m.(*Mapping).Len() != len(keys) {
			return false
		}
		for key, want := range keys {
			v, ok := Lookup(root, []string{locale, key})
			if !ok || !assert.Equal(t, String(want), v) {
				return false
			}
		}
	}
	return true
}

func TestMergeLastWriteWins(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)
	arbitraries := arbitrary.DefaultArbitraries()

	properties.Property("every key holds the value merged last, siblings survive",
		arbitraries.ForAll(
			func(ops []mergeOp) bool {
				return checkLastWriteWins(t, ops)
			}))
	properties.TestingRun(t)
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)
	arbitraries := arbitrary.DefaultArbitraries()

	properties.Property("merging a copy of a tree into itself changes nothing",
		arbitraries.ForAll(
			func(ops []mergeOp) bool {
				root := NewMapping()
				for _, op := range ops {
					Merge(root, op.doc())
				}
				before := Clone(root)
				Merge(root, Clone(root).(*Mapping))
				return Equal(before, root)
			}))
	properties.TestingRun(t)
}

func TestMergeOrderOfAgreeingDocuments(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)

	properties.Property("documents that agree on shared keys merge to the same tree in any order",
		prop.ForAll(
			func(a, b []string) bool {
				left, right := NewMapping(), NewMapping()
				for _, ks := range [][]string{a, b} {
					for i, k := range ks {
						doc := NewMapping()
						inner := NewMapping()
						inner.Set(fmt.Sprint(i, "-", k), String(k))
						doc.Set(fmt.Sprint("en", len(ks)), inner)
						Merge(left, Clone(doc).(*Mapping))
					}
				}
				for _, ks := range [][]string{b, a} {
					for i, k := range ks {
						doc := NewMapping()
						inner := NewMapping()
						inner.Set(fmt.Sprint(i, "-", k), String(k))
						doc.Set(fmt.Sprint("en", len(ks)), inner)
						Merge(right, Clone(doc).(*Mapping))
					}
				}
				return Equal(left, right)
			},
			gen.SliceOf(gen.AlphaString()),
			gen.SliceOf(gen.AlphaString()),
		))
	properties.TestingRun(t)
}

func TestMergeMovesChildren(t *testing.T) {
	src := NewMapping()
	inner := NewMapping()
	inner.Set("foo", String("bar"))
	src.Set("en", inner)
	dst := NewMapping()
	Merge(dst, src)
	got, ok := dst.Get("en")
	require.True(t, ok)
	assert.Same(t, inner, got)
}
