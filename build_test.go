package phrasebook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarTagging(t *testing.T) {
	doc, n, err := Build(YAMLParser{}, []byte(`en:
  text: hello
  quoted: ":not_a_symbol"
  block: |
    :block
  sym: :a_symbol
  colon: ":"
  tagged_sym: !!str :tagged
  int: 42
  underscored: 1_000
  grouped: !!int 1,000
  float: 1.5
  exp: 1.5e3
  grouped_float: !!float 1,000.5
  hex: 0x1F
  inf: .inf
  yes: true
  no: false
  nothing: ~
  stamp: 2001-12-14
  list:
    - a
    - :b
    - 1
`))
	require.NoError(t, err)
	// text quoted block colon tagged_sym hex inf stamp, plus "a" in list
	assert.Equal(t, 9, n)
	for key, want := range map[string]Value{
		"text":          String("hello"),
		"quoted":        String(":not_a_symbol"),
		"block":         String(":block\n"),
		"sym":           Symbol("a_symbol"),
		"colon":         String(":"),
		"tagged_sym":    String(":tagged"),
		"int":           Integer("42"),
		"underscored":   Integer("1000"),
		"grouped":       Integer("1000"),
		"float":         Float("1.5"),
		"exp":           Float("1.5e3"),
		"grouped_float": Float("1000.5"),
		"hex":           String("0x1F"),
		"inf":           String(".inf"),
		"yes":           Boolean(true),
		"no":            Boolean(false),
		"nothing":       Null{},
		"stamp":         String("2001-12-14"),
		"list":          Sequence{String("a"), Symbol("b"), Integer("1")},
	} {
		v, ok := Lookup(doc, []string{"en", key})
		if assert.True(t, ok, key) {
			assert.Equal(t, want, v, key)
		}
	}
}

func TestResolveTag(t *testing.T) {
	for _, tc := range []struct {
		tag, text string
		explicit  bool
		want      string
	}{
		{"!!null", "~", false, TagNull},
		{"!!bool", "true", false, TagTrue},
		{"!!bool", "yes", true, TagTrue},
		{"!!bool", "off", true, TagFalse},
		{"!!int", "12", false, TagInt},
		{"!!int", "-0x1f", false, TagIntHex},
		{"!!int", "0o17", false, TagIntOctal},
		{"!!int", "0b11", false, TagIntBinary},
		{"!!float", "1.5", false, TagFloat},
		{"!!float", "1E5", false, TagFloatExp},
		{"!!float", "-.inf", false, TagFloatInf},
		{"!!float", ".NaN", false, TagFloatNaN},
		{"!!str", "x", false, ""},
		{"!!str", "x", true, TagStr},
		{"tag:yaml.org,2002:int", "3", true, TagInt},
		{"!!binary", "aGk=", true, TagBinary},
		{"!!timestamp", "2001-12-14", false, TagTimestamp},
		{"!!merge", "<<", false, ""},
		{"!custom", "x", true, "!custom"},
	} {
		assert.Equal(t, tc.want, ResolveTag(tc.tag, tc.text, tc.explicit), "%s %q", tc.tag, tc.text)
	}
}

func TestDuplicateKeysMergeWithinDocument(t *testing.T) {
	doc, n, err := Build(YAMLParser{}, []byte(`en:
  foo:
    a: one
  bar: first
en:
  foo:
    b: two
  bar: second
`))
	require.NoError(t, err)
	assertDuplicateKeysMerged(t, doc, n)
}

func TestDuplicateKeysFromNodeStream(t *testing.T) {
	doc, n, err := buildDuplicateKeys()
	require.NoError(t, err)
	assertDuplicateKeysMerged(t, doc, n)
}

func assertDuplicateKeysMerged(t *testing.T, doc *Mapping, n int) {
	t.Helper()
	assert.Equal(t, 4, n)
	v, _ := Lookup(doc, []string{"en", "foo", "a"})
	assert.Equal(t, String("one"), v)
	v, _ = Lookup(doc, []string{"en", "foo", "b"})
	assert.Equal(t, String("two"), v)
	v, _ = Lookup(doc, []string{"en", "bar"})
	assert.Equal(t, String("second"), v)
}

// fakeParser replays a fixed node stream.
type fakeParser func(h NodeHandler) (NodeID, error)

func (f fakeParser) Parse(_ []byte, h NodeHandler) (NodeID, error) {
	return f(h)
}

func scalar(h NodeHandler, text string) NodeID {
	id, err := h.Node(RawNode{Kind: ScalarNode, Text: text, Plain: true})
	if err != nil {
		panic(err)
	}
	return id
}

func mapping(h NodeHandler, children ...NodeID) NodeID {
	id, err := h.Node(RawNode{Kind: MappingNode, Children: children})
	if err != nil {
		panic(err)
	}
	return id
}

func buildDuplicateKeys() (*Mapping, int, error) {
	return Build(fakeParser(func(h NodeHandler) (NodeID, error) {
		foo1 := mapping(h, scalar(h, "a"), scalar(h, "one"))
		en1 := mapping(h, scalar(h, "foo"), foo1, scalar(h, "bar"), scalar(h, "first"))
		foo2 := mapping(h, scalar(h, "b"), scalar(h, "two"))
		en2 := mapping(h, scalar(h, "foo"), foo2, scalar(h, "bar"), scalar(h, "second"))
		return mapping(h, scalar(h, "en"), en1, scalar(h, "en"), en2), nil
	}), nil)
}

func TestAliasesAreCopied(t *testing.T) {
	doc, n, err := Build(YAMLParser{}, []byte(`base: &base
  greeting: hi
en:
  a: *base
  b: *base
`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	a, ok := Lookup(doc, []string{"en", "a"})
	require.True(t, ok)
	b, ok := Lookup(doc, []string{"en", "b"})
	require.True(t, ok)
	require.True(t, Equal(a, b))
	a.(*Mapping).Set("greeting", String("changed"))
	v, _ := Lookup(doc, []string{"en", "b", "greeting"})
	assert.Equal(t, String("hi"), v)
	v, _ = Lookup(doc, []string{"base", "greeting"})
	assert.Equal(t, String("hi"), v)
}

func TestSyntaxError(t *testing.T) {
	src := []byte("en:\n  foo: bar\n baz: [unclosed\n")
	_, _, err := Build(YAMLParser{}, src)
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Greater(t, le.Line, 0)
	assert.Equal(t, sourceLine(src, le.Line), le.Context)
	assert.Contains(t, le.Error(), "on line")
}

func TestBadAnchor(t *testing.T) {
	src := []byte("en:\n  foo: bar\n  baz: *nowhere\n")
	_, _, err := Build(YAMLParser{}, src)
	require.Error(t, err)
	var bre *BadReferenceError
	require.True(t, errors.As(err, &bre))
	assert.Equal(t, "nowhere", bre.Anchor)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 3, le.Line)
	assert.Equal(t, 7, le.Column)
	assert.Equal(t, "bad anchor `nowhere' on line 3, col 7: `  baz: *nowhere'", le.Error())
}

func TestShapeErrors(t *testing.T) {
	for _, src := range []string{"", "just text", "- a\n- b\n", "---\n"} {
		_, _, err := Build(YAMLParser{}, []byte(src))
		assert.ErrorIs(t, err, ErrShape, "%q", src)
		assert.Equal(t, "root yml node is not a hash", err.Error())
	}
}

func TestComplexKeysRejected(t *testing.T) {
	_, _, err := Build(YAMLParser{}, []byte("? [a, b]\n: c\n"))
	var se *SyntaxError
	assert.True(t, errors.As(err, &se))
}

func TestUndeliveredNode(t *testing.T) {
	_, _, err := Build(fakeParser(func(h NodeHandler) (NodeID, error) {
		return h.Node(RawNode{Kind: MappingNode, Children: []NodeID{7, 8}})
	}), nil)
	var le *LoadError
	assert.True(t, errors.As(err, &le))
}

func TestSourceLine(t *testing.T) {
	src := []byte("one\ntwo\r\nthree")
	assert.Equal(t, "one", sourceLine(src, 1))
	assert.Equal(t, "two", sourceLine(src, 2))
	assert.Equal(t, "three", sourceLine(src, 3))
	assert.Equal(t, "", sourceLine(src, 4))
}
