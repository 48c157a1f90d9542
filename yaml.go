package phrasebook

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLParser is the default Parser, built on gopkg.in/yaml.v3. Only the
// first document of a multi-document stream is read. yaml.v3 does not
// report columns for syntax errors, so those carry Column 0.
type YAMLParser struct{}

var (
	yamlLineError     = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)
	yamlUnknownAnchor = regexp.MustCompile(`unknown anchor '([^']*)' referenced`)
)

func (YAMLParser) Parse(src []byte, h NodeHandler) (NodeID, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(bytes.NewReader(src)).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return NoNode, nil
	}
	if err != nil {
		return NoNode, yamlError(src, err)
	}
	w := yamlWalker{h: h, ids: map[*yaml.Node]NodeID{}, open: map[*yaml.Node]bool{}}
	return w.walk(&doc)
}

func yamlError(src []byte, err error) error {
	msg := err.Error()
	if m := yamlUnknownAnchor.FindStringSubmatch(msg); m != nil {
		line, col := locateAlias(src, m[1])
		return &BadReferenceError{Anchor: m[1], Line: line, Column: col}
	}
	if m := yamlLineError.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &SyntaxError{Message: m[2], Line: line}
	}
	return &SyntaxError{Message: msg}
}

// locateAlias finds the first "*anchor" in src, since yaml.v3 does not say
// where the dangling alias was.
func locateAlias(src []byte, anchor string) (line, col int) {
	i := bytes.Index(src, []byte("*"+anchor))
	if i < 0 {
		return 0, 0
	}
	line = 1 + bytes.Count(src[:i], []byte("\n"))
	col = i - (bytes.LastIndexByte(src[:i], '\n') + 1)
	return line, col
}

type yamlWalker struct {
	h    NodeHandler
	ids  map[*yaml.Node]NodeID
	open map[*yaml.Node]bool
}

func (w *yamlWalker) walk(n *yaml.Node) (NodeID, error) {
	if id, ok := w.ids[n]; ok {
		return id, nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NoNode, nil
		}
		return w.walk(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil || w.open[n.Alias] {
			return NoNode, &BadReferenceError{Anchor: n.Value, Line: n.Line, Column: n.Column}
		}
		return w.walk(n.Alias)
	}

	raw := RawNode{Anchor: n.Anchor, Line: n.Line, Column: n.Column}
	switch n.Kind {
	case yaml.ScalarNode:
		raw.Kind = ScalarNode
		raw.Text = n.Value
		raw.Plain = n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) == 0
		raw.Tag = ResolveTag(n.Tag, n.Value, n.Style&yaml.TaggedStyle != 0)
	case yaml.SequenceNode, yaml.MappingNode:
		raw.Kind = SequenceNode
		if n.Kind == yaml.MappingNode {
			raw.Kind = MappingNode
		}
		w.open[n] = true
		raw.Children = make([]NodeID, 0, len(n.Content))
		for _, c := range n.Content {
			id, err := w.walk(c)
			if err != nil {
				return NoNode, err
			}
			raw.Children = append(raw.Children, id)
		}
		delete(w.open, n)
	default:
		return NoNode, &SyntaxError{Message: "unexpected yaml node kind", Line: n.Line, Column: n.Column}
	}
	id, err := w.h.Node(raw)
	if err != nil {
		return NoNode, err
	}
	w.ids[n] = id
	return id, nil
}
