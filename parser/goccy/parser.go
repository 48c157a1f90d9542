// Package goccy is a phrasebook.Parser built on github.com/goccy/go-yaml.
// Unlike the default parser it reports the column of syntax errors.
package goccy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/jrhy/phrasebook"
)

// Parser reads the first document of a YAML stream.
type Parser struct{}

var positionPrefix = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)

func (Parser) Parse(src []byte, h phrasebook.NodeHandler) (phrasebook.NodeID, error) {
	file, err := parser.ParseBytes(src, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return phrasebook.NoNode, syntaxError(err)
	}
	if len(file.Docs) == 0 || file.Docs[0] == nil || file.Docs[0].Body == nil {
		return phrasebook.NoNode, nil
	}
	if _, ok := file.Docs[0].Body.(*ast.CommentGroupNode); ok {
		return phrasebook.NoNode, nil
	}
	w := walker{
		h:       h,
		anchors: map[string]ast.Node{},
		ids:     map[ast.Node]phrasebook.NodeID{},
	}
	return w.walk(file.Docs[0].Body)
}

func syntaxError(err error) error {
	msg := err.Error()
	if nl := strings.IndexByte(msg, '\n'); nl >= 0 {
		msg = msg[:nl]
	}
	m := positionPrefix.FindStringSubmatch(msg)
	if m == nil {
		return &phrasebook.SyntaxError{Message: msg}
	}
	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])
	return &phrasebook.SyntaxError{Message: m[3], Line: line, Column: col}
}

type walker struct {
	h       phrasebook.NodeHandler
	anchors map[string]ast.Node
	ids     map[ast.Node]phrasebook.NodeID
}

func position(n ast.Node) (line, col int) {
	if tk := n.GetToken(); tk != nil && tk.Position != nil {
		return tk.Position.Line, tk.Position.Column
	}
	return 0, 0
}

func (w *walker) scalar(n ast.Node, tag, text string, plain bool, anchor string) (phrasebook.NodeID, error) {
	line, col := position(n)
	return w.h.Node(phrasebook.RawNode{
		Kind:   phrasebook.ScalarNode,
		Tag:    tag,
		Text:   text,
		Plain:  plain,
		Anchor: anchor,
		Line:   line,
		Column: col,
	})
}

func (w *walker) walk(n ast.Node) (phrasebook.NodeID, error) {
	return w.walkAnchored(n, "")
}

func (w *walker) walkAnchored(n ast.Node, anchor string) (phrasebook.NodeID, error) {
	if n == nil {
		return w.h.Node(phrasebook.RawNode{Kind: phrasebook.ScalarNode, Tag: phrasebook.TagNull})
	}
	if id, ok := w.ids[n]; ok {
		return id, nil
	}
	id, err := w.node(n, anchor)
	if err != nil {
		return phrasebook.NoNode, err
	}
	w.ids[n] = id
	return id, nil
}

func (w *walker) node(n ast.Node, anchor string) (phrasebook.NodeID, error) {
	switch t := n.(type) {
	case *ast.NullNode:
		return w.scalar(n, phrasebook.TagNull, tokenText(n), true, anchor)
	case *ast.BoolNode:
		tag := phrasebook.TagFalse
		if t.Value {
			tag = phrasebook.TagTrue
		}
		return w.scalar(n, tag, tokenText(n), true, anchor)
	case *ast.IntegerNode:
		text := tokenText(n)
		return w.scalar(n, phrasebook.ResolveTag("!!int", text, false), text, true, anchor)
	case *ast.FloatNode:
		text := tokenText(n)
		return w.scalar(n, phrasebook.ResolveTag("!!float", text, false), text, true, anchor)
	case *ast.InfinityNode:
		return w.scalar(n, phrasebook.TagFloatInf, tokenText(n), true, anchor)
	case *ast.NanNode:
		return w.scalar(n, phrasebook.TagFloatNaN, tokenText(n), true, anchor)
	case *ast.StringNode:
		return w.scalar(n, "", t.Value, isPlain(t.GetToken()), anchor)
	case *ast.LiteralNode:
		text := ""
		if t.Value != nil {
			text = t.Value.Value
		}
		return w.scalar(n, "", text, false, anchor)
	case *ast.MergeKeyNode:
		return w.scalar(n, "", tokenText(n), true, anchor)
	case *ast.TagNode:
		return w.tagged(t, anchor)
	case *ast.AnchorNode:
		name := tokenText(t.Name)
		w.anchors[name] = t.Value
		return w.walkAnchored(t.Value, name)
	case *ast.AliasNode:
		name := tokenText(t.Value)
		target, ok := w.anchors[name]
		if !ok {
			line, col := position(n)
			return phrasebook.NoNode, &phrasebook.BadReferenceError{Anchor: name, Line: line, Column: col}
		}
		id, ok := w.ids[target]
		if !ok {
			// the anchored node is still being walked
			line, col := position(n)
			return phrasebook.NoNode, &phrasebook.BadReferenceError{Anchor: name, Line: line, Column: col}
		}
		return id, nil
	case *ast.MappingKeyNode:
		return w.walk(t.Value)
	case *ast.MappingValueNode:
		children, err := w.pair(t)
		if err != nil {
			return phrasebook.NoNode, err
		}
		return w.collection(n, phrasebook.MappingNode, children, anchor)
	case *ast.MappingNode:
		children := make([]phrasebook.NodeID, 0, 2*len(t.Values))
		for _, mv := range t.Values {
			pair, err := w.pair(mv)
			if err != nil {
				return phrasebook.NoNode, err
			}
			children = append(children, pair...)
		}
		return w.collection(n, phrasebook.MappingNode, children, anchor)
	case *ast.SequenceNode:
		children := make([]phrasebook.NodeID, 0, len(t.Values))
		for _, item := range t.Values {
			id, err := w.walk(item)
			if err != nil {
				return phrasebook.NoNode, err
			}
			children = append(children, id)
		}
		return w.collection(n, phrasebook.SequenceNode, children, anchor)
	default:
		line, col := position(n)
		return phrasebook.NoNode, &phrasebook.SyntaxError{
			Message: fmt.Sprintf("unsupported yaml node %s", n.Type()),
			Line:    line,
			Column:  col,
		}
	}
}

func (w *walker) pair(mv *ast.MappingValueNode) ([]phrasebook.NodeID, error) {
	k, err := w.walk(mv.Key)
	if err != nil {
		return nil, err
	}
	v, err := w.walk(mv.Value)
	if err != nil {
		return nil, err
	}
	return []phrasebook.NodeID{k, v}, nil
}

func (w *walker) collection(n ast.Node, kind phrasebook.NodeKind, children []phrasebook.NodeID, anchor string) (phrasebook.NodeID, error) {
	line, col := position(n)
	return w.h.Node(phrasebook.RawNode{
		Kind:     kind,
		Anchor:   anchor,
		Children: children,
		Line:     line,
		Column:   col,
	})
}

// tagged handles an explicit tag. Collections ignore their tag; scalars
// are resolved from the tag and their source text.
func (w *walker) tagged(t *ast.TagNode, anchor string) (phrasebook.NodeID, error) {
	switch t.Value.(type) {
	case *ast.MappingNode, *ast.MappingValueNode, *ast.SequenceNode, *ast.AnchorNode, *ast.AliasNode, nil:
		return w.walkAnchored(t.Value, anchor)
	}
	text := tokenText(t.Value)
	plain := isPlain(t.Value.GetToken())
	if s, ok := t.Value.(*ast.StringNode); ok {
		text = s.Value
	}
	if l, ok := t.Value.(*ast.LiteralNode); ok && l.Value != nil {
		text, plain = l.Value.Value, false
	}
	tag := phrasebook.ResolveTag(tokenText(t), text, true)
	return w.scalar(t, tag, text, plain, anchor)
}

func tokenText(n ast.Node) string {
	if n == nil {
		return ""
	}
	if tk := n.GetToken(); tk != nil {
		return tk.Value
	}
	return ""
}

func isPlain(tk *token.Token) bool {
	if tk == nil {
		return true
	}
	return tk.Type != token.DoubleQuoteType && tk.Type != token.SingleQuoteType
}
