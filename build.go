package phrasebook

import (
	"fmt"
	"log/slog"
	"strings"
)

// NodeKind is the shape of a node delivered by a Parser.
type NodeKind uint8

const (
	ScalarNode NodeKind = iota
	SequenceNode
	MappingNode
)

// NodeID names a node previously delivered to a NodeHandler.
type NodeID int

// NoNode is returned by a Parser for an empty document.
const NoNode NodeID = -1

// Type tags a Parser reports for scalars. An empty tag means untagged
// text.
const (
	TagNull      = "null"
	TagTrue      = "bool#yes"
	TagFalse     = "bool#no"
	TagInt       = "int"
	TagIntHex    = "int#hex"
	TagIntOctal  = "int#oct"
	TagIntBinary = "int#bin"
	TagFloat     = "float#fix"
	TagFloatExp  = "float#exp"
	TagFloatInf  = "float#inf"
	TagFloatNaN  = "float#nan"
	TagStr       = "str"
	TagBinary    = "binary"
	TagTimestamp = "timestamp"
)

// RawNode is one parsed node as seen by the Document Builder.
type RawNode struct {
	Kind NodeKind
	// Tag is the scalar's type tag, see the Tag constants.
	Tag  string
	Text string
	// Plain is set for unquoted, non-block scalars.
	Plain bool
	// Anchor is set when aliases may refer to this node.
	Anchor string
	// Children are the ids of sequence items, or alternating mapping
	// keys and values.
	Children []NodeID
	Line     int
	Column   int
}

// NodeHandler receives every node of a document exactly once, children
// before their parents.
type NodeHandler interface {
	Node(RawNode) (NodeID, error)
}

// Parser turns document text into a stream of nodes for a NodeHandler and
// returns the id of the top-level node, or NoNode for an empty document.
// Errors should be *SyntaxError or *BadReferenceError where possible.
type Parser interface {
	Parse(src []byte, h NodeHandler) (NodeID, error)
}

type builtNode struct {
	value    Value
	anchored bool
	taken    bool
}

// builder is the NodeHandler that assembles a detached document.
type builder struct {
	nodes   []builtNode
	strings int
	debug   bool
	logger  *slog.Logger
}

func (b *builder) Node(n RawNode) (NodeID, error) {
	var v Value
	switch n.Kind {
	case ScalarNode:
		v = scalarValue(n)
	case SequenceNode:
		seq := make(Sequence, 0, len(n.Children))
		for _, id := range n.Children {
			item, err := b.take(id)
			if err != nil {
				return NoNode, err
			}
			if item.Kind() == StringKind {
				b.strings++
			}
			seq = append(seq, item)
		}
		v = seq
	case MappingNode:
		if len(n.Children)%2 != 0 {
			return NoNode, fmt.Errorf("mapping node has %d children, want key/value pairs", len(n.Children))
		}
		m := NewMapping()
		for i := 0; i < len(n.Children); i += 2 {
			key, err := b.take(n.Children[i])
			if err != nil {
				return NoNode, err
			}
			value, err := b.take(n.Children[i+1])
			if err != nil {
				return NoNode, err
			}
			k, err := keyText(key)
			if err != nil {
				return NoNode, &SyntaxError{Message: err.Error(), Line: n.Line, Column: n.Column}
			}
			if value.Kind() == StringKind {
				b.strings++
			}
			mergeEntry(m, k, value)
		}
		v = m
	default:
		return NoNode, fmt.Errorf("unknown node kind %d", n.Kind)
	}
	if b.debug {
		b.logger.Debug("built node", "id", len(b.nodes), "kind", v.Kind(), "tag", n.Tag, "line", n.Line)
	}
	b.nodes = append(b.nodes, builtNode{value: v, anchored: n.Anchor != ""})
	return NodeID(len(b.nodes) - 1), nil
}

// take hands ownership of a node to its parent. Anchored nodes and nodes
// referenced a second time are cloned, so no node ends up with two owners.
func (b *builder) take(id NodeID) (Value, error) {
	if id < 0 || int(id) >= len(b.nodes) {
		return nil, fmt.Errorf("reference to undelivered node %d", id)
	}
	n := &b.nodes[id]
	if n.anchored || n.taken {
		return Clone(n.value), nil
	}
	n.taken = true
	return n.value, nil
}

// discard drops the symbol table.
func (b *builder) discard() {
	b.nodes = nil
}

func scalarValue(n RawNode) Value {
	switch {
	case n.Tag == TagNull:
		return Null{}
	case n.Tag == TagTrue:
		return Boolean(true)
	case n.Tag == TagFalse:
		return Boolean(false)
	case n.Tag == TagInt:
		return Integer(stripGrouping(n.Text))
	case n.Tag == TagFloat || n.Tag == TagFloatExp:
		return Float(stripGrouping(n.Text))
	case n.Tag == "" && n.Plain && len(n.Text) > 1 && n.Text[0] == ':':
		return Symbol(n.Text[1:])
	default:
		return String(n.Text)
	}
}

var groupingReplacer = strings.NewReplacer(",", "", "_", "")

func stripGrouping(s string) string {
	return groupingReplacer.Replace(s)
}

func keyText(v Value) (string, error) {
	switch t := v.(type) {
	case String:
		return string(t), nil
	case Integer:
		return string(t), nil
	case Float:
		return string(t), nil
	case Symbol:
		return string(t), nil
	case Boolean:
		if t {
			return "true", nil
		}
		return "false", nil
	case Null:
		return "", nil
	default:
		return "", fmt.Errorf("mapping key must be a scalar, not a %s", v.Kind())
	}
}

// ResolveTag maps a YAML core-schema tag ("!!int", "tag:yaml.org,2002:int")
// and the scalar text to a builder Tag. explicit reports whether the author
// wrote the tag; implicit strings resolve to the empty tag.
func ResolveTag(yamlTag, text string, explicit bool) string {
	tag := strings.TrimPrefix(yamlTag, "tag:yaml.org,2002:")
	tag = strings.TrimPrefix(tag, "!!")
	switch tag {
	case "null":
		return TagNull
	case "bool":
		switch strings.ToLower(text) {
		case "true", "yes", "on", "y":
			return TagTrue
		default:
			return TagFalse
		}
	case "int":
		digits := strings.TrimLeft(strings.ToLower(text), "+-")
		switch {
		case strings.HasPrefix(digits, "0x"):
			return TagIntHex
		case strings.HasPrefix(digits, "0o"):
			return TagIntOctal
		case strings.HasPrefix(digits, "0b"):
			return TagIntBinary
		}
		return TagInt
	case "float":
		lower := strings.ToLower(strings.TrimLeft(text, "+-"))
		switch {
		case lower == ".inf":
			return TagFloatInf
		case lower == ".nan":
			return TagFloatNaN
		case strings.ContainsAny(lower, "e"):
			return TagFloatExp
		}
		return TagFloat
	case "str":
		if explicit {
			return TagStr
		}
		return ""
	case "binary":
		return TagBinary
	case "timestamp":
		return TagTimestamp
	case "merge":
		return ""
	default:
		return yamlTag
	}
}

// Build parses src with p into a detached document and reports how many
// String values were attached to sequences and mappings. The document is
// discarded and a *LoadError returned when parsing fails or the top-level
// node is not a Mapping.
func Build(p Parser, src []byte) (*Mapping, int, error) {
	return build(p, src, false, nil)
}

func build(p Parser, src []byte, debug bool, logger *slog.Logger) (*Mapping, int, error) {
	b := &builder{debug: debug, logger: logger}
	root, err := p.Parse(src, b)
	if err != nil {
		b.discard()
		return nil, 0, newLoadError(src, err)
	}
	var doc Value
	if root != NoNode {
		doc, err = b.take(root)
		if err != nil {
			b.discard()
			return nil, 0, newLoadError(src, err)
		}
	}
	b.discard()
	m, ok := doc.(*Mapping)
	if !ok {
		return nil, 0, newLoadError(src, ErrShape)
	}
	return m, b.strings, nil
}
