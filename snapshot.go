package phrasebook

import (
	"encoding/base64"
	"fmt"

	"github.com/minio/blake2b-simd"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Snapshots are protobuf ListValues. Every node is encoded as a list whose
// first element is its Kind: [kind] for Null, [kind, payload] for scalars,
// [kind, [item...]] for sequences and [kind, [key, node, key, node...]]
// for mappings, which keeps mapping order.

var snapshotMarshal = proto.MarshalOptions{Deterministic: true}

// EncodeSnapshot serializes a tree.
func EncodeSnapshot(m *Mapping) ([]byte, error) {
	if m == nil {
		m = NewMapping()
	}
	encoded, err := snapshotMarshal.Marshal(encodeNode(m))
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return encoded, nil
}

// DecodeSnapshot restores a tree serialized by EncodeSnapshot.
func DecodeSnapshot(b []byte) (*Mapping, error) {
	var node structpb.Value
	if err := proto.Unmarshal(b, &node); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	v, err := decodeNode(&node)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Mapping)
	if !ok {
		return nil, fmt.Errorf("snapshot root is a %s, want mapping", v.Kind())
	}
	return m, nil
}

// SnapshotName returns the content address of an encoded snapshot.
func SnapshotName(encoded []byte) string {
	hashBytes := blake2b.Sum256(encoded)
	return base64.RawURLEncoding.EncodeToString(hashBytes[:])
}

func encodeNode(v Value) *structpb.Value {
	kind := structpb.NewNumberValue(float64(v.Kind()))
	var payload *structpb.Value
	switch t := v.(type) {
	case Null:
		return structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{kind}})
	case Boolean:
		payload = structpb.NewBoolValue(bool(t))
	case String:
		payload = structpb.NewStringValue(string(t))
	case Integer:
		payload = structpb.NewStringValue(string(t))
	case Float:
		payload = structpb.NewStringValue(string(t))
	case Symbol:
		payload = structpb.NewStringValue(string(t))
	case Sequence:
		items := make([]*structpb.Value, len(t))
		for i, item := range t {
			items[i] = encodeNode(item)
		}
		payload = structpb.NewListValue(&structpb.ListValue{Values: items})
	case *Mapping:
		items := make([]*structpb.Value, 0, 2*t.Len())
		t.Range(func(k string, item Value) bool {
			items = append(items, structpb.NewStringValue(k), encodeNode(item))
			return true
		})
		payload = structpb.NewListValue(&structpb.ListValue{Values: items})
	}
	return structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{kind, payload}})
}

func decodeNode(node *structpb.Value) (Value, error) {
	parts := node.GetListValue().GetValues()
	if len(parts) == 0 {
		return nil, fmt.Errorf("snapshot node is not a [kind, payload] list")
	}
	kind := Kind(parts[0].GetNumberValue())
	if kind == NullKind {
		return Null{}, nil
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("snapshot %s node has %d parts, want 2", kind, len(parts))
	}
	payload := parts[1]
	switch kind {
	case BooleanKind:
		return Boolean(payload.GetBoolValue()), nil
	case StringKind:
		return String(payload.GetStringValue()), nil
	case IntegerKind:
		return Integer(payload.GetStringValue()), nil
	case FloatKind:
		return Float(payload.GetStringValue()), nil
	case SymbolKind:
		return Symbol(payload.GetStringValue()), nil
	case SequenceKind:
		items := payload.GetListValue().GetValues()
		out := make(Sequence, len(items))
		for i, item := range items {
			v, err := decodeNode(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case MappingKind:
		items := payload.GetListValue().GetValues()
		if len(items)%2 != 0 {
			return nil, fmt.Errorf("snapshot mapping has %d parts, want key/value pairs", len(items))
		}
		out := NewMapping()
		for i := 0; i < len(items); i += 2 {
			k := items[i].GetStringValue()
			v, err := decodeNode(items[i+1])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			mergeEntry(out, k, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown snapshot node kind %d", kind)
	}
}
