package ordmap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes the map as a YAML mapping node, preserving insertion
// order. Nested *Map values become nested mapping nodes.
func (m *Map) MarshalYAML() (any, error) {
	return m.node()
}

func (m *Map) node() (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return n, nil
	}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode, err := ValueNode(m.vals[k])
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", k, err)
		}
		n.Content = append(n.Content, keyNode, valNode)
	}
	return n, nil
}

// ValueNode encodes an arbitrary value into a yaml.Node, routing nested *Map
// values through the order-preserving encoder.
func ValueNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Map:
		return t.node()
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			en, err := ValueNode(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, en)
		}
		return seq, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// UnmarshalYAML decodes a YAML mapping node into the map, preserving document
// key order. Nested mappings decode into nested *Map values and sequences into
// []any.
func (m *Map) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping node, got %s", kindName(value.Kind))
	}
	m.keys = nil
	m.vals = make(map[string]any)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		v, err := decodeNode(value.Content[i+1])
		if err != nil {
			return fmt.Errorf("decode key %q: %w", keyNode.Value, err)
		}
		m.Set(keyNode.Value, v)
	}
	return nil
}

func decodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		sub := New()
		if err := sub.UnmarshalYAML(n); err != nil {
			return nil, err
		}
		return sub, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, e := range n.Content {
			v, err := decodeNode(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
