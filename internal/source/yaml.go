package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mbstyle/internal/ir"
)

// FromYAML decodes a YAML document. Mappings keep their key order; an empty
// document is null.
func FromYAML(data []byte) (ir.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return ir.Null{}, nil
	}
	return FromNode(&doc)
}

// FromNode converts a decoded YAML node, keeping mapping key order.
func FromNode(n *yaml.Node) (ir.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return ir.Null{}, nil
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		return FromNode(n.Alias)
	case yaml.SequenceNode:
		arr := make(ir.Array, 0, len(n.Content))
		for i, child := range n.Content {
			v, err := FromNode(child)
			if err != nil {
				return nil, fmt.Errorf("line %d: [%d]: %w", n.Line, i, err)
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		pairs := make([]ir.Pair, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			v, err := FromNode(valueNode)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q: %w", keyNode.Line, keyNode.Value, err)
			}
			pairs = append(pairs, ir.O(keyNode.Value, v))
		}
		return ir.NewObject(pairs...), nil
	case yaml.ScalarNode:
		var raw any
		if err := n.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return ir.FromAny(raw)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}
