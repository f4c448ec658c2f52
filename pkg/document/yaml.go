package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML mapping into a Document. yaml.Node is used
// rather than map decoding so key order survives.
func ParseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return New(), nil
	}
	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode yaml: expected mapping at document root, got %v", kindName(node.Kind))
	}
	return docFromNode(node)
}

// ParseYAMLList decodes a YAML sequence of mappings.
func ParseYAMLList(data []byte) ([]*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return []*Document{}, nil
	}
	node := root.Content[0]
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("decode yaml: expected sequence at document root, got %v", kindName(node.Kind))
	}
	docs := make([]*Document, 0, len(node.Content))
	for _, elem := range node.Content {
		if elem.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("decode yaml: expected mapping element, got %v", kindName(elem.Kind))
		}
		doc, err := docFromNode(elem)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

func docFromNode(node *yaml.Node) (*Document, error) {
	doc := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		value, err := valueFromNode(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		doc.Put(keyNode.Value, value)
	}
	return doc, nil
}

func valueFromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		return docFromNode(node)
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, elem := range node.Content {
			v, err := valueFromNode(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return Normalize(list), nil
	case yaml.AliasNode:
		return valueFromNode(node.Alias)
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!str":
			return node.Value, nil
		case "!!null":
			return nil, nil
		case "!!int":
			var n int64
			if err := node.Decode(&n); err != nil {
				return nil, fmt.Errorf("decode yaml: %w", err)
			}
			return n, nil
		case "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return nil, fmt.Errorf("decode yaml: %w", err)
			}
			return f, nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, fmt.Errorf("decode yaml: %w", err)
			}
			return b, nil
		default:
			var v any
			if err := node.Decode(&v); err != nil {
				return nil, fmt.Errorf("decode yaml: %w", err)
			}
			return v, nil
		}
	default:
		return nil, fmt.Errorf("decode yaml: unsupported node kind %v", kindName(node.Kind))
	}
}

// MarshalYAML implements yaml.Marshaler; documents encode as mappings
// with keys in insertion order.
func (d *Document) MarshalYAML() (any, error) {
	return nodeFromDoc(d), nil
}

// EncodeYAML renders the document as YAML text.
func EncodeYAML(d *Document) ([]byte, error) {
	return yaml.Marshal(nodeFromDoc(d))
}

// EncodeYAMLList renders a document list as a YAML sequence.
func EncodeYAMLList(docs []*Document) ([]byte, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, doc := range docs {
		seq.Content = append(seq.Content, nodeFromDoc(doc))
	}
	return yaml.Marshal(seq)
}

func nodeFromDoc(d *Document) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for k, v := range d.All() {
		node.Content = append(node.Content, scalarNode(k), nodeFromValue(v))
	}
	return node
}

func nodeFromValue(v any) *yaml.Node {
	switch t := v.(type) {
	case *Document:
		return nodeFromDoc(t)
	case []*Document:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, doc := range t {
			seq.Content = append(seq.Content, nodeFromDoc(doc))
		}
		return seq
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, s := range t {
			seq.Content = append(seq.Content, scalarNode(s))
		}
		return seq
	case [][]string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, row := range t {
			seq.Content = append(seq.Content, nodeFromValue(row))
		}
		return seq
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range t {
			seq.Content = append(seq.Content, nodeFromValue(e))
		}
		return seq
	default:
		var node yaml.Node
		if err := node.Encode(v); err != nil {
			return scalarNode(fmt.Sprintf("%v", v))
		}
		return &node
	}
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
