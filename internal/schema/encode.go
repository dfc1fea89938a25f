package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Encode renders the compiled document as YAML. The output is deterministic:
// the same document always encodes to the same bytes, so regenerated schema
// artifacts diff cleanly. Definitions come first under $defs, followed by the
// enclosing document schema's own keywords.
func Encode(doc *Document) ([]byte, error) {
	root := newMapping()

	defs := newMapping()
	for _, d := range doc.Defs {
		appendEntry(defs, d.Name, encodeNode(d.Node))
	}
	appendEntry(root, "$defs", defs)
	appendKeywords(root, doc.Root)

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encoding %s schema: %w", doc.Kind, err)
	}
	return out, nil
}

func encodeNode(n *Node) *yaml.Node {
	m := newMapping()
	appendKeywords(m, n)
	return m
}

// appendKeywords emits n's keywords into m in the fixed publication order.
func appendKeywords(m *yaml.Node, n *Node) {
	if n.Ref != "" {
		appendEntry(m, "$ref", scalarString(n.Ref))
	}
	if n.Title != "" {
		appendEntry(m, "title", scalarString(n.Title))
	}
	if n.Description != "" {
		appendEntry(m, "description", scalarString(n.Description))
	}
	if n.Type != "" {
		appendEntry(m, "type", scalarString(n.Type))
	}
	if len(n.Enum) > 0 {
		seq := newSequence()
		for _, v := range n.Enum {
			seq.Content = append(seq.Content, scalarString(v))
		}
		seq.Style = yaml.FlowStyle
		appendEntry(m, "enum", seq)
	}
	if n.Format != "" {
		appendEntry(m, "format", scalarString(n.Format))
	}
	if n.Pattern != "" {
		appendEntry(m, "pattern", scalarString(n.Pattern))
	}
	if n.MinLength > 0 {
		appendEntry(m, "minLength", scalarInt(n.MinLength))
	}
	if n.MaxLength > 0 {
		appendEntry(m, "maxLength", scalarInt(n.MaxLength))
	}
	if len(n.Properties) > 0 {
		props := newMapping()
		for _, p := range n.Properties {
			appendEntry(props, p.Name, encodeNode(p.Schema))
		}
		appendEntry(m, "properties", props)
	}
	if len(n.Required) > 0 {
		seq := newSequence()
		for _, name := range n.Required {
			seq.Content = append(seq.Content, scalarString(name))
		}
		seq.Style = yaml.FlowStyle
		appendEntry(m, "required", seq)
	}
	if n.Closed {
		appendEntry(m, "additionalProperties", scalarBool(false))
	}
	if n.Items != nil {
		appendEntry(m, "items", encodeNode(n.Items))
	}
	if n.MinItems > 0 {
		appendEntry(m, "minItems", scalarInt(n.MinItems))
	}
	if n.UniqueItems {
		appendEntry(m, "uniqueItems", scalarBool(true))
	}
	if len(n.AnyOf) > 0 {
		seq := newSequence()
		for _, alt := range n.AnyOf {
			seq.Content = append(seq.Content, encodeNode(alt))
		}
		appendEntry(m, "anyOf", seq)
	}
	if n.HasDefault {
		appendEntry(m, "default", encodeValue(n.Default))
	}
}

// encodeValue renders a default value. Composite defaults use flow style so
// they read as one line in the published artifact.
func encodeValue(v any) *yaml.Node {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case string:
		return scalarString(val)
	case bool:
		return scalarBool(val)
	case int:
		return scalarInt(val)
	case []any:
		seq := newSequence()
		for _, e := range val {
			seq.Content = append(seq.Content, encodeValue(e))
		}
		seq.Style = yaml.FlowStyle
		return seq
	case []Pair:
		m := newMapping()
		for _, p := range val {
			appendEntry(m, p.Key, encodeValue(p.Value))
		}
		m.Style = yaml.FlowStyle
		return m
	default:
		return scalarString(fmt.Sprint(v))
	}
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newSequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func appendEntry(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalarString(key), value)
}

func scalarString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func scalarInt(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func scalarBool(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}
