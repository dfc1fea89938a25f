// Package catalog loads the canonical feature taxonomy: a mapping from group
// names to group descriptions and member features. The catalogue is authored
// by maintainers and loaded once per run; group and member order is preserved
// so that compiled artifacts are reproducible byte for byte.
package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Member is a single feature declared within a catalogue group.
type Member struct {
	Name        string
	Description string
}

// Group is a named set of related features with a shared description.
type Group struct {
	Name        string
	Description string
	Members     []Member
}

// Catalog is the full feature taxonomy in author order.
type Catalog struct {
	Groups []Group
}

// TotalMembers returns the number of features declared across all groups.
func (c *Catalog) TotalMembers() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Members)
	}
	return n
}

// Load reads and parses the catalogue file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a catalogue document from r. Duplicate group or member
// names, missing required keys, and empty groups are all fatal: a malformed
// catalogue must never produce a partial schema.
func Parse(r io.Reader) (*Catalog, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalogue is empty")
		}
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}

	mapping := rootMapping(&root)
	if mapping == nil {
		return nil, fmt.Errorf("catalogue root must be a mapping of group names")
	}

	cat := &Catalog{}
	seen := make(map[string]bool)
	for i := 0; i < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valNode := mapping.Content[i+1]

		name := keyNode.Value
		if seen[name] {
			return nil, fmt.Errorf("duplicate group name %q (line %d)", name, keyNode.Line)
		}
		seen[name] = true

		group, err := parseGroup(name, valNode)
		if err != nil {
			return nil, err
		}
		cat.Groups = append(cat.Groups, *group)
	}

	if len(cat.Groups) == 0 {
		return nil, fmt.Errorf("catalogue declares no groups")
	}
	return cat, nil
}

// parseGroup decodes one group entry: a mapping with a scalar description
// and a non-empty members mapping.
func parseGroup(name string, node *yaml.Node) (*Group, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("group %q must be a mapping (line %d)", name, node.Line)
	}

	descNode := findEntry(node, "description")
	if descNode == nil {
		return nil, fmt.Errorf("group %q is missing the required description key (line %d)", name, node.Line)
	}
	if descNode.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("description of group %q must be a string (line %d)", name, descNode.Line)
	}

	membersNode := findEntry(node, "members")
	if membersNode == nil {
		return nil, fmt.Errorf("group %q is missing the required members key (line %d)", name, node.Line)
	}
	if membersNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("members of group %q must be a mapping of feature names (line %d)", name, membersNode.Line)
	}

	group := &Group{Name: name, Description: descNode.Value}
	seen := make(map[string]bool)
	for i := 0; i < len(membersNode.Content); i += 2 {
		keyNode := membersNode.Content[i]
		valNode := membersNode.Content[i+1]

		member := keyNode.Value
		if seen[member] {
			return nil, fmt.Errorf("duplicate member name %q in group %q (line %d)", member, name, keyNode.Line)
		}
		seen[member] = true

		if valNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("description of member %q in group %q must be a string (line %d)", member, name, valNode.Line)
		}
		group.Members = append(group.Members, Member{Name: member, Description: valNode.Value})
	}

	if len(group.Members) == 0 {
		return nil, fmt.Errorf("group %q declares no members", name)
	}
	return group, nil
}

// rootMapping returns the root mapping node of a document.
func rootMapping(root *yaml.Node) *yaml.Node {
	if root == nil {
		return nil
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.MappingNode {
		return root
	}
	return nil
}

// findEntry finds a value node by key in a mapping node.
func findEntry(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
