// Package schema compiles the feature catalogue into the published
// JSON-Schema-shaped documents for tool and use-case feature lists. The
// schema tree is built explicitly rather than reflected from Go types, so
// key order and constraint encoding stay stable across runs and the two
// variants can diverge without parallel type hierarchies.
package schema

import (
	"strings"
)

// RecordKind selects which feature record shape a compiled schema uses.
type RecordKind string

const (
	// KindTool describes feature lists maintained by modelling tools.
	KindTool RecordKind = "tool"
	// KindUseCase describes feature lists attached to modelling use-cases.
	KindUseCase RecordKind = "use-case"
)

// Kinds returns every supported record kind in publication order.
func Kinds() []RecordKind {
	return []RecordKind{KindTool, KindUseCase}
}

// SchemaFilename returns the published artifact name for this kind.
func (k RecordKind) SchemaFilename() string {
	return string(k) + "-schema.yaml"
}

// Values returns the value enumeration for this record kind. Tool records
// additionally allow "dev" for features under active development.
func (k RecordKind) Values() []string {
	if k == KindTool {
		return []string{"y", "n", "dev", "?"}
	}
	return []string{"y", "n", "?"}
}

// ModelTitle returns the title of the enclosing document schema.
func (k RecordKind) ModelTitle() string {
	if k == KindTool {
		return "ToolFeatureModel"
	}
	return "UseCaseFeatureModel"
}

// Node is a single schema object in the compiled tree. Zero values mean
// "keyword absent"; the encoder emits keywords in a fixed order.
type Node struct {
	Ref         string
	Title       string
	Description string
	Type        string
	Enum        []string
	Format      string
	Pattern     string
	MinLength   int
	MaxLength   int
	Properties  []Property
	Required    []string
	Closed      bool
	Items       *Node
	MinItems    int
	UniqueItems bool
	AnyOf       []*Node
	Default     any
	HasDefault  bool
}

// Property is a named slot of a closed object schema, in declaration order.
type Property struct {
	Name   string
	Schema *Node
}

// Pair preserves key order inside composite default values, where a plain
// map would shuffle keys on every encode.
type Pair struct {
	Key   string
	Value any
}

// Definition is a named reusable schema published under $defs.
type Definition struct {
	Name string
	Node *Node
}

// Document is one compiled schema variant ready for encoding.
type Document struct {
	Kind RecordKind
	Defs []Definition
	Root *Node
}

// Def returns the named definition, or nil if the document has none.
func (d *Document) Def(name string) *Node {
	for _, def := range d.Defs {
		if def.Name == name {
			return def.Node
		}
	}
	return nil
}

// DefName converts a catalogue group name into its schema definition name:
// "asset__candidates" becomes "AssetCandidatesModel".
func DefName(group string) string {
	var b strings.Builder
	for _, part := range strings.Split(group, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	b.WriteString("Model")
	return b.String()
}
