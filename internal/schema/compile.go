package schema

import (
	"github.com/open-energy-transition/featlist/internal/catalog"
)

const (
	featureDefName = "FeatureModel"
	setDefName     = "FeatureSetModel"
	defsPrefix     = "#/$defs/"
)

// Compile builds the schema document for kind from the catalogue. The
// catalogue has already been shape-checked by its loader, so compilation
// cannot fail; group and member order carries through unchanged.
func Compile(cat *catalog.Catalog, kind RecordKind) *Document {
	defs := make([]Definition, 0, len(cat.Groups)+2)
	defs = append(defs, Definition{Name: featureDefName, Node: featureRecord(kind)})

	setProps := make([]Property, 0, len(cat.Groups))
	for _, g := range cat.Groups {
		name := DefName(g.Name)
		defs = append(defs, Definition{Name: name, Node: groupRecord(g, kind)})
		setProps = append(setProps, Property{
			Name: g.Name,
			Schema: &Node{
				Ref:         defsPrefix + name,
				Description: g.Description,
			},
		})
	}

	defs = append(defs, Definition{Name: setDefName, Node: &Node{
		Title:      setDefName,
		Type:       "object",
		Properties: setProps,
		Closed:     true,
	}})

	return &Document{Kind: kind, Defs: defs, Root: rootRecord(kind)}
}

// featureRecord is the atomic record every member property references.
// Only tool records carry a source list; use-case records are value-only.
func featureRecord(kind RecordKind) *Node {
	props := []Property{
		{Name: "value", Schema: &Node{
			Description: "Support level reported for this feature.",
			Type:        "string",
			Enum:        kind.Values(),
			Default:     "?",
			HasDefault:  true,
		}},
	}
	if kind == KindTool {
		props = append(props, Property{Name: "source", Schema: &Node{
			Description: "Links backing the reported support level.",
			Type:        "array",
			Items:       urlNode(),
			UniqueItems: true,
			Default:     []any{},
			HasDefault:  true,
		}})
	}
	return &Node{
		Title:      featureDefName,
		Type:       "object",
		Properties: props,
		Closed:     true,
	}
}

// groupRecord is the closed object holding one record per catalogue member.
func groupRecord(g catalog.Group, kind RecordKind) *Node {
	props := make([]Property, 0, len(g.Members))
	for _, m := range g.Members {
		props = append(props, Property{
			Name: m.Name,
			Schema: &Node{
				Ref:         defsPrefix + featureDefName,
				Description: m.Description,
				Default:     defaultRecord(kind),
				HasDefault:  true,
			},
		})
	}
	return &Node{
		Title:      DefName(g.Name),
		Type:       "object",
		Properties: props,
		Closed:     true,
	}
}

// defaultRecord is the fully-defaulted record instance attached to every
// member property.
func defaultRecord(kind RecordKind) []Pair {
	if kind == KindTool {
		return []Pair{
			{Key: "value", Value: "?"},
			{Key: "source", Value: []any{}},
		}
	}
	return []Pair{{Key: "value", Value: "?"}}
}

// rootRecord is the enclosing document schema. Tool documents carry project
// metadata alongside the feature set; use-case documents carry assumptions
// only, since their project metadata lives outside the feature list.
func rootRecord(kind RecordKind) *Node {
	features := Property{Name: "features", Schema: &Node{
		Ref:         defsPrefix + setDefName,
		Description: "Feature support matrix in catalogue order.",
	}}

	if kind == KindUseCase {
		return &Node{
			Title: kind.ModelTitle(),
			Type:  "object",
			Properties: []Property{
				{Name: "assumptions", Schema: &Node{
					Description: "Modelling assumptions this use-case relies on.",
					Type:        "array",
					Items:       &Node{Type: "string"},
					Default:     []any{},
					HasDefault:  true,
				}},
				features,
			},
			Closed: true,
		}
	}

	source := urlNode()
	source.Description = "Repository hosting the tool's source code."
	return &Node{
		Title: kind.ModelTitle(),
		Type:  "object",
		Properties: []Property{
			{Name: "name", Schema: &Node{
				Description: "Full human-readable name of the tool.",
				Type:        "string",
			}},
			{Name: "shortname", Schema: &Node{
				Description: "Short identifier used in paths and URLs.",
				Type:        "string",
				Pattern:     "^[A-Za-z0-9_-]+$",
			}},
			{Name: "source_code", Schema: source},
			{Name: "docs", Schema: &Node{
				Description: "Documentation site, when one exists.",
				AnyOf:       []*Node{urlNode(), {Type: "null"}},
				Default:     nil,
				HasDefault:  true,
			}},
			{Name: "maintainers", Schema: &Node{
				Description: "GitHub usernames of the people maintaining this list.",
				Type:        "array",
				Items:       &Node{Type: "string"},
				MinItems:    1,
				UniqueItems: true,
			}},
			features,
		},
		Required: []string{"name", "shortname", "source_code", "maintainers"},
		Closed:   true,
	}
}

// urlNode encodes the HTTPS URL constraint shared by every link field.
func urlNode() *Node {
	return &Node{
		Type:      "string",
		Format:    "uri",
		Pattern:   "^https://",
		MinLength: 1,
		MaxLength: 2083,
	}
}
