// Package template renders feature list documents: concrete lists created by
// the new command, and the copier scaffolding templates published alongside
// the compiled schemas. Every rendered document starts with the comment
// header downstream validation relies on, ending in the exact
// yaml-language-server schema directive.
package template

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-energy-transition/featlist/internal/catalog"
	"github.com/open-energy-transition/featlist/internal/schema"
)

// Metadata describes the project fields of a tool feature list. Use-case
// lists carry no project metadata; their Metadata is ignored.
type Metadata struct {
	Name        string
	Shortname   string
	SourceCode  string
	Docs        string // empty means no documentation site, rendered as null
	Maintainers []string
}

// Params carries everything needed to render one concrete feature list.
type Params struct {
	Kind      schema.RecordKind
	Path      string // repository-relative document path, used in the header
	SchemaURL string
	Meta      Metadata
}

// DocumentRoot returns the canonical repository directory for kind.
func DocumentRoot(kind schema.RecordKind) string {
	if kind == schema.KindTool {
		return "tools"
	}
	return "use-cases"
}

// DocumentPath returns the canonical repository-relative path of a list.
func DocumentPath(kind schema.RecordKind, shortname string) string {
	return path.Join(DocumentRoot(kind), shortname, "features.yaml")
}

// Render produces a complete feature list document: header comments followed
// by metadata and the fully-defaulted feature set in catalogue order.
func Render(cat *catalog.Catalog, p Params) ([]byte, error) {
	var buf bytes.Buffer
	for _, line := range headerLines(p) {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	body, err := yaml.Marshal(bodyNode(cat, p))
	if err != nil {
		return nil, fmt.Errorf("rendering %s document: %w", p.Kind, err)
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// headerLines builds the comment header. The schema directive must stay the
// last line and must match the resolver's expected form exactly.
func headerLines(p Params) []string {
	lines := []string{"# Feature list for " + p.Path}
	if p.Kind == schema.KindTool && len(p.Meta.Maintainers) > 0 {
		owners := make([]string, len(p.Meta.Maintainers))
		for i, m := range p.Meta.Maintainers {
			owners[i] = "@" + m
		}
		lines = append(lines, fmt.Sprintf("# CODEOWNERS entry: %s %s", p.Path, strings.Join(owners, " ")))
	}
	return append(lines, "# yaml-language-server: $schema="+p.SchemaURL)
}

func bodyNode(cat *catalog.Catalog, p Params) *yaml.Node {
	root := newMapping()
	if p.Kind == schema.KindTool {
		appendScalar(root, "name", p.Meta.Name)
		appendScalar(root, "shortname", p.Meta.Shortname)
		appendScalar(root, "source_code", p.Meta.SourceCode)
		if p.Meta.Docs == "" {
			appendEntry(root, "docs", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"})
		} else {
			appendScalar(root, "docs", p.Meta.Docs)
		}
		maintainers := newSequence()
		for _, m := range p.Meta.Maintainers {
			maintainers.Content = append(maintainers.Content, strScalar(m))
		}
		appendEntry(root, "maintainers", maintainers)
	} else {
		assumptions := newSequence()
		assumptions.Style = yaml.FlowStyle
		appendEntry(root, "assumptions", assumptions)
	}
	appendEntry(root, "features", featuresNode(cat, p.Kind))
	return root
}

// featuresNode holds one fully-defaulted record per catalogue member.
func featuresNode(cat *catalog.Catalog, kind schema.RecordKind) *yaml.Node {
	features := newMapping()
	for _, g := range cat.Groups {
		group := newMapping()
		for _, m := range g.Members {
			appendEntry(group, m.Name, recordNode(kind))
		}
		appendEntry(features, g.Name, group)
	}
	return features
}

func recordNode(kind schema.RecordKind) *yaml.Node {
	rec := newMapping()
	appendScalar(rec, "value", "?")
	if kind == schema.KindTool {
		source := newSequence()
		source.Style = yaml.FlowStyle
		appendEntry(rec, "source", source)
	}
	return rec
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newSequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func appendEntry(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strScalar(key), value)
}

func appendScalar(m *yaml.Node, key, value string) {
	appendEntry(m, key, strScalar(value))
}

func strScalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
