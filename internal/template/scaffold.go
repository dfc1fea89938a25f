package template

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-energy-transition/featlist/internal/catalog"
	"github.com/open-energy-transition/featlist/internal/schema"
)

// ScaffoldFilename returns the published copier template filename for kind.
// The embedded list_type conditional makes copier skip the file entirely when
// instantiating the other kind, so the exact spelling is part of the template
// contract.
func ScaffoldFilename(kind schema.RecordKind) string {
	return fmt.Sprintf("{%% if list_type == '%s' %%}features.yaml{%% endif %%}.jinja", kind)
}

// Scaffold renders the copier template for kind. The feature set is concrete
// YAML generated from the catalogue; project metadata stays as copier
// placeholders resolved at instantiation time, and the schema directive pins
// the template's own commit as the published revision.
func Scaffold(cat *catalog.Catalog, kind schema.RecordKind, baseURL string) ([]byte, error) {
	docPath := DocumentRoot(kind) + "/{{ shortname }}/features.yaml"
	schemaURL := fmt.Sprintf("%s/{{ _copier_answers._commit }}/schema/%s",
		strings.TrimSuffix(baseURL, "/"), kind.SchemaFilename())

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Feature list for %s\n", docPath)
	fmt.Fprintf(&buf, "# CODEOWNERS entry: %s\n", docPath)
	fmt.Fprintf(&buf, "# yaml-language-server: $schema=%s\n", schemaURL)

	if kind == schema.KindTool {
		buf.WriteString("name: {{ name }}\n")
		buf.WriteString("shortname: {{ shortname }}\n")
		buf.WriteString("source_code: {{ source }}\n")
		buf.WriteString("docs: {% if docs == 'none' %}null{% else %}{{ docs }}{% endif %}\n")
		buf.WriteString("maintainers: [{{ maintainers }}]\n")
	} else {
		buf.WriteString("assumptions: []\n")
	}

	wrapper := newMapping()
	appendEntry(wrapper, "features", featuresNode(cat, kind))
	body, err := yaml.Marshal(wrapper)
	if err != nil {
		return nil, fmt.Errorf("rendering %s scaffold: %w", kind, err)
	}
	buf.Write(body)
	return buf.Bytes(), nil
}
