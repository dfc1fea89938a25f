package validation

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/open-energy-transition/featlist/internal/catalog"
	"github.com/open-energy-transition/featlist/internal/schema"
)

// testCatalog matches the feature sets used in the testdata documents.
func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{Groups: []catalog.Group{
		{
			Name:        "general",
			Description: "General solver capabilities.",
			Members: []catalog.Member{
				{Name: "lp", Description: "Solves linear programs."},
				{Name: "milp", Description: "Solves mixed-integer linear programs."},
			},
		},
		{
			Name:        "model_scope",
			Description: "What the model covers.",
			Members: []catalog.Member{
				{Name: "multi_year", Description: "Multi-year investment periods."},
			},
		},
	}}
}

func encodedSchema(t *testing.T, kind schema.RecordKind) []byte {
	t.Helper()
	out, err := schema.Encode(schema.Compile(testCatalog(), kind))
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func compiledSchema(t *testing.T, kind schema.RecordKind) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := yaml.Unmarshal(encodedSchema(t, kind), &decoded); err != nil {
		t.Fatal(err)
	}
	return decoded
}

func parseDoc(t *testing.T, text string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("parsing document: %v", err)
	}
	return &doc
}

func validate(t *testing.T, kind schema.RecordKind, text string) *Report {
	t.Helper()
	return NewValidator(compiledSchema(t, kind)).Validate(parseDoc(t, text))
}

func violationPaths(r *Report) []string {
	paths := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		paths = append(paths, v.Path)
	}
	sort.Strings(paths)
	return paths
}

func TestValidate_CleanDocuments(t *testing.T) {
	fixtures := map[string]schema.RecordKind{
		"valid-tool.yaml":     schema.KindTool,
		"valid-use-case.yaml": schema.KindUseCase,
	}
	for file, kind := range fixtures {
		text, err := os.ReadFile(filepath.Join("testdata", file))
		if err != nil {
			t.Fatalf("%s: %v", file, err)
		}
		report := validate(t, kind, string(text))
		if !report.Valid() {
			for _, v := range report.Violations {
				t.Logf("%s: %s", file, v.Error())
			}
			t.Errorf("%s: expected clean validation, got %d violation(s)", file, len(report.Violations))
		}
	}
}

func TestValidate_ClosednessAtEveryLevel(t *testing.T) {
	doc := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: [alice]
license: MIT
features:
  general:
    lp:
      value: y
      sauce: []
  nonexistent_group:
    whatever: {value: y}
`
	report := validate(t, schema.KindTool, doc)

	want := map[string]string{
		"license":                    "unexpected field 'license'",
		"features.general.lp.sauce":  "unexpected field 'sauce'",
		"features.nonexistent_group": "unexpected field 'nonexistent_group'",
	}
	if len(report.Violations) != len(want) {
		for _, v := range report.Violations {
			t.Logf("got: %s", v.Error())
		}
		t.Fatalf("violations = %d, want %d", len(report.Violations), len(want))
	}
	for _, v := range report.Violations {
		msg, ok := want[v.Path]
		if !ok {
			t.Errorf("unexpected violation path %q", v.Path)
			continue
		}
		if !strings.Contains(v.Message, msg) {
			t.Errorf("path %s: message %q does not contain %q", v.Path, v.Message, msg)
		}
		if v.Line == 0 {
			t.Errorf("path %s: violation carries no line number", v.Path)
		}
	}
}

func TestValidate_VariantDivergence(t *testing.T) {
	// Tool records accept a source list and the dev literal.
	toolDoc := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: [alice]
features:
  general:
    lp:
      value: dev
      source: [https://github.com/example/tool/pull/7]
`
	if report := validate(t, schema.KindTool, toolDoc); !report.Valid() {
		t.Errorf("tool document rejected: %v", violationPaths(report))
	}

	// Use-case records must reject both.
	useCaseDoc := `
features:
  general:
    lp:
      value: dev
      source: [https://github.com/example/tool/pull/7]
`
	report := validate(t, schema.KindUseCase, useCaseDoc)
	if len(report.Violations) != 2 {
		for _, v := range report.Violations {
			t.Logf("got: %s", v.Error())
		}
		t.Fatalf("violations = %d, want 2", len(report.Violations))
	}
	paths := violationPaths(report)
	if paths[0] != "features.general.lp.source" {
		t.Errorf("source rejection path = %q", paths[0])
	}
	if paths[1] != "features.general.lp.value" {
		t.Errorf("dev rejection path = %q", paths[1])
	}

	// Out-of-enum values fail in both variants.
	for _, kind := range schema.Kinds() {
		doc := "features:\n  general:\n    lp:\n      value: maybe\n"
		if kind == schema.KindTool {
			doc = "name: X\nshortname: x\nsource_code: https://github.com/x/x\nmaintainers: [a]\n" + doc
		}
		report := validate(t, kind, doc)
		if len(report.Violations) != 1 || report.Violations[0].Path != "features.general.lp.value" {
			t.Errorf("%s: enum rejection = %v", kind, violationPaths(report))
		}
	}
}

func TestValidate_UniqueSourceList(t *testing.T) {
	doc := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: [alice]
features:
  general:
    lp:
      value: y
      source:
        - https://example.com/docs
        - https://example.com/docs
`
	report := validate(t, schema.KindTool, doc)
	if len(report.Violations) != 1 {
		t.Fatalf("violations = %d, want 1: %v", len(report.Violations), violationPaths(report))
	}
	v := report.Violations[0]
	if v.Path != "features.general.lp.source[1]" {
		t.Errorf("path = %q", v.Path)
	}
	if !strings.Contains(v.Message, "unique") {
		t.Errorf("message = %q, want uniqueness complaint", v.Message)
	}
}

func TestValidate_ThreeIndependentViolations(t *testing.T) {
	doc := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: [alice]
features:
  general:
    lp:
      value: maybe
      sauce: []
    milp:
      value: 'y'
      source: [http://example.com/insecure]
`
	report := validate(t, schema.KindTool, doc)
	if len(report.Violations) != 3 {
		for _, v := range report.Violations {
			t.Logf("got: %s", v.Error())
		}
		t.Fatalf("violations = %d, want 3", len(report.Violations))
	}
	want := []string{
		"features.general.lp.sauce",
		"features.general.lp.value",
		"features.general.milp.source[0]",
	}
	got := violationPaths(report)
	for i, path := range want {
		if got[i] != path {
			t.Errorf("paths = %v, want %v", got, want)
			break
		}
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	doc := "shortname: example\nfeatures: {}\n"
	report := validate(t, schema.KindTool, doc)

	missing := map[string]bool{}
	for _, v := range report.Violations {
		if strings.Contains(v.Message, "missing required field") {
			missing[v.Path] = true
		}
	}
	for _, path := range []string{"name", "source_code", "maintainers"} {
		if !missing[path] {
			t.Errorf("no missing-field violation for %q: %v", path, violationPaths(report))
		}
	}
	if missing["shortname"] || missing["docs"] || missing["features"] {
		t.Errorf("unexpected missing-field violations: %v", violationPaths(report))
	}
}

func TestValidate_MaintainerConstraints(t *testing.T) {
	empty := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: []
features: {}
`
	report := validate(t, schema.KindTool, empty)
	if len(report.Violations) != 1 || report.Violations[0].Path != "maintainers" {
		t.Fatalf("empty maintainers: %v", violationPaths(report))
	}
	if !strings.Contains(report.Violations[0].Message, "too few items") {
		t.Errorf("message = %q", report.Violations[0].Message)
	}

	duplicated := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: [alice, alice]
features: {}
`
	report = validate(t, schema.KindTool, duplicated)
	if len(report.Violations) != 1 || report.Violations[0].Path != "maintainers[1]" {
		t.Fatalf("duplicated maintainers: %v", violationPaths(report))
	}
}

func TestValidate_NullableDocs(t *testing.T) {
	base := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: [alice]
features: {}
docs: %s
`
	tests := []struct {
		docs      string
		wantPaths []string
	}{
		{"null", nil},
		{"https://example.readthedocs.io", nil},
		{"http://example.readthedocs.io", []string{"docs"}},
		{"42", []string{"docs"}},
	}
	for _, tt := range tests {
		doc := strings.Replace(base, "%s", tt.docs, 1)
		report := validate(t, schema.KindTool, doc)
		got := violationPaths(report)
		if len(got) != len(tt.wantPaths) {
			t.Errorf("docs=%s: paths = %v, want %v", tt.docs, got, tt.wantPaths)
			continue
		}
		for i := range tt.wantPaths {
			if got[i] != tt.wantPaths[i] {
				t.Errorf("docs=%s: paths = %v, want %v", tt.docs, got, tt.wantPaths)
			}
		}
	}
}

func TestValidate_WrongRootType(t *testing.T) {
	report := validate(t, schema.KindTool, "- just\n- a\n- list\n")
	if len(report.Violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(report.Violations))
	}
	v := report.Violations[0]
	if v.Path != "root" {
		t.Errorf("path = %q, want root", v.Path)
	}
	if v.Expected != "object" || v.Actual != "array" {
		t.Errorf("expected/actual = %q/%q", v.Expected, v.Actual)
	}
}

func TestValidate_SourceItemType(t *testing.T) {
	doc := `
name: Example
shortname: example
source_code: https://github.com/example/tool
maintainers: [alice]
features:
  general:
    lp:
      value: y
      source: [42]
`
	report := validate(t, schema.KindTool, doc)
	if len(report.Violations) != 1 || report.Violations[0].Path != "features.general.lp.source[0]" {
		t.Fatalf("paths = %v", violationPaths(report))
	}
	if report.Violations[0].Expected != "string" {
		t.Errorf("expected = %q", report.Violations[0].Expected)
	}
}

func TestValidate_UnresolvableRef(t *testing.T) {
	v := NewValidator(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"features": map[string]any{"$ref": "#/$defs/Missing"},
		},
	})
	report := v.Validate(parseDoc(t, "features: {}\n"))
	if len(report.Violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(report.Violations))
	}
	if !strings.Contains(report.Violations[0].Message, "#/$defs/Missing") {
		t.Errorf("message = %q", report.Violations[0].Message)
	}
}

func TestValidate_NilDocument(t *testing.T) {
	report := NewValidator(compiledSchema(t, schema.KindTool)).Validate(nil)
	if len(report.Violations) != 1 || report.Violations[0].Path != "root" {
		t.Fatalf("nil document report = %v", violationPaths(report))
	}
}
