package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Validator checks parsed documents against one decoded schema document.
// It understands the keyword subset the schema compiler emits: type,
// properties, required, additionalProperties, enum, items, minItems,
// uniqueItems, minLength, maxLength, pattern, format uri, anyOf, and $ref
// into $defs.
type Validator struct {
	root map[string]any
	defs map[string]any
}

// NewValidator prepares a validator for the decoded schema document.
func NewValidator(schema map[string]any) *Validator {
	defs, _ := schema["$defs"].(map[string]any)
	return &Validator{root: schema, defs: defs}
}

// Validate checks doc against the schema, accumulating every violation
// across the whole document in a single pass.
func (v *Validator) Validate(doc *yaml.Node) *Report {
	report := &Report{}
	if doc == nil {
		report.Add(&Violation{Path: "root", Message: "document is empty"})
		return report
	}
	node := doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			report.Add(&Violation{Path: "root", Message: "document is empty"})
			return report
		}
		node = node.Content[0]
	}
	v.check(node, v.root, "root", report)
	return report
}

func (v *Validator) check(node *yaml.Node, schema map[string]any, path string, report *Report) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	if ref, ok := schema["$ref"].(string); ok {
		resolved := v.resolveRef(ref)
		if resolved == nil {
			report.Add(&Violation{
				Path: path, Line: node.Line, Column: node.Column,
				Message: fmt.Sprintf("schema reference %s cannot be resolved", ref),
			})
			return
		}
		v.check(node, resolved, path, report)
		return
	}

	if alts, ok := schema["anyOf"].([]any); ok {
		v.checkAnyOf(node, alts, path, report)
		return
	}

	actual := nodeType(node)
	if declared, ok := schema["type"].(string); ok && !typeMatches(declared, actual) {
		report.Add(&Violation{
			Path: path, Line: node.Line, Column: node.Column,
			Message:  fmt.Sprintf("wrong type for field '%s'", path),
			Expected: declared,
			Actual:   actual,
			Hint:     fmt.Sprintf("Change '%s' to be a %s", path, declared),
		})
		return
	}

	switch actual {
	case "object":
		v.checkObject(node, schema, path, report)
	case "array":
		v.checkArray(node, schema, path, report)
	case "string":
		v.checkString(node, schema, path, report)
	}
}

// checkObject enforces closedness, required fields, and recurses into every
// declared property present in the document.
func (v *Validator) checkObject(node *yaml.Node, schema map[string]any, path string, report *Report) {
	props, _ := schema["properties"].(map[string]any)

	if ap, ok := schema["additionalProperties"].(bool); ok && !ap {
		for i := 0; i < len(node.Content); i += 2 {
			key := node.Content[i]
			if _, declared := props[key.Value]; !declared {
				report.Add(&Violation{
					Path: childPath(path, key.Value),
					Line: key.Line, Column: key.Column,
					Message: fmt.Sprintf("unexpected field '%s'", key.Value),
					Hint:    "Remove the field or fix its spelling; undeclared fields are not permitted here",
				})
			}
		}
	}

	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			name, ok := r.(string)
			if !ok {
				continue
			}
			if fieldValue(node, name) == nil {
				report.Add(&Violation{
					Path: childPath(path, name),
					Line: node.Line, Column: node.Column,
					Message: fmt.Sprintf("missing required field: %s", name),
					Hint:    fmt.Sprintf("Add the '%s' field", name),
				})
			}
		}
	}

	for i := 0; i < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		propSchema, ok := props[key.Value].(map[string]any)
		if !ok {
			continue
		}
		v.check(value, propSchema, childPath(path, key.Value), report)
	}
}

func (v *Validator) checkArray(node *yaml.Node, schema map[string]any, path string, report *Report) {
	if min, ok := intVal(schema["minItems"]); ok && len(node.Content) < min {
		report.Add(&Violation{
			Path: path, Line: node.Line, Column: node.Column,
			Message:  fmt.Sprintf("list '%s' has too few items", path),
			Expected: fmt.Sprintf("at least %d item(s)", min),
			Actual:   fmt.Sprintf("%d item(s)", len(node.Content)),
		})
	}

	if unique, ok := schema["uniqueItems"].(bool); ok && unique {
		v.checkUnique(node, path, report)
	}

	if itemSchema, ok := schema["items"].(map[string]any); ok {
		for i, item := range node.Content {
			v.check(item, itemSchema, indexPath(path, i), report)
		}
	}
}

// checkUnique rejects repeated list entries, comparing decoded values by
// deep equality so nested lists compare positionally.
func (v *Validator) checkUnique(node *yaml.Node, path string, report *Report) {
	decoded := make([]any, len(node.Content))
	for i, item := range node.Content {
		var value any
		if err := item.Decode(&value); err != nil {
			return
		}
		decoded[i] = value
	}
	for i := 1; i < len(decoded); i++ {
		for j := 0; j < i; j++ {
			if reflect.DeepEqual(decoded[i], decoded[j]) {
				report.Add(&Violation{
					Path: indexPath(path, i),
					Line: node.Content[i].Line, Column: node.Content[i].Column,
					Message: fmt.Sprintf("list '%s' items must be unique", path),
					Actual:  fmt.Sprintf("duplicate of item %d", j),
					Hint:    "Remove the duplicated entry",
				})
				break
			}
		}
	}
}

func (v *Validator) checkString(node *yaml.Node, schema map[string]any, path string, report *Report) {
	value := node.Value

	if enum, ok := schema["enum"].([]any); ok {
		allowed := make([]string, 0, len(enum))
		match := false
		for _, e := range enum {
			s := fmt.Sprint(e)
			allowed = append(allowed, s)
			if value == s {
				match = true
			}
		}
		if !match {
			report.Add(&Violation{
				Path: path, Line: node.Line, Column: node.Column,
				Message:  fmt.Sprintf("invalid value for field '%s'", path),
				Expected: "one of: " + strings.Join(allowed, ", "),
				Actual:   fmt.Sprintf("'%s'", value),
				Hint:     "Use one of the valid values: " + strings.Join(allowed, ", "),
			})
		}
	}

	if min, ok := intVal(schema["minLength"]); ok && utf8.RuneCountInString(value) < min {
		report.Add(&Violation{
			Path: path, Line: node.Line, Column: node.Column,
			Message:  fmt.Sprintf("value of '%s' is too short", path),
			Expected: fmt.Sprintf("at least %d character(s)", min),
			Actual:   fmt.Sprintf("%d character(s)", utf8.RuneCountInString(value)),
		})
	}
	if max, ok := intVal(schema["maxLength"]); ok && utf8.RuneCountInString(value) > max {
		report.Add(&Violation{
			Path: path, Line: node.Line, Column: node.Column,
			Message:  fmt.Sprintf("value of '%s' is too long", path),
			Expected: fmt.Sprintf("at most %d character(s)", max),
			Actual:   fmt.Sprintf("%d character(s)", utf8.RuneCountInString(value)),
		})
	}

	patternOK := true
	if pattern, ok := schema["pattern"].(string); ok {
		re, err := regexp.Compile(pattern)
		switch {
		case err != nil:
			patternOK = false
			report.Add(&Violation{
				Path: path, Line: node.Line, Column: node.Column,
				Message: fmt.Sprintf("schema pattern %q is invalid: %v", pattern, err),
			})
		case !re.MatchString(value):
			patternOK = false
			report.Add(&Violation{
				Path: path, Line: node.Line, Column: node.Column,
				Message:  fmt.Sprintf("value of '%s' does not match the required pattern", path),
				Expected: pattern,
				Actual:   fmt.Sprintf("'%s'", value),
			})
		}
	}

	// Skip the format check when the pattern already failed, so one bad URL
	// yields one violation rather than two.
	if format, ok := schema["format"].(string); ok && format == "uri" && patternOK {
		if u, err := url.Parse(value); err != nil || u.Scheme == "" || u.Host == "" {
			report.Add(&Violation{
				Path: path, Line: node.Line, Column: node.Column,
				Message:  fmt.Sprintf("value of '%s' is not a valid URL", path),
				Expected: "an absolute URL",
				Actual:   fmt.Sprintf("'%s'", value),
			})
		}
	}
}

// checkAnyOf accepts the value if any alternative validates clean. When all
// alternatives fail, the errors of the alternative matching the value's type
// are reported; with no type match, a single summary violation is emitted.
func (v *Validator) checkAnyOf(node *yaml.Node, alts []any, path string, report *Report) {
	actual := nodeType(node)
	var typeNames []string
	var matching map[string]any

	for _, a := range alts {
		alt, ok := a.(map[string]any)
		if !ok {
			continue
		}
		sub := &Report{}
		v.check(node, alt, path, sub)
		if sub.Valid() {
			return
		}
		if t, ok := alt["type"].(string); ok {
			typeNames = append(typeNames, t)
			if matching == nil && typeMatches(t, actual) {
				matching = alt
			}
		}
	}

	if matching != nil {
		v.check(node, matching, path, report)
		return
	}
	report.Add(&Violation{
		Path: path, Line: node.Line, Column: node.Column,
		Message:  fmt.Sprintf("value of '%s' matches none of the permitted forms", path),
		Expected: strings.Join(typeNames, " or "),
		Actual:   actual,
	})
}

func (v *Validator) resolveRef(ref string) map[string]any {
	name, ok := strings.CutPrefix(ref, "#/$defs/")
	if !ok {
		return nil
	}
	def, _ := v.defs[name].(map[string]any)
	return def
}

// fieldValue returns the value node for key in a mapping node.
func fieldValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// nodeType maps a document node to its JSON Schema type name.
func nodeType(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return "null"
		case "!!bool":
			return "boolean"
		case "!!int":
			return "integer"
		case "!!float":
			return "number"
		default:
			return "string"
		}
	default:
		return "unknown"
	}
}

// typeMatches reports whether a value of type actual satisfies the declared
// schema type. Integers satisfy number, as in JSON Schema.
func typeMatches(declared, actual string) bool {
	if declared == actual {
		return true
	}
	return declared == "number" && actual == "integer"
}

func childPath(parent, key string) string {
	if parent == "" || parent == "root" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	if parent == "" || parent == "root" {
		return fmt.Sprintf("[%d]", i)
	}
	return fmt.Sprintf("%s[%d]", parent, i)
}

func intVal(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
