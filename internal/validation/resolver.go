package validation

import (
	"strings"
	"unicode"
)

// schemaDirectivePrefix is the comment form documents use to declare their
// schema. Generated headers end with this exact line, so the spelling here
// and in the template package must stay in sync.
const schemaDirectivePrefix = "# yaml-language-server: $schema="

// ResolveSchemaURL scans raw document text for the first schema directive
// comment and returns the declared URL. The URL token runs to the first
// whitespace character; a directive with nothing after the assignment does
// not count as a match.
func ResolveSchemaURL(text []byte) (string, bool) {
	for _, line := range strings.Split(string(text), "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), schemaDirectivePrefix)
		if !ok {
			continue
		}
		if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
			rest = rest[:i]
		}
		if rest == "" {
			continue
		}
		return rest, true
	}
	return "", false
}
