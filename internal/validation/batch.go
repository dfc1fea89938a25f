package validation

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DocumentState is the terminal state of one document in a batch run.
type DocumentState int

const (
	StatePending DocumentState = iota
	StateReferenceMissing
	StateFetchFailed
	StateParseFailed
	StateInvalid
	StateValid
)

// String returns the state name used in summaries and logs.
func (s DocumentState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReferenceMissing:
		return "reference-missing"
	case StateFetchFailed:
		return "fetch-failed"
	case StateParseFailed:
		return "parse-failed"
	case StateInvalid:
		return "invalid"
	case StateValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Outcome is the result of validating one document.
type Outcome struct {
	Path      string
	State     DocumentState
	SchemaURL string
	Report    *Report
}

// Failed reports whether the document reached any state other than Valid.
func (o *Outcome) Failed() bool {
	return o.State != StateValid
}

// Runner validates documents independently, sharing one schema cache across
// the whole batch.
type Runner struct {
	cache   *SchemaCache
	workers int
}

// NewRunner returns a runner using cache. With workers above one, documents
// are validated concurrently.
func NewRunner(cache *SchemaCache, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{cache: cache, workers: workers}
}

// Run validates every path and returns outcomes in input order. One
// document's failure never aborts the rest of the batch.
func (r *Runner) Run(ctx context.Context, paths []string) []*Outcome {
	outcomes := make([]*Outcome, len(paths))
	if r.workers <= 1 || len(paths) <= 1 {
		for i, path := range paths {
			outcomes[i] = r.ValidateFile(ctx, path)
		}
		return outcomes
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = r.ValidateFile(ctx, path)
			return nil
		})
	}
	// Workers never return errors; failures live in the outcomes.
	_ = g.Wait()
	return outcomes
}

// ValidateFile runs the full pipeline for one document: read the text,
// resolve its schema reference, fetch the schema, parse the document, and
// validate. Every early exit maps to a distinct terminal state with a
// root-level violation describing it.
func (r *Runner) ValidateFile(ctx context.Context, path string) *Outcome {
	out := &Outcome{Path: path, State: StatePending, Report: &Report{}}

	text, err := os.ReadFile(path)
	if err != nil {
		out.State = StateParseFailed
		out.Report.Add(&Violation{
			Path:    "root",
			Message: fmt.Sprintf("cannot read file: %v", err),
		})
		return out
	}

	schemaURL, ok := ResolveSchemaURL(text)
	if !ok {
		out.State = StateReferenceMissing
		out.Report.Add(&Violation{
			Path:     "root",
			Message:  "no schema URL found in document",
			Expected: "a '# yaml-language-server: $schema=<url>' comment line",
			Hint:     "Regenerate the document header or add the schema directive",
		})
		return out
	}
	out.SchemaURL = schemaURL

	schema, err := r.cache.Fetch(ctx, schemaURL)
	if err != nil {
		out.State = StateFetchFailed
		out.Report.Add(&Violation{
			Path:    "root",
			Message: err.Error(),
		})
		return out
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(text, &doc); err != nil {
		out.State = StateParseFailed
		out.Report.Add(&Violation{
			Path:    "root",
			Message: fmt.Sprintf("cannot parse document: %v", err),
		})
		return out
	}
	if doc.Kind == 0 {
		out.State = StateParseFailed
		out.Report.Add(&Violation{
			Path:    "root",
			Message: "document is empty or contains only comments",
		})
		return out
	}

	out.Report = NewValidator(schema).Validate(&doc)
	if out.Report.Valid() {
		out.State = StateValid
	} else {
		out.State = StateInvalid
	}
	return out
}
