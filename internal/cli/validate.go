package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/open-energy-transition/featlist/internal/config"
	"github.com/open-energy-transition/featlist/internal/progress"
	"github.com/open-energy-transition/featlist/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Validate feature lists against their referenced schemas",
	Long: `Validate feature list documents against the schemas their headers reference.

Each document names its schema in a yaml-language-server directive; the
validator resolves that URL, fetches the schema (once per distinct URL per
run), and checks the document against it. Every violation in a document is
reported, not just the first.

With no arguments, validates every feature list the configured tools and
use-cases globs find. Explicit paths are validated as given.

Exit Codes:
  0 - Success (all documents valid, or nothing to validate)
  1 - One or more documents failed validation
  3 - Invalid arguments or configuration`,
	Example: `  # Validate every feature list in the repository
  featlist validate

  # Validate specific documents
  featlist validate tools/grid_model/features.yaml use-cases/adequacy/features.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return runValidateCommand(args, configPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidateCommand validates the given documents, or every discovered one.
func runValidateCommand(args []string, configPath string, out, errOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error loading config: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	paths := args
	if len(paths) == 0 {
		paths, err = discoverDocuments(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(out, "No YAML files to validate")
		return nil
	}

	caps := progress.DetectTerminalCapabilities()
	if !cfg.ShowProgress {
		caps.IsTTY = false
	}
	display := progress.NewDisplay(caps, out)
	defer display.Stop()

	runner := validation.NewRunner(validation.NewSchemaCache(cfg.CacheSize, cfg.FetchTimeout()), cfg.Workers)
	ctx := context.Background()

	var outcomes []*validation.Outcome
	if cfg.Workers > 1 && len(paths) > 1 {
		display.StartBatch(len(paths))
		outcomes = runner.Run(ctx, paths)
		display.Stop()
		for _, o := range outcomes {
			display.Result(o.Path, !o.Failed())
		}
	} else {
		for i, path := range paths {
			display.StartFile(path, i+1, len(paths))
			o := runner.ValidateFile(ctx, path)
			display.Result(path, !o.Failed())
			outcomes = append(outcomes, o)
		}
	}

	var failures []*validation.Outcome
	for _, o := range outcomes {
		if o.Failed() {
			failures = append(failures, o)
		}
	}
	if len(failures) > 0 {
		printValidationErrors(out, failures)
		return NewExitError(ExitValidationFailed)
	}

	fmt.Fprintf(out, "\nAll %d file(s) validated successfully!\n", len(paths))
	return nil
}

// discoverDocuments finds every feature list the configured globs match,
// tools first, then use-cases.
func discoverDocuments(cfg *config.Configuration) ([]string, error) {
	var paths []string
	for _, pattern := range []string{cfg.ToolsGlob, cfg.UseCasesGlob} {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// printValidationErrors renders the failing documents in one report framed by
// separator rules, after all result lines.
func printValidationErrors(out io.Writer, failures []*validation.Outcome) {
	separator := strings.Repeat("=", 80)
	blocks := make([]string, 0, len(failures))
	for _, o := range failures {
		blocks = append(blocks, formatOutcome(o))
	}
	fmt.Fprintf(out, "\n%s\nVALIDATION ERRORS:\n%s\n\n%s\n\n%s\n",
		separator, separator, strings.Join(blocks, "\n\n"), separator)
}

// formatOutcome renders one failing document: a header naming the file, then
// every violation's full details.
func formatOutcome(o *validation.Outcome) string {
	blocks := make([]string, 0, len(o.Report.Violations))
	for _, v := range o.Report.Violations {
		blocks = append(blocks, strings.TrimRight(v.FormatFull(), "\n"))
	}
	return fmt.Sprintf("Validation error(s) in %s:\n%s", o.Path, strings.Join(blocks, "\n\n"))
}
