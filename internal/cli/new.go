package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/open-energy-transition/featlist/internal/catalog"
	"github.com/open-energy-transition/featlist/internal/config"
	"github.com/open-energy-transition/featlist/internal/schema"
	"github.com/open-energy-transition/featlist/internal/template"
)

var (
	newNameFlag        string
	newShortnameFlag   string
	newSourceCodeFlag  string
	newDocsFlag        string
	newMaintainersFlag []string
	newUseCaseFlag     bool
	newOverwriteFlag   bool
)

var (
	shortnamePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	maintainerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new feature list document",
	Long: `Start a new feature list document with every feature set to its default.

Tool lists carry project metadata (name, source code URL, maintainers) and
live under <tools_dir>/<shortname>/features.yaml. Use-case lists carry no
project metadata and live under <use_cases_dir>/<shortname>/features.yaml.
Missing required inputs are prompted for on a terminal.

The generated document starts with the yaml-language-server schema directive
that validation later resolves, so a freshly created list validates clean.

Exit Codes:
  0 - Success
  1 - Existing document left untouched, or document could not be written
  3 - Invalid arguments or configuration`,
	Example: `  # Start a tool feature list
  featlist new --name "Grid Model" --source-code https://github.com/example/grid-model --maintainers alice,bob

  # Use-case list (no project metadata)
  featlist new --use-case --shortname adequacy_study

  # Replace an existing list with a fresh document
  featlist new --name "Grid Model" --source-code https://github.com/example/grid-model --maintainers alice --overwrite`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		return runNewCommand(cmd, configPath, interactive)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newNameFlag, "name", "n", "", "Tool name")
	newCmd.Flags().StringVar(&newShortnameFlag, "shortname", "", "Short name (letters, digits, '_' and '-'; defaults to --name)")
	newCmd.Flags().StringVar(&newSourceCodeFlag, "source-code", "", "Git repository URL (with leading https)")
	newCmd.Flags().StringVar(&newDocsFlag, "docs", "", "Documentation site URL, if available (with leading https)")
	newCmd.Flags().StringSliceVarP(&newMaintainersFlag, "maintainers", "m", nil, "Feature list maintainer git login IDs")
	newCmd.Flags().BoolVar(&newUseCaseFlag, "use-case", false, "Create a use-case feature list instead of a tool list")
	newCmd.Flags().BoolVarP(&newOverwriteFlag, "overwrite", "o", false, "Overwrite an existing feature list with a fresh document")
}

// newInputs is the resolved set of inputs for one new document, after flags,
// prompts, and the shortname fallback have been applied.
type newInputs struct {
	kind        schema.RecordKind
	name        string
	shortname   string
	sourceCode  string
	docs        string
	maintainers []string
}

// validate checks the metadata against the same constraints the compiled
// schema enforces, so the rendered document never fails its own validation.
func (in *newInputs) validate() error {
	if in.kind == schema.KindTool && in.name == "" {
		return fmt.Errorf("a tool name is required (pass --name)")
	}
	if in.shortname == "" {
		return fmt.Errorf("a shortname is required (pass --shortname)")
	}
	if !shortnamePattern.MatchString(in.shortname) {
		return fmt.Errorf("invalid shortname %q: only letters, digits, '_' and '-' are allowed", in.shortname)
	}
	if in.kind != schema.KindTool {
		return nil
	}
	if in.sourceCode == "" {
		return fmt.Errorf("a source code URL is required (pass --source-code)")
	}
	if err := checkHTTPS(in.sourceCode, "--source-code"); err != nil {
		return err
	}
	if in.docs != "" {
		if err := checkHTTPS(in.docs, "--docs"); err != nil {
			return err
		}
	}
	if len(in.maintainers) == 0 {
		return fmt.Errorf("at least one maintainer is required (pass --maintainers)")
	}
	for _, id := range in.maintainers {
		if strings.HasPrefix(id, "@") {
			return fmt.Errorf("maintainer %q must be a git login ID without the leading '@'", id)
		}
		if !maintainerPattern.MatchString(id) {
			return fmt.Errorf("invalid maintainer id %q: git login IDs use letters, digits and hyphens", id)
		}
	}
	return nil
}

func checkHTTPS(value, flag string) error {
	if !strings.HasPrefix(value, "https://") {
		return fmt.Errorf("%s must be an https:// URL, got %q", flag, value)
	}
	return nil
}

// splitMaintainers flattens repeated and delimiter-separated maintainer
// values into one list, accepting both commas and spaces.
func splitMaintainers(values []string) []string {
	var ids []string
	for _, v := range values {
		ids = append(ids, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})...)
	}
	return ids
}

// resolveNewInputs merges flag values with interactive prompts. Prompts only
// fire for required inputs that are still empty; the shortname falls back to
// the name rather than prompting.
func resolveNewInputs(cmd *cobra.Command, reader *bufio.Reader, interactive bool) *newInputs {
	in := &newInputs{
		kind:        schema.KindTool,
		name:        newNameFlag,
		shortname:   newShortnameFlag,
		sourceCode:  newSourceCodeFlag,
		docs:        newDocsFlag,
		maintainers: splitMaintainers(newMaintainersFlag),
	}
	if newUseCaseFlag {
		in.kind = schema.KindUseCase
	}

	out := cmd.OutOrStdout()
	if interactive {
		if in.kind == schema.KindTool {
			if in.name == "" {
				in.name = promptLine(out, reader, "Tool name")
			}
			if in.sourceCode == "" {
				in.sourceCode = promptLine(out, reader, "Source code URL (with leading https)")
			}
			if len(in.maintainers) == 0 {
				raw := promptLine(out, reader, "Feature list maintainer git login IDs, separated with spaces or commas")
				in.maintainers = splitMaintainers([]string{raw})
			}
		} else if in.shortname == "" && in.name == "" {
			in.shortname = promptLine(out, reader, "Use-case shortname")
		}
	}

	if in.shortname == "" {
		in.shortname = in.name
	}
	return in
}

// runNewCommand renders and writes one feature list document.
func runNewCommand(cmd *cobra.Command, configPath string, interactive bool) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error loading config: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	in := resolveNewInputs(cmd, reader, interactive)
	if err := in.validate(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	dir := cfg.ToolsDir
	if in.kind == schema.KindUseCase {
		dir = cfg.UseCasesDir
	}
	target := filepath.Join(dir, in.shortname, "features.yaml")

	if _, err := os.Stat(target); err == nil && !newOverwriteFlag {
		confirmed := cfg.SkipConfirmations
		if !confirmed && interactive {
			confirmed = promptYesNo(out, reader, fmt.Sprintf("%s already exists. Do you want to overwrite it (y/n)?", target))
		}
		if !confirmed {
			fmt.Fprintf(errOut, "%s already exists; use the --overwrite flag to overwrite it with a fresh config.\n", target)
			return NewExitError(ExitValidationFailed)
		}
	}

	doc, err := template.Render(cat, template.Params{
		Kind:      in.kind,
		Path:      template.DocumentPath(in.kind, in.shortname),
		SchemaURL: cfg.SchemaURL(in.kind.SchemaFilename()),
		Meta: template.Metadata{
			Name:        in.name,
			Shortname:   in.shortname,
			SourceCode:  in.sourceCode,
			Docs:        in.docs,
			Maintainers: in.maintainers,
		},
	})
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitValidationFailed)
	}

	if err := writeArtifact(target, doc); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitValidationFailed)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(out, "%s created %s\n", green("✓"), target)
	fmt.Fprintf(out, "Fill in the feature values, then run 'featlist validate %s'.\n", target)
	return nil
}

// promptLine prints a label and reads one trimmed line of input.
func promptLine(out io.Writer, reader *bufio.Reader, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptYesNo asks question and reads a yes/no answer.
func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s ", question)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
