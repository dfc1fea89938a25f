package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-energy-transition/featlist/internal/catalog"
	"github.com/open-energy-transition/featlist/internal/config"
	"github.com/open-energy-transition/featlist/internal/schema"
	"github.com/open-energy-transition/featlist/internal/template"
)

var (
	schemaCatalogFlag     string
	schemaDirFlag         string
	schemaTemplateDirFlag string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Compile the feature catalogue into schema artifacts",
	Long: `Compile the feature catalogue into the published schema artifacts.

Reads the catalogue and writes, for each list kind (tool, use-case):
  - the JSON-Schema document feature lists are validated against
  - the copier scaffolding template used to start a new list

The compiler is deterministic: rerunning it on an unchanged catalogue
reproduces every artifact byte for byte, so regenerated files only show up
in git when the catalogue actually changed.

Exit Codes:
  0 - Success
  1 - Artifacts could not be written
  3 - Invalid arguments or malformed catalogue`,
	Example: `  # Regenerate everything in place
  featlist schema

  # Compile a different catalogue into a scratch directory
  featlist schema --catalog drafts/features.yaml --schema-dir /tmp/schema --template-dir /tmp/template`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return runSchemaCommand(configPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaCatalogFlag, "catalog", "", "Catalogue file (default: catalog_path from config)")
	schemaCmd.Flags().StringVar(&schemaDirFlag, "schema-dir", "", "Output directory for schema documents (default: schema_dir from config)")
	schemaCmd.Flags().StringVar(&schemaTemplateDirFlag, "template-dir", "", "Output directory for copier templates (default: template_dir from config)")
}

// runSchemaCommand compiles the catalogue and writes all four artifacts.
func runSchemaCommand(configPath string, out, errOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error loading config: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	catalogPath := cfg.CatalogPath
	if schemaCatalogFlag != "" {
		catalogPath = schemaCatalogFlag
	}
	schemaDir := cfg.SchemaDir
	if schemaDirFlag != "" {
		schemaDir = schemaDirFlag
	}
	templateDir := cfg.TemplateDir
	if schemaTemplateDirFlag != "" {
		templateDir = schemaTemplateDirFlag
	}

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	green := color.New(color.FgGreen).SprintFunc()

	for _, kind := range schema.Kinds() {
		encoded, err := schema.Encode(schema.Compile(cat, kind))
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitValidationFailed)
		}
		target := filepath.Join(schemaDir, kind.SchemaFilename())
		if err := writeArtifact(target, encoded); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitValidationFailed)
		}
		fmt.Fprintf(out, "%s wrote %s\n", green("✓"), target)

		scaffold, err := template.Scaffold(cat, kind, cfg.SchemaBaseURL)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitValidationFailed)
		}
		target = filepath.Join(templateDir, template.ScaffoldFilename(kind))
		if err := writeArtifact(target, scaffold); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitValidationFailed)
		}
		fmt.Fprintf(out, "%s wrote %s\n", green("✓"), target)
	}

	fmt.Fprintf(out, "\nCompiled %d feature group(s), %d feature(s).\n", len(cat.Groups), cat.TotalMembers())
	return nil
}

// writeArtifact writes data to path, creating parent directories as needed.
func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
