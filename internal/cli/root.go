// featlist - Feature catalogue tooling for open energy modelling
// Source: https://github.com/open-energy-transition/featlist

// Package cli provides the Cobra-based featlist commands. It defines the
// catalogue compiler (schema), feature list creation (new), document
// validation (validate), and version reporting (version).
package cli

import (
	"github.com/spf13/cobra"

	"github.com/open-energy-transition/featlist/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "featlist",
	Short: "feature catalogue tooling",
	Long: `featlist feature catalogue tooling

Compile the shared feature catalogue into published schema artifacts, start
new feature list documents, and validate feature lists against the schemas
their headers reference.

Source: https://github.com/open-energy-transition/featlist`,
	Example: `  # Regenerate schema artifacts and scaffolding templates
  featlist schema

  # Start a feature list for a new tool
  featlist new --name "Grid Model" --source-code https://github.com/example/grid-model

  # Validate every feature list in the repository
  featlist validate

  # Validate specific documents
  featlist validate tools/grid_model/features.yaml`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultLocalConfigPath, "Path to config file")
}
