package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the featlist CLI tool configuration
type Configuration struct {
	CatalogPath  string `koanf:"catalog_path" validate:"required"`
	SchemaDir    string `koanf:"schema_dir" validate:"required"`
	TemplateDir  string `koanf:"template_dir" validate:"required"`
	ToolsDir     string `koanf:"tools_dir" validate:"required"`
	UseCasesDir  string `koanf:"use_cases_dir" validate:"required"`
	ToolsGlob    string `koanf:"tools_glob" validate:"required"`
	UseCasesGlob string `koanf:"use_cases_glob" validate:"required"`

	SchemaBaseURL  string `koanf:"schema_base_url" validate:"required,startswith=https://"`
	SchemaRevision string `koanf:"schema_revision" validate:"required"`

	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds" validate:"min=1,max=300"`
	CacheSize           int `koanf:"cache_size" validate:"min=1,max=1024"`
	Workers             int `koanf:"workers" validate:"min=1,max=64"`

	ShowProgress      bool `koanf:"show_progress"`      // Show progress indicators (spinners) during execution
	SkipConfirmations bool `koanf:"skip_confirmations"` // Skip confirmation prompts (can also be set via FEATLIST_YES env var)
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".featlist", "config.yaml")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("FEATLIST_", ".", envTransform), nil)

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Handle FEATLIST_YES as an alias for skip_confirmations
	if os.Getenv("FEATLIST_YES") != "" {
		cfg.SkipConfirmations = true
	}

	return &cfg, nil
}

// SchemaURL returns the published URL of a schema artifact, embedding the
// configured revision.
func (c *Configuration) SchemaURL(filename string) string {
	return fmt.Sprintf("%s/%s/schema/%s", strings.TrimSuffix(c.SchemaBaseURL, "/"), c.SchemaRevision, filename)
}

// FetchTimeout returns the schema fetch timeout as a duration.
func (c *Configuration) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// envTransform converts environment variable names to config keys
// Example: FEATLIST_CACHE_SIZE -> cache_size
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "FEATLIST_"))
}
