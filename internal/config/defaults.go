package config

// DefaultLocalConfigPath is the repo-local config file the CLI looks for
// when --config is not given.
const DefaultLocalConfigPath = ".featlist.yaml"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"catalog_path":   "schema/features.yaml",
		"schema_dir":     "schema",
		"template_dir":   "template",
		"tools_dir":      "tools",
		"use_cases_dir":  "use-cases",
		"tools_glob":     "tools/**/features.yaml",
		"use_cases_glob": "use-cases/**/features.yaml",

		"schema_base_url": "https://raw.githubusercontent.com/open-energy-transition/openmod-features",
		"schema_revision": "main",

		"fetch_timeout_seconds": 10,
		"cache_size":            16,
		"workers":               1,

		"show_progress": true,
	}
}
