package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigFileName is the well-known configuration file in the project root.
const ConfigFileName = "components.json"

// Roles are the directory roles recognized inside the registry namespace,
// in rewrite precedence order.
var Roles = []string{"components", "ui", "lib", "hooks", "blocks"}

// Aliases maps directory roles to import-alias prefixes (e.g. "@/components").
type Aliases struct {
	Components string `json:"components,omitempty"`
	UI         string `json:"ui,omitempty"`
	Lib        string `json:"lib,omitempty"`
	Hooks      string `json:"hooks,omitempty"`
	Blocks     string `json:"blocks,omitempty"`
}

// Tailwind holds stylesheet-related settings.
type Tailwind struct {
	CSS string `json:"css,omitempty"`
}

// Config is the consuming project's configuration, loaded from
// components.json. All fields are optional in the file; Load fills in
// documented defaults for anything absent.
type Config struct {
	Style    string   `json:"style,omitempty"`
	TSX      bool     `json:"tsx,omitempty"`
	SrcDir   string   `json:"srcDir,omitempty"`
	Tailwind Tailwind `json:"tailwind,omitempty"`
	Aliases  Aliases  `json:"aliases,omitempty"`

	// RootDir is the absolute project root. Set by Load, never serialized.
	RootDir string `json:"-"`

	// FromFile reports whether a components.json was actually found.
	FromFile bool `json:"-"`
}

// Default returns the configuration used when no components.json exists.
func Default(rootDir string) *Config {
	cfg := &Config{
		Style:  "default",
		TSX:    true,
		SrcDir: "src",
		Tailwind: Tailwind{
			CSS: "src/app/globals.css",
		},
		Aliases: Aliases{
			Components: "@/components",
			Lib:        "@/lib",
			Hooks:      "@/hooks",
			Blocks:     "@/blocks",
		},
	}
	cfg.RootDir = rootDir
	return cfg
}

// Load reads and validates components.json from the project root. A missing
// file is not an error: the documented defaults are returned instead.
func Load(rootDir string) (*Config, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", rootDir, err)
	}

	path := filepath.Join(abs, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(abs), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := ValidateConfig(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		var lines []string
		for _, issue := range result.Issues {
			lines = append(lines, "  "+issue.String())
		}
		return nil, fmt.Errorf("invalid %s:\n%s", path, strings.Join(lines, "\n"))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.RootDir = abs
	cfg.FromFile = true
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills empty fields with the documented defaults.
func applyDefaults(cfg *Config) {
	def := Default(cfg.RootDir)
	if cfg.SrcDir == "" {
		cfg.SrcDir = def.SrcDir
	}
	if cfg.Tailwind.CSS == "" {
		cfg.Tailwind.CSS = def.Tailwind.CSS
	}
	if cfg.Aliases.Components == "" {
		cfg.Aliases.Components = def.Aliases.Components
	}
	if cfg.Aliases.Lib == "" {
		cfg.Aliases.Lib = def.Aliases.Lib
	}
	if cfg.Aliases.Hooks == "" {
		cfg.Aliases.Hooks = def.Aliases.Hooks
	}
	if cfg.Aliases.Blocks == "" {
		cfg.Aliases.Blocks = def.Aliases.Blocks
	}
}

// AliasFor returns the import alias configured for a directory role.
// The ui role falls back to the components alias when no explicit ui
// alias exists. Unknown roles return "".
func (c *Config) AliasFor(role string) string {
	switch role {
	case "components":
		return c.Aliases.Components
	case "ui":
		if c.Aliases.UI != "" {
			return c.Aliases.UI
		}
		return c.Aliases.Components
	case "lib":
		return c.Aliases.Lib
	case "hooks":
		return c.Aliases.Hooks
	case "blocks":
		return c.Aliases.Blocks
	default:
		return ""
	}
}

// ExpandAlias rewrites an "@/"-style alias to a project-relative source
// path ("@/components" -> "src/components"). Aliases without the "@/"
// prefix are returned unchanged.
func (c *Config) ExpandAlias(alias string) string {
	if rest, ok := strings.CutPrefix(alias, "@/"); ok {
		return filepath.ToSlash(filepath.Join(c.SrcDir, rest))
	}
	return alias
}

// StylesheetPath returns the absolute path of the project's global stylesheet.
func (c *Config) StylesheetPath() string {
	return filepath.Join(c.RootDir, filepath.FromSlash(c.Tailwind.CSS))
}
