// Package config loads cachelens's configuration from a ".cachelens.kdl"
// file, merging a global file (~/.cachelens.kdl) with a project-local one
// the same way the teacher's config loader does (project overrides global).
package config

import (
	"os"
	"path/filepath"
)

// Config is the full set of knobs the CLI and Query API accept.
type Config struct {
	Project Project
	Ingest  Ingest
	Disasm  Disasm
	Search  Search
}

// Project describes the profiled project's file-system layout.
type Project struct {
	Root string
}

// Ingest configures the streaming parser (spec §4.1, §7).
type Ingest struct {
	MaxBytes     int64
	SourceSubdir string
}

// Disasm configures the disassembler adapter (spec §4.7).
type Disasm struct {
	Tool      string
	TimeoutMs int
}

// Search configures the search index's expansion thresholds (spec §4.5).
type Search struct {
	MaxPrefixExpand    int
	MaxSubstringExpand int
}

// Default returns the configuration used when no .cachelens.kdl is found.
func Default() *Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return &Config{
		Project: Project{Root: root},
		Ingest: Ingest{
			MaxBytes:     100 * 1024 * 1024,
			SourceSubdir: "",
		},
		Disasm: Disasm{
			Tool:      "objdump",
			TimeoutMs: 10_000,
		},
		Search: Search{
			MaxPrefixExpand:    10,
			MaxSubstringExpand: 5,
		},
	}
}

// Load starts from Default, overlays the global config (~/.cachelens.kdl),
// then the project config at configPath, each overriding the one before.
// CLI-flag overrides are not applied here; the caller applies them.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := loadKDLFile(filepath.Join(home, ".cachelens.kdl"), cfg); err == nil && globalCfg != nil {
			cfg = globalCfg
		}
	}

	if configPath != "" {
		if projectCfg, err := loadKDLFile(configPath, cfg); err == nil && projectCfg != nil {
			cfg = projectCfg
		}
	}

	return cfg, Validate(cfg)
}
