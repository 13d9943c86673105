package config

import (
	"fmt"

	cgerrors "github.com/standardbeagle/cachelens/internal/errors"
)

// Validate checks a merged Config for invalid values and fills in fixed
// defaults for fields left at zero (spec §2.2).
func Validate(cfg *Config) error {
	if err := validateIngest(&cfg.Ingest); err != nil {
		return cgerrors.NewConfigError("ingest", "", err)
	}
	if err := validateDisasm(&cfg.Disasm); err != nil {
		return cgerrors.NewConfigError("disasm", cfg.Disasm.Tool, err)
	}
	if err := validateSearch(&cfg.Search); err != nil {
		return cgerrors.NewConfigError("search", "", err)
	}

	setSmartDefaults(cfg)
	return nil
}

func validateIngest(ingest *Ingest) error {
	if ingest.MaxBytes <= 0 {
		return fmt.Errorf("ingest.max_bytes must be positive, got %d", ingest.MaxBytes)
	}
	return nil
}

func validateDisasm(d *Disasm) error {
	if d.Tool == "" {
		return fmt.Errorf("disasm.tool cannot be empty")
	}
	if d.TimeoutMs < 0 {
		return fmt.Errorf("disasm.timeout_ms cannot be negative, got %d", d.TimeoutMs)
	}
	return nil
}

func validateSearch(s *Search) error {
	if s.MaxPrefixExpand < 0 {
		return fmt.Errorf("search.max_prefix_expand cannot be negative, got %d", s.MaxPrefixExpand)
	}
	if s.MaxSubstringExpand < 0 {
		return fmt.Errorf("search.max_substring_expand cannot be negative, got %d", s.MaxSubstringExpand)
	}
	return nil
}

// setSmartDefaults fills in values left at their zero value after merging
// the global and project config files, so a partial override never leaves
// a field unusable.
func setSmartDefaults(cfg *Config) {
	if cfg.Disasm.TimeoutMs == 0 {
		cfg.Disasm.TimeoutMs = 10_000
	}
	if cfg.Search.MaxPrefixExpand == 0 {
		cfg.Search.MaxPrefixExpand = 10
	}
	if cfg.Search.MaxSubstringExpand == 0 {
		cfg.Search.MaxSubstringExpand = 5
	}
}
