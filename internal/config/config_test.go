package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPassesValidation(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	require.Equal(t, "objdump", cfg.Disasm.Tool)
	require.Equal(t, int64(100*1024*1024), cfg.Ingest.MaxBytes)
}

func TestParseKDLOverlaysOntoBase(t *testing.T) {
	kdlContent := `
project {
    root "/srv/app"
}
ingest {
    max_bytes 50000000
    source_subdir "src"
}
disasm {
    tool "llvm-objdump"
    timeout_ms 5000
}
search {
    max_prefix_expand 20
    max_substring_expand 8
}
`
	cfg, err := parseKDL(kdlContent, Default())
	require.NoError(t, err)
	require.Equal(t, "/srv/app", cfg.Project.Root)
	require.Equal(t, int64(50000000), cfg.Ingest.MaxBytes)
	require.Equal(t, "src", cfg.Ingest.SourceSubdir)
	require.Equal(t, "llvm-objdump", cfg.Disasm.Tool)
	require.Equal(t, 5000, cfg.Disasm.TimeoutMs)
	require.Equal(t, 20, cfg.Search.MaxPrefixExpand)
	require.Equal(t, 8, cfg.Search.MaxSubstringExpand)
}

func TestParseKDLLeavesUnsetFieldsAtBase(t *testing.T) {
	base := Default()
	cfg, err := parseKDL(`disasm { tool "radare2" }`, base)
	require.NoError(t, err)
	require.Equal(t, "radare2", cfg.Disasm.Tool)
	require.Equal(t, base.Ingest.MaxBytes, cfg.Ingest.MaxBytes)
}

func TestLoadKDLFileMissingIsNotError(t *testing.T) {
	cfg, err := loadKDLFile(filepath.Join(t.TempDir(), "nope.kdl"), Default())
	require.NoError(t, err)
	require.Nil(t, cfg)
}

func TestLoadKDLFileReadsAndOverlays(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".cachelens.kdl")
	require.NoError(t, os.WriteFile(path, []byte(`disasm { tool "objdump2" }`), 0o644))

	cfg, err := loadKDLFile(path, Default())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, "objdump2", cfg.Disasm.Tool)
}

func TestValidateRejectsNonPositiveMaxBytes(t *testing.T) {
	cfg := Default()
	cfg.Ingest.MaxBytes = 0
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsEmptyDisasmTool(t *testing.T) {
	cfg := Default()
	cfg.Disasm.Tool = ""
	require.Error(t, Validate(cfg))
}

func TestValidateFillsSmartDefaults(t *testing.T) {
	cfg := Default()
	cfg.Disasm.TimeoutMs = 0
	cfg.Search.MaxPrefixExpand = 0
	cfg.Search.MaxSubstringExpand = 0
	require.NoError(t, Validate(cfg))
	require.Equal(t, 10_000, cfg.Disasm.TimeoutMs)
	require.Equal(t, 10, cfg.Search.MaxPrefixExpand)
	require.Equal(t, 5, cfg.Search.MaxSubstringExpand)
}

func TestLoadMergesProjectConfigOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".cachelens.kdl")
	require.NoError(t, os.WriteFile(path, []byte(`disasm { tool "radare2" }`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "radare2", cfg.Disasm.Tool)
}
