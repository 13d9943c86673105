package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cachelens/internal/config"
)

func TestExitCodeForUnwrapsExitCodeErr(t *testing.T) {
	err := withExitCode(exitParse, errors.New("bad profile"))
	require.Equal(t, exitParse, exitCodeFor(err))
}

func TestExitCodeForTraversesUnwrapChain(t *testing.T) {
	err := withExitCode(exitParse, errors.New("bad profile"))
	wrapped := fmt.Errorf("while loading: %w", err)
	require.Equal(t, exitParse, exitCodeFor(wrapped))
}

func TestExitCodeForPlainErrorDefaultsToUsage(t *testing.T) {
	require.Equal(t, exitUsage, exitCodeFor(errors.New("plain")))
}

func TestWithExitCodeNilErrorStaysNil(t *testing.T) {
	require.NoError(t, withExitCode(exitParse, nil))
}

func TestHexOrName(t *testing.T) {
	require.Equal(t, "PC address", hexOrName("0x401000"))
	require.Equal(t, "function name", hexOrName("main"))
}

func TestLoadSourceFilesSkipsVendorAndReadsRest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "ignored.c"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), []byte("int main() {}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "helper.c"), []byte("void helper() {}"), 0o644))

	files, err := loadSourceFiles(dir)
	require.NoError(t, err)
	require.Equal(t, "int main() {}", files["main.c"])
	require.Equal(t, "void helper() {}", files["src/helper.c"])
	_, ok := files["vendor/ignored.c"]
	require.False(t, ok)
}

func TestLoadSourceFilesEmptyRoot(t *testing.T) {
	files, err := loadSourceFiles("")
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestSourceFilesOptionsUsesSourceSubdir(t *testing.T) {
	cfg := config.Default()
	cfg.Ingest.SourceSubdir = "src"
	opts := sourceFilesOptions(cfg)
	require.Equal(t, "src", opts.Subdir)
}

func newTestCLIContext(t *testing.T, args []string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestRequireArgReturnsArgWhenPresent(t *testing.T) {
	c := newTestCLIContext(t, []string{"profile.out"})
	val, err := requireArg(c, 0, "profile-file")
	require.NoError(t, err)
	require.Equal(t, "profile.out", val)
}

func TestRequireArgMissingReturnsUsageError(t *testing.T) {
	c := newTestCLIContext(t, []string{})
	_, err := requireArg(c, 0, "profile-file")
	require.Error(t, err)
	require.Equal(t, exitUsage, exitCodeFor(err))
}
