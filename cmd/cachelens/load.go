package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cachelens/internal/cliui"
	"github.com/standardbeagle/cachelens/internal/disasm"
	"github.com/standardbeagle/cachelens/internal/parser"
	"github.com/standardbeagle/cachelens/internal/query"
	"github.com/standardbeagle/cachelens/internal/search"
)

var loadCommand = &cli.Command{
	Name:      "load",
	Usage:     "Parse a profile and print its summary",
	ArgsUsage: "<profile-file>",
	Action:    runLoad,
}

func runLoad(c *cli.Context) error {
	path, err := requireArg(c, 0, "profile-file")
	if err != nil {
		return err
	}

	engine, err := loadEngine(c, path)
	if err != nil {
		return err
	}

	summary := engine.Summary()
	if c.Bool("json") {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return withExitCode(exitUsage, fmt.Errorf("failed to marshal summary: %w", err))
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s %s (%s)\n", cliui.Label("kind:"), summary.Kind, summary.Command)
	fmt.Printf("%s %s\n", cliui.Label("vocabulary:"), summary.Vocabulary)
	fmt.Printf("%s %d\n", cliui.Label("files analyzed:"), summary.FilesAnalyzed)
	fmt.Printf("%s %d / %d (%.1f%%)\n", cliui.Label("lines covered:"),
		summary.TotalCoveredLines, summary.TotalCompiledLines, summary.OverallCoverage)
	cliui.Success(fmt.Sprintf("loaded %s", cliui.DimText(path)))
	return nil
}

// loadEngine opens profilePath, builds a query.Options from the merged
// config and CLI overrides, and runs query.Load.
func loadEngine(c *cli.Context, profilePath string) (*query.Engine, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, withExitCode(exitUsage, err)
	}

	f, err := os.Open(profilePath)
	if err != nil {
		return nil, withExitCode(exitUsage, fmt.Errorf("failed to open profile %s: %w", profilePath, err))
	}
	defer f.Close()

	sourceFiles, err := loadSourceFiles(cfg.Project.Root)
	if err != nil {
		return nil, withExitCode(exitUsage, err)
	}

	engine, err := query.Load(f, sourceFiles, query.Options{
		Parse:    parser.Options{MaxBytes: cfg.Ingest.MaxBytes},
		Resolver: sourceFilesOptions(cfg),
		Disasm:   disasm.Options{Tool: cfg.Disasm.Tool},
		Search: search.Options{
			MaxPrefixExpand:    cfg.Search.MaxPrefixExpand,
			MaxSubstringExpand: cfg.Search.MaxSubstringExpand,
		},
	})
	if err != nil {
		return nil, withExitCode(exitParse, fmt.Errorf("failed to load profile %s: %w", profilePath, err))
	}
	return engine, nil
}
