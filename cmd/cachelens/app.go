// Command cachelens is the CLI entrypoint over the Query API: it loads a
// Cachegrind/Callgrind profile and lets a caller search, walk the call
// graph, and disassemble functions, either as a one-shot command or as an
// MCP server for a UI collaborator (spec §4.8).
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cachelens/internal/cliui"
	"github.com/standardbeagle/cachelens/internal/config"
	"github.com/standardbeagle/cachelens/internal/sourceresolver"
)

// Exit codes follow the teacher's convention: 0 success, 1 usage/config
// error, 2 ingest/parse error.
const (
	exitOK    = 0
	exitUsage = 1
	exitParse = 2
)

func main() {
	app := &cli.App{
		Name:  "cachelens",
		Usage: "Inspect Cachegrind/Callgrind profiler output",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a .cachelens.kdl config file",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root used to resolve relative source/object paths",
			},
			&cli.Int64Flag{
				Name:  "max-bytes",
				Usage: "Ingest size cap in bytes",
			},
			&cli.StringFlag{
				Name:  "objdump",
				Usage: "Disassembler executable name",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print machine-readable JSON instead of a table",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable color output",
			},
		},
		Before: func(c *cli.Context) error {
			cliui.Init(c.Bool("no-color") || os.Getenv("NO_COLOR") != "")
			return nil
		},
		Commands: []*cli.Command{
			loadCommand,
			searchCommand,
			graphCommand,
			disasmCommand,
			mcpCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		cliui.Errorf("%v", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeErr lets a subcommand action attach a specific exit code to an
// error without abandoning the ordinary error-wrapping idiom.
type exitCodeErr struct {
	code int
	err  error
}

func (e *exitCodeErr) Error() string { return e.err.Error() }
func (e *exitCodeErr) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitCodeErr{code: code, err: err}
}

func exitCodeFor(err error) int {
	var ec *exitCodeErr
	if ok := asExitCodeErr(err, &ec); ok {
		return ec.code
	}
	return exitUsage
}

func asExitCodeErr(err error, target **exitCodeErr) bool {
	for err != nil {
		if ec, ok := err.(*exitCodeErr); ok {
			*target = ec
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// loadConfigWithOverrides loads cachelens's config and applies the global
// flag overrides, the same override shape cmd/lci/main.go's
// loadConfigWithOverrides uses.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if root := c.String("root"); root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
		}
		cfg.Project.Root = abs
	}
	if maxBytes := c.Int64("max-bytes"); maxBytes != 0 {
		cfg.Ingest.MaxBytes = maxBytes
	}
	if tool := c.String("objdump"); tool != "" {
		cfg.Disasm.Tool = tool
	}

	return cfg, nil
}

// loadSourceFiles walks root and reads every regular file into the
// in-memory set the source resolver probes (spec §4.2); the resolver skips
// non-UTF-8 content. Directories that never hold profiled source (.git,
// vendor, node_modules, target) are skipped.
func loadSourceFiles(root string) (sourceresolver.Files, error) {
	files := make(sourceresolver.Files)
	if root == "" {
		return files, nil
	}

	skipDirs := map[string]bool{
		".git": true, "vendor": true, "node_modules": true, "target": true,
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil // unreadable file, skip rather than abort ingest
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk project root %s: %w", root, err)
	}
	return files, nil
}

func sourceFilesOptions(cfg *config.Config) sourceresolver.Options {
	return sourceresolver.Options{Subdir: cfg.Ingest.SourceSubdir}
}

func requireArg(c *cli.Context, n int, name string) (string, error) {
	if c.Args().Len() <= n {
		return "", withExitCode(exitUsage, fmt.Errorf("missing required argument: %s", name))
	}
	return c.Args().Get(n), nil
}

// hexOrName reports whether q looks like a hex PC address rather than a
// function name, for the graph/disasm commands' error messages.
func hexOrName(q string) string {
	if strings.HasPrefix(q, "0x") {
		return "PC address"
	}
	return "function name"
}
