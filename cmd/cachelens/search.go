package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cachelens/internal/cliui"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "Search the profile's indexed function names",
	ArgsUsage: "<profile-file> <query>",
	Action:    runSearch,
}

func runSearch(c *cli.Context) error {
	path, err := requireArg(c, 0, "profile-file")
	if err != nil {
		return err
	}
	query, err := requireArg(c, 1, "query")
	if err != nil {
		return err
	}

	engine, err := loadEngine(c, path)
	if err != nil {
		return err
	}

	matches := engine.Search(query)
	if c.Bool("json") {
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return withExitCode(exitUsage, fmt.Errorf("failed to marshal matches: %w", err))
		}
		fmt.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		fmt.Printf("no matches for %q\n", query)
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s  %s\n", cliui.Label(m.Function), cliui.DimText(m.File))
	}
	return nil
}
