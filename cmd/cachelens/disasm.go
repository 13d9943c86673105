package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cachelens/internal/cliui"
)

var disasmCommand = &cli.Command{
	Name:      "disasm",
	Usage:     "Disassemble a function and join it with profiled event counts",
	ArgsUsage: "<profile-file> <function>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "file",
			Usage: "Disambiguate by source file when the function name alone is ambiguous",
		},
	},
	Action: runDisasm,
}

func runDisasm(c *cli.Context) error {
	path, err := requireArg(c, 0, "profile-file")
	if err != nil {
		return err
	}
	funcQuery, err := requireArg(c, 1, "function")
	if err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return withExitCode(exitUsage, err)
	}

	engine, err := loadEngine(c, path)
	if err != nil {
		return err
	}

	file := c.String("file")
	if file == "" {
		entry, err := engine.ResolveEntry(funcQuery)
		if err != nil {
			return withExitCode(exitUsage, fmt.Errorf("no %s matches %q", hexOrName(funcQuery), funcQuery))
		}
		file = entry.File
		funcQuery = entry.Function
	}

	ctx := context.Background()
	if cfg.Disasm.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Disasm.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	instrs, err := engine.Disassemble(ctx, file, funcQuery)
	if err != nil {
		return withExitCode(exitParse, fmt.Errorf("failed to disassemble %s:%s: %w", file, funcQuery, err))
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(instrs, "", "  ")
		if err != nil {
			return withExitCode(exitUsage, fmt.Errorf("failed to marshal instructions: %w", err))
		}
		fmt.Println(string(data))
		return nil
	}

	for _, ins := range instrs {
		marker := " "
		if ins.Executed {
			marker = cliui.Green.Sprint("*")
		}
		fmt.Printf("%s %s  %s\n", marker, cliui.DimText(ins.PC), ins.Text)
	}
	return nil
}
