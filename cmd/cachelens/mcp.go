package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cachelens/internal/mcpserver"
)

var mcpCommand = &cli.Command{
	Name:      "mcp",
	Usage:     "Serve the Query API as MCP tools over stdio for a UI collaborator",
	ArgsUsage: "<profile-file>",
	Action:    runMCP,
}

func runMCP(c *cli.Context) error {
	path, err := requireArg(c, 0, "profile-file")
	if err != nil {
		return err
	}

	engine, err := loadEngine(c, path)
	if err != nil {
		return err
	}

	server := mcpserver.New(engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() { errChan <- server.Run(ctx) }()

	select {
	case err := <-errChan:
		if err != nil {
			return withExitCode(exitParse, fmt.Errorf("mcp server error: %w", err))
		}
		return nil
	case <-sigChan:
		cancel()

		shutdownTimer := time.NewTimer(2 * time.Second)
		defer shutdownTimer.Stop()

		select {
		case err := <-errChan:
			return err
		case <-shutdownTimer.C:
			os.Stdin.Close()
			forceTimer := time.NewTimer(500 * time.Millisecond)
			defer forceTimer.Stop()
			select {
			case err := <-errChan:
				return err
			case <-forceTimer.C:
				return nil
			}
		}
	}
}
