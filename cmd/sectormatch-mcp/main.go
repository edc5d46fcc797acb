package main

import (
	"fmt"
	"os"

	"github.com/hubenschmidt/go-sectormatch"
	"github.com/hubenschmidt/go-sectormatch/config"
	"github.com/hubenschmidt/go-sectormatch/mcpserver"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromFiles(config.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP stream
	logger := config.NewStdioLogger(cfg.Logging)

	app, err := sectormatch.NewApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize sector matcher: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	mcpServer := mcpserver.New(cfg.MCP.Name, version, app.Registry, logger)

	if err := server.ServeStdio(mcpServer); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
