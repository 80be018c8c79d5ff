// Command youtube-mcp serves YouTube Data API tools over the Model Context
// Protocol and offers a few helpers for inspecting and exercising them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "youtube-mcp",
		Short: "YouTube tools for MCP clients",
		Long:  "youtube-mcp exposes YouTube Data API tools through the Model Context Protocol over stdio.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to youtube-mcp.yaml (default: search the working directory and its parents)")
	root.PersistentFlags().String("log-level", "", "Override the configured log level")
	root.PersistentFlags().String("youtube-endpoint", "", "Override the YouTube Data API base URL")
	_ = root.PersistentFlags().MarkHidden("youtube-endpoint")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("youtube-mcp version %s\n", version))

	root.AddCommand(newServeCmd())
	root.AddCommand(newToolsCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newHealthCmd())
	return root
}
