package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/youtube-mcp/mcpserver"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Bool("strict", false, "Validate every response envelope before returning it")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	strict, _ := cmd.Flags().GetBool("strict")
	srv, err := mcpserver.New(a.registry,
		mcpserver.WithLogger(a.logger),
		mcpserver.WithStrict(strict || a.cfg.Validation.IsStrict()),
		mcpserver.WithImplementation(a.cfg.Server.GetName(), serverVersion(a)),
	)
	if err != nil {
		toolerr.NewHandler(toolerr.WithLogger(a.logger), toolerr.WithExit(exit)).
			SystemError(err, toolerr.Component{Name: "mcpserver", Operation: "init"}, true)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("serving tools", "tools", a.registry.Len())
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// serverVersion prefers a configured version over the build version.
func serverVersion(a *app) string {
	if a.cfg.Server != nil && a.cfg.Server.Version != "" {
		return a.cfg.Server.Version
	}
	return version
}
