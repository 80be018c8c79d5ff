package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/youtube-mcp/mcpserver"
)

func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool> [json-arguments]",
		Short: "Execute one tool and print its result",
		Example: `  youtube-mcp call search_videos '{"query":"golang","max_results":3}'
  youtube-mcp call analyze_video '{"video_id":"dQw4w9WgXcQ"}' --envelope`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCall,
	}
	cmd.Flags().Bool("envelope", false, "Print the MCP envelope instead of the raw result")
	cmd.Flags().Bool("strict", false, "Validate the envelope (implies --envelope)")
	return cmd
}

func runCall(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	name := args[0]
	raw := json.RawMessage(`{}`)
	if len(args) == 2 {
		raw = json.RawMessage(args[1])
	}

	envelope, _ := cmd.Flags().GetBool("envelope")
	strict, _ := cmd.Flags().GetBool("strict")

	var (
		out     any
		success bool
		message string
	)
	if envelope || strict {
		srv, err := mcpserver.New(a.registry, mcpserver.WithLogger(a.logger), mcpserver.WithStrict(strict))
		if err != nil {
			return err
		}
		env := srv.Handle(cmd.Context(), name, raw)
		out, success, message = env, env.Success, env.Error
	} else {
		var params map[string]any
		if err := json.Unmarshal(raw, &params); err != nil {
			return fmt.Errorf("arguments must be a JSON object: %w", err)
		}
		res := a.registry.Execute(cmd.Context(), name, params)
		out, success, message = res, res.Success, res.Error
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("%s failed: %s", name, message)
	}
	return nil
}
