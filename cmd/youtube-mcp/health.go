package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/youtube-mcp/health"
	"github.com/zero-day-ai/youtube-mcp/response"
	"github.com/zero-day-ai/youtube-mcp/tools"
	"github.com/zero-day-ai/youtube-mcp/youtube"
)

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check configuration, schemas and upstream reachability",
		Args:  cobra.NoArgs,
		RunE:  runHealth,
	}
	cmd.Flags().Bool("offline", false, "Skip the upstream connectivity check")
	return cmd
}

func runHealth(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	checks := []health.Status{
		health.APIKey(a.cfg.YouTube.GetAPIKey()),
		health.Catalog(a.registry.Len(), len(tools.Modules())),
		health.Schemas(response.DefaultSource(),
			response.SchemaMCPResponse,
			response.SchemaToolResponse,
			response.SchemaYouTubeAPIResponse,
		),
	}
	if offline, _ := cmd.Flags().GetBool("offline"); !offline {
		endpoint, _ := cmd.Flags().GetString("youtube-endpoint")
		if endpoint == "" {
			endpoint = youtube.DefaultEndpoint
		}
		checks = append(checks, health.Endpoint(cmd.Context(), endpoint))
	}
	overall := health.Combine(checks...)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		Overall health.Status   `json:"overall"`
		Checks  []health.Status `json:"checks"`
	}{overall, checks}); err != nil {
		return err
	}
	if overall.IsUnhealthy() {
		return fmt.Errorf("health check failed: %s", overall.Message)
	}
	return nil
}
