package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE:  runTools,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	descriptors := a.registry.List()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(descriptors)
	case "text":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tCOST\tDESCRIPTION")
		for _, d := range descriptors {
			kind := "simple"
			if d.Chainable {
				kind = "chainable"
			}
			cost := "-"
			if d.QuotaCost != nil {
				cost = fmt.Sprint(*d.QuotaCost)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, kind, cost, d.Description)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
