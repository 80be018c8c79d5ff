package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/youtube-mcp/response"
)

// Validation modes accepted by --mode.
const (
	modeEnvelope  = "envelope"
	modeTool      = "tool"
	modeUpstream  = "upstream"
	modeIntegrity = "integrity"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a JSON response document",
		Long: `Validate a JSON document read from a file, or stdin when no file or "-" is given.

Modes:
  envelope   MCP response envelope against the mcp-response schema
  tool       tool result against the tool-response schema and ID rules (needs --tool)
  upstream   raw YouTube Data API response
  integrity  schema-free structural check of an MCP envelope`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().String("mode", modeEnvelope, "Validation mode: envelope | tool | upstream | integrity")
	cmd.Flags().String("tool", "", "Tool name used to pick ID rules in tool mode")
	cmd.Flags().Bool("batch", false, "Treat a top-level array as a batch and print a summary")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	toolName, _ := cmd.Flags().GetString("tool")
	batch, _ := cmd.Flags().GetBool("batch")

	validate, err := validatorFor(response.New(), mode, toolName)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("input is not valid JSON: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if items, ok := doc.([]any); ok && batch {
		results := make([]response.ValidationResult, len(items))
		for i, item := range items {
			results[i] = validate(item)
		}
		summary := response.Summarize(results)
		if err := enc.Encode(struct {
			Results []response.ValidationResult `json:"results"`
			Summary response.Summary            `json:"summary"`
		}{results, summary}); err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d documents failed validation", summary.Failed, summary.Total)
		}
		return nil
	}

	result := validate(doc)
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("%s", result.Summary)
	}
	return nil
}

func validatorFor(v *response.Validator, mode, toolName string) (func(any) response.ValidationResult, error) {
	switch mode {
	case modeEnvelope:
		return v.ValidateMCPResponse, nil
	case modeTool:
		if toolName == "" {
			return nil, fmt.Errorf("--tool is required in %s mode", modeTool)
		}
		return func(doc any) response.ValidationResult {
			return v.ValidateToolResponse(doc, toolName)
		}, nil
	case modeUpstream:
		return v.ValidateYouTubeAPIResponse, nil
	case modeIntegrity:
		return v.ValidateResponseIntegrity, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}
