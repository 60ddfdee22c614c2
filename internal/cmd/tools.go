package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	"github.com/hamzaessahbaoui/twitter-mcp/pkg/tools/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// toolInfo is one entry of the JSON catalogue.
type toolInfo struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	InputSchema  interface{} `json:"input_schema"`
	OutputSchema interface{} `json:"output_schema,omitempty"`
}

func newToolsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Schemas only; no API calls are made, so no credentials are needed.
			tk := toolkit.New(serverName)
			if err := twitter.Register(tk, nil, failure.NewResponder()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json", "":
				infos := make([]toolInfo, 0, len(tk.Tools()))
				for _, tool := range tk.Tools() {
					infos = append(infos, toolInfo{
						Name:         tool.GetName(),
						Description:  tool.GetDescription(),
						InputSchema:  tool.GetInputSchema(),
						OutputSchema: tool.GetOutputSchema(),
					})
				}
				b, err := json.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			case "text":
				_, err := fmt.Fprintln(out, tk.GetToolkitDescription())
				return err
			default:
				return fmt.Errorf("unknown format %q (valid: json, text)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "F", "json", "output format: json|text")
	return cmd
}
