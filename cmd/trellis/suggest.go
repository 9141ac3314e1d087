package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trellisplan/trellis/internal/client"
	"github.com/trellisplan/trellis/internal/model"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file.json>",
	Short: "Validate AI-suggested connections from a JSON file",
	Long: `Read candidate connections from a JSON file (an array of suggestion
objects) and validate them against the current graph. Accepted candidates
are printed for review; nothing is applied automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		var suggestions []model.SuggestedConnection
		if err := json.Unmarshal(data, &suggestions); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", args[0], err)
			os.Exit(1)
		}

		resp, err := api.ValidateSuggestions(context.Background(), &client.ValidateSuggestionsRequest{
			Suggestions:   suggestions,
			MinConfidence: minConfidence,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printSuggestionsTable(resp.Accepted, resp.Rejected)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().Float64("min-confidence", 0, "override the server's confidence floor")
}
