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

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run dependency analysis over the current graph",
	Long: `Run cycle detection, critical-path scheduling, and health scoring
over the server's current graph, or over a local JSON document with --file
for what-if planning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		showNodes, _ := cmd.Flags().GetBool("nodes")

		var (
			res *model.AnalysisResult
			err error
		)
		if file != "" {
			data, readErr := os.ReadFile(file)
			if readErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", readErr)
				os.Exit(1)
			}
			var doc client.AnalyzeDocumentRequest
			if err := json.Unmarshal(data, &doc); err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", file, err)
				os.Exit(1)
			}
			res, err = api.AnalyzeDocument(context.Background(), &doc)
		} else {
			res, err = api.Analyze(context.Background())
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(res)
			return nil
		}
		printAnalysisTable(res)
		if showNodes {
			fmt.Println()
			printNodeMetricsTable(res.Nodes)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("file", "", "analyze a local graph document instead of the server snapshot")
	analyzeCmd.Flags().Bool("nodes", false, "include the per-item metrics table")
}
