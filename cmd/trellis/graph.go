package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the graph as nodes, edges, and stats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := api.Graph(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}

		st := resp.Stats
		fmt.Printf("Items:       %d (%d orphaned)\n", st.TotalItems, st.OrphanItems)
		fmt.Printf("Connections: %d (%d hard, %d soft)\n",
			st.TotalConnections, st.HardConnections, st.SoftConnections)
		if len(resp.Edges) > 0 {
			fmt.Println()
			for _, e := range resp.Edges {
				fmt.Printf("  %s -> %s  (%s, %g)\n", e.Source, e.Target, e.Type, e.Strength)
			}
		}
		return nil
	},
}
