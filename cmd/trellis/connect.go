package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trellisplan/trellis/internal/client"
)

var connectCmd = &cobra.Command{
	Use:   "connect <source-id> <target-id>",
	Short: "Create a connection between two work items",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		connType, _ := cmd.Flags().GetString("type")
		reason, _ := cmd.Flags().GetString("reason")

		req := &client.CreateConnectionRequest{
			SourceID:  args[0],
			TargetID:  args[1],
			Type:      connType,
			Reason:    reason,
			CreatedBy: actor,
		}
		if cmd.Flags().Changed("strength") {
			v, _ := cmd.Flags().GetFloat64("strength")
			req.Strength = &v
		}

		conn, err := api.CreateConnection(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(conn)
		} else {
			printConnectionTable(conn)
		}
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <connection-id>",
	Short: "Remove a connection (kept as an audit record)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.RemoveConnection(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "List connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, _ := cmd.Flags().GetString("item")
		connType, _ := cmd.Flags().GetString("type")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		req := &client.ListConnectionsRequest{ItemID: itemID, Limit: limit}
		if connType != "" {
			req.Type = strings.Split(connType, ",")
		}
		if status != "" {
			req.Status = strings.Split(status, ",")
		}

		resp, err := api.ListConnections(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printConnectionListTable(resp.Connections, resp.Total)
		}
		return nil
	},
}

func init() {
	connectCmd.Flags().String("type", "dependency", "connection type (dependency, blocks, complements, relates_to, enables, conflicts, duplicates, supersedes)")
	connectCmd.Flags().Float64("strength", 0.5, "relationship strength 0.0-1.0")
	connectCmd.Flags().String("reason", "", "why the connection exists")

	connectionsCmd.Flags().String("item", "", "filter to either endpoint")
	connectionsCmd.Flags().String("type", "", "comma-separated types")
	connectionsCmd.Flags().String("status", "", "comma-separated statuses (default active)")
	connectionsCmd.Flags().Int("limit", 0, "max results")

	rootCmd.AddCommand(connectionsCmd)
}
