package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trellisplan/trellis/internal/client"
)

var fixCmd = &cobra.Command{
	Use:   "fix <connection-id>",
	Short: "Apply a cycle fix to a connection",
	Long: `Apply one of the fixes suggested by analysis: remove the connection,
reverse its direction, or change its type to a non-ordering one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, _ := cmd.Flags().GetString("action")
		newType, _ := cmd.Flags().GetString("new-type")

		err := api.ApplyFix(context.Background(), args[0], &client.ApplyFixRequest{
			Action:    action,
			NewType:   newType,
			AppliedBy: actor,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("applied %s to %s\n", action, args[0])
		return nil
	},
}

func init() {
	fixCmd.Flags().String("action", "remove_connection", "fix action (remove_connection, reverse_connection, change_type)")
	fixCmd.Flags().String("new-type", "", "replacement type for change_type (defaults to relates_to)")
}
