package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trellisplan/trellis/internal/client"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage work items",
}

var itemCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new work item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemType, _ := cmd.Flags().GetString("type")
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetInt("priority")
		estimate, _ := cmd.Flags().GetFloat64("estimate")

		item, err := api.CreateItem(context.Background(), &client.CreateItemRequest{
			Name:          args[0],
			Type:          itemType,
			Status:        status,
			Priority:      priority,
			EstimatedDays: estimate,
			CreatedBy:     actor,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(item)
		} else {
			printItemTable(item)
		}
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		itemType, _ := cmd.Flags().GetString("type")
		search, _ := cmd.Flags().GetString("search")
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		req := &client.ListItemsRequest{
			Search: search,
			Sort:   sort,
			Limit:  limit,
			Offset: offset,
		}
		if status != "" {
			req.Status = strings.Split(status, ",")
		}
		if itemType != "" {
			req.Type = strings.Split(itemType, ",")
		}

		resp, err := api.ListItems(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printItemListTable(resp.Items, resp.Total)
		}
		return nil
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a work item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := api.GetItem(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(item)
		} else {
			printItemTable(item)
		}
		return nil
	},
}

var itemUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a work item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateItemRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			req.Type = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetInt("priority")
			req.Priority = &v
		}
		if cmd.Flags().Changed("estimate") {
			v, _ := cmd.Flags().GetFloat64("estimate")
			req.EstimatedDays = &v
		}

		item, err := api.UpdateItem(context.Background(), args[0], req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(item)
		} else {
			printItemTable(item)
		}
		return nil
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a work item and its connections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteItem(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	itemCreateCmd.Flags().String("type", "task", "item type (epic, feature, enhancement, bug, concept, task)")
	itemCreateCmd.Flags().String("status", "", "lifecycle status (defaults to ideation)")
	itemCreateCmd.Flags().Int("priority", 0, "priority 0-4")
	itemCreateCmd.Flags().Float64("estimate", 0, "estimated duration in days")

	itemListCmd.Flags().String("status", "", "comma-separated statuses")
	itemListCmd.Flags().String("type", "", "comma-separated types")
	itemListCmd.Flags().String("search", "", "substring match against name")
	itemListCmd.Flags().String("sort", "", "sort key (priority, name, created_at; prefix - for descending)")
	itemListCmd.Flags().Int("limit", 0, "max results")
	itemListCmd.Flags().Int("offset", 0, "results offset")

	itemUpdateCmd.Flags().String("name", "", "new name")
	itemUpdateCmd.Flags().String("type", "", "new type")
	itemUpdateCmd.Flags().String("status", "", "new status")
	itemUpdateCmd.Flags().Int("priority", 0, "new priority")
	itemUpdateCmd.Flags().Float64("estimate", 0, "new estimate in days")

	itemCmd.AddCommand(itemCreateCmd)
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemShowCmd)
	itemCmd.AddCommand(itemUpdateCmd)
	itemCmd.AddCommand(itemDeleteCmd)
}
