package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/trellisplan/trellis/internal/model"
	"github.com/trellisplan/trellis/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printItemTable(item *model.WorkItem) {
	fmt.Printf("ID:         %s\n", item.ID)
	fmt.Printf("Name:       %s\n", item.Name)
	fmt.Printf("Type:       %s\n", item.Type)
	fmt.Printf("Status:     %s\n", item.Status)
	fmt.Printf("Priority:   %d\n", item.Priority)
	if item.HasEstimate() {
		fmt.Printf("Estimate:   %g days\n", item.EstimatedDays)
	} else {
		fmt.Printf("Estimate:   %s\n", ui.RenderMuted("none (scheduler assumes 1 day)"))
	}
	if item.CreatedBy != "" {
		fmt.Printf("Created By: %s\n", item.CreatedBy)
	}
	fmt.Printf("Created At: %s\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At: %s\n", item.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printItemListTable(items []*model.WorkItem, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTYPE\tPRIORITY\tEST\tNAME")
	for _, it := range items {
		name := it.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		est := "-"
		if it.HasEstimate() {
			est = fmt.Sprintf("%gd", it.EstimatedDays)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			it.ID, it.Status, it.Type, it.Priority, est, name)
	}
	w.Flush()
	fmt.Printf("\n%d items (%d total)\n", len(items), total)
}

func printConnectionTable(conn *model.Connection) {
	fmt.Printf("ID:       %s\n", conn.ID)
	fmt.Printf("Edge:     %s -> %s\n", conn.SourceID, conn.TargetID)
	fmt.Printf("Type:     %s\n", conn.Type)
	fmt.Printf("Strength: %g\n", conn.Strength)
	fmt.Printf("Status:   %s\n", conn.Status)
	if conn.Reason != "" {
		fmt.Printf("Reason:   %s\n", conn.Reason)
	}
}

func printConnectionListTable(conns []*model.Connection, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTARGET\tTYPE\tSTRENGTH\tSTATUS")
	for _, c := range conns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%s\n",
			c.ID, c.SourceID, c.TargetID, c.Type, c.Strength, c.Status)
	}
	w.Flush()
	fmt.Printf("\n%d connections (%d total)\n", len(conns), total)
}

func printAnalysisTable(res *model.AnalysisResult) {
	score := fmt.Sprintf("%d/100", res.HealthScore)
	fmt.Printf("Health Score: %s\n", ui.RenderScore(res.HealthScore, score))

	if res.HasCycles {
		fmt.Printf("\nCycles (%d):\n", len(res.Cycles))
		for _, cyc := range res.Cycles {
			ids := make([]string, len(cyc.Items))
			for i, it := range cyc.Items {
				ids[i] = it.ID
			}
			fmt.Printf("  %s  %s\n",
				ui.RenderSeverity(string(cyc.Severity), fmt.Sprintf("[%s]", cyc.Severity)),
				strings.Join(ids, " -> "))
			for _, fix := range cyc.SuggestedFixes {
				fmt.Printf("    fix: %s %s %s\n", fix.Action, fix.ConnectionID, ui.RenderMuted("("+fix.Reason+")"))
			}
		}
	} else {
		fmt.Printf("\nCritical Path: %s\n", ui.RenderCritical(strings.Join(res.CriticalPath, " -> ")))
		fmt.Printf("Project Duration: %g days\n", res.ProjectDurationDays)
	}

	if len(res.Bottlenecks) > 0 {
		fmt.Printf("\nBottlenecks: %s\n", strings.Join(res.Bottlenecks, ", "))
	}
	for _, warn := range res.Warnings {
		fmt.Printf("%s %s\n", ui.RenderSeverity("medium", "warning:"), warn)
	}
}

func printNodeMetricsTable(nodes []*model.NodeMetrics) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tES\tEF\tLS\tLF\tSLACK\tCRIT\tIN\tOUT\tRISK")
	for _, n := range nodes {
		crit := ""
		if n.IsOnCriticalPath {
			crit = "*"
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%s\t%d\t%d\t%.1f\n",
			n.WorkItemID, n.EarliestStart, n.EarliestFinish,
			n.LatestStart, n.LatestFinish, n.Slack, crit,
			n.DependencyCount, n.DependentCount, n.RiskScore)
	}
	w.Flush()
}

func printSuggestionsTable(accepted []model.ValidatedSuggestion, rejected []model.RejectedSuggestion) {
	if len(accepted) > 0 {
		fmt.Printf("Accepted (%d):\n", len(accepted))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  SOURCE\tTARGET\tTYPE\tCONFIDENCE")
		for _, a := range accepted {
			fmt.Fprintf(w, "  %s (%s)\t%s (%s)\t%s\t%.2f\n",
				a.Source.ID, a.Source.Name, a.Target.ID, a.Target.Name,
				a.Suggestion.Type, a.Suggestion.Confidence)
		}
		w.Flush()
	}
	if len(rejected) > 0 {
		fmt.Printf("\nRejected (%d):\n", len(rejected))
		for _, r := range rejected {
			fmt.Printf("  %s -> %s (%s): %s\n",
				r.Suggestion.SourceID, r.Suggestion.TargetID, r.Suggestion.Type,
				ui.RenderMuted(r.Reason))
		}
	}
	if len(accepted) == 0 && len(rejected) == 0 {
		fmt.Println("no suggestions")
	}
}
