package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterypath/internal/progress"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

var reviewCmd = &cobra.Command{
	Use:   "review <user>",
	Short: "List skills due for review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		pathID, _ := cmd.Flags().GetInt64("path")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var items []progress.ReviewItem
		if pathID > 0 {
			items, err = a.Progress.PathReviewQueue(cmd.Context(), args[0], skillgraph.PathID(pathID), limit)
		} else {
			items, err = a.Progress.ReviewQueue(cmd.Context(), args[0], limit)
		}
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Nothing to review.")
			return nil
		}

		fmt.Printf("%6s  %-40s  %-9s  %5s  %s\n", "ID", "Name", "Status", "Score", "Idle")
		fmt.Println(strings.Repeat("\u2500", 76))
		for _, it := range items {
			name := it.Node.Name
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			fmt.Printf("%6d  %-40s  %-9s  %5.2f  %dd\n",
				it.Node.ID, name, it.Record.Status, it.Record.MasteryScore, it.DaysSinceSuccess)
		}
		fmt.Printf("\n%d skills due\n", len(items))
		return nil
	},
}

func init() {
	reviewCmd.Flags().Int("limit", progress.DefaultReviewLimit, "Maximum number of skills to list")
	reviewCmd.Flags().Int64("path", 0, "Only list skills of this learning path")
}
