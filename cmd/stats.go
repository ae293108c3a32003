package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterypath/internal/mastery"
)

var statsCmd = &cobra.Command{
	Use:   "stats <user>",
	Short: "Show learning statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		st, err := a.Progress.Stats(ctx, args[0])
		if err != nil {
			return err
		}
		hm, err := a.Progress.Heatmap(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Practices:      %d (%d succeeded, %d failed)\n", st.TotalPractices, st.SuccessCount, st.FailureCount)
		fmt.Printf("Success rate:   %.0f%%\n", st.SuccessRate*100)
		fmt.Printf("Time practiced: %s\n", formatMs(st.TotalTimeMs))
		fmt.Printf("Mastered:       %d\n", st.MasteredCount)
		fmt.Printf("In progress:    %d\n", st.AvailableCount)
		fmt.Printf("Streak:         %d days (longest %d)\n", hm.CurrentStreak, hm.LongestStreak)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <user>",
	Short: "Summarize recent mistakes and weak skills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rangeDays, _ := cmd.Flags().GetInt("range")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.Progress.Summary(cmd.Context(), args[0], rangeDays)
		if err != nil {
			return err
		}

		fmt.Printf("Last %d days\n\n", sum.RangeDays)
		fmt.Println("Mistakes by kind:")
		for _, k := range mastery.AllErrorKinds() {
			fmt.Printf("  %-10s %d\n", k, sum.MistakeCounts[k])
		}

		if len(sum.TopLeaks) > 0 {
			fmt.Println("\nMost failed skills:")
			fmt.Printf("  %6s  %-40s  %8s  %5s\n", "ID", "Name", "Failures", "Score")
			fmt.Println("  " + strings.Repeat("\u2500", 65))
			for _, l := range sum.TopLeaks {
				fmt.Printf("  %6d  %-40s  %8d  %5.2f\n", l.NodeID, l.Name, l.Failures, l.MasteryScore)
			}
		}

		fmt.Printf("\n%d mastered, %d decaying, %d available\n",
			sum.MasteredCount, sum.DecayingCount, sum.AvailableCount)
		return nil
	},
}

func init() {
	summaryCmd.Flags().Int("range", 30, "Window in days (1-365)")
}

func formatMs(ms int64) string {
	if ms < 60_000 {
		return fmt.Sprintf("%ds", ms/1000)
	}
	return fmt.Sprintf("%dm %ds", ms/60_000, (ms%60_000)/1000)
}
