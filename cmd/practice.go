package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <user> <node-id>",
	Short: "Record a practice outcome",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID, err := skillgraph.ParseNodeID(args[1])
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", args[1], err)
		}
		failed, _ := cmd.Flags().GetBool("fail")
		kindName, _ := cmd.Flags().GetString("kind")
		duration, _ := cmd.Flags().GetInt("duration")

		in := mastery.Outcome{UserID: args[0], NodeID: nodeID, Success: !failed}
		if kindName != "" {
			if !failed {
				return fmt.Errorf("--kind only applies with --fail")
			}
			k, err := mastery.ParseErrorKind(kindName)
			if err != nil {
				return err
			}
			in.ErrorKind = &k
		}
		if duration > 0 {
			in.DurationMs = &duration
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Tracker.RecordOutcome(cmd.Context(), in)
		if err != nil {
			return err
		}

		rec := res.Record
		fmt.Printf("Event #%d: %s on node %d, score %.2f, status %s\n",
			res.EventID, outcomeWord(in.Success), rec.NodeID, rec.MasteryScore, rec.Status)
		if res.Transition != nil {
			fmt.Printf("Status changed: %s\n", res.Transition)
		}
		if len(res.UnlockedNodeIDs) > 0 {
			fmt.Printf("Unlocked: %s\n", joinIDs(res.UnlockedNodeIDs))
		}
		return nil
	},
}

func init() {
	practiceCmd.Flags().Bool("fail", false, "Record a failed attempt")
	practiceCmd.Flags().String("kind", "", "Error kind for a failure: EXECUTION, FORGOT or CONCEPT")
	practiceCmd.Flags().Int("duration", 0, "Time spent in milliseconds")
}

func outcomeWord(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
