package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/masterypath/internal/skillgraph"
	"github.com/abhisek/masterypath/internal/ui/components"
	"github.com/abhisek/masterypath/internal/ui/theme"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Browse and create learning paths",
}

var pathListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learning paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		paths, err := a.Store.ListPaths(cmd.Context())
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("No paths yet. Run `masterypath seed` or `masterypath path create`.")
			return nil
		}
		for _, p := range paths {
			lipgloss.Printf("%4d  %s  %s\n", p.ID, theme.Body.Render(p.Name), theme.Hint.Render(fmt.Sprintf("(%d skills)", len(p.NodeIDs))))
			if p.Description != "" {
				lipgloss.Println("      " + theme.Hint.Render(p.Description))
			}
		}
		return nil
	},
}

var pathCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a learning path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetString("description")
		raw, _ := cmd.Flags().GetString("nodes")
		ids, err := parseNodeList(raw)
		if err != nil {
			return err
		}
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Store.CreatePath(cmd.Context(), name, desc, ids)
		if err != nil {
			return err
		}
		fmt.Printf("Created path %d %q with %d skills\n", p.ID, p.Name, len(p.NodeIDs))
		return nil
	},
}

var pathStatsCmd = &cobra.Command{
	Use:   "stats <user> <path-id>",
	Short: "Show a learner's progress on one path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := skillgraph.ParsePathID(args[1])
		if err != nil {
			return fmt.Errorf("invalid path id %q", args[1])
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Store.GetPath(cmd.Context(), id)
		if err != nil {
			return err
		}
		st, err := a.Progress.PathStats(cmd.Context(), args[0], id)
		if err != nil {
			return err
		}

		var frac float64
		if st.TotalNodes > 0 {
			frac = float64(st.MasteredCount) / float64(st.TotalNodes)
		}
		lipgloss.Println(theme.Title.Render(p.Name + " for " + args[0]))
		lipgloss.Printf("  Mastered     %d/%d  %s\n", st.MasteredCount, st.TotalNodes,
			components.NewScoreBar(frac, scoreBarWidth, true).View())
		due := strconv.Itoa(st.ReviewDueCount)
		if st.ReviewDueCount > 0 {
			due = theme.Due.Render(due)
		}
		lipgloss.Printf("  Review due   %s\n", due)
		return nil
	},
}

var problemsCmd = &cobra.Command{
	Use:   "problems <node-id>",
	Short: "List practice problems for a skill, easiest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := skillgraph.ParseNodeID(args[0])
		if err != nil {
			return fmt.Errorf("invalid node id %q", args[0])
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Store.GetNode(cmd.Context(), id)
		if err != nil {
			return err
		}
		problems, err := a.Store.ListProblems(cmd.Context(), id)
		if err != nil {
			return err
		}
		lipgloss.Println(theme.Title.Render(n.Name))
		if len(problems) == 0 {
			lipgloss.Println(theme.Hint.Render("No problems for this skill."))
			return nil
		}
		for _, p := range problems {
			lipgloss.Printf("  [%d] %s\n", p.Difficulty, theme.Body.Render(p.Text))
		}
		return nil
	},
}

func init() {
	pathCreateCmd.Flags().String("description", "", "Path description")
	pathCreateCmd.Flags().String("nodes", "", "Comma-separated skill ids in path order (e.g. 1,3,4)")

	pathCmd.AddCommand(pathListCmd)
	pathCmd.AddCommand(pathCreateCmd)
	pathCmd.AddCommand(pathStatsCmd)
	skillCmd.AddCommand(problemsCmd)
}

// parseNodeList parses "1, 3,4" into node ids. Empty input gives none.
func parseNodeList(raw string) ([]skillgraph.NodeID, error) {
	var ids []skillgraph.NodeID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := skillgraph.ParseNodeID(part)
		if err != nil {
			return nil, fmt.Errorf("invalid node id %q in --nodes", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
