package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/progress"
	"github.com/abhisek/masterypath/internal/skillgraph"
	"github.com/abhisek/masterypath/internal/ui/components"
	"github.com/abhisek/masterypath/internal/ui/theme"
)

const scoreBarWidth = 20

var treeCmd = &cobra.Command{
	Use:   "tree <user>",
	Short: "Show a learner's skill tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pathID, _ := cmd.Flags().GetInt64("path")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var tree *progress.Tree
		if pathID > 0 {
			tree, err = a.Progress.PathTree(cmd.Context(), args[0], skillgraph.PathID(pathID))
		} else {
			tree, err = a.Progress.Tree(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		if len(tree.Nodes) == 0 {
			fmt.Println("No skills yet. Run `masterypath seed` to import a graph.")
			return nil
		}
		renderTree(tree)
		return nil
	},
}

func init() {
	treeCmd.Flags().Int64("path", 0, "Only show the skills of this learning path")
}

func renderTree(tree *progress.Tree) {
	title := "Skill tree for " + tree.UserID
	if tree.Path != nil {
		title = tree.Path.Name + " for " + tree.UserID
	}
	lipgloss.Println(theme.Title.Render(title))

	// Categories in order of their lowest node id.
	var order []string
	byCat := make(map[string][]progress.TreeNode)
	for _, n := range tree.Nodes {
		if _, ok := byCat[n.Category]; !ok {
			order = append(order, n.Category)
		}
		byCat[n.Category] = append(byCat[n.Category], n)
	}

	for _, cat := range order {
		lipgloss.Println()
		lipgloss.Println(theme.Category.Render(cat))
		for _, n := range byCat[cat] {
			style := theme.StatusStyle(n.Status)
			name := n.Name
			if len(name) > 36 {
				name = name[:33] + "..."
			}
			lipgloss.Printf("  %s %5d  %-36s  %s  %s\n",
				style.Render(theme.StatusIcon(n.Status)),
				n.ID,
				name,
				components.NewScoreBar(n.MasteryScore, scoreBarWidth, true).View(),
				style.Render(string(n.Status)))
		}
	}

	c := tree.Counts()
	lipgloss.Println()
	lipgloss.Println(theme.Hint.Render(fmt.Sprintf("%d mastered, %d decaying, %d available, %d locked",
		c[mastery.StatusMastered], c[mastery.StatusDecaying], c[mastery.StatusAvailable], c[mastery.StatusLocked])))
}
