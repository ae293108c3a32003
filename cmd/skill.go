package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skill graph",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.Store.LoadGraph(cmd.Context())
		if err != nil {
			return err
		}

		var skills []skillgraph.SkillNode
		if category != "" {
			skills = g.ByCategory(category)
			if len(skills) == 0 {
				return fmt.Errorf("no skills found for category %q", category)
			}
		} else {
			skills = g.Nodes()
		}
		if len(skills) == 0 {
			fmt.Println("No skills yet. Run `masterypath seed` to import a graph.")
			return nil
		}

		// Header.
		fmt.Printf("%6s  %-40s  %-22s  %s\n", "ID", "Name", "Category", "Requires")
		fmt.Println(strings.Repeat("\u2500", 90))

		for _, s := range skills {
			name := s.Name
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			prereqs, _ := g.GetPrerequisites(cmd.Context(), s.ID)
			fmt.Printf("%6d  %-40s  %-22s  %s\n", s.ID, name, s.Category, joinIDs(prereqs))
		}

		fmt.Printf("\n%d skills\n", len(skills))
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("category", "", "Filter by category (e.g. \"Dynamic Programming\")")

	skillCmd.AddCommand(skillListCmd)
}

func joinIDs(ids []skillgraph.NodeID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
