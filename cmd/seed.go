package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed [file.yaml]",
	Short: "Import a skill graph (the built-in starter graph when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		seed, err := a.ImportSeed(cmd.Context(), path)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d categories, %d skills, %d prerequisite edges\n",
			len(seed.Categories), len(seed.Nodes), len(seed.Edges))
		return nil
	},
}
