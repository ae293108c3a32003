package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Run one decay pass now",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Decay.RunPass(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Decay run %s: %d selected, %d decayed, %d demoted, %d failed (%s)\n",
			report.RunID, report.Selected, report.Decayed, report.Demoted, report.Failed,
			report.Duration.Round(time.Millisecond))
		return nil
	},
}
