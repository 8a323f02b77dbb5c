package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/psantana5/tasktimer/pkg/timefmt"
)

// fmtCmd formats durations the way status lines and summaries do.
var fmtCmd = &cobra.Command{
	Use:   "fmt <seconds>...",
	Short: "Format durations given in seconds",
	Example: `  tasktimer fmt 0.01255
  tasktimer fmt 90 86400`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			seconds, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", arg, err)
			}
			fmt.Println(timefmt.Format(seconds))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
