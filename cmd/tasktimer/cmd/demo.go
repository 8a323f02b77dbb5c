package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var demoSteps int

// demoCmd runs a built-in simulated workload: a one-off setup task followed
// by a loop alternating between two recurring tasks.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a built-in demo workload",
	Long: `Run a small simulated workload so the progress line, ETA projection and
summary table can be seen without writing any code.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntVar(&demoSteps, "steps", 40, "number of loop steps")
}

func runDemo(cmd *cobra.Command, args []string) error {
	timer, err := buildTimer()
	if err != nil {
		return err
	}

	timer.Task("assembling stiffness matrix")
	time.Sleep(125 * time.Millisecond)
	timer.EndTask()

	it, err := timer.Iterate(demoSteps)
	if err != nil {
		return err
	}
	for it.Next() {
		timer.Task("assembling load vector")
		time.Sleep(25 * time.Millisecond)

		timer.Task("solving linear system")
		time.Sleep(125 * time.Millisecond)
	}

	timer.Summary().Render(os.Stdout)
	return nil
}
