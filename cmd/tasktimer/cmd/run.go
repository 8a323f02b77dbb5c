package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/tasktimer/internal/scenario"
	"github.com/psantana5/tasktimer/pkg/metrics"
)

var (
	listenAddr  string
	dumpMetrics bool
)

// runCmd executes a scenario file.
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a workload scenario from a YAML file",
	Long: `Run a simulated workload described in a YAML scenario file. Each step of
the loop executes the scenario's tasks in order, sleeping for the configured
duration per task. With --listen, live statistics are served over HTTP at
/metrics (Prometheus) and /status (JSON) while the scenario runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&listenAddr, "listen", "", "serve live metrics on this address (e.g. :9090)")
	runCmd.Flags().BoolVar(&dumpMetrics, "dump-metrics", false, "print a final metrics scrape after the run (requires --listen)")
}

func runScenario(cmd *cobra.Command, args []string) error {
	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	timer, err := buildTimer()
	if err != nil {
		return err
	}

	var runnerOpts []scenario.RunnerOption
	var server *metrics.Server
	if listenAddr != "" {
		exporter := metrics.NewExporter(log)
		server = metrics.NewServer(listenAddr, exporter, log)
		server.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.WithError(err).Warn("metrics server shutdown failed")
			}
		}()
		runnerOpts = append(runnerOpts, scenario.OnStep(exporter.Observe))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("scenario", s.Name).WithField("steps", s.Steps).Debug("starting scenario")
	runner := scenario.NewRunner(timer, runnerOpts...)
	if err := runner.Run(ctx, s); err != nil {
		return err
	}

	timer.Summary().Render(os.Stdout)

	if dumpMetrics && server != nil {
		if err := server.WriteText(os.Stdout); err != nil {
			return err
		}
	}
	return nil
}
