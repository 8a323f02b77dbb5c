package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/tasktimer/pkg/timing"
)

var (
	cfgFile    string
	modeFlag   string
	statsFlag  string
	formatFlag string
	verbose    bool

	log = logrus.New()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tasktimer",
	Short: "Measure and report time spent in recurring named tasks",
	Long: `tasktimer times named tasks inside a loop, keeps running statistics per
task without storing per-lap history, and reports live progress with an ETA
plus a post-run summary table.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tasktimer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "progress mode: simple, compact or quiet (default compact)")
	rootCmd.PersistentFlags().StringVar(&statsFlag, "statistics", "", "statistics: population or sample (default population)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "status line template (see timing.DefaultFormatString)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(filepath.Join(home, ".tasktimer"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("tasktimer")
	viper.AutomaticEnv()

	viper.SetDefault("mode", string(timing.ModeCompact))
	viper.SetDefault("statistics", string(timing.Population))

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("loaded config")
	}

	if modeFlag == "" {
		modeFlag = viper.GetString("mode")
	}
	if statsFlag == "" {
		statsFlag = viper.GetString("statistics")
	}
	if formatFlag == "" {
		formatFlag = viper.GetString("format")
	}
}

// buildTimer constructs a TaskTimer from the effective configuration.
func buildTimer() (*timing.TaskTimer, error) {
	mode, err := timing.ParseMode(modeFlag)
	if err != nil {
		return nil, err
	}
	stats, err := timing.ParseStatistics(statsFlag)
	if err != nil {
		return nil, err
	}

	opts := []timing.Option{
		timing.WithMode(mode),
		timing.WithStatistics(stats),
	}
	if formatFlag != "" {
		opts = append(opts, timing.WithFormatString(formatFlag))
	}
	return timing.New(opts...)
}
