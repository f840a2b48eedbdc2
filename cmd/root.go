package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/city-intake/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Conversational issue reporting for city departments",
	Long: `intake talks with citizens until it has a complete issue report: what
is wrong, how severe it is and where it is. Each report is routed to the
traffic, waste or green energy department, stored, and forwarded to the
configured webhook.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
