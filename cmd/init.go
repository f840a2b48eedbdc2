package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/city-intake/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an intake configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the conversation store, the LLM provider, the port and the report webhook, then writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		if key := config.APIKeyEnvVar(cfg.LLM.Provider); key != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Remember to export %s before starting the server.\n", key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
