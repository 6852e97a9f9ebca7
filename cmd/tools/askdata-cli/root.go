// cmd/tools/askdata-cli/root.go
package main

import (
	"github.com/spf13/cobra"

	"askdata/internal/common/config"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "askdata-cli",
		Short:         "Ask questions about the clients table from the terminal",
		Long:          `askdata-cli runs the same translate, execute and feedback pipeline as the web UI, one question per invocation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: configs/config.yaml)")
	root.AddCommand(newAskCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}
