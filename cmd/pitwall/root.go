package main

import (
	"fmt"
	"os"

	"github.com/pitwall-ai/pitwall/internal/config"
	"github.com/pitwall-ai/pitwall/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pitwall",
	Short: "Pitwall F1 assistant",
	Long:  `Pitwall answers Formula 1 questions about circuits and sporting regulations.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Server.LogLevel)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pitwall/config.yaml)")
	rootCmd.PersistentFlags().String("server.log_level", config.DefaultServerLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("models.default", config.DefaultModelDefault, "default chat model")
	rootCmd.PersistentFlags().Int("agent.max_iterations", config.DefaultAgentMaxIterations, "tool-calling iteration ceiling")
}
