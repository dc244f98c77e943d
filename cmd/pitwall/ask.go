package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		components, err := buildRuntime(ctx, cfg)
		if err != nil {
			return err
		}

		resp, err := components.Engine.Run(ctx, strings.Join(args, " "), nil)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(resp)
		}

		fmt.Println(resp.Content)
		if len(resp.ToolsUsed) > 0 {
			fmt.Printf("\n[tools: %s | iterations: %d | model: %s]\n",
				strings.Join(resp.ToolsUsed, ", "),
				resp.Metadata.IterationCount,
				resp.Metadata.Model)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().Bool("json", false, "print the full response as JSON")
}
