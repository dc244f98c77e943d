package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pitwall-ai/pitwall/internal/model/contract"
	"github.com/pitwall-ai/pitwall/internal/orchestrator"

	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		components, err := buildRuntime(ctx, cfg)
		if err != nil {
			return err
		}

		repl := newREPL(components.Engine)
		return repl.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type repl struct {
	engine  *orchestrator.Engine
	reader  *bufio.Reader
	history []contract.Message
}

func newREPL(engine *orchestrator.Engine) *repl {
	return &repl{
		engine: engine,
		reader: bufio.NewReader(os.Stdin),
	}
}

func (r *repl) Start(ctx context.Context) error {
	fmt.Println("Pitwall interactive session")
	fmt.Println("Type '/exit' to quit, '/reset' to clear the conversation.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Print("> ")
		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case "/exit":
			return nil
		case "/reset":
			r.history = nil
			fmt.Println("Conversation cleared.")
			continue
		}

		resp, err := r.engine.Run(ctx, input, r.history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(resp.Content)
		if len(resp.ToolsUsed) > 0 {
			fmt.Printf("[tools: %s | iterations: %d]\n",
				strings.Join(resp.ToolsUsed, ", "), resp.Metadata.IterationCount)
		}

		// History holds user and assistant turns only; tool traffic stays
		// inside the run that produced it.
		r.history = append(r.history,
			contract.Message{Role: "user", Content: input},
			contract.Message{Role: "assistant", Content: resp.Content},
		)
	}
}
