package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pitwall-ai/pitwall/internal/config"
	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
	"github.com/pitwall-ai/pitwall/internal/logger"
	"github.com/pitwall-ai/pitwall/internal/model"
	"github.com/pitwall-ai/pitwall/internal/model/contract"
	"github.com/pitwall-ai/pitwall/internal/tool"

	"github.com/oklog/ulid/v2"
)

const (
	minIterations = 2
	maxIterations = 5
)

// Engine runs the tool-calling loop: model call, tool dispatch, feedback,
// until the model answers or the iteration ceiling forces termination.
type Engine struct {
	cfg    config.AgentConfig
	model  string
	router model.Router
	runner *tool.Runner
}

func NewEngine(cfg config.AgentConfig, modelName string, router model.Router, runner *tool.Runner) *Engine {
	return &Engine{
		cfg:    cfg,
		model:  modelName,
		router: router,
		runner: runner,
	}
}

func (e *Engine) iterationLimit() int {
	limit := e.cfg.MaxIterations
	if limit == 0 {
		return config.DefaultAgentMaxIterations
	}
	if limit < minIterations {
		return minIterations
	}
	if limit > maxIterations {
		return maxIterations
	}
	return limit
}

// Run answers one user query. History carries prior user and assistant turns
// for the session; the conversation state built here is never shared.
// Transport failures terminate the run with an error-kind response rather
// than an error return.
func (e *Engine) Run(ctx context.Context, query string, history []contract.Message) (*FinalResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pitwallErrors.InvalidInput("query is empty")
	}

	queryID := ulid.Make().String()
	ctx = logger.WithQueryID(ctx, queryID)
	start := time.Now()

	messages := make([]contract.Message, 0, len(history)+2)
	messages = append(messages, contract.Message{Role: "system", Content: e.cfg.SystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, contract.Message{Role: "user", Content: query})

	descriptors := e.runner.GetDescriptors()
	toolDefs := make([]contract.ToolDef, 0, len(descriptors))
	for _, d := range descriptors {
		toolDefs = append(toolDefs, d.Definition)
	}

	limit := e.iterationLimit()
	var executed []ToolResult

	iterations := 0
	for iterations < limit {
		iterations++
		slog.Debug("Orchestration iteration", "iteration", iterations, "query_id", queryID)

		resp, err := e.router.Route(ctx, e.model, contract.CompletionRequest{
			Messages:          messages,
			Tools:             toolDefs,
			Temperature:       e.cfg.Temperature,
			TopP:              e.cfg.TopP,
			MaxTokens:         e.cfg.MaxTokens,
			ParallelToolCalls: true,
		})
		if err != nil {
			slog.Error("Model call failed", "iteration", iterations, "error", err, "query_id", queryID)
			return e.synthesizeError(err, iterations, start), nil
		}

		if len(resp.ToolCalls) == 0 {
			slog.Info("Run answered", "iterations", iterations, "tools_executed", len(executed), "query_id", queryID)
			return e.synthesize(resp.Content, executed, iterations, start, TerminationNatural), nil
		}

		messages = append(messages, contract.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		results := e.dispatch(ctx, resp.ToolCalls)
		for _, result := range results {
			executed = append(executed, result)
			messages = append(messages, contract.Message{
				Role:       "tool",
				Content:    result.conversationText(),
				Name:       result.Tool,
				ToolCallID: result.CallID,
			})
		}
	}

	slog.Warn("Iteration ceiling reached, forcing termination",
		"iterations", iterations, "tools_executed", len(executed), "query_id", queryID)
	return e.forceTermination(ctx, messages, executed, iterations, start), nil
}

// forceTermination makes one final model call with tools disabled so the
// model composes an answer from the results already gathered. If even that
// call fails, a canned summary of the gathered results stands in.
func (e *Engine) forceTermination(ctx context.Context, messages []contract.Message, executed []ToolResult, iterations int, start time.Time) *FinalResponse {
	messages = append(messages, contract.Message{Role: "user", Content: e.cfg.ForceAnswerPrompt})

	resp, err := e.router.Route(ctx, e.model, contract.CompletionRequest{
		Messages:     messages,
		Temperature:  e.cfg.Temperature,
		TopP:         e.cfg.TopP,
		MaxTokens:    e.cfg.MaxTokens,
		DisableTools: true,
	})
	if err != nil {
		slog.Error("Forced termination model call failed", "error", err)
		return e.synthesize(summarizeResults(executed), executed, iterations, start, TerminationForced)
	}

	return e.synthesize(resp.Content, executed, iterations, start, TerminationForced)
}
