package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
	"github.com/pitwall-ai/pitwall/internal/logger"
)

type Runner struct {
	registry *Registry
}

func NewRunner(registry *Registry) *Runner {
	return &Runner{
		registry: registry,
	}
}

func (r *Runner) GetDescriptors() []ToolDescriptor {
	if r == nil || r.registry == nil {
		return nil
	}
	return r.registry.GetDescriptors()
}

// Execute handles the full lifecycle: Resolve Tool -> Validate Input -> Run Tool.
// A name the registry does not know is a not-found error; the caller turns
// it into an error result rather than aborting the turn.
func (r *Runner) Execute(ctx context.Context, toolName string, input json.RawMessage) (json.RawMessage, error) {
	t, ok := r.registry.Get(toolName)
	if !ok {
		return nil, pitwallErrors.NotFound(fmt.Sprintf("unknown tool: %s", NormalizeToolName(toolName)))
	}
	resolvedToolName := NormalizeToolName(t.Name())

	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	if err := ValidateInput(t.Parameters(), input); err != nil {
		slog.Warn("Tool input validation failed", "tool", resolvedToolName, "error", err)
		return nil, fmt.Errorf("invalid input for %s: %w", resolvedToolName, pitwallErrors.ErrInvalidInput)
	}

	start := time.Now()
	traceID := logger.GetTraceID(ctx)
	slog.Info("Executing tool", "tool", resolvedToolName, "trace_id", traceID)

	result, err := t.Execute(ctx, input)

	duration := time.Since(start)
	if err != nil {
		slog.Error("Tool execution failed", "tool", resolvedToolName, "error", err, "duration", duration, "trace_id", traceID)
		return nil, pitwallErrors.Wrap(err, fmt.Sprintf("tool %s", resolvedToolName))
	}

	slog.Info("Tool execution success", "tool", resolvedToolName, "duration", duration, "trace_id", traceID)
	return result, nil
}
