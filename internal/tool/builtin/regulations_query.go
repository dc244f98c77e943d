package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pitwall-ai/pitwall/internal/regulations"
	toolcore "github.com/pitwall-ai/pitwall/internal/tool"
)

type regulationsQueryInput struct {
	Question string `json:"question"`
}

func init() {
	toolcore.RegisterBuiltin("regulations_query", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		if options.Regulations == nil {
			return nil, fmt.Errorf("regulations_query requires a regulations backend")
		}
		return &RegulationsQueryTool{Answerer: options.Regulations}, nil
	})
}

// RegulationsQueryTool answers questions about the F1 sporting regulations
// through the configured knowledge base backend.
type RegulationsQueryTool struct {
	Answerer regulations.Answerer
}

func (t *RegulationsQueryTool) Name() string { return "regulations_query" }

func (t *RegulationsQueryTool) Description() string {
	return "Answer questions about Formula 1 sporting regulations: points, penalties, " +
		"procedures, and race rules. Grounded in the official regulation documents."
}

func (t *RegulationsQueryTool) ToolMetadata() toolcore.ToolMetadata {
	return toolcore.ToolMetadata{
		Source: "builtin",
		Capabilities: []string{
			"regulations.lookup",
			"rag.generate",
		},
	}
}

func (t *RegulationsQueryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"question": map[string]interface{}{
				"type":        "string",
				"description": "The regulations question, phrased as a complete sentence",
			},
		},
		"required": []string{"question"},
	}
}

func (t *RegulationsQueryTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args regulationsQueryInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	answer, err := t.Answerer.Answer(ctx, args.Question)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]interface{}{
		"status":    "success",
		"answer":    answer.Text,
		"citations": answer.Citations,
		"metadata": map[string]interface{}{
			"attempts":   answer.Attempts,
			"latency_ms": answer.Latency.Milliseconds(),
			"shape":      answer.Settings.Shape,
		},
	})
}
