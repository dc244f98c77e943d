package orchestrator

import (
	"fmt"
	"strings"
	"time"
)

// synthesize builds the FinalResponse from the final text and every tool
// result gathered during the run. tools_used keeps first-call order with
// duplicates removed; tool_results keeps the last result per tool name.
func (e *Engine) synthesize(content string, executed []ToolResult, iterations int, start time.Time, termination string) *FinalResponse {
	toolsUsed := make([]string, 0, len(executed))
	seen := make(map[string]struct{}, len(executed))
	toolResults := make(map[string]ToolResult, len(executed))

	for _, result := range executed {
		if _, ok := seen[result.Tool]; !ok {
			seen[result.Tool] = struct{}{}
			toolsUsed = append(toolsUsed, result.Tool)
		}
		toolResults[result.Tool] = result
	}

	kind := ResponseKindAnswer
	if termination == TerminationForced {
		kind = ResponseKindPartial
	}

	return &FinalResponse{
		Content:     filterContent(content),
		Kind:        kind,
		ToolsUsed:   toolsUsed,
		ToolResults: toolResults,
		Metadata: Metadata{
			IterationCount: iterations,
			ElapsedTime:    time.Since(start),
			Model:          e.model,
			Termination:    termination,
		},
	}
}

// synthesizeError terminates a run that lost its model transport. An
// error-kind response carries no tool results; whatever was gathered before
// the failure is dropped.
func (e *Engine) synthesizeError(cause error, iterations int, start time.Time) *FinalResponse {
	resp := e.synthesize("", nil, iterations, start, TerminationNatural)
	resp.Kind = ResponseKindError
	resp.Content = fmt.Sprintf("The request could not be completed: %v", cause)
	return resp
}

// summarizeResults produces the fallback text used when the forced final
// model call itself fails.
func summarizeResults(executed []ToolResult) string {
	if len(executed) == 0 {
		return "I could not complete the request in time and no tool results were gathered."
	}

	var b strings.Builder
	b.WriteString("I could not compose a full answer in time. Here is what was gathered:\n")
	for _, result := range executed {
		if result.Kind == ResultKindError {
			fmt.Fprintf(&b, "- %s failed: %s\n", result.Tool, result.Error)
			continue
		}
		fmt.Fprintf(&b, "- %s returned a result.\n", result.Tool)
	}
	return strings.TrimRight(b.String(), "\n")
}
