package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pitwall-ai/pitwall/internal/model/contract"
	"github.com/pitwall-ai/pitwall/internal/tool"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// dispatch executes all tool calls of one turn in parallel and reassembles
// the results in the original call order. Result count always equals call
// count; a failing tool yields an error-kind result, never a missing slot.
func (e *Engine) dispatch(ctx context.Context, calls []*contract.ToolCall) []ToolResult {
	results := make([]ToolResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = e.executeCall(gctx, call)
			return nil
		})
	}
	g.Wait()

	return results
}

func (e *Engine) executeCall(ctx context.Context, call *contract.ToolCall) ToolResult {
	callID := call.ID
	if callID == "" {
		callID = "call_" + ulid.Make().String()
	}
	name := tool.NormalizeToolName(call.Name)

	payload, err := e.runner.Execute(ctx, call.Name, json.RawMessage(call.Input))
	if err != nil {
		return ToolResult{
			CallID: callID,
			Tool:   name,
			Kind:   ResultKindError,
			Error:  err.Error(),
		}
	}

	kind, errMsg := classifyPayload(payload)
	result := ToolResult{
		CallID:  callID,
		Tool:    name,
		Kind:    kind,
		Payload: payload,
	}
	if kind == ResultKindError {
		result.Error = errMsg
	}
	return result
}

// classifyPayload maps a tool payload to its result kind. Tools report
// recoverable failures as structured payloads with an error status; those
// become error-kind results with the payload kept intact so the model can
// still read the details (for circuit lookups, the valid-name list).
func classifyPayload(payload json.RawMessage) (ResultKind, string) {
	var envelope struct {
		Status    string `json:"status"`
		Error     string `json:"error"`
		ImagePath string `json:"image_path"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return ResultKindText, ""
	}

	switch envelope.Status {
	case "not_found", "missing_image", "error":
		return ResultKindError, envelope.Error
	}
	if envelope.ImagePath != "" {
		return ResultKindImage, ""
	}
	return ResultKindText, ""
}

// conversationText renders a result as the tool message fed back to the model.
func (r ToolResult) conversationText() string {
	if r.Kind == ResultKindError && len(r.Payload) == 0 {
		encoded, err := json.Marshal(map[string]string{"status": "error", "error": r.Error})
		if err != nil {
			return fmt.Sprintf(`{"status":"error","error":%q}`, r.Error)
		}
		return string(encoded)
	}
	return string(r.Payload)
}
