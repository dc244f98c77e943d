package orchestrator

import (
	"encoding/json"
	"time"
)

// ResultKind classifies a single tool result.
type ResultKind string

const (
	ResultKindText  ResultKind = "text"
	ResultKindImage ResultKind = "image"
	ResultKindError ResultKind = "error"
)

// ToolResult is one tool invocation outcome, positioned by the original call.
type ToolResult struct {
	CallID  string          `json:"call_id"`
	Tool    string          `json:"tool"`
	Kind    ResultKind      `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ResponseKind classifies how a run terminated.
type ResponseKind string

const (
	// ResponseKindAnswer means the model produced a final answer on its own.
	ResponseKindAnswer ResponseKind = "answer"
	// ResponseKindPartial means the iteration ceiling forced termination and
	// the answer was composed from whatever was gathered.
	ResponseKindPartial ResponseKind = "partial"
	// ResponseKindError means the model transport failed and no answer exists.
	ResponseKindError ResponseKind = "error"
)

const (
	TerminationNatural = "natural"
	TerminationForced  = "forced"
)

// Metadata describes how a run went.
type Metadata struct {
	IterationCount int           `json:"iteration_count"`
	ElapsedTime    time.Duration `json:"elapsed_time"`
	Model          string        `json:"model"`
	Termination    string        `json:"termination"`
}

// FinalResponse is the synthesized result of one orchestration run.
type FinalResponse struct {
	Content     string                `json:"content"`
	Kind        ResponseKind          `json:"kind"`
	ToolsUsed   []string              `json:"tools_used"`
	ToolResults map[string]ToolResult `json:"tool_results"`
	Metadata    Metadata              `json:"metadata"`
}
