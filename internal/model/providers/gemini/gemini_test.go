package gemini

import (
	"strings"
	"testing"

	"github.com/pitwall-ai/pitwall/internal/model/contract"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestCallID_KeepsUpstreamID(t *testing.T) {
	fc := &genai.FunctionCall{ID: "call_abc123", Name: "circuit_image"}

	assert.Equal(t, "call_abc123", callID(fc))
}

func TestCallID_SynthesizesUniqueIDs(t *testing.T) {
	first := &genai.FunctionCall{Name: "circuit_image"}
	second := &genai.FunctionCall{Name: "circuit_image"}

	a := callID(first)
	b := callID(second)

	assert.True(t, strings.HasPrefix(a, "call_"))
	assert.True(t, strings.HasPrefix(b, "call_"))
	assert.NotEqual(t, a, b, "two calls to the same function must not share an id")
}

func TestFunctionResponseName(t *testing.T) {
	named := contract.Message{Role: "tool", Name: "regulations_query", ToolCallID: "call_xyz"}
	assert.Equal(t, "regulations_query", functionResponseName(named))

	unnamed := contract.Message{Role: "tool", ToolCallID: "call_xyz"}
	assert.Equal(t, "call_xyz", functionResponseName(unnamed))
}
