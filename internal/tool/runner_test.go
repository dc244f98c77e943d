package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	params map[string]interface{}
	result json.RawMessage
	err    error
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub" }

func (t *stubTool) Parameters() map[string]interface{} {
	if t.params != nil {
		return t.params
	}
	return map[string]interface{}{"type": "object"}
}

func (t *stubTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return t.result, t.err
}

func TestRunnerExecute(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "echo", result: json.RawMessage(`{"ok":true}`)})
	runner := NewRunner(registry)

	result, err := runner.Execute(context.Background(), "echo", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(result))
}

func TestRunnerExecute_UnknownTool(t *testing.T) {
	runner := NewRunner(NewRegistry())

	_, err := runner.Execute(context.Background(), "telemetry_feed", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrNotFound))
	assert.Contains(t, err.Error(), "telemetry_feed")
}

func TestRunnerExecute_InvalidInput(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{
		name: "lookup",
		params: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{"type": "string"},
			},
			"required": []string{"location"},
		},
	})
	runner := NewRunner(registry)

	_, err := runner.Execute(context.Background(), "lookup", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrInvalidInput))

	_, err = runner.Execute(context.Background(), "lookup", json.RawMessage(`{"location":42}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrInvalidInput))
}

func TestRunnerExecute_ToolFailure(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "flaky", err: fmt.Errorf("backend exploded")})
	runner := NewRunner(registry)

	_, err := runner.Execute(context.Background(), "flaky", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flaky")
}

func TestRegistryDescriptors(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "zeta"})
	registry.Register(&stubTool{name: "alpha"})

	descriptors := registry.GetDescriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, "alpha", descriptors[0].Definition.Name)
	assert.Equal(t, "zeta", descriptors[1].Definition.Name)
}
