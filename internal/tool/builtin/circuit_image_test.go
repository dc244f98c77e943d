package builtin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pitwall-ai/pitwall/internal/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, images ...string) *circuit.Store {
	t.Helper()
	dir := t.TempDir()
	for _, name := range images {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+"_circuit.png"), []byte("png"), 0o644))
	}
	return circuit.NewStore(dir, circuit.NewCatalog())
}

func TestCircuitImageTool(t *testing.T) {
	tool := &CircuitImageTool{Store: newTestStore(t, "Monaco")}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"location":"monaco"}`))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "Monaco", payload["location"])
	assert.Contains(t, payload["image_path"], "Monaco_circuit.png")
}

func TestCircuitImageTool_UnknownLocation(t *testing.T) {
	tool := &CircuitImageTool{Store: newTestStore(t)}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"location":"Nordschleife"}`))
	require.NoError(t, err)

	var payload struct {
		Status         string   `json:"status"`
		Error          string   `json:"error"`
		ValidLocations []string `json:"valid_locations"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "not_found", payload.Status)
	assert.Contains(t, payload.Error, "Nordschleife")
	assert.Len(t, payload.ValidLocations, 24)
}

func TestCircuitImageTool_MissingImage(t *testing.T) {
	tool := &CircuitImageTool{Store: newTestStore(t)}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"location":"monza"}`))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "missing_image", payload["status"])
	assert.Equal(t, "Italy", payload["location"])
}
