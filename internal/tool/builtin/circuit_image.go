package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pitwall-ai/pitwall/internal/circuit"
	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
	toolcore "github.com/pitwall-ai/pitwall/internal/tool"
)

type circuitImageInput struct {
	Location string `json:"location"`
}

func init() {
	toolcore.RegisterBuiltin("circuit_image", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		if options.CircuitStore == nil {
			return nil, fmt.Errorf("circuit_image requires a circuit store")
		}
		return &CircuitImageTool{Store: options.CircuitStore}, nil
	})
}

// CircuitImageTool resolves a free-text circuit name to a track layout image.
type CircuitImageTool struct {
	Store *circuit.Store
}

func (t *CircuitImageTool) Name() string { return "circuit_image" }

func (t *CircuitImageTool) Description() string {
	return "Fetch the track layout image for a Formula 1 circuit. " +
		"Accepts circuit names, countries, or common nicknames like monza or cota."
}

func (t *CircuitImageTool) ToolMetadata() toolcore.ToolMetadata {
	return toolcore.ToolMetadata{
		Source: "builtin",
		Capabilities: []string{
			"circuit.lookup",
			"image.fetch",
		},
	}
}

func (t *CircuitImageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"location": map[string]interface{}{
				"type":        "string",
				"description": "Circuit name, country, or nickname (for example: monaco, silverstone, vegas)",
			},
		},
		"required": []string{"location"},
	}
}

// Execute returns a structured payload in every outcome. An unresolvable
// location and a missing image file both come back as data rather than
// errors so the model can recover and tell the user what went wrong.
func (t *CircuitImageTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args circuitImageInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	identifier, err := t.Store.Catalog().Resolve(args.Location)
	if err != nil {
		if errors.Is(err, pitwallErrors.ErrNotFound) {
			return json.Marshal(map[string]interface{}{
				"status":          "not_found",
				"error":           fmt.Sprintf("no circuit matched %q", args.Location),
				"valid_locations": t.Store.Catalog().Names(),
			})
		}
		return nil, err
	}

	image, err := t.Store.Lookup(identifier)
	if err != nil {
		if errors.Is(err, pitwallErrors.ErrNotFound) {
			return json.Marshal(map[string]interface{}{
				"status":   "missing_image",
				"location": identifier,
				"error":    fmt.Sprintf("circuit %s is known but its layout image is not available", identifier),
			})
		}
		return nil, err
	}

	return json.Marshal(map[string]interface{}{
		"status":     "success",
		"location":   image.Location,
		"image_path": image.Path,
	})
}
