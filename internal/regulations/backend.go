package regulations

import (
	"context"
	"fmt"

	"github.com/pitwall-ai/pitwall/internal/config"
	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
	"github.com/pitwall-ai/pitwall/internal/model"
)

// New selects the configured regulations backend. The remote
// retrieve-and-generate client is the default; the local backend embeds
// documents on startup and needs the model router for embeddings and
// generation.
func New(ctx context.Context, cfg config.RegulationsConfig, models config.ModelsConfig, router model.Router) (Answerer, error) {
	switch cfg.Backend {
	case "", "remote":
		return NewClient(cfg), nil
	case "local":
		return NewLocalKnowledgeBase(ctx, cfg, models, router)
	default:
		return nil, pitwallErrors.InvalidInput(fmt.Sprintf("unknown regulations backend %q", cfg.Backend))
	}
}
