package model

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/pitwall-ai/pitwall/internal/config"
	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
	"github.com/pitwall-ai/pitwall/internal/logger"
	"github.com/pitwall-ai/pitwall/internal/model/contract"
	anthropicProvider "github.com/pitwall-ai/pitwall/internal/model/providers/anthropic"
	geminiProvider "github.com/pitwall-ai/pitwall/internal/model/providers/gemini"
	openaiProvider "github.com/pitwall-ai/pitwall/internal/model/providers/openai"
)

// DefaultRouter resolves configured model names to providers and applies a
// bounded fallback to the configured fallback model on transport failure.
// Model-call retries live here, never in the orchestration loop.
type DefaultRouter struct {
	cfg       config.ModelsConfig
	mapper    pitwallErrors.ErrorMapper
	providers map[string]Provider
	mu        sync.RWMutex
}

func NewRouter(cfg config.ModelsConfig) (*DefaultRouter, error) {
	router := &DefaultRouter{
		cfg:       cfg,
		mapper:    pitwallErrors.NewDefaultErrorMapper(),
		providers: make(map[string]Provider),
	}

	if err := router.initProviders(); err != nil {
		return nil, err
	}

	return router, nil
}

func (r *DefaultRouter) initProviders() error {
	for _, m := range r.cfg.Registry {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(m.Provider)) {
		case "openai":
			r.providers[name] = openaiProvider.New(m.APIKey, m.BaseURL, name)
		case "anthropic":
			r.providers[name] = anthropicProvider.New(m.APIKey)
		case "gemini":
			provider, err := geminiProvider.New(m.APIKey)
			if err != nil {
				slog.Warn("Skipping gemini model, client init failed", "model", name, "error", err)
				continue
			}
			r.providers[name] = provider
		default:
			slog.Warn("Unknown provider type, skipping model", "model", name, "provider", m.Provider)
		}
	}

	if len(r.providers) == 0 {
		return fmt.Errorf("no usable model providers configured")
	}

	return nil
}

func (r *DefaultRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	traceID := logger.GetTraceID(ctx)
	slog.Debug("Routing completion request", "model", model, "trace_id", traceID)

	var lastErr error
	for attempt, tryModel := range r.tryOrder(model) {
		select {
		case <-ctx.Done():
			return nil, pitwallErrors.Wrap(ctx.Err(), "completion request cancelled")
		default:
		}

		r.mu.RLock()
		provider, exists := r.providers[tryModel]
		r.mu.RUnlock()
		if !exists {
			continue
		}

		req.Model = tryModel
		resp, err := provider.Generate(ctx, req)
		if err == nil {
			slog.Debug("Completion succeeded", "model", tryModel, "attempt", attempt+1, "trace_id", traceID)
			return resp, nil
		}

		lastErr = r.mapper.MapError(err)
		slog.Warn("Completion failed", "model", tryModel, "attempt", attempt+1, "error", err, "trace_id", traceID)

		if pitwallErrors.IsCategory(lastErr, pitwallErrors.ErrInvalidInput) {
			return nil, lastErr
		}
	}

	if lastErr != nil {
		return nil, pitwallErrors.Wrap(lastErr, "all completion attempts failed")
	}
	return nil, pitwallErrors.NotFound(fmt.Sprintf("model %q is not configured", model))
}

func (r *DefaultRouter) RouteEmbedding(ctx context.Context, model string, text string) ([]float32, error) {
	r.mu.RLock()
	provider, exists := r.providers[model]
	r.mu.RUnlock()

	if !exists {
		// Fall back to any provider that can embed.
		for _, name := range r.ListModels() {
			r.mu.RLock()
			candidate := r.providers[name]
			r.mu.RUnlock()
			if embeddings, err := candidate.Embed(ctx, text); err == nil {
				return embeddings, nil
			}
		}
		return nil, pitwallErrors.NotFound("no embedding-capable model configured")
	}

	embeddings, err := provider.Embed(ctx, text)
	if err != nil {
		return nil, pitwallErrors.Wrap(r.mapper.MapError(err), "embedding failed")
	}
	return embeddings, nil
}

func (r *DefaultRouter) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tryOrder yields the requested model followed by the configured fallback,
// bounded by max_fallback_attempts.
func (r *DefaultRouter) tryOrder(requested string) []string {
	seen := make(map[string]struct{}, 2)
	order := make([]string, 0, 2)

	appendUnique := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}

	appendUnique(requested)
	appendUnique(r.cfg.Default)
	appendUnique(r.cfg.Fallback)

	limit := r.cfg.MaxFallbackAttempts
	if limit <= 0 {
		limit = 1
	}
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
