package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pitwall-ai/pitwall/internal/circuit"
	"github.com/pitwall-ai/pitwall/internal/config"
	"github.com/pitwall-ai/pitwall/internal/model"
	"github.com/pitwall-ai/pitwall/internal/orchestrator"
	"github.com/pitwall-ai/pitwall/internal/regulations"
	"github.com/pitwall-ai/pitwall/internal/tool"
	_ "github.com/pitwall-ai/pitwall/internal/tool/builtin"
)

type runtimeComponents struct {
	Config *config.Config
	Engine *orchestrator.Engine
}

func buildRuntime(ctx context.Context, cfg *config.Config) (*runtimeComponents, error) {
	router, err := model.NewRouter(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("initialize model router: %w", err)
	}

	catalog := circuit.NewCatalog()
	if cfg.Circuits.CatalogPath != "" {
		if err := catalog.LoadOverrides(cfg.Circuits.CatalogPath); err != nil {
			slog.Warn("Circuit alias overrides not loaded", "path", cfg.Circuits.CatalogPath, "error", err)
		}
	}
	store := circuit.NewStore(cfg.Circuits.MapsDir, catalog)

	answerer, err := regulations.New(ctx, cfg.Regulations, cfg.Models, router)
	if err != nil {
		return nil, fmt.Errorf("initialize regulations backend: %w", err)
	}

	tools, err := tool.InstantiateBuiltins(tool.BuiltinOptions{
		CircuitStore: store,
		Regulations:  answerer,
	})
	if err != nil {
		return nil, err
	}

	registry := tool.NewRegistry()
	for _, t := range tools {
		registry.Register(t)
	}

	engine := orchestrator.NewEngine(cfg.Agent, cfg.Models.Default, router, tool.NewRunner(registry))

	return &runtimeComponents{
		Config: cfg,
		Engine: engine,
	}, nil
}
