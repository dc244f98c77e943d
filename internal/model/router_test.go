package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pitwall-ai/pitwall/internal/config"
	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
	"github.com/pitwall-ai/pitwall/internal/model/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      string
	content   string
	embedding []float32
	err       error
	calls     int
}

func (p *fakeProvider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &contract.CompletionResponse{Content: p.content}, nil
}

func (p *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.embedding, nil
}

func (p *fakeProvider) Name() string { return p.name }

func newFakeRouter(cfg config.ModelsConfig, providers map[string]Provider) *DefaultRouter {
	return &DefaultRouter{
		cfg:       cfg,
		mapper:    pitwallErrors.NewDefaultErrorMapper(),
		providers: providers,
	}
}

func TestRoute_PrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "openai", content: "answer"}
	router := newFakeRouter(
		config.ModelsConfig{Default: "gpt-4o-mini", Fallback: "claude", MaxFallbackAttempts: 2},
		map[string]Provider{"gpt-4o-mini": primary},
	)

	resp, err := router.Route(context.Background(), "gpt-4o-mini", contract.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Content)
	assert.Equal(t, 1, primary.calls)
}

func TestRoute_FallsBackOnTransportFailure(t *testing.T) {
	primary := &fakeProvider{name: "openai", err: fmt.Errorf("connection refused")}
	fallback := &fakeProvider{name: "anthropic", content: "fallback answer"}
	router := newFakeRouter(
		config.ModelsConfig{Default: "gpt-4o-mini", Fallback: "claude", MaxFallbackAttempts: 2},
		map[string]Provider{"gpt-4o-mini": primary, "claude": fallback},
	)

	resp, err := router.Route(context.Background(), "gpt-4o-mini", contract.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", resp.Content)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestRoute_InvalidInputStopsFallback(t *testing.T) {
	primary := &fakeProvider{name: "openai", err: fmt.Errorf("bad request: malformed tool schema")}
	fallback := &fakeProvider{name: "anthropic", content: "should not be reached"}
	router := newFakeRouter(
		config.ModelsConfig{Default: "gpt-4o-mini", Fallback: "claude", MaxFallbackAttempts: 2},
		map[string]Provider{"gpt-4o-mini": primary, "claude": fallback},
	)

	_, err := router.Route(context.Background(), "gpt-4o-mini", contract.CompletionRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrInvalidInput))
	assert.Equal(t, 0, fallback.calls)
}

func TestRoute_AllAttemptsFail(t *testing.T) {
	router := newFakeRouter(
		config.ModelsConfig{Default: "gpt-4o-mini", Fallback: "claude", MaxFallbackAttempts: 2},
		map[string]Provider{
			"gpt-4o-mini": &fakeProvider{name: "openai", err: fmt.Errorf("connection refused")},
			"claude":      &fakeProvider{name: "anthropic", err: fmt.Errorf("connection refused")},
		},
	)

	_, err := router.Route(context.Background(), "gpt-4o-mini", contract.CompletionRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrUnavailable))
}

func TestRoute_UnknownModel(t *testing.T) {
	router := newFakeRouter(config.ModelsConfig{MaxFallbackAttempts: 2}, map[string]Provider{})

	_, err := router.Route(context.Background(), "mystery-model", contract.CompletionRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrNotFound))
}

func TestTryOrder(t *testing.T) {
	router := newFakeRouter(
		config.ModelsConfig{Default: "gpt-4o-mini", Fallback: "claude", MaxFallbackAttempts: 2},
		nil,
	)

	assert.Equal(t, []string{"gemini", "gpt-4o-mini"}, router.tryOrder("gemini"))
	assert.Equal(t, []string{"gpt-4o-mini", "claude"}, router.tryOrder("gpt-4o-mini"))
	assert.Equal(t, []string{"gpt-4o-mini", "claude"}, router.tryOrder(""))
}

func TestRouteEmbedding(t *testing.T) {
	router := newFakeRouter(
		config.ModelsConfig{},
		map[string]Provider{
			"text-embedding-3-small": &fakeProvider{name: "openai", embedding: []float32{0.1, 0.2}},
		},
	)

	vec, err := router.RouteEmbedding(context.Background(), "text-embedding-3-small", "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
}
