package regulations

import (
	"testing"

	"github.com/pitwall-ai/pitwall/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestClassifyShape(t *testing.T) {
	cases := map[string]Shape{
		"How many points for a sprint win?": ShapeFactual,
		"what is the pit lane speed limit":  ShapeFactual,
		"Rules for 2024 parc ferme":         ShapeFactual,
		"short question":                    ShapeFactual,
		"Explain the reasoning behind the safety car restart procedure and how stewards apply penalties during wet races at street circuits": ShapeExplanatory,
	}

	for input, want := range cases {
		assert.Equal(t, want, ClassifyShape(input, config.DefaultRegulationsFactualMaxWords), "input %q", input)
	}
}

func TestSettingsFor(t *testing.T) {
	cfg := config.RegulationsConfig{
		MaxTokens:       1500,
		FactualMaxWords: config.DefaultRegulationsFactualMaxWords,
		Factual: config.RetrievalParams{
			NumChunks:   config.DefaultFactualNumChunks,
			Temperature: config.DefaultFactualTemperature,
			SearchMode:  config.DefaultFactualSearchMode,
		},
		Explanatory: config.RetrievalParams{
			NumChunks:   config.DefaultExplanatoryNumChunks,
			Temperature: config.DefaultExplanatoryTemperature,
			SearchMode:  config.DefaultExplanatorySearchMode,
		},
	}

	factual := SettingsFor(cfg, "How many points for fastest lap?")
	assert.Equal(t, ShapeFactual, factual.Shape)
	assert.Equal(t, config.DefaultFactualNumChunks, factual.NumChunks)
	assert.Equal(t, "SEMANTIC", factual.SearchMode)

	explanatory := SettingsFor(cfg, "Explain the procedure stewards follow before deciding to order a rolling restart behind the safety car")
	assert.Equal(t, ShapeExplanatory, explanatory.Shape)
	assert.Equal(t, config.DefaultExplanatoryNumChunks, explanatory.NumChunks)
	assert.Equal(t, "HYBRID", explanatory.SearchMode)
}

func TestSettingsFor_ZeroConfigFallsBack(t *testing.T) {
	settings := SettingsFor(config.RegulationsConfig{}, "Describe completely the entire governance framework that the federation uses to amend sporting regulations between seasons")

	assert.Equal(t, ShapeExplanatory, settings.Shape)
	assert.Equal(t, config.DefaultExplanatoryNumChunks, settings.NumChunks)
	assert.Equal(t, config.DefaultExplanatorySearchMode, settings.SearchMode)
	assert.Equal(t, config.DefaultRegulationsMaxTokens, settings.MaxTokens)
}
