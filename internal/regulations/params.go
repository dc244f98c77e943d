package regulations

import (
	"strings"
	"unicode"

	"github.com/pitwall-ai/pitwall/internal/config"
)

type Shape string

const (
	ShapeFactual     Shape = "factual"
	ShapeExplanatory Shape = "explanatory"
)

// Settings are the retrieval and generation parameters chosen for one query.
type Settings struct {
	Shape       Shape   `json:"shape"`
	NumChunks   int     `json:"num_chunks"`
	Temperature float32 `json:"temperature"`
	SearchMode  string  `json:"search_mode"`
	MaxTokens   int     `json:"max_tokens"`
}

// Cues that mark a question as a short factual lookup rather than an
// explanation request. Tunable policy, not contract.
var factualCues = []string{
	"how many",
	"how much",
	"what is",
	"what's",
	"which",
	"when is",
	"when does",
}

// ClassifyShape tags a question as factual or explanatory. Factual questions
// are short or carry a lookup cue or a numeric reference; everything else is
// treated as explanatory.
func ClassifyShape(question string, factualMaxWords int) Shape {
	if factualMaxWords <= 0 {
		factualMaxWords = config.DefaultRegulationsFactualMaxWords
	}

	lowered := strings.ToLower(strings.TrimSpace(question))
	if lowered == "" {
		return ShapeFactual
	}

	for _, cue := range factualCues {
		if strings.Contains(lowered, cue) {
			return ShapeFactual
		}
	}

	for _, r := range lowered {
		if unicode.IsDigit(r) {
			return ShapeFactual
		}
	}

	if len(strings.Fields(lowered)) <= factualMaxWords {
		return ShapeFactual
	}

	return ShapeExplanatory
}

// SettingsFor picks retrieval parameters for a question based on its shape.
func SettingsFor(cfg config.RegulationsConfig, question string) Settings {
	shape := ClassifyShape(question, cfg.FactualMaxWords)

	params := cfg.Explanatory
	if shape == ShapeFactual {
		params = cfg.Factual
	}

	settings := Settings{
		Shape:       shape,
		NumChunks:   params.NumChunks,
		Temperature: params.Temperature,
		SearchMode:  params.SearchMode,
		MaxTokens:   cfg.MaxTokens,
	}

	if settings.NumChunks <= 0 {
		settings.NumChunks = config.DefaultExplanatoryNumChunks
	}
	if settings.SearchMode == "" {
		settings.SearchMode = config.DefaultExplanatorySearchMode
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = config.DefaultRegulationsMaxTokens
	}

	return settings
}
