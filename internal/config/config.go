package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pitwall-ai/pitwall/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Models      ModelsConfig      `koanf:"models"`
	Agent       AgentConfig       `koanf:"agent"`
	Circuits    CircuitsConfig    `koanf:"circuits"`
	Regulations RegulationsConfig `koanf:"regulations"`
}

type ServerConfig struct {
	LogLevel string `koanf:"log_level"`
}

type ModelsConfig struct {
	Default             string          `koanf:"default"`
	Fallback            string          `koanf:"fallback"`
	Embedding           string          `koanf:"embedding"`
	MaxFallbackAttempts int             `koanf:"max_fallback_attempts"`
	Registry            []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name     string `koanf:"name"`
	Provider string `koanf:"provider"`
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
}

type AgentConfig struct {
	MaxIterations     int     `koanf:"max_iterations"`
	Temperature       float32 `koanf:"temperature"`
	TopP              float32 `koanf:"top_p"`
	MaxTokens         int     `koanf:"max_tokens"`
	SystemPrompt      string  `koanf:"system_prompt"`
	ForceAnswerPrompt string  `koanf:"force_answer_prompt"`
}

type CircuitsConfig struct {
	MapsDir     string `koanf:"maps_dir"`
	CatalogPath string `koanf:"catalog_path"`
}

type RegulationsConfig struct {
	Backend          string             `koanf:"backend"`
	BaseURL          string             `koanf:"base_url"`
	KnowledgeBaseID  string             `koanf:"knowledge_base_id"`
	Model            string             `koanf:"model"`
	APIKey           string             `koanf:"api_key"`
	Timeout          string             `koanf:"timeout"`
	RetryMax         int                `koanf:"retry_max"`
	RetryBackoffBase string             `koanf:"retry_backoff_base"`
	RateLimitRPS     float64            `koanf:"rate_limit_rps"`
	MaxTokens        int                `koanf:"max_tokens"`
	FactualMaxWords  int                `koanf:"factual_max_words"`
	Factual          RetrievalParams    `koanf:"factual"`
	Explanatory      RetrievalParams    `koanf:"explanatory"`
	Local            LocalBackendConfig `koanf:"local"`
}

// RetrievalParams tunes the retrieve-and-generate call per query shape.
// Policy knobs, not a contract; see DESIGN.md.
type RetrievalParams struct {
	NumChunks   int     `koanf:"num_chunks"`
	Temperature float32 `koanf:"temperature"`
	SearchMode  string  `koanf:"search_mode"`
}

type LocalBackendConfig struct {
	DocumentsDir string `koanf:"documents_dir"`
	Collection   string `koanf:"collection"`
	TopK         int    `koanf:"top_k"`
}

const (
	DefaultServerLogLevel = "info"

	DefaultModelDefault             = "gpt-4o-mini"
	DefaultModelFallback            = "claude-3-7-sonnet-latest"
	DefaultModelEmbedding           = "text-embedding-3-small"
	DefaultModelMaxFallbackAttempts = 2

	DefaultAgentMaxIterations = 3
	DefaultAgentTemperature   = 0.2
	DefaultAgentTopP          = 0.9
	DefaultAgentMaxTokens     = 1500

	DefaultAgentSystemPrompt = "You are Pitwall, a Formula 1 information assistant. " +
		"You answer questions about F1 circuits and sporting regulations. " +
		"Use the circuit_image tool when the user wants to see a track layout and the " +
		"regulations_query tool for questions about rules, penalties, points, or procedures. " +
		"When a question needs both, call both tools in the same turn. " +
		"Answer directly without tools when neither applies."

	DefaultAgentForceAnswerPrompt = "Stop calling tools. Compose your final answer now " +
		"using only the tool results already gathered in this conversation."

	DefaultRegulationsBackend          = "remote"
	DefaultRegulationsBaseURL          = "https://bedrock-agent-runtime.us-east-1.amazonaws.com"
	DefaultRegulationsModel            = "anthropic.claude-3-haiku-20240307-v1:0"
	DefaultRegulationsTimeout          = "30s"
	DefaultRegulationsRetryMax         = 3
	DefaultRegulationsRetryBackoffBase = "1s"
	DefaultRegulationsRateLimitRPS     = 2.0
	DefaultRegulationsMaxTokens        = 1500
	DefaultRegulationsFactualMaxWords  = 12

	DefaultFactualNumChunks       = 3
	DefaultFactualTemperature     = 0.1
	DefaultFactualSearchMode      = "SEMANTIC"
	DefaultExplanatoryNumChunks   = 5
	DefaultExplanatoryTemperature = 0.3
	DefaultExplanatorySearchMode  = "HYBRID"

	DefaultLocalCollection = "f1-regulations"
	DefaultLocalTopK       = 5
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"server.log_level":             DefaultServerLogLevel,
		"models.default":               DefaultModelDefault,
		"models.fallback":              DefaultModelFallback,
		"models.embedding":             DefaultModelEmbedding,
		"models.max_fallback_attempts": DefaultModelMaxFallbackAttempts,
		"models.registry": []ModelRegistry{
			{Name: DefaultModelDefault, Provider: "openai"},
			{Name: DefaultModelFallback, Provider: "anthropic"},
			{Name: "gemini-2.0-flash", Provider: "gemini"},
		},
		"agent.max_iterations":                DefaultAgentMaxIterations,
		"agent.temperature":                   DefaultAgentTemperature,
		"agent.top_p":                         DefaultAgentTopP,
		"agent.max_tokens":                    DefaultAgentMaxTokens,
		"agent.system_prompt":                 DefaultAgentSystemPrompt,
		"agent.force_answer_prompt":           DefaultAgentForceAnswerPrompt,
		"circuits.maps_dir":                   filepath.Join(os.Getenv("HOME"), ".pitwall", "circuit_maps"),
		"circuits.catalog_path":               "",
		"regulations.backend":                 DefaultRegulationsBackend,
		"regulations.base_url":                DefaultRegulationsBaseURL,
		"regulations.model":                   DefaultRegulationsModel,
		"regulations.timeout":                 DefaultRegulationsTimeout,
		"regulations.retry_max":               DefaultRegulationsRetryMax,
		"regulations.retry_backoff_base":      DefaultRegulationsRetryBackoffBase,
		"regulations.rate_limit_rps":          DefaultRegulationsRateLimitRPS,
		"regulations.max_tokens":              DefaultRegulationsMaxTokens,
		"regulations.factual_max_words":       DefaultRegulationsFactualMaxWords,
		"regulations.factual.num_chunks":      DefaultFactualNumChunks,
		"regulations.factual.temperature":     DefaultFactualTemperature,
		"regulations.factual.search_mode":     DefaultFactualSearchMode,
		"regulations.explanatory.num_chunks":  DefaultExplanatoryNumChunks,
		"regulations.explanatory.temperature": DefaultExplanatoryTemperature,
		"regulations.explanatory.search_mode": DefaultExplanatorySearchMode,
		"regulations.local.collection":        DefaultLocalCollection,
		"regulations.local.top_k":             DefaultLocalTopK,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".pitwall", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables
	k.Load(env.Provider("PITWALL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PITWALL_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	for i, m := range cfg.Models.Registry {
		if m.Provider == "" {
			cfg.Models.Registry[i].Provider = "openai"
		}
	}

	if err := normalizePathFields(&cfg); err != nil {
		return nil, err
	}

	// Post-Process: Inject standard Env Vars if missing
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "openai" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "anthropic" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "gemini" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("BEDROCK_API_KEY"); key != "" && cfg.Regulations.APIKey == "" {
		cfg.Regulations.APIKey = key
	}
	if kb := os.Getenv("BEDROCK_KNOWLEDGE_BASE_ID"); kb != "" && cfg.Regulations.KnowledgeBaseID == "" {
		cfg.Regulations.KnowledgeBaseID = kb
	}

	return &cfg, nil
}

func normalizePathFields(cfg *Config) error {
	mapsDir, err := pathutil.Expand(cfg.Circuits.MapsDir)
	if err != nil {
		return err
	}
	cfg.Circuits.MapsDir = mapsDir

	catalogPath, err := pathutil.Expand(cfg.Circuits.CatalogPath)
	if err != nil {
		return err
	}
	cfg.Circuits.CatalogPath = catalogPath

	docsDir, err := pathutil.Expand(cfg.Regulations.Local.DocumentsDir)
	if err != nil {
		return err
	}
	cfg.Regulations.Local.DocumentsDir = docsDir

	return nil
}
