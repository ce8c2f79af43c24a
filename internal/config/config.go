package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docchat/internal/domain"
)

// ChunkerConfig configures how the document is split into fragments.
type ChunkerConfig struct {
	MaxSize int `yaml:"max_size"`
	Overlap int `yaml:"overlap"`
}

// OpenAIEmbedderConfig holds settings for the OpenAI embedding collaborator.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedding collaborator.
type EmbedderConfig struct {
	Type      string                `yaml:"type"`
	BatchSize int                   `yaml:"batch_size"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// LLMConfig configures the language-model collaborator.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// RetrieverConfig configures query-time fragment selection.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// HistoryConfig bounds the conversation state.
type HistoryConfig struct {
	MaxTurns     int `yaml:"max_turns"`
	RenderBudget int `yaml:"render_budget"`
}

// FetcherConfig configures document acquisition.
type FetcherConfig struct {
	TimeoutSecs int `yaml:"timeout_secs"`
}

// SummarizerConfig configures the post-ingest document summary.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	LLM        LLMConfig        `yaml:"llm"`
	Retriever  RetrieverConfig  `yaml:"retriever"`
	History    HistoryConfig    `yaml:"history"`
	Fetcher    FetcherConfig    `yaml:"fetcher"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	applyConfigDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/docchat/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.MaxSize == 0 {
		cfg.Chunker.MaxSize = 1000
		if cfg.Chunker.Overlap == 0 {
			cfg.Chunker.Overlap = 200
		}
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 32
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 512
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 3
	}
	if cfg.History.MaxTurns == 0 {
		cfg.History.MaxTurns = 20
	}
	if cfg.History.RenderBudget == 0 {
		cfg.History.RenderBudget = 2000
	}
	if cfg.Fetcher.TimeoutSecs == 0 {
		cfg.Fetcher.TimeoutSecs = 30
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
}

func validate(cfg *AppConfig) error {
	if cfg.Chunker.MaxSize <= 0 {
		return fmt.Errorf("%w: chunker.max_size must be positive", domain.ErrConfiguration)
	}
	if cfg.Chunker.Overlap < 0 || cfg.Chunker.Overlap >= cfg.Chunker.MaxSize {
		return fmt.Errorf("%w: chunker.overlap must be in [0, max_size)", domain.ErrConfiguration)
	}
	if cfg.Retriever.TopK < 1 {
		return fmt.Errorf("%w: retriever.top_k must be at least 1", domain.ErrConfiguration)
	}
	if cfg.History.MaxTurns < 1 {
		return fmt.Errorf("%w: history.max_turns must be at least 1", domain.ErrConfiguration)
	}
	switch cfg.Embedder.Type {
	case "openai", "tfidf":
	default:
		return fmt.Errorf("%w: unknown embedder type %q", domain.ErrConfiguration, cfg.Embedder.Type)
	}
	return nil
}
