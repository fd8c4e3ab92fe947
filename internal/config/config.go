package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/internal/util"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI                AIConfig       `yaml:"ai"`
	Documents         DocumentConfig `yaml:"documents"`
	EvidenceNamespace string         `yaml:"evidence_namespace" validate:"required"`
	ParallelFiles     int            `yaml:"parallel_files" validate:"min=1"`
	DatabaseURL       string         `yaml:"database_url"`
	Debug             bool           `yaml:"debug"`
	LogFormat         string         `yaml:"log_format" validate:"omitempty,oneof=text json"`
}

type AIConfig struct {
	Adapter               string  `yaml:"adapter" validate:"oneof=openai ollama"`
	ChatURL               string  `yaml:"chat_url"`
	ChatKey               string  `yaml:"chat_key"`
	ExtractModel          string  `yaml:"extract_model" validate:"required"`
	Temperature           float64 `yaml:"temperature" validate:"min=0,max=2"`
	Thinking              string  `yaml:"thinking"`
	MaxRetries            int     `yaml:"max_retries" validate:"min=1"`
	MaxConcurrentRequests int     `yaml:"max_concurrent_requests" validate:"min=0"`
}

type DocumentConfig struct {
	Extensions   []string `yaml:"extensions" validate:"min=1,dive,required"`
	MaxChars     int      `yaml:"max_chars" validate:"min=1"`
	MaxTokens    int      `yaml:"max_tokens" validate:"min=0"`
	TokenEncoder string   `yaml:"token_encoder" validate:"required"`
}

// FromEnv builds a Config from environment variables, falling back to the
// defaults for anything unset.
func FromEnv() *Config {
	return &Config{
		AI: AIConfig{
			Adapter:               strings.ToLower(util.GetEnvString("AI_ADAPTER", "openai")),
			ChatURL:               util.GetEnv("AI_CHAT_URL"),
			ChatKey:               util.GetEnv("AI_CHAT_KEY"),
			ExtractModel:          util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
			Temperature:           util.GetEnvNumeric("AI_TEMPERATURE", 0.1),
			Thinking:              util.GetEnv("AI_THINKING"),
			MaxRetries:            util.GetEnvInt("AI_MAX_RETRIES", 1),
			MaxConcurrentRequests: util.GetEnvInt("AI_MAX_CONCURRENT_REQUESTS", 4),
		},
		Documents: DocumentConfig{
			Extensions:   util.GetEnvList("DOCUMENT_EXTENSIONS", []string{".pdf"}),
			MaxChars:     util.GetEnvInt("MAX_DOCUMENT_CHARS", loader.DefaultMaxChars),
			MaxTokens:    util.GetEnvInt("MAX_DOCUMENT_TOKENS", 0),
			TokenEncoder: util.GetEnvString("TOKEN_ENCODER", "o200k_base"),
		},
		EvidenceNamespace: util.GetEnvString("EVIDENCE_NAMESPACE", "OPENALEX"),
		ParallelFiles:     util.GetEnvInt("PARALLEL_FILES", 1),
		DatabaseURL:       util.GetEnv("DATABASE_URL"),
		Debug:             util.GetEnvBool("DEBUG", false),
		LogFormat:         strings.ToLower(util.GetEnvString("LOG_FORMAT", "text")),
	}
}

// Read builds the configuration from the environment and overlays the YAML
// file at path when one is given. Keys missing from the file keep their
// environment value. The result is not validated.
func Read(path string) (*Config, error) {
	cfg := FromEnv()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// Load is Read followed by Validate.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// TextLimits returns the limits applied to document text before extraction.
func (c *Config) TextLimits() loader.TextLimits {
	return loader.TextLimits{
		MaxChars:     c.Documents.MaxChars,
		MaxTokens:    c.Documents.MaxTokens,
		TokenEncoder: c.Documents.TokenEncoder,
	}
}
