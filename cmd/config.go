package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/spigell/careerfit/internal/ai/gemini"
	"github.com/spigell/careerfit/internal/ai/openai"
	"github.com/spigell/careerfit/internal/research"
)

const (
	providerOpenAI = openai.ProviderName
	providerGemini = gemini.ProviderName

	openAIKeyEnv = "OPENAI_API_KEY"
	geminiKeyEnv = "GEMINI_API_KEY"
)

type Config struct {
	FastMode bool           `mapstructure:"fast-mode"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Research ResearchConfig `mapstructure:"research"`
	AI       AIConfig       `mapstructure:"ai"`
}

type ExtractConfig struct {
	Permissive    bool     `mapstructure:"permissive"`
	TesseractPath string   `mapstructure:"tesseract-path"`
	VisionOCR     bool     `mapstructure:"vision-ocr"`
	DisabledOCR   []string `mapstructure:"disabled-ocr"`
}

type ResearchConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gte=0"`
	WikipediaURL  string        `mapstructure:"wikipedia-url" validate:"omitempty,url"`
	DuckDuckGoURL string        `mapstructure:"duckduckgo-url" validate:"omitempty,url"`
	UserAgent     string        `mapstructure:"user-agent"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxLogLength int           `mapstructure:"max-log-length" validate:"gte=0"`
	Embeddings   bool          `mapstructure:"embeddings"`
	OpenAI       OpenAIConfig  `mapstructure:"openai"`
	Gemini       GeminiConfig  `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api-key"`
	APIKeyFile  string  `mapstructure:"api-key-file"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base-url" validate:"omitempty,url"`
	MaxRetries  int     `mapstructure:"max-retries" validate:"gte=0"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fast-mode", false)

	v.SetDefault("extract.permissive", true)
	v.SetDefault("extract.tesseract-path", "tesseract")
	v.SetDefault("extract.vision-ocr", false)

	v.SetDefault("research.enabled", true)
	v.SetDefault("research.timeout", research.DefaultTimeout)
	v.SetDefault("research.wikipedia-url", research.DefaultWikipediaURL)
	v.SetDefault("research.duckduckgo-url", research.DefaultDuckDuckGoURL)
	v.SetDefault("research.user-agent", research.DefaultUserAgent)

	v.SetDefault("ai.provider", providerOpenAI)
	v.SetDefault("ai.timeout", 25*time.Second)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.embeddings", false)
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.max-retries", 2)
	v.SetDefault("ai.openai.temperature", 0.2)
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.embedding-model", "text-embedding-004")
	v.SetDefault("ai.gemini.max-retries", 2)
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks value ranges and enums after decoding.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
