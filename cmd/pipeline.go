package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/careerfit/internal/ai"
	"github.com/spigell/careerfit/internal/ai/gemini"
	"github.com/spigell/careerfit/internal/ai/openai"
	"github.com/spigell/careerfit/internal/analysis"
	"github.com/spigell/careerfit/internal/extract"
	"github.com/spigell/careerfit/internal/fallback"
	"github.com/spigell/careerfit/internal/logger"
	"github.com/spigell/careerfit/internal/research"
	"github.com/spigell/careerfit/internal/secrets"
	"go.uber.org/zap"
)

// pipeline bundles the extractor and the analysis engine built from one config.
type pipeline struct {
	extractor *extract.Extractor
	engine    *analysis.Engine
}

func newPipeline(ctx context.Context, config *Config, log *zap.Logger) *pipeline {
	var gem *gemini.Generator
	if needsGemini(config) {
		g, err := newGeminiGenerator(ctx, config.AI, log)
		if err != nil {
			logUnavailable(log, providerGemini, err)
		} else {
			gem = g
		}
	}

	deps := analysis.Dependencies{}

	if !config.FastMode {
		if generator := chooseGenerator(config.AI, gem, log); generator != nil {
			deps.Analyzer = ai.NewAnalyzer(config.AI.Provider, generator, log, ai.AnalyzerOptions{
				Timeout:      config.AI.Timeout,
				MaxLogLength: config.AI.MaxLogLength,
			})
		}

		if config.Research.Enabled {
			deps.Researcher = research.New(research.Config{
				WikipediaURL:  config.Research.WikipediaURL,
				DuckDuckGoURL: config.Research.DuckDuckGoURL,
				UserAgent:     config.Research.UserAgent,
				Timeout:       config.Research.Timeout,
			}, log)
		}

		if config.AI.Embeddings && gem != nil {
			deps.Embedder = gem
		}
	}

	engines := []extract.OCREngine{extract.NewTesseractEngine(config.Extract.TesseractPath)}
	if config.Extract.VisionOCR && gem != nil {
		engines = append(engines, extract.NewVisionEngine(providerGemini+"-vision", gem))
	}
	for _, name := range config.Extract.DisabledOCR {
		fallback.DisableByName(engines, name, "disabled in config")
	}
	log.Debug("ocr engines", zap.Any("engines", fallback.Describe(engines)))

	return &pipeline{
		extractor: extract.New(extract.Options{
			Permissive: config.Extract.Permissive,
			OCR:        engines,
		}, log),
		engine: analysis.NewEngine(analysis.Options{FastMode: config.FastMode}, deps, log),
	}
}

func needsGemini(config *Config) bool {
	if config.Extract.VisionOCR {
		return true
	}
	if config.FastMode {
		return false
	}
	return config.AI.Provider == providerGemini || config.AI.Embeddings
}

func chooseGenerator(config AIConfig, gem *gemini.Generator, log *zap.Logger) ai.Generator {
	switch config.Provider {
	case providerGemini:
		if gem != nil {
			return gem
		}
	case providerOpenAI:
		generator, err := newOpenAIGenerator(config, log)
		if err != nil {
			logUnavailable(log, providerOpenAI, err)
			return nil
		}
		return generator
	}
	return nil
}

func newOpenAIGenerator(config AIConfig, log *zap.Logger) (*openai.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "openai api key",
		Value: config.OpenAI.APIKey,
		File:  config.OpenAI.APIKeyFile,
		Env:   openAIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.openai.api-key-file or %s)", err, openAIKeyEnv)
	}

	genLogger := logger.WithCommonFields(log, providerOpenAI, config.OpenAI.Model)

	return openai.NewGenerator(openai.Config{
		APIKey:      apiKey,
		Model:       config.OpenAI.Model,
		BaseURL:     config.OpenAI.BaseURL,
		MaxRetries:  config.OpenAI.MaxRetries,
		Temperature: config.OpenAI.Temperature,
	}, genLogger)
}

func newGeminiGenerator(ctx context.Context, config AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.Gemini.APIKey,
		File:  config.Gemini.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiKeyEnv)
	}

	genLogger := logger.WithCommonFields(log, providerGemini, config.Gemini.Model).
		With(zap.Int("ai_retry_attempts", config.Gemini.MaxRetries))

	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:         apiKey,
		Model:          config.Gemini.Model,
		EmbeddingModel: config.Gemini.EmbeddingModel,
		MaxRetries:     config.Gemini.MaxRetries,
	}, genLogger)
}

// logUnavailable reports a disabled provider. A missing credential is the
// normal way to run without a model, so it stays at debug.
func logUnavailable(log *zap.Logger, provider string, err error) {
	if errors.Is(err, secrets.ErrNotConfigured) {
		log.Debug("ai provider disabled", zap.String("provider", provider), zap.Error(err))
		return
	}
	log.Warn("ai provider unavailable", zap.String("provider", provider), zap.Error(err))
}
