package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/spigell/careerfit/internal/analysis"
	"github.com/spigell/careerfit/internal/domain"
	"github.com/spigell/careerfit/internal/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadTestConfig(t *testing.T, yaml string) (*Config, error) {
	t.Helper()

	v := viper.New()
	setDefaults(v)
	if yaml != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	}

	return getConfig(v)
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	config, err := loadTestConfig(t, "")
	require.NoError(t, err)

	assert.False(t, config.FastMode)
	assert.True(t, config.Extract.Permissive)
	assert.Equal(t, "tesseract", config.Extract.TesseractPath)
	assert.True(t, config.Research.Enabled)
	assert.Equal(t, research.DefaultTimeout, config.Research.Timeout)
	assert.Equal(t, research.DefaultWikipediaURL, config.Research.WikipediaURL)
	assert.Equal(t, providerOpenAI, config.AI.Provider)
	assert.Equal(t, 25*time.Second, config.AI.Timeout)
	assert.Equal(t, "gpt-4o-mini", config.AI.OpenAI.Model)
	assert.Equal(t, "gemini-2.5-flash", config.AI.Gemini.Model)
	assert.Equal(t, 2, config.AI.Gemini.MaxRetries)
}

func TestConfigFromYAML(t *testing.T) {
	t.Parallel()

	config, err := loadTestConfig(t, `
fast-mode: true
extract:
  permissive: false
  vision-ocr: true
  disabled-ocr: [tesseract]
research:
  timeout: 2s
ai:
  provider: Gemini
  embeddings: true
  gemini:
    api-key-file: /run/secrets/gemini
    max-retries: 4
`)
	require.NoError(t, err)

	assert.True(t, config.FastMode)
	assert.False(t, config.Extract.Permissive)
	assert.True(t, config.Extract.VisionOCR)
	assert.Equal(t, []string{"tesseract"}, config.Extract.DisabledOCR)
	assert.Equal(t, 2*time.Second, config.Research.Timeout)
	assert.Equal(t, providerGemini, config.AI.Provider)
	assert.True(t, config.AI.Embeddings)
	assert.Equal(t, "/run/secrets/gemini", config.AI.Gemini.APIKeyFile)
	assert.Equal(t, 4, config.AI.Gemini.MaxRetries)
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown provider": "ai:\n  provider: ollama\n",
		"negative timeout": "research:\n  timeout: -1s\n",
		"invalid base url": "ai:\n  openai:\n    base-url: not a url\n",
		"hot temperature":  "ai:\n  openai:\n    temperature: 3\n",
		"negative retries": "ai:\n  gemini:\n    max-retries: -1\n",
	}

	for name, yaml := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := loadTestConfig(t, yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestNeedsGemini(t *testing.T) {
	t.Parallel()

	assert.False(t, needsGemini(&Config{AI: AIConfig{Provider: providerOpenAI}}))
	assert.True(t, needsGemini(&Config{AI: AIConfig{Provider: providerGemini}}))
	assert.True(t, needsGemini(&Config{AI: AIConfig{Provider: providerOpenAI, Embeddings: true}}))
	assert.False(t, needsGemini(&Config{FastMode: true, AI: AIConfig{Provider: providerGemini}}))
	assert.True(t, needsGemini(&Config{FastMode: true, Extract: ExtractConfig{VisionOCR: true}}))
}

func TestChooseGenerator(t *testing.T) {
	t.Setenv(openAIKeyEnv, "")

	log := zap.NewNop()

	assert.Nil(t, chooseGenerator(AIConfig{Provider: providerOpenAI}, nil, log))
	assert.Nil(t, chooseGenerator(AIConfig{Provider: providerGemini}, nil, log))

	t.Setenv(openAIKeyEnv, "sk-from-env")
	fromEnv := chooseGenerator(AIConfig{Provider: providerOpenAI, OpenAI: OpenAIConfig{Model: "gpt-4.1-mini"}}, nil, log)
	require.NotNil(t, fromEnv)
	assert.Equal(t, "gpt-4.1-mini", fromEnv.Model())

	generator := chooseGenerator(AIConfig{
		Provider: providerOpenAI,
		OpenAI:   OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
	}, nil, log)
	require.NotNil(t, generator)
	assert.Equal(t, "gpt-4o-mini", generator.Model())
}

func TestFastPipelineRunsHeuristicOnly(t *testing.T) {
	t.Parallel()

	config, err := loadTestConfig(t, "fast-mode: true\nai:\n  openai:\n    api-key: sk-test\n")
	require.NoError(t, err)

	p := newPipeline(context.Background(), config, zap.NewNop())
	result := p.engine.Analyze(context.Background(),
		"Experienced Python backend engineer, built REST APIs with Git, SQL reporting dashboards.",
		domain.UserContext{},
	)

	assert.Equal(t, analysis.ProviderHeuristic, result.Insights.AnalysisProvider)
	assert.Equal(t, "Software Engineer", result.Insights.RecommendedProfessions[0])
	assert.True(t, p.extractor.Supported("cv.PDF"))
	assert.False(t, p.extractor.Supported("cv.xlsx"))
}

func TestWriteResult(t *testing.T) {
	t.Parallel()

	result := analysis.Result{
		Summary:        "- Top match: Software Engineer (97%).",
		Classification: analysis.ClassCV,
		Entities:       []domain.Entity{},
		Embeddings:     []float64{},
	}

	var text bytes.Buffer
	require.NoError(t, writeResult(&text, result, formatText))
	assert.Equal(t, "- Top match: Software Engineer (97%).\n", text.String())

	var raw bytes.Buffer
	require.NoError(t, writeResult(&raw, result, formatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	assert.Equal(t, "CV", decoded["classification"])
	assert.Contains(t, decoded, "insights")
}
