package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/careerfit/internal/domain"
	"github.com/spigell/careerfit/internal/logger"
	"github.com/spigell/careerfit/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var systemInstruction string

const (
	defaultTimeout      = 25 * time.Second
	defaultMaxLogLength = 200
	maxCVRunes          = 12000
)

// AnalyzerOptions tunes an Analyzer.
type AnalyzerOptions struct {
	Timeout      time.Duration
	MaxLogLength int
}

// Analyzer implements StructuredAnalyzer on top of a Generator.
type Analyzer struct {
	provider  string
	generator Generator
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

// NewAnalyzer returns nil when generator is nil. A nil *Analyzer is valid and
// always answers nil, which is how a missing credential disables the feature.
func NewAnalyzer(provider string, generator Generator, log *zap.Logger, opts AnalyzerOptions) *Analyzer {
	if generator == nil {
		return nil
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		provider:  provider,
		generator: generator,
		timeout:   opts.Timeout,
		maxLogLen: opts.MaxLogLength,
		logger:    logger.WithCommonFields(log, provider, generator.Model()),
	}
}

// Name returns the provider tag used for provenance.
func (a *Analyzer) Name() string {
	if a == nil {
		return ""
	}
	return a.provider
}

// Analyze returns nil on any failure.
func (a *Analyzer) Analyze(ctx context.Context, cvText string, user domain.UserContext, research domain.ResearchResult) *Analysis {
	if a == nil || a.generator == nil {
		return nil
	}

	analysis, err := a.analyze(ctx, cvText, user, research)
	if err != nil {
		a.logger.Warn("model analysis unavailable, falling back", zap.Error(err))
		return nil
	}

	a.logger.Info("model analysis parsed",
		zap.String("classification", analysis.Classification),
		zap.Strings("professions", analysis.RecommendedProfessions()),
	)
	return analysis
}

func (a *Analyzer) analyze(ctx context.Context, cvText string, user domain.UserContext, research domain.ResearchResult) (*Analysis, error) {
	message, err := buildMessage(cvText, user, research)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Debug("model analysis request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, message)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	a.logger.Debug("model analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	analysis.Raw = raw
	return analysis, nil
}

type requestPayload struct {
	CVText      string                 `json:"cv_text"`
	UserContext domain.UserContext     `json:"user_context"`
	Research    *domain.ResearchResult `json:"research,omitempty"`
}

func buildMessage(cvText string, user domain.UserContext, research domain.ResearchResult) (string, error) {
	cvText = strings.TrimSpace(cvText)
	if cvText == "" {
		return "", errors.New("cv text must not be empty")
	}

	payload := requestPayload{
		CVText:      utils.TruncateRunes(cvText, maxCVRunes),
		UserContext: user.Normalized(),
	}
	if !research.IsEmpty() {
		payload.Research = &research
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal analysis request: %w", err)
	}
	return string(data), nil
}
