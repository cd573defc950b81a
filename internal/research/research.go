// Package research looks up public descriptions of a target role. Every
// lookup is best effort: a failed lookup contributes nothing and a run where
// all lookups fail yields an empty result.
package research

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spigell/careerfit/internal/domain"
	"github.com/spigell/careerfit/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultWikipediaURL  = "https://en.wikipedia.org/api/rest_v1"
	DefaultDuckDuckGoURL = "https://api.duckduckgo.com"
	DefaultUserAgent     = "careerfit/1.0 (+https://github.com/spigell/careerfit)"
	DefaultTimeout       = 5 * time.Second

	maxSummaryRunes     = 900
	maxExpectations     = 5
	maxExpectationRunes = 160
	minExpectationRunes = 12
)

// Config holds the lookup endpoints.
type Config struct {
	WikipediaURL  string
	DuckDuckGoURL string
	UserAgent     string
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// Researcher fetches role descriptions from public reference services.
type Researcher struct {
	wikipediaURL  string
	duckduckgoURL string
	userAgent     string
	timeout       time.Duration
	client        *http.Client
	logger        *zap.Logger
}

// New creates a Researcher, filling unset config values with defaults.
func New(cfg Config, logger *zap.Logger) *Researcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Researcher{
		wikipediaURL:  strings.TrimRight(firstNonEmpty(cfg.WikipediaURL, DefaultWikipediaURL), "/"),
		duckduckgoURL: strings.TrimRight(firstNonEmpty(cfg.DuckDuckGoURL, DefaultDuckDuckGoURL), "/"),
		userAgent:     firstNonEmpty(cfg.UserAgent, DefaultUserAgent),
		timeout:       cfg.Timeout,
		client:        cfg.HTTPClient,
		logger:        logger,
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.client == nil {
		r.client = &http.Client{}
	}
	return r
}

// lookup is what a single reference service contributed.
type lookup struct {
	summary   string
	sentences []string
	sources   []string
}

// Research derives a query from the user's target job and runs both lookups.
func (r *Researcher) Research(ctx context.Context, user domain.UserContext) domain.ResearchResult {
	user = user.Normalized()

	query := Query(user)
	if query == "" {
		return domain.ResearchResult{}
	}

	var wiki, ddg *lookup

	p := pool.New().WithMaxGoroutines(2)
	p.Go(func() {
		wiki = r.run(ctx, "wikipedia", query, r.wikipedia)
	})
	p.Go(func() {
		ddg = r.run(ctx, "duckduckgo", query, r.duckduckgo)
	})
	p.Wait()

	if wiki == nil && ddg == nil {
		return domain.ResearchResult{}
	}

	return merge(query, user.TargetJobDescription, wiki, ddg)
}

func (r *Researcher) run(ctx context.Context, name, query string, fn func(context.Context, string) (*lookup, error)) *lookup {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := fn(ctx, query)
	if err != nil {
		r.logger.Debug("research lookup failed",
			zap.String("source", name),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return res
}

func merge(query, jobDescription string, lookups ...*lookup) domain.ResearchResult {
	var (
		summaries []string
		sources   []string
		phrases   = sentences(jobDescription)
	)

	for _, l := range lookups {
		if l == nil {
			continue
		}
		if s := utils.CollapseSpaces(l.summary); s != "" {
			summaries = append(summaries, s)
		}
		sources = append(sources, l.sources...)
		phrases = append(phrases, l.sentences...)
	}

	return domain.ResearchResult{
		Query:           query,
		Summary:         utils.TruncateRunes(strings.Join(summaries, " "), maxSummaryRunes),
		Source:          strings.Join(utils.DedupeFold(sources), ", "),
		KeyExpectations: keyExpectations(phrases),
	}
}

func keyExpectations(phrases []string) []string {
	candidates := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		phrase = strings.TrimSpace(phrase)
		if len([]rune(phrase)) < minExpectationRunes {
			continue
		}
		candidates = append(candidates, utils.TruncateRunes(phrase, maxExpectationRunes))
	}

	result := utils.DedupeFold(candidates)
	if len(result) > maxExpectations {
		result = result[:maxExpectations]
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
