package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/dto"
	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/repository"
	"github.com/noah-isme/mustang-stride-api/internal/state"
	"github.com/noah-isme/mustang-stride-api/pkg/config"
)

// FallbackSummary is returned whenever the remote model cannot be
// reached or answers with anything unusable.
const FallbackSummary = "Unable to generate AI analysis at this time."

const summaryCacheKey = "summary:usage"

// SummaryService produces the natural-language usage summary by sending
// the section usage stats to a remote text-generation model. One
// request, one response; no retry, no streaming. Results are cached for
// a short TTL so repeated dashboard loads do not re-query the model.
type SummaryService struct {
	ctrl   *state.Controller
	cache  *repository.CacheRepository
	client *http.Client
	cfg    config.SummaryConfig
	logger *zap.Logger
}

// NewSummaryService constructs a SummaryService.
func NewSummaryService(ctrl *state.Controller, cache *repository.CacheRepository, cfg config.SummaryConfig, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{
		ctrl:   ctrl,
		cache:  cache,
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Usage builds the structured usage stats. A submission counts toward
// the section of its parent assignment.
func (s *SummaryService) Usage() dto.UsageStats {
	assignments := s.ctrl.Assignments()
	submissions := s.ctrl.Submissions()

	sectionOf := make(map[string]models.Section, len(assignments))
	for _, a := range assignments {
		sectionOf[a.ID] = a.Section
	}

	stats := dto.UsageStats{
		TotalAssignments: len(assignments),
		TotalSubmissions: len(submissions),
		BySection:        make(map[string]dto.SectionUsage, len(models.Sections)),
	}

	for _, section := range models.Sections {
		usage := dto.SectionUsage{}
		for _, a := range assignments {
			if a.Section == section {
				usage.Assignments++
			}
		}
		for _, sub := range submissions {
			if sectionOf[sub.AssignmentID] == section {
				usage.Submissions++
			}
		}
		stats.BySection[string(section)] = usage
	}

	return stats
}

// Analyze returns the executive summary, the stats it was built from and
// whether the text came from the cache. Every failure path degrades to
// the fixed fallback string.
func (s *SummaryService) Analyze(ctx context.Context) (*dto.SummaryResponse, bool, error) {
	stats := s.Usage()

	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, summaryCacheKey, &cached); err == nil && cached != "" {
			return &dto.SummaryResponse{Summary: cached, Stats: stats}, true, nil
		}
	}

	summary := s.generate(ctx, stats)

	if s.cache != nil && summary != FallbackSummary {
		if err := s.cache.Set(ctx, summaryCacheKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Sugar().Warnw("failed to cache summary", "error", err)
		}
	}

	return &dto.SummaryResponse{Summary: summary, Stats: stats}, false, nil
}

func (s *SummaryService) generate(ctx context.Context, stats dto.UsageStats) string {
	encoded, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		s.logger.Sugar().Warnw("failed to encode usage stats", "error", err)
		return FallbackSummary
	}

	prompt := fmt.Sprintf(`As the Mustang Stride research data analyst, analyze this assignment platform usage data:
%s

Provide a brief (max 100 words) executive summary of the student participation across the two sections (Einstein vs Galilei).
Highlight which group is taking the lead in their academic stride.`, encoded)

	text, err := s.generateContent(ctx, prompt)
	if err != nil {
		s.logger.Sugar().Warnw("summary generation failed", "error", err)
		return FallbackSummary
	}
	return text
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

func (s *SummaryService) generateContent(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent", s.cfg.Endpoint, s.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate content: status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate content: empty response")
	}

	text := decoded.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("generate content: empty text")
	}
	return text, nil
}
