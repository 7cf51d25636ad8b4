package tips

import (
	"context"
	"strings"

	"greensteps/internal/logger"
	"greensteps/internal/metrics"
	"greensteps/internal/waste"
)

const (
	SourceAdvisor    = "advisor"
	SourceHeuristic  = "heuristic"
	SourceOnboarding = "onboarding"
)

// EntrySource lists a user's newest waste records first.
type EntrySource interface {
	Recent(ctx context.Context, userID, limit int) ([]waste.Record, error)
}

type Service interface {
	GetTips(ctx context.Context, userID int) []string
}

type service struct {
	source  EntrySource
	advisor Advisor
	cache   *Cache
}

// NewService builds the tips service. A nil advisor always uses the local
// heuristic.
func NewService(source EntrySource, advisor Advisor, cache *Cache) Service {
	return &service{source: source, advisor: advisor, cache: cache}
}

// GetTips never fails: when entries cannot be read it returns the onboarding
// tips without caching them.
func (s *service) GetTips(ctx context.Context, userID int) []string {
	if tips, ok := s.cache.Get(userID); ok {
		metrics.RecordTipCache(true)
		return tips
	}
	metrics.RecordTipCache(false)

	records, err := s.source.Recent(ctx, userID, recentLimit)
	if err != nil {
		logger.Warn("reading entries for tips failed", "user_id", userID, "error", err)
		metrics.RecordTipSource(SourceOnboarding)
		return Onboarding()
	}

	tips := s.generate(ctx, userID, records)
	s.cache.Set(userID, tips)
	return tips
}

func (s *service) generate(ctx context.Context, userID int, records []waste.Record) []string {
	if len(records) == 0 {
		metrics.RecordTipSource(SourceOnboarding)
		return Onboarding()
	}

	if s.advisor != nil {
		advice, err := s.advisor.Advise(ctx, Summarize(records))
		if err == nil && len(advice.Lines) >= MinAdvice {
			metrics.RecordTipSource(SourceAdvisor)
			return advice.Lines
		}
		logger.Warn("advisor unavailable, using heuristic tips", "user_id", userID, "error", err)
	}

	metrics.RecordTipSource(SourceHeuristic)
	return Normalize(strings.Join(Heuristic(records), "\n"))
}
