package reward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greensteps/internal/logger"
	"greensteps/internal/metrics"
)

// BadgeNotifier is told when an accrual moves a user to a new badge.
type BadgeNotifier interface {
	BadgeEarned(ctx context.Context, userID int, badge Badge, points int) error
}

type Service interface {
	Initialize(ctx context.Context, userID int) error
	AwardForEntry(ctx context.Context, userID, recordID int, quantity float64) (*Award, error)
	Current(ctx context.Context, userID int) (*Reward, error)
	Summary(ctx context.Context, userID int) (*Summary, error)
	Leaderboard(ctx context.Context) ([]Standing, error)
	CheckStreak(ctx context.Context, userID int) (*Streak, error)
}

type service struct {
	repo     Repository
	notifier BadgeNotifier
	now      func() time.Time
}

func NewService(repo Repository, notifier BadgeNotifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func EntryReason(recordID int) string {
	return fmt.Sprintf("Waste entry #%d", recordID)
}

func (s *service) Initialize(ctx context.Context, userID int) error {
	return s.repo.Initialize(ctx, userID)
}

// AwardForEntry credits the points earned by a waste entry. Quantities that
// round to zero points only make sure the reward row exists.
func (s *service) AwardForEntry(ctx context.Context, userID, recordID int, quantity float64) (*Award, error) {
	points := PointsFor(quantity)
	if points <= 0 {
		if err := s.repo.Initialize(ctx, userID); err != nil {
			return nil, err
		}
		current, err := s.Current(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &Award{Points: current.Points, Badge: current.Badge, PreviousBadge: current.Badge}, nil
	}

	award, err := s.repo.Accrue(ctx, userID, points, EntryReason(recordID))
	if err != nil {
		return nil, err
	}

	metrics.RecordPointsAwarded(award.PointsAwarded)
	logger.Debug("points awarded", "user_id", userID, "record_id", recordID, "points", award.PointsAwarded, "total", award.Points)

	if award.BadgeChanged {
		metrics.RecordBadgeChange(string(award.Badge))
		logger.Info("badge changed", "user_id", userID, "from", award.PreviousBadge, "to", award.Badge)
		if s.notifier != nil {
			if err := s.notifier.BadgeEarned(ctx, userID, award.Badge, award.Points); err != nil {
				logger.Warn("badge notification failed", "user_id", userID, "badge", award.Badge, "error", err)
			}
		}
	}

	return award, nil
}

// Current returns the user's aggregate, or a zero STARTER aggregate when the
// user has none yet.
func (s *service) Current(ctx context.Context, userID int) (*Reward, error) {
	rw, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, ErrRewardNotFound) {
		return defaultReward(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return rw, nil
}

func (s *service) Summary(ctx context.Context, userID int) (*Summary, error) {
	rw, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Summary{Reward: rw, PointsHistory: history}, nil
}

func (s *service) Leaderboard(ctx context.Context) ([]Standing, error) {
	return s.repo.Leaderboard(ctx)
}

func (s *service) CheckStreak(ctx context.Context, userID int) (*Streak, error) {
	today := truncateDay(s.now())
	dates, err := s.repo.EntryDates(ctx, userID, today.AddDate(0, 0, -StreakTarget))
	if err != nil {
		return nil, err
	}

	days := StreakLength(dates, today)
	streak := &Streak{
		Days:         days,
		Target:       StreakTarget,
		StreakActive: days >= StreakTarget,
		Message:      "Streak check completed",
	}
	return streak, nil
}

// StreakLength counts consecutive logging days ending today, or ending
// yesterday when nothing has been logged yet today.
func StreakLength(dates []time.Time, today time.Time) int {
	logged := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		logged[truncateDay(d)] = true
	}

	day := truncateDay(today)
	if !logged[day] {
		day = day.AddDate(0, 0, -1)
	}

	n := 0
	for logged[day] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
