package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"greensteps/internal/reward"
	"greensteps/internal/waste"

	"github.com/sourcegraph/conc/pool"
)

const DefaultExportLimit = 1000

var csvHeader = []string{"Record ID", "User", "Entry Date", "Waste Type", "Quantity", "Unit", "Notes", "Created At"}

type RewardReader interface {
	Current(ctx context.Context, userID int) (*reward.Reward, error)
	Leaderboard(ctx context.Context) ([]reward.Standing, error)
}

type RecordLister interface {
	ListAll(ctx context.Context, limit, offset int) ([]waste.Record, error)
}

type Service interface {
	GetUserDashboard(ctx context.Context, userID int) (*Dashboard, error)
	AdminStats(ctx context.Context, limit, offset int) (*AdminStats, error)
	ExportCSV(ctx context.Context, w io.Writer, limit int) error
}

type service struct {
	repo    Repository
	rewards RewardReader
	records RecordLister
	now     func() time.Time
}

func NewService(repo Repository, rewards RewardReader, records RecordLister) Service {
	return &service{
		repo:    repo,
		rewards: rewards,
		records: records,
		now:     time.Now,
	}
}

// GetUserDashboard runs the four dashboard queries concurrently. Any failure
// cancels the rest and fails the call.
func (s *service) GetUserDashboard(ctx context.Context, userID int) (*Dashboard, error) {
	var (
		d        = &Dashboard{}
		from, to = WeeklyWindow(s.now())
		p        = pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	)

	p.Go(func(ctx context.Context) error {
		total, err := s.repo.TotalWaste(ctx, userID)
		if err != nil {
			return fmt.Errorf("total waste: %w", err)
		}
		d.TotalWaste = total
		return nil
	})

	p.Go(func(ctx context.Context) error {
		byType, err := s.repo.WasteByType(ctx, userID)
		if err != nil {
			return fmt.Errorf("waste by type: %w", err)
		}
		d.WasteByType = byType
		return nil
	})

	p.Go(func(ctx context.Context) error {
		weekly, err := s.repo.DailyTotals(ctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("weekly progress: %w", err)
		}
		d.WeeklyProgress = weekly
		return nil
	})

	p.Go(func(ctx context.Context) error {
		rw, err := s.rewards.Current(ctx, userID)
		if err != nil {
			return fmt.Errorf("reward: %w", err)
		}
		d.Reward = RewardSummary{Points: rw.Points, Badge: rw.Badge}
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	if d.WasteByType == nil {
		d.WasteByType = []CategoryTotal{}
	}
	if d.WeeklyProgress == nil {
		d.WeeklyProgress = []DailyTotal{}
	}
	return d, nil
}

func (s *service) AdminStats(ctx context.Context, limit, offset int) (*AdminStats, error) {
	records, err := s.records.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	standings, err := s.rewards.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{WasteRecords: records, Rewards: standings}, nil
}

// ExportCSV writes the newest waste records across all users as CSV.
func (s *service) ExportCSV(ctx context.Context, w io.Writer, limit int) error {
	if limit <= 0 {
		limit = DefaultExportLimit
	}

	records, err := s.exportRecords(ctx, limit)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.ID),
			rec.UserName,
			rec.EntryDate.Format(dayLayout),
			rec.CategoryName,
			strconv.FormatFloat(rec.Quantity, 'f', 2, 64),
			rec.Unit,
			rec.Notes,
			rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportRecords pages through ListAll, which caps a single page.
func (s *service) exportRecords(ctx context.Context, limit int) ([]waste.Record, error) {
	var out []waste.Record
	for len(out) < limit {
		page, err := s.records.ListAll(ctx, min(limit-len(out), waste.MaxPageSize), len(out))
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < waste.MaxPageSize {
			break
		}
	}
	return out, nil
}
