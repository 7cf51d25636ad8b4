package waste

import (
	"context"
	"errors"

	"greensteps/internal/logger"
	"greensteps/internal/metrics"
	"greensteps/internal/reward"
)

var (
	ErrRecordNotFound   = errors.New("waste record not found")
	ErrCategoryNotFound = errors.New("invalid waste type")
	ErrInvalidEntry     = errors.New("invalid waste entry data")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Rewarder credits points for a stored entry.
type Rewarder interface {
	AwardForEntry(ctx context.Context, userID, recordID int, quantity float64) (*reward.Award, error)
}

type AddResult struct {
	RecordID int
	Reward   reward.Outcome
}

type Service interface {
	AddEntry(ctx context.Context, userID int, e Entry) (*AddResult, error)
	List(ctx context.Context, userID, page, limit int) ([]Record, error)
	Update(ctx context.Context, recordID, userID int, e Entry) error
	Delete(ctx context.Context, recordID, userID int) error
	Categories(ctx context.Context) ([]Category, error)
	ListAll(ctx context.Context, limit, offset int) ([]Record, error)
}

type service struct {
	repo    Repository
	rewards Rewarder
}

func NewService(repo Repository, rewards Rewarder) Service {
	return &service{repo: repo, rewards: rewards}
}

// AddEntry stores the entry and then credits its points. The entry is the
// primary write: a failed accrual is reported in the result, never returned.
func (s *service) AddEntry(ctx context.Context, userID int, e Entry) (*AddResult, error) {
	if e.Quantity <= 0 || e.CategoryID <= 0 {
		return nil, ErrInvalidEntry
	}

	category, err := s.repo.CategoryByID(ctx, e.CategoryID)
	if err != nil {
		return nil, err
	}

	recordID, err := s.repo.Create(ctx, userID, e)
	if err != nil {
		return nil, err
	}
	metrics.RecordWasteEntry(category.Name)

	result := &AddResult{RecordID: recordID}
	award, err := s.rewards.AwardForEntry(ctx, userID, recordID, e.Quantity)
	if err != nil {
		metrics.RecordRewardFailure()
		logger.Error("reward accrual failed", "user_id", userID, "record_id", recordID, "error", err)
		result.Reward = reward.Outcome{Err: err}
		return result, nil
	}

	result.Reward = reward.Outcome{Award: award}
	return result, nil
}

func Paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func (s *service) List(ctx context.Context, userID, page, limit int) ([]Record, error) {
	page, limit = Paginate(page, limit)
	return s.repo.ListForUser(ctx, userID, limit, (page-1)*limit)
}

func (s *service) Update(ctx context.Context, recordID, userID int, e Entry) error {
	if e.Quantity <= 0 || e.CategoryID <= 0 {
		return ErrInvalidEntry
	}

	if _, err := s.repo.FindByID(ctx, recordID, userID); err != nil {
		return err
	}

	exists, err := s.repo.CategoryExists(ctx, e.CategoryID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCategoryNotFound
	}

	return s.repo.Update(ctx, recordID, userID, e)
}

func (s *service) Delete(ctx context.Context, recordID, userID int) error {
	return s.repo.Delete(ctx, recordID, userID)
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.Categories(ctx)
}

func (s *service) ListAll(ctx context.Context, limit, offset int) ([]Record, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	return s.repo.ListAll(ctx, limit, offset)
}
