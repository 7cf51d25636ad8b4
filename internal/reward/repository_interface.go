package reward

import (
	"context"
	"time"
)

type Repository interface {
	Initialize(ctx context.Context, userID int) error
	Accrue(ctx context.Context, userID, delta int, reason string) (*Award, error)
	FindByUserID(ctx context.Context, userID int) (*Reward, error)
	History(ctx context.Context, userID int) ([]LedgerEntry, error)
	Leaderboard(ctx context.Context) ([]Standing, error)
	EntryDates(ctx context.Context, userID int, since time.Time) ([]time.Time, error)
}
