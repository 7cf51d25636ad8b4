package dashboard

import (
	"context"
	"time"
)

type Repository interface {
	TotalWaste(ctx context.Context, userID int) (float64, error)
	WasteByType(ctx context.Context, userID int) ([]CategoryTotal, error)
	DailyTotals(ctx context.Context, userID int, from, to time.Time) ([]DailyTotal, error)
}
