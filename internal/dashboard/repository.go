package dashboard

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

const dayLayout = "2006-01-02"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TotalWaste(ctx context.Context, userID int) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(quantity), 0) FROM waste_records WHERE user_id = $1`, userID)
	return total, err
}

func (r *repository) WasteByType(ctx context.Context, userID int) ([]CategoryTotal, error) {
	totals := []CategoryTotal{}
	err := r.db.SelectContext(ctx, &totals, `
		SELECT wt.display_name, SUM(wr.quantity) AS total
		FROM waste_records wr
		JOIN waste_types wt ON wr.waste_type_id = wt.waste_type_id
		WHERE wr.user_id = $1
		GROUP BY wt.waste_type_id, wt.display_name`, userID)
	return totals, err
}

// DailyTotals sums quantities per entry day for days in [from, to].
func (r *repository) DailyTotals(ctx context.Context, userID int, from, to time.Time) ([]DailyTotal, error) {
	totals := []DailyTotal{}
	err := r.db.SelectContext(ctx, &totals, `
		SELECT TO_CHAR(entry_date, 'YYYY-MM-DD') AS date, SUM(quantity) AS daily_total
		FROM waste_records
		WHERE user_id = $1 AND entry_date BETWEEN $2::date AND $3::date
		GROUP BY entry_date
		ORDER BY entry_date`,
		userID, from.Format(dayLayout), to.Format(dayLayout))
	return totals, err
}
