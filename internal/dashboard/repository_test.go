package dashboard

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDashboardMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestRepositoryTotalWaste(t *testing.T) {
	repo, mock, close := setupDashboardMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(quantity), 0) FROM waste_records WHERE user_id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

	total, err := repo.TotalWaste(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestRepositoryWasteByType(t *testing.T) {
	repo, mock, close := setupDashboardMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY wt.waste_type_id, wt.display_name")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"display_name", "total"}).
			AddRow("Plastic", "3.50").
			AddRow("Paper", "1.00"))

	totals, err := repo.WasteByType(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, 3.5, totals[0].Total)
}

func TestRepositoryDailyTotals_PassesWindowBounds(t *testing.T) {
	repo, mock, close := setupDashboardMock(t)
	defer close()

	from, to := WeeklyWindow(time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND entry_date BETWEEN $2::date AND $3::date GROUP BY entry_date ORDER BY entry_date")).
		WithArgs(1, "2024-05-03", "2024-05-10").
		WillReturnRows(sqlmock.NewRows([]string{"date", "daily_total"}).
			AddRow("2024-05-03", "1.00").
			AddRow("2024-05-10", "2.00"))

	totals, err := repo.DailyTotals(context.Background(), 1, from, to)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "2024-05-10", totals[1].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}
