package reward

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrRewardNotFound = errors.New("reward not found")
)

type repository struct {
	db     *sqlx.DB
	ledger Ledger
}

func NewRepository(db *sqlx.DB, ledger Ledger) Repository {
	return &repository{db: db, ledger: ledger}
}

const initRewardQuery = `
	INSERT INTO rewards (user_id, points, badge)
	VALUES ($1, 0, $2)
	ON CONFLICT (user_id) DO NOTHING`

func (r *repository) Initialize(ctx context.Context, userID int) error {
	if _, err := r.db.ExecContext(ctx, initRewardQuery, userID, BadgeStarter); err != nil {
		return fmt.Errorf("initialize reward: %w", err)
	}
	return nil
}

// Accrue adds delta points for a user in one transaction. The reward row is
// locked before it is read so concurrent accruals for the same user serialise.
func (r *repository) Accrue(ctx context.Context, userID, delta int, reason string) (*Award, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, initRewardQuery, userID, BadgeStarter); err != nil {
		return nil, fmt.Errorf("initialize reward: %w", err)
	}

	var current Reward
	err = tx.QueryRowxContext(ctx,
		`SELECT reward_id, user_id, points, badge, awarded_on
		 FROM rewards
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&current)
	if err != nil {
		return nil, fmt.Errorf("lock reward: %w", err)
	}

	if err := r.ledger.Append(ctx, tx, userID, delta, reason); err != nil {
		return nil, err
	}

	newPoints := current.Points + delta
	if newPoints < 0 {
		newPoints = 0
	}
	badge := BadgeFor(newPoints)
	changed := badge != current.Badge

	if changed {
		_, err = tx.ExecContext(ctx,
			`UPDATE rewards
			 SET points = $1, badge = $2, awarded_on = CURRENT_DATE
			 WHERE user_id = $3`,
			newPoints, badge, userID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE rewards
			 SET points = $1
			 WHERE user_id = $2`,
			newPoints, userID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Award{
		PointsAwarded: delta,
		Points:        newPoints,
		Badge:         badge,
		PreviousBadge: current.Badge,
		BadgeChanged:  changed,
	}, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID int) (*Reward, error) {
	var rw Reward
	err := r.db.GetContext(ctx, &rw,
		`SELECT reward_id, user_id, points, badge, awarded_on FROM rewards WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRewardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

func (r *repository) History(ctx context.Context, userID int) ([]LedgerEntry, error) {
	column, err := r.ledger.Column(ctx)
	if err != nil {
		return nil, err
	}

	entries := []LedgerEntry{}
	query := `SELECT history_id, user_id, ` + quoteColumn(column) + ` AS delta, reason, created_at
		FROM points_history
		WHERE user_id = $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) Leaderboard(ctx context.Context) ([]Standing, error) {
	standings := []Standing{}
	err := r.db.SelectContext(ctx, &standings, `
		SELECT r.reward_id, u.name, r.points, r.badge, r.awarded_on
		FROM rewards r
		JOIN users u ON r.user_id = u.user_id
		ORDER BY r.points DESC, r.reward_id ASC
	`)
	return standings, err
}

func (r *repository) EntryDates(ctx context.Context, userID int, since time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.SelectContext(ctx, &dates, `
		SELECT DISTINCT entry_date
		FROM waste_records
		WHERE user_id = $1 AND entry_date >= $2
		ORDER BY entry_date DESC
	`, userID, since)
	return dates, err
}
