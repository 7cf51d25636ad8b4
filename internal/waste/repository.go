package waste

import (
	"context"
	"database/sql"
	"errors"

	"greensteps/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const recordSelect = `
	SELECT wr.record_id, wr.user_id, wr.entry_date, wr.waste_type_id,
	       wt.display_name, wt.unit, wr.quantity, wr.notes, wr.created_at
	FROM waste_records wr
	JOIN waste_types wt ON wr.waste_type_id = wt.waste_type_id`

func (r *repository) Create(ctx context.Context, userID int, e Entry) (int, error) {
	var id int
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO waste_records (user_id, entry_date, waste_type_id, quantity, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING record_id`,
		userID, e.EntryDate, e.CategoryID, e.Quantity, e.Notes,
	).Scan(&id)
	return id, err
}

func (r *repository) FindByID(ctx context.Context, recordID, userID int) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec, recordSelect+`
		WHERE wr.record_id = $1 AND wr.user_id = $2`, recordID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) ListForUser(ctx context.Context, userID, limit, offset int) ([]Record, error) {
	records := []Record{}
	err := r.db.SelectContext(ctx, &records, recordSelect+`
		WHERE wr.user_id = $1
		ORDER BY wr.entry_date DESC, wr.record_id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	return records, err
}

// Recent returns the user's newest entries first.
func (r *repository) Recent(ctx context.Context, userID, limit int) ([]Record, error) {
	records := []Record{}
	err := r.db.SelectContext(ctx, &records, recordSelect+`
		WHERE wr.user_id = $1
		ORDER BY wr.entry_date DESC, wr.created_at DESC
		LIMIT $2`, userID, limit)
	return records, err
}

func (r *repository) Update(ctx context.Context, recordID, userID int, e Entry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE waste_records
		 SET entry_date = $1, waste_type_id = $2, quantity = $3, notes = $4
		 WHERE record_id = $5 AND user_id = $6`,
		e.EntryDate, e.CategoryID, e.Quantity, e.Notes, recordID, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *repository) Delete(ctx context.Context, recordID, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM waste_records WHERE record_id = $1 AND user_id = $2`, recordID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListAll(ctx context.Context, limit, offset int) ([]Record, error) {
	records := []Record{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT wr.record_id, wr.user_id, u.name, wr.entry_date, wr.waste_type_id,
		       wt.display_name, wt.unit, wr.quantity, wr.notes, wr.created_at
		FROM waste_records wr
		JOIN users u ON wr.user_id = u.user_id
		JOIN waste_types wt ON wr.waste_type_id = wt.waste_type_id
		ORDER BY wr.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return records, err
}

func (r *repository) Categories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	err := r.db.SelectContext(ctx, &categories,
		`SELECT waste_type_id, type_code, display_name, unit FROM waste_types ORDER BY waste_type_id`)
	return categories, err
}

func (r *repository) CategoryByID(ctx context.Context, id int) (*Category, error) {
	var c Category
	err := r.db.GetContext(ctx, &c,
		`SELECT waste_type_id, type_code, display_name, unit FROM waste_types WHERE waste_type_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CategoryExists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM waste_types WHERE waste_type_id = $1)`, id)
}
