package reward

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"greensteps/internal/config"
	"greensteps/internal/logger"
	"greensteps/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	ledgerTable       = "points_history"
	ledgerSavepoint   = "ledger_append"
	pqUndefinedColumn = "42703"
)

var (
	ErrLedgerSchema = errors.New("ledger schema mismatch")
)

// Ledger appends point changes to points_history. Append runs on the
// accrual transaction; Column names the delta column for reads.
type Ledger interface {
	Append(ctx context.Context, tx sqlx.ExtContext, userID, delta int, reason string) error
	Column(ctx context.Context) (string, error)
}

// NewLedger builds the ledger for the configured delta column. The value
// "auto" detects the column among config.LedgerColumns. A disabled ledger
// still serves reads.
func NewLedger(db sqlx.QueryerContext, column string, enabled bool) Ledger {
	var l Ledger
	if strings.EqualFold(column, config.LedgerColumnAuto) {
		l = &detectingLedger{db: db, candidates: config.LedgerColumns}
	} else {
		l = fixedLedger{column: column}
	}
	if !enabled {
		return disabledLedger{Ledger: l}
	}
	return l
}

func quoteColumn(column string) string {
	return pq.QuoteIdentifier(column)
}

func insertLedgerQuery(column string) string {
	return fmt.Sprintf(`INSERT INTO %s (user_id, %s, reason) VALUES ($1, $2, $3)`,
		ledgerTable, quoteColumn(column))
}

func isUndefinedColumn(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUndefinedColumn
}

type fixedLedger struct {
	column string
}

func (l fixedLedger) Append(ctx context.Context, tx sqlx.ExtContext, userID, delta int, reason string) error {
	_, err := tx.ExecContext(ctx, insertLedgerQuery(l.column), userID, delta, reason)
	if isUndefinedColumn(err) {
		metrics.RecordLedgerSchemaMismatch(l.column)
		return fmt.Errorf("%w: column %q missing on %s", ErrLedgerSchema, l.column, ledgerTable)
	}
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (l fixedLedger) Column(context.Context) (string, error) {
	return l.column, nil
}

type disabledLedger struct {
	Ledger
}

func (disabledLedger) Append(context.Context, sqlx.ExtContext, int, int, string) error {
	return nil
}

type detectingLedger struct {
	db         sqlx.QueryerContext
	candidates []string

	mu     sync.Mutex
	column string
}

func (l *detectingLedger) cached() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.column
}

func (l *detectingLedger) remember(column string) {
	l.mu.Lock()
	l.column = column
	l.mu.Unlock()
}

// detect picks the first candidate present on points_history.
func (l *detectingLedger) detect(ctx context.Context) (string, error) {
	if column := l.cached(); column != "" {
		return column, nil
	}

	var present []string
	err := sqlx.SelectContext(ctx, l.db, &present,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1 AND column_name = ANY($2)`,
		ledgerTable, pq.Array(l.candidates))
	if err != nil {
		return "", fmt.Errorf("detect ledger column: %w", err)
	}

	for _, candidate := range l.candidates {
		for _, p := range present {
			if p == candidate {
				l.remember(candidate)
				logger.Info("ledger column detected", "column", candidate)
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w: none of %v on %s", ErrLedgerSchema, l.candidates, ledgerTable)
}

func (l *detectingLedger) Column(ctx context.Context) (string, error) {
	return l.detect(ctx)
}

func (l *detectingLedger) Append(ctx context.Context, tx sqlx.ExtContext, userID, delta int, reason string) error {
	column, err := l.detect(ctx)
	if err == nil {
		return fixedLedger{column: column}.Append(ctx, tx, userID, delta, reason)
	}
	logger.Warn("ledger column detection failed, probing candidates", "error", err)

	for _, candidate := range l.candidates {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+ledgerSavepoint); err != nil {
			return fmt.Errorf("ledger savepoint: %w", err)
		}

		_, err := tx.ExecContext(ctx, insertLedgerQuery(candidate), userID, delta, reason)
		if err == nil {
			if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+ledgerSavepoint); err != nil {
				return fmt.Errorf("ledger release savepoint: %w", err)
			}
			l.remember(candidate)
			return nil
		}
		if !isUndefinedColumn(err) {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		metrics.RecordLedgerSchemaMismatch(candidate)
		logger.Warn("ledger column missing", "column", candidate)
		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+ledgerSavepoint); err != nil {
			return fmt.Errorf("ledger rollback savepoint: %w", err)
		}
	}

	return fmt.Errorf("%w: none of %v on %s", ErrLedgerSchema, l.candidates, ledgerTable)
}
