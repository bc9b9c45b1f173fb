package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

// SQLite is the default persistent Store, backed by an embedded database
// file. Timestamps are stored as RFC 3339 text, amounts as integer cents.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// periodClause renders the filter as a WHERE fragment. Month only applies
// together with year, matching the listing endpoints.
func periodClause(f Filter) (string, []any) {
	switch {
	case f.Month != 0 && f.Year != 0:
		return " WHERE month = ? AND year = ?", []any{f.Month, f.Year}
	case f.Year != 0:
		return " WHERE year = ?", []any{f.Year}
	default:
		return "", nil
	}
}

func (s *SQLite) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (kind, amount_cents, description, occurred_at, month, year)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(t.Kind), t.Amount.Cents, t.Description,
		t.Date.UTC().Format(time.RFC3339Nano), t.Month, t.Year)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents,
		"month", t.Month,
		"year", t.Year)

	return t, nil
}

func (s *SQLite) ListTransactions(ctx context.Context, f Filter) ([]core.Transaction, error) {
	clause, args := periodClause(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, amount_cents, description, occurred_at, month, year
		 FROM transactions`+clause+` ORDER BY occurred_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t          core.Transaction
			kind       string
			occurredAt string
		)
		if err := rows.Scan(&t.ID, &kind, &t.Amount.Cents, &t.Description, &occurredAt, &t.Month, &t.Year); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.Kind(kind)
		t.Date, err = time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse transaction timestamp %q: %w", occurredAt, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (s *SQLite) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) InsertFixedExpense(ctx context.Context, e core.FixedExpense) (core.FixedExpense, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fixed_expenses (name, amount_cents, due_day, paid, month, year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Amount.Cents, e.DueDay, e.Paid, e.Month, e.Year,
		e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("insert fixed expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("fixed expense id: %w", err)
	}
	e.ID = id
	return e, nil
}

func (s *SQLite) ListFixedExpenses(ctx context.Context, f Filter) ([]core.FixedExpense, error) {
	clause, args := periodClause(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, amount_cents, due_day, paid, month, year, created_at
		 FROM fixed_expenses`+clause+` ORDER BY due_day ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list fixed expenses: %w", err)
	}
	defer rows.Close()

	out := []core.FixedExpense{}
	for rows.Next() {
		var (
			e         core.FixedExpense
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Amount.Cents, &e.DueDay, &e.Paid, &e.Month, &e.Year, &createdAt); err != nil {
			return nil, fmt.Errorf("scan fixed expense: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse fixed expense timestamp %q: %w", createdAt, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixed expenses: %w", err)
	}
	return out, nil
}

func (s *SQLite) SetFixedExpensePaid(ctx context.Context, id int64, paid bool) (core.FixedExpense, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE fixed_expenses SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("update fixed expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("update fixed expense rows affected: %w", err)
	}
	if n == 0 {
		return core.FixedExpense{}, ErrNotFound
	}
	return s.getFixedExpense(ctx, id)
}

func (s *SQLite) getFixedExpense(ctx context.Context, id int64) (core.FixedExpense, error) {
	var (
		e         core.FixedExpense
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, amount_cents, due_day, paid, month, year, created_at
		 FROM fixed_expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.Amount.Cents, &e.DueDay, &e.Paid, &e.Month, &e.Year, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.FixedExpense{}, ErrNotFound
	}
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("get fixed expense: %w", err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("parse fixed expense timestamp %q: %w", createdAt, err)
	}
	return e, nil
}

func (s *SQLite) DeleteFixedExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fixed_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fixed expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete fixed expense rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAlertConfig removes every config for the period and inserts the new
// one inside a single transaction, so concurrent writers cannot observe zero
// or two configs for the same period.
func (s *SQLite) ReplaceAlertConfig(ctx context.Context, a core.AlertConfig) (core.AlertConfig, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.AlertConfig{}, fmt.Errorf("begin alert replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM alert_configs WHERE month = ? AND year = ?`, a.Month, a.Year); err != nil {
		return core.AlertConfig{}, fmt.Errorf("delete previous alerts: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO alert_configs (limit_cents, month, year, active) VALUES (?, ?, ?, ?)`,
		a.MonthlyLimit.Cents, a.Month, a.Year, a.Active)
	if err != nil {
		return core.AlertConfig{}, fmt.Errorf("insert alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.AlertConfig{}, fmt.Errorf("alert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.AlertConfig{}, fmt.Errorf("commit alert replace: %w", err)
	}
	a.ID = id

	slog.InfoContext(ctx, "Alert config replaced",
		"id", a.ID,
		"limit_cents", a.MonthlyLimit.Cents,
		"month", a.Month,
		"year", a.Year)

	return a, nil
}

func (s *SQLite) ListAlertConfigs(ctx context.Context) ([]core.AlertConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, limit_cents, month, year, active FROM alert_configs`)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	out := []core.AlertConfig{}
	for rows.Next() {
		var a core.AlertConfig
		if err := rows.Scan(&a.ID, &a.MonthlyLimit.Cents, &a.Month, &a.Year, &a.Active); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

func (s *SQLite) FindAlertConfig(ctx context.Context, month, year int) (*core.AlertConfig, error) {
	return s.findAlert(ctx,
		`SELECT id, limit_cents, month, year, active FROM alert_configs
		 WHERE month = ? AND year = ? LIMIT 1`, month, year)
}

func (s *SQLite) FindActiveAlertConfig(ctx context.Context, month, year int) (*core.AlertConfig, error) {
	return s.findAlert(ctx,
		`SELECT id, limit_cents, month, year, active FROM alert_configs
		 WHERE month = ? AND year = ? AND active = 1 LIMIT 1`, month, year)
}

func (s *SQLite) findAlert(ctx context.Context, query string, args ...any) (*core.AlertConfig, error) {
	var a core.AlertConfig
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&a.ID, &a.MonthlyLimit.Cents, &a.Month, &a.Year, &a.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &a, nil
}
