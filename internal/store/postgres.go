package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financas/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the alternate persistent Store for deployments that already
// run a database server. It keeps the same schema shape as the SQLite store.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    kind TEXT NOT NULL,
    amount_cents BIGINT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    occurred_at TIMESTAMPTZ NOT NULL,
    month INT NOT NULL,
    year INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_period ON transactions (year, month);

CREATE TABLE IF NOT EXISTS fixed_expenses (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    amount_cents BIGINT NOT NULL,
    due_day INT NOT NULL,
    paid BOOLEAN NOT NULL DEFAULT FALSE,
    month INT NOT NULL,
    year INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fixed_expenses_period ON fixed_expenses (year, month);

CREATE TABLE IF NOT EXISTS alert_configs (
    id BIGSERIAL PRIMARY KEY,
    limit_cents BIGINT NOT NULL,
    month INT NOT NULL,
    year INT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_alert_configs_period ON alert_configs (year, month);
`

func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure postgres schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

// pgPeriodClause renders the filter as a WHERE fragment with positional
// placeholders. Month only applies together with year.
func pgPeriodClause(f Filter) (string, []any) {
	switch {
	case f.Month != 0 && f.Year != 0:
		return " WHERE month = $1 AND year = $2", []any{f.Month, f.Year}
	case f.Year != 0:
		return " WHERE year = $1", []any{f.Year}
	default:
		return "", nil
	}
}

func (s *Postgres) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO transactions (kind, amount_cents, description, occurred_at, month, year)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		string(t.Kind), t.Amount.Cents, t.Description, t.Date.UTC(), t.Month, t.Year).
		Scan(&t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (s *Postgres) ListTransactions(ctx context.Context, f Filter) ([]core.Transaction, error) {
	clause, args := pgPeriodClause(f)
	rows, err := s.pool.Query(ctx,
		`SELECT id, kind, amount_cents, description, occurred_at, month, year
		 FROM transactions`+clause+` ORDER BY occurred_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t    core.Transaction
			kind string
			ts   time.Time
		)
		if err := rows.Scan(&t.ID, &kind, &t.Amount.Cents, &t.Description, &ts, &t.Month, &t.Year); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.Kind(kind)
		t.Date = ts
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (s *Postgres) DeleteTransaction(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) InsertFixedExpense(ctx context.Context, e core.FixedExpense) (core.FixedExpense, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO fixed_expenses (name, amount_cents, due_day, paid, month, year, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		e.Name, e.Amount.Cents, e.DueDay, e.Paid, e.Month, e.Year, e.CreatedAt.UTC()).
		Scan(&e.ID)
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("insert fixed expense: %w", err)
	}
	return e, nil
}

func (s *Postgres) ListFixedExpenses(ctx context.Context, f Filter) ([]core.FixedExpense, error) {
	clause, args := pgPeriodClause(f)
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, amount_cents, due_day, paid, month, year, created_at
		 FROM fixed_expenses`+clause+` ORDER BY due_day ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list fixed expenses: %w", err)
	}
	defer rows.Close()

	out := []core.FixedExpense{}
	for rows.Next() {
		var e core.FixedExpense
		if err := rows.Scan(&e.ID, &e.Name, &e.Amount.Cents, &e.DueDay, &e.Paid, &e.Month, &e.Year, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fixed expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixed expenses: %w", err)
	}
	return out, nil
}

func (s *Postgres) SetFixedExpensePaid(ctx context.Context, id int64, paid bool) (core.FixedExpense, error) {
	var e core.FixedExpense
	err := s.pool.QueryRow(ctx,
		`UPDATE fixed_expenses SET paid = $1 WHERE id = $2
		 RETURNING id, name, amount_cents, due_day, paid, month, year, created_at`, paid, id).
		Scan(&e.ID, &e.Name, &e.Amount.Cents, &e.DueDay, &e.Paid, &e.Month, &e.Year, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.FixedExpense{}, ErrNotFound
	}
	if err != nil {
		return core.FixedExpense{}, fmt.Errorf("update fixed expense: %w", err)
	}
	return e, nil
}

func (s *Postgres) DeleteFixedExpense(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM fixed_expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fixed expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAlertConfig runs the delete-then-insert inside one transaction so
// the at-most-one-config invariant holds under concurrent writers.
func (s *Postgres) ReplaceAlertConfig(ctx context.Context, a core.AlertConfig) (core.AlertConfig, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.AlertConfig{}, fmt.Errorf("begin alert replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM alert_configs WHERE month = $1 AND year = $2`, a.Month, a.Year); err != nil {
		return core.AlertConfig{}, fmt.Errorf("delete previous alerts: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO alert_configs (limit_cents, month, year, active)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		a.MonthlyLimit.Cents, a.Month, a.Year, a.Active).
		Scan(&a.ID)
	if err != nil {
		return core.AlertConfig{}, fmt.Errorf("insert alert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return core.AlertConfig{}, fmt.Errorf("commit alert replace: %w", err)
	}
	return a, nil
}

func (s *Postgres) ListAlertConfigs(ctx context.Context) ([]core.AlertConfig, error) {
	rows, err := s.pool.Query(ctx,
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

func (s *Postgres) FindAlertConfig(ctx context.Context, month, year int) (*core.AlertConfig, error) {
	return s.findAlert(ctx,
		`SELECT id, limit_cents, month, year, active FROM alert_configs
		 WHERE month = $1 AND year = $2 LIMIT 1`, month, year)
}

func (s *Postgres) FindActiveAlertConfig(ctx context.Context, month, year int) (*core.AlertConfig, error) {
	return s.findAlert(ctx,
		`SELECT id, limit_cents, month, year, active FROM alert_configs
		 WHERE month = $1 AND year = $2 AND active LIMIT 1`, month, year)
}

func (s *Postgres) findAlert(ctx context.Context, query string, args ...any) (*core.AlertConfig, error) {
	var a core.AlertConfig
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&a.ID, &a.MonthlyLimit.Cents, &a.Month, &a.Year, &a.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &a, nil
}
