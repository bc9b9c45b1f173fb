// Package store provides persistence for transactions, fixed expenses and
// alert configs. Implementations carry no business rules: they answer
// equality-filtered queries and mutate rows, nothing more.
package store

import (
	"context"
	"errors"

	"financas/internal/core"
)

// ErrNotFound reports that a delete or update target does not exist.
var ErrNotFound = errors.New("record not found")

// Filter selects records by period. Matching follows the listing endpoints:
// when both Month and Year are set the conjunction applies, when only Year is
// set the whole year matches, otherwise everything matches. A Month without a
// Year is ignored.
type Filter struct {
	Month int
	Year  int
}

// Store is the record store contract consumed by the report service and the
// HTTP layer. All errors other than ErrNotFound are infrastructure failures
// and propagate wrapped, never masked.
type Store interface {
	// InsertTransaction persists t and returns it with its assigned ID.
	InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	// ListTransactions returns matching transactions sorted by timestamp
	// descending.
	ListTransactions(ctx context.Context, f Filter) ([]core.Transaction, error)
	// DeleteTransaction removes the transaction with the given id, returning
	// ErrNotFound when no row matches.
	DeleteTransaction(ctx context.Context, id int64) error

	// InsertFixedExpense persists e and returns it with its assigned ID.
	InsertFixedExpense(ctx context.Context, e core.FixedExpense) (core.FixedExpense, error)
	// ListFixedExpenses returns matching fixed expenses sorted by due day
	// ascending.
	ListFixedExpenses(ctx context.Context, f Filter) ([]core.FixedExpense, error)
	// SetFixedExpensePaid updates the paid flag, the only mutable field, and
	// returns the updated record. Returns ErrNotFound when no row matches.
	SetFixedExpensePaid(ctx context.Context, id int64, paid bool) (core.FixedExpense, error)
	// DeleteFixedExpense removes the fixed expense with the given id,
	// returning ErrNotFound when no row matches.
	DeleteFixedExpense(ctx context.Context, id int64) error

	// ReplaceAlertConfig deletes every config for a.Month/a.Year and inserts
	// a in their place, as one atomic step per implementation.
	ReplaceAlertConfig(ctx context.Context, a core.AlertConfig) (core.AlertConfig, error)
	// ListAlertConfigs returns all alert configs.
	ListAlertConfigs(ctx context.Context) ([]core.AlertConfig, error)
	// FindAlertConfig returns any config for the period, or nil when absent.
	FindAlertConfig(ctx context.Context, month, year int) (*core.AlertConfig, error)
	// FindActiveAlertConfig returns the first active config for the period,
	// or nil when absent. Absence is a value, not an error.
	FindActiveAlertConfig(ctx context.Context, month, year int) (*core.AlertConfig, error)

	Close() error
}

// matches reports whether a record's period passes the filter.
func (f Filter) matches(month, year int) bool {
	switch {
	case f.Month != 0 && f.Year != 0:
		return month == f.Month && year == f.Year
	case f.Year != 0:
		return year == f.Year
	default:
		return true
	}
}
