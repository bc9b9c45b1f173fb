// Package report computes the monthly financial summary and the annual
// dashboard series. It is the only place that knows what balance, limit
// breach and paid/pending fixed expense mean.
package report

import (
	"context"
	"fmt"

	"financas/internal/core"
	"financas/internal/store"

	"golang.org/x/sync/errgroup"
)

// Service derives reports from the record store. It keeps no state of its
// own and never caches: every call re-reads the store, so results always
// reflect the latest committed writes.
type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// MonthlyReport aggregates one period. Month and year are taken as-is, any
// integers included: a period nobody ever wrote to yields all-zero totals,
// never an error.
func (s *Service) MonthlyReport(ctx context.Context, month, year int) (core.MonthlyReport, error) {
	txs, err := s.store.ListTransactions(ctx, store.Filter{Month: month, Year: year})
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("load transactions: %w", err)
	}
	fixed, err := s.store.ListFixedExpenses(ctx, store.Filter{Month: month, Year: year})
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("load fixed expenses: %w", err)
	}

	rep := core.MonthlyReport{
		Month:         month,
		Year:          year,
		Transactions:  []core.Transaction{},
		FixedExpenses: []core.FixedExpense{},
	}

	// The store filter treats zero as unset, so re-check the exact period
	// here; the report is strictly scoped to one (month, year).
	var income, variable int64
	for _, t := range txs {
		if t.Month != month || t.Year != year {
			continue
		}
		rep.Transactions = append(rep.Transactions, t)
		switch {
		case t.IsIncome():
			income += t.Amount.Cents
		case t.IsExpense():
			variable += t.Amount.Cents
		}
	}

	var totalFixed, fixedPaid, fixedPending int64
	for _, e := range fixed {
		if e.Month != month || e.Year != year {
			continue
		}
		rep.FixedExpenses = append(rep.FixedExpenses, e)
		totalFixed += e.Amount.Cents
		if e.Paid {
			fixedPaid += e.Amount.Cents
		} else {
			fixedPending += e.Amount.Cents
		}
	}

	totalExpenseAll := variable + totalFixed

	rep.TotalIncome = core.Money{Cents: income}
	rep.TotalVariableExpense = core.Money{Cents: variable}
	rep.TotalFixedExpense = core.Money{Cents: totalFixed}
	rep.FixedPaid = core.Money{Cents: fixedPaid}
	rep.FixedPending = core.Money{Cents: fixedPending}
	rep.Balance = core.Money{Cents: income - totalExpenseAll}

	alert, err := s.ActiveAlert(ctx, month, year)
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("resolve alert: %w", err)
	}
	if alert != nil {
		limit := alert.MonthlyLimit
		rep.ConfiguredLimit = &limit
		rep.LimitExceeded = totalExpenseAll > limit.Cents
	}

	return rep, nil
}

// ActiveAlert resolves the single alert config in effect for a period, or
// nil when none exists. Absence is a value, not an error.
func (s *Service) ActiveAlert(ctx context.Context, month, year int) (*core.AlertConfig, error) {
	return s.store.FindActiveAlertConfig(ctx, month, year)
}

// YearDashboard aggregates all twelve calendar months of a year. The months
// are independent reads, so they run concurrently; the first failure aborts
// the whole rollup and no partial series is returned.
func (s *Service) YearDashboard(ctx context.Context, year int) (core.YearDashboard, error) {
	months := make([]core.MonthSummary, 12)

	g, gctx := errgroup.WithContext(ctx)
	for month := 1; month <= 12; month++ {
		g.Go(func() error {
			rep, err := s.MonthlyReport(gctx, month, year)
			if err != nil {
				return fmt.Errorf("month %d: %w", month, err)
			}
			months[month-1] = Summarize(rep)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.YearDashboard{}, fmt.Errorf("year dashboard %d: %w", year, err)
	}

	return core.YearDashboard{Year: year, Months: months}, nil
}

// Summarize projects a full monthly report into its dashboard row.
func Summarize(rep core.MonthlyReport) core.MonthSummary {
	return core.MonthSummary{
		Month:           rep.Month,
		Income:          rep.TotalIncome,
		TotalExpense:    core.Money{Cents: rep.TotalVariableExpense.Cents + rep.TotalFixedExpense.Cents},
		VariableExpense: rep.TotalVariableExpense,
		FixedExpense:    rep.TotalFixedExpense,
		Balance:         rep.Balance,
	}
}
