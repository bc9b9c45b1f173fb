// Package worker reacts to record changes: it recomputes the touched month,
// warns when the configured spending limit is breached, and refreshes the
// exported dashboard row.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
	"financas/internal/events"
	"financas/internal/report"
)

// MonthExporter refreshes one dashboard row in an external sink.
type MonthExporter interface {
	WriteMonthSummary(ctx context.Context, year int, sum core.MonthSummary) error
}

type AlertWorker struct {
	reports  *report.Service
	exporter MonthExporter // nil disables export
}

func New(reports *report.Service, exporter MonthExporter) *AlertWorker {
	return &AlertWorker{
		reports:  reports,
		exporter: exporter,
	}
}

// HandlePeriodChanged processes one change event. Errors requeue the message,
// so only genuinely retryable failures may propagate out of here.
func (w *AlertWorker) HandlePeriodChanged(ctx context.Context, msg *events.PeriodChangedMessage) error {
	slog.InfoContext(ctx, "Processing period changed event",
		"entity", msg.Entity, "op", msg.Op, "month", msg.Month, "year", msg.Year)
	return w.Recheck(ctx, msg.Month, msg.Year)
}

// Recheck recomputes one period and acts on the outcome.
func (w *AlertWorker) Recheck(ctx context.Context, month, year int) error {
	rep, err := w.reports.MonthlyReport(ctx, month, year)
	if err != nil {
		return fmt.Errorf("recompute month (month=%d, year=%d): %w", month, year, err)
	}

	if rep.LimitExceeded && rep.ConfiguredLimit != nil {
		total := rep.TotalVariableExpense.Cents + rep.TotalFixedExpense.Cents
		slog.WarnContext(ctx, "Monthly spending limit exceeded",
			"month", month,
			"year", year,
			"limit_cents", rep.ConfiguredLimit.Cents,
			"total_expense_cents", total,
			"over_by_cents", total-rep.ConfiguredLimit.Cents)
	}

	if w.exporter != nil {
		if err := w.exporter.WriteMonthSummary(ctx, year, report.Summarize(rep)); err != nil {
			return fmt.Errorf("export month summary: %w", err)
		}
	}

	return nil
}

// RecheckCurrentMonth is the periodic safety net for changes whose events
// were lost or carried no period.
func (w *AlertWorker) RecheckCurrentMonth(ctx context.Context) error {
	month, year := core.PeriodOf(time.Now().UTC())
	return w.Recheck(ctx, month, year)
}

// RunPeriodic rechecks the current month on every tick until ctx ends.
func (w *AlertWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.RecheckCurrentMonth(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic recheck failed", "error", err)
			}
		}
	}
}
