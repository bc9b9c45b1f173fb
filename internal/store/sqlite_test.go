package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"financas/internal/core"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "financas.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	in := core.Transaction{
		Kind:        core.KindIncome,
		Amount:      core.Money{Cents: 350000},
		Description: "salario",
		Date:        time.Date(2025, 9, 5, 12, 30, 0, 0, time.UTC),
		Month:       9,
		Year:        2025,
	}
	created, err := s.InsertTransaction(ctx, in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("insert did not assign an id")
	}

	got, err := s.ListTransactions(ctx, Filter{Month: 9, Year: 2025})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if got[0].Kind != core.KindIncome || got[0].Amount.Cents != 350000 {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
	if !got[0].Date.Equal(in.Date) {
		t.Errorf("timestamp round trip: got %v, want %v", got[0].Date, in.Date)
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestSQLiteTransactionOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	for day := 1; day <= 3; day++ {
		_, err := s.InsertTransaction(ctx, core.Transaction{
			Kind:   core.KindExpense,
			Amount: core.Money{Cents: int64(day * 100)},
			Date:   time.Date(2025, 9, day, 0, 0, 0, 0, time.UTC),
			Month:  9, Year: 2025,
		})
		if err != nil {
			t.Fatalf("insert day %d: %v", day, err)
		}
	}

	got, err := s.ListTransactions(ctx, Filter{Month: 9, Year: 2025})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Fatalf("transactions out of order at %d: %v before %v", i, got[i-1].Date, got[i].Date)
		}
	}
}

func TestSQLiteFixedExpenseUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	created, err := s.InsertFixedExpense(ctx, core.FixedExpense{
		Name:      "condominio",
		Amount:    core.Money{Cents: 80000},
		DueDay:    10,
		Month:     9,
		Year:      2025,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.Paid {
		t.Error("paid should default to false")
	}

	updated, err := s.SetFixedExpensePaid(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("set paid: %v", err)
	}
	if !updated.Paid || updated.ID != created.ID {
		t.Errorf("update result: %+v", updated)
	}

	if _, err := s.SetFixedExpensePaid(ctx, 424242, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing = %v, want ErrNotFound", err)
	}
}

func TestSQLiteAlertReplaceLeavesOneConfig(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	for _, cents := range []int64{100000, 150000, 200000} {
		if _, err := s.ReplaceAlertConfig(ctx, core.AlertConfig{
			MonthlyLimit: core.Money{Cents: cents}, Month: 9, Year: 2025, Active: true,
		}); err != nil {
			t.Fatalf("replace: %v", err)
		}
	}

	all, err := s.ListAlertConfigs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d configs, want exactly 1 after repeated replaces", len(all))
	}
	if all[0].MonthlyLimit.Cents != 200000 {
		t.Errorf("surviving limit = %d, want 200000", all[0].MonthlyLimit.Cents)
	}

	active, err := s.FindActiveAlertConfig(ctx, 9, 2025)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if active == nil {
		t.Fatal("active config missing")
	}

	none, err := s.FindActiveAlertConfig(ctx, 2, 2031)
	if err != nil {
		t.Fatalf("find absent: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for empty period, got %+v", none)
	}
}
