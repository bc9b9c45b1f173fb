package report

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"financas/internal/core"
	"financas/internal/store"
)

func seedTransaction(t *testing.T, st store.Store, kind core.Kind, cents int64, month, year int) {
	t.Helper()
	_, err := st.InsertTransaction(context.Background(), core.Transaction{
		Kind:   kind,
		Amount: core.Money{Cents: cents},
		Date:   time.Date(year, time.Month(month), 10, 12, 0, 0, 0, time.UTC),
		Month:  month,
		Year:   year,
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
}

func seedFixedExpense(t *testing.T, st store.Store, cents int64, paid bool, month, year int) {
	t.Helper()
	_, err := st.InsertFixedExpense(context.Background(), core.FixedExpense{
		Name:      "fixa",
		Amount:    core.Money{Cents: cents},
		DueDay:    10,
		Paid:      paid,
		Month:     month,
		Year:      year,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed fixed expense: %v", err)
	}
}

// Reference scenario: income 3500+800, variable expenses 1200+400+200, fixed
// 500 paid + 300 pending.
func seedReferenceMonth(t *testing.T, st store.Store, month, year int) {
	t.Helper()
	seedTransaction(t, st, core.KindIncome, 350000, month, year)
	seedTransaction(t, st, core.KindIncome, 80000, month, year)
	seedTransaction(t, st, core.KindExpense, 120000, month, year)
	seedTransaction(t, st, core.KindExpense, 40000, month, year)
	seedTransaction(t, st, core.KindExpense, 20000, month, year)
	seedFixedExpense(t, st, 50000, true, month, year)
	seedFixedExpense(t, st, 30000, false, month, year)
}

func TestMonthlyReportTotals(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedReferenceMonth(t, st, 9, 2025)

	rep, err := New(st).MonthlyReport(ctx, 9, 2025)
	if err != nil {
		t.Fatalf("monthly report: %v", err)
	}

	checks := []struct {
		name string
		got  int64
		want int64
	}{
		{"total income", rep.TotalIncome.Cents, 430000},
		{"total variable expense", rep.TotalVariableExpense.Cents, 180000},
		{"total fixed expense", rep.TotalFixedExpense.Cents, 80000},
		{"fixed paid", rep.FixedPaid.Cents, 50000},
		{"fixed pending", rep.FixedPending.Cents, 30000},
		{"balance", rep.Balance.Cents, 170000},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if rep.FixedPaid.Cents+rep.FixedPending.Cents != rep.TotalFixedExpense.Cents {
		t.Error("paid + pending must equal total fixed expense")
	}
	if len(rep.Transactions) != 5 || len(rep.FixedExpenses) != 2 {
		t.Errorf("record lists: %d transactions, %d fixed expenses", len(rep.Transactions), len(rep.FixedExpenses))
	}
	if rep.LimitExceeded || rep.ConfiguredLimit != nil {
		t.Error("no alert configured: limit must be null and not exceeded")
	}
}

func TestMonthlyReportLimitCheck(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		limitCents    int64
		active        bool
		wantExceeded  bool
		wantConfigure bool
	}{
		// Total expense in the reference month is 2600.00.
		{name: "below limit exceeds", limitCents: 200000, active: true, wantExceeded: true, wantConfigure: true},
		{name: "limit equal to total does not exceed", limitCents: 260000, active: true, wantExceeded: false, wantConfigure: true},
		{name: "generous limit", limitCents: 500000, active: true, wantExceeded: false, wantConfigure: true},
		{name: "inactive config ignored", limitCents: 100, active: false, wantExceeded: false, wantConfigure: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			seedReferenceMonth(t, st, 9, 2025)
			if _, err := st.ReplaceAlertConfig(ctx, core.AlertConfig{
				MonthlyLimit: core.Money{Cents: tt.limitCents},
				Month:        9, Year: 2025, Active: tt.active,
			}); err != nil {
				t.Fatalf("seed alert: %v", err)
			}

			rep, err := New(st).MonthlyReport(ctx, 9, 2025)
			if err != nil {
				t.Fatalf("monthly report: %v", err)
			}
			if rep.LimitExceeded != tt.wantExceeded {
				t.Errorf("limit exceeded = %v, want %v", rep.LimitExceeded, tt.wantExceeded)
			}
			if tt.wantConfigure {
				if rep.ConfiguredLimit == nil || rep.ConfiguredLimit.Cents != tt.limitCents {
					t.Errorf("configured limit = %v, want %d", rep.ConfiguredLimit, tt.limitCents)
				}
			} else if rep.ConfiguredLimit != nil {
				t.Errorf("configured limit = %v, want null", rep.ConfiguredLimit)
			}
		})
	}
}

func TestMonthlyReportEmptyPeriod(t *testing.T) {
	rep, err := New(store.NewMemory()).MonthlyReport(context.Background(), 4, 2030)
	if err != nil {
		t.Fatalf("monthly report: %v", err)
	}
	if rep.TotalIncome.Cents != 0 || rep.TotalVariableExpense.Cents != 0 ||
		rep.TotalFixedExpense.Cents != 0 || rep.Balance.Cents != 0 {
		t.Errorf("empty period should yield zero totals: %+v", rep)
	}
	if rep.Transactions == nil || rep.FixedExpenses == nil {
		t.Error("record lists must be empty, not nil")
	}
	if rep.LimitExceeded {
		t.Error("empty period cannot exceed a limit")
	}
}

func TestMonthlyReportIgnoresUnknownKinds(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedTransaction(t, st, core.KindIncome, 10000, 1, 2025)
	seedTransaction(t, st, "transferencia", 99999, 1, 2025)

	rep, err := New(st).MonthlyReport(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("monthly report: %v", err)
	}
	if rep.TotalIncome.Cents != 10000 || rep.TotalVariableExpense.Cents != 0 {
		t.Errorf("unknown kind leaked into totals: %+v", rep)
	}
	// The raw record still shows up in the listing.
	if len(rep.Transactions) != 2 {
		t.Errorf("got %d transactions, want 2", len(rep.Transactions))
	}
}

func TestMonthlyReportOutOfRangePeriodIsPermitted(t *testing.T) {
	st := store.NewMemory()
	seedReferenceMonth(t, st, 9, 2025)

	// month 13 is nonsense but not rejected; it simply matches nothing.
	rep, err := New(st).MonthlyReport(context.Background(), 13, 2025)
	if err != nil {
		t.Fatalf("monthly report: %v", err)
	}
	if rep.Month != 13 || rep.TotalIncome.Cents != 0 || len(rep.Transactions) != 0 {
		t.Errorf("month 13 should be empty, got %+v", rep)
	}
}

func TestMonthlyReportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedReferenceMonth(t, st, 9, 2025)

	svc := New(st)
	first, err := svc.MonthlyReport(ctx, 9, 2025)
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	second, err := svc.MonthlyReport(ctx, 9, 2025)
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated reads without writes must return identical reports")
	}
}

func TestYearDashboard(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedReferenceMonth(t, st, 3, 2025)
	seedTransaction(t, st, core.KindIncome, 50000, 7, 2025)
	// Noise in another year must not leak in.
	seedTransaction(t, st, core.KindIncome, 999900, 3, 2024)

	dash, err := New(st).YearDashboard(ctx, 2025)
	if err != nil {
		t.Fatalf("year dashboard: %v", err)
	}
	if dash.Year != 2025 {
		t.Errorf("year = %d, want 2025", dash.Year)
	}
	if len(dash.Months) != 12 {
		t.Fatalf("got %d summaries, want 12", len(dash.Months))
	}
	for i, m := range dash.Months {
		if m.Month != i+1 {
			t.Errorf("summary %d has month %d", i, m.Month)
		}
	}

	march := dash.Months[2]
	if march.Income.Cents != 430000 || march.TotalExpense.Cents != 260000 ||
		march.VariableExpense.Cents != 180000 || march.FixedExpense.Cents != 80000 ||
		march.Balance.Cents != 170000 {
		t.Errorf("march summary: %+v", march)
	}

	july := dash.Months[6]
	if july.Income.Cents != 50000 || july.TotalExpense.Cents != 0 {
		t.Errorf("july summary: %+v", july)
	}

	january := dash.Months[0]
	if january.Income.Cents != 0 || january.Balance.Cents != 0 {
		t.Errorf("empty month should be zero-filled: %+v", january)
	}
}

func TestYearDashboardEmptyYear(t *testing.T) {
	dash, err := New(store.NewMemory()).YearDashboard(context.Background(), 1999)
	if err != nil {
		t.Fatalf("year dashboard: %v", err)
	}
	if len(dash.Months) != 12 {
		t.Fatalf("got %d summaries, want 12", len(dash.Months))
	}
	for _, m := range dash.Months {
		if m.Income.Cents != 0 || m.TotalExpense.Cents != 0 || m.Balance.Cents != 0 {
			t.Errorf("month %d not zero-filled: %+v", m.Month, m)
		}
	}
}

// failingStore wraps the memory store and fails transaction listings.
type failingStore struct {
	store.Store
}

var errStoreDown = errors.New("store unreachable")

func (f failingStore) ListTransactions(context.Context, store.Filter) ([]core.Transaction, error) {
	return nil, errStoreDown
}

func TestYearDashboardAbortsOnFailure(t *testing.T) {
	svc := New(failingStore{Store: store.NewMemory()})
	_, err := svc.YearDashboard(context.Background(), 2025)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("dashboard error = %v, want wrapped store failure", err)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(core.MonthlyReport{
		Month:                5,
		TotalIncome:          core.Money{Cents: 1000},
		TotalVariableExpense: core.Money{Cents: 300},
		TotalFixedExpense:    core.Money{Cents: 200},
		Balance:              core.Money{Cents: 500},
	})
	want := core.MonthSummary{
		Month:           5,
		Income:          core.Money{Cents: 1000},
		TotalExpense:    core.Money{Cents: 500},
		VariableExpense: core.Money{Cents: 300},
		FixedExpense:    core.Money{Cents: 200},
		Balance:         core.Money{Cents: 500},
	}
	if sum != want {
		t.Errorf("Summarize = %+v, want %+v", sum, want)
	}
}
