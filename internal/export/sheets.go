// Package export refreshes a Google Sheets dashboard with month summaries.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"financas/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Exporter writes one row per month into the dashboard sheet. Row N+1 holds
// month N (row 1 is the header), so refreshing a month is a plain range update
// and never grows the sheet.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Options configures the exporter. Exactly one of CredentialsFile and
// CredentialsJSON must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func New(ctx context.Context, opts Options) (*Exporter, error) {
	if opts.SpreadsheetID == "" {
		return nil, fmt.Errorf("missing spreadsheet id")
	}
	if opts.SheetName == "" {
		opts.SheetName = "Dashboard"
	}

	clientOpts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, goption.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, goption.WithCredentialsFile(opts.CredentialsFile))
	default:
		return nil, fmt.Errorf("missing Google credentials")
	}

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

// WriteMonthSummary refreshes the dashboard row for one month.
func (e *Exporter) WriteMonthSummary(ctx context.Context, year int, sum core.MonthSummary) error {
	row := sum.Month + 1
	dataRange := fmt.Sprintf("%s!A%d:G%d", e.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{{
		year,
		sum.Month,
		euros(sum.Income.Cents),
		euros(sum.TotalExpense.Cents),
		euros(sum.VariableExpense.Cents),
		euros(sum.FixedExpense.Cents),
		euros(sum.Balance.Cents),
	}}}

	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update dashboard row (year=%d, month=%d): %w", year, sum.Month, err)
	}

	slog.InfoContext(ctx, "Dashboard row exported",
		"year", year, "month", sum.Month, "range", dataRange)
	return nil
}

// WriteYearDashboard refreshes the header and all twelve rows.
func (e *Exporter) WriteYearDashboard(ctx context.Context, dash core.YearDashboard) error {
	values := [][]any{{"Ano", "Mês", "Receitas", "Despesas", "Variáveis", "Fixas", "Saldo"}}
	for _, sum := range dash.Months {
		values = append(values, []any{
			dash.Year,
			sum.Month,
			euros(sum.Income.Cents),
			euros(sum.TotalExpense.Cents),
			euros(sum.VariableExpense.Cents),
			euros(sum.FixedExpense.Cents),
			euros(sum.Balance.Cents),
		})
	}

	dataRange := fmt.Sprintf("%s!A1:G%d", e.sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}
	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update dashboard (year=%d): %w", dash.Year, err)
	}

	slog.InfoContext(ctx, "Year dashboard exported", "year", dash.Year)
	return nil
}

func euros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}
