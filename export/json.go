package export

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/personnel-forecast/forecast"
)

// JSON writes the ledger as one document with rows keyed by column name.
type JSON struct{}

// Document is the JSON shape of a ledger.
type Document struct {
	Columns []string              `json:"columns"`
	Rows    []Row                 `json:"rows"`
	Summary []forecast.MonthTotal `json:"summary"`
	Total   decimal.Decimal       `json:"total"`
}

// Row is one ledger line. Dates are "YYYY-MM-DD"; unbounded dates are null.
type Row struct {
	MonthStart    forecast.Date   `json:"month_start"`
	MonthEnd      forecast.Date   `json:"month_end"`
	PositionID    string          `json:"position_id"`
	PositionTitle string          `json:"position_title"`
	Department    string          `json:"department"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	StartDate     *forecast.Date  `json:"start_date"`
	EndDate       *forecast.Date  `json:"end_date"`
	ExpenseType   string          `json:"expense_type"`
	ExpenseAmount decimal.Decimal `json:"expense_amount"`
	Item          string          `json:"item"`
	Headcount     int             `json:"headcount"`
}

func (JSON) ContentType() string { return "application/json" }

func (JSON) Write(w io.Writer, ledger *forecast.Ledger) error {
	return json.NewEncoder(w).Encode(NewDocument(ledger))
}

// NewDocument converts a ledger to its JSON shape.
func NewDocument(ledger *forecast.Ledger) Document {
	rows := make([]Row, len(ledger.Lines))
	for i, l := range ledger.Lines {
		rows[i] = Row{
			MonthStart:    l.Month.Start,
			MonthEnd:      l.Month.End,
			PositionID:    l.PositionID,
			PositionTitle: l.PositionTitle,
			Department:    l.Department,
			EmployeeID:    l.EmployeeID,
			EmployeeName:  l.EmployeeName,
			StartDate:     l.Active.Start,
			EndDate:       l.Active.End,
			ExpenseType:   l.ExpenseType,
			ExpenseAmount: l.ExpenseAmount,
			Item:          l.Item,
			Headcount:     l.Headcount,
		}
	}
	return Document{
		Columns: forecast.Columns,
		Rows:    rows,
		Summary: ledger.Totals(),
		Total:   ledger.Total(),
	}
}
