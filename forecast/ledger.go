package forecast

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// EXPENSE LINE - One output row
// =============================================================================

// Columns is the ledger schema, in output order.
var Columns = []string{
	"month_start",
	"month_end",
	"position_id",
	"position_title",
	"department",
	"employee_id",
	"employee_name",
	"start_date",
	"end_date",
	"expense_type",
	"expense_amount",
	"item",
	"headcount",
}

// ExpenseLine is the adjusted cost of one line item in one month.
// Active carries the record's start_date/end_date; a nil bound is unbounded.
type ExpenseLine struct {
	Month Period
	Identity
	Active        Interval
	ExpenseType   string
	ExpenseAmount decimal.Decimal
	Item          string
	Headcount     int

	// Family is bookkeeping for the assembler; it is not a ledger column.
	Family Family
}

// Values renders the line in Columns order. Unbounded dates and the zero
// Date render as "".
func (l ExpenseLine) Values() []string {
	return []string{
		l.Month.Start.String(),
		l.Month.End.String(),
		l.PositionID,
		l.PositionTitle,
		l.Department,
		l.EmployeeID,
		l.EmployeeName,
		boundString(l.Active.Start),
		boundString(l.Active.End),
		l.ExpenseType,
		l.ExpenseAmount.String(),
		l.Item,
		headcountString(l.Headcount),
	}
}

func boundString(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func headcountString(h int) string {
	if h == 1 {
		return "1"
	}
	return "0"
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is the assembled forecast.
type Ledger struct {
	Periods []Period
	Lines   []ExpenseLine
}

func (l *Ledger) Len() int { return len(l.Lines) }

// Filter returns the lines matching keep, in ledger order.
func (l *Ledger) Filter(keep func(ExpenseLine) bool) []ExpenseLine {
	var out []ExpenseLine
	for _, line := range l.Lines {
		if keep(line) {
			out = append(out, line)
		}
	}
	return out
}

// MonthTotal sums one forecast month across the whole ledger.
type MonthTotal struct {
	Period    Period          `json:"-"`
	Month     string          `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	Headcount int             `json:"headcount"`
}

// Totals sums expense_amount and headcount per forecast month, in period
// order. Months with no lines still appear, with zero totals.
func (l *Ledger) Totals() []MonthTotal {
	totals := make([]MonthTotal, len(l.Periods))
	index := make(map[string]int, len(l.Periods))
	for i, p := range l.Periods {
		totals[i] = MonthTotal{Period: p, Month: p.Start.Time.Format("2006-01"), Amount: decimal.Zero}
		index[p.Start.String()] = i
	}
	for _, line := range l.Lines {
		i, ok := index[line.Month.Start.String()]
		if !ok {
			continue
		}
		totals[i].Amount = totals[i].Amount.Add(line.ExpenseAmount)
		totals[i].Headcount += line.Headcount
	}
	return totals
}

// Total sums expense_amount across every line.
func (l *Ledger) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.Lines {
		sum = sum.Add(line.ExpenseAmount)
	}
	return sum
}
