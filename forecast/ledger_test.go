package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/personnel-forecast/forecast"
)

func salaryLine(p forecast.Period, amount string, headcount int) forecast.ExpenseLine {
	return forecast.ExpenseLine{
		Month:         p,
		Identity:      forecast.Identity{PositionID: "1", EmployeeName: "red"},
		ExpenseType:   forecast.ExpenseSalary,
		ExpenseAmount: dec(amount),
		Item:          forecast.ExpenseSalary,
		Headcount:     headcount,
		Family:        forecast.FamilyPosition,
	}
}

func TestExpenseLine_Values(t *testing.T) {
	line := salaryLine(month(2022, time.February), "4.25", 0)
	line.Active = forecast.Interval{End: datePtr(2022, time.February, 15)}

	values := line.Values()
	require.Len(t, values, len(forecast.Columns))
	assert.Equal(t, []string{
		"2022-02-01", "2022-02-28", "1", "", "", "", "red",
		"", "2022-02-15", "salary", "4.25", "salary", "0",
	}, values)
}

func TestLedger_Totals(t *testing.T) {
	periods, err := forecast.Months(date(2022, time.January, 1), 3)
	require.NoError(t, err)

	ledger := &forecast.Ledger{
		Periods: periods,
		Lines: []forecast.ExpenseLine{
			salaryLine(periods[0], "100", 1),
			salaryLine(periods[0], "50", 1),
			salaryLine(periods[2], "10.5", 0),
		},
	}

	totals := ledger.Totals()
	require.Len(t, totals, 3)
	assert.Equal(t, "2022-01", totals[0].Month)
	assert.True(t, dec("150").Equal(totals[0].Amount))
	assert.Equal(t, 2, totals[0].Headcount)
	assert.True(t, totals[1].Amount.IsZero(), "empty month still reported")
	assert.True(t, dec("10.5").Equal(totals[2].Amount))
	assert.True(t, dec("160.5").Equal(ledger.Total()))
}

// =============================================================================
// ASSEMBLER
// =============================================================================

func TestAssemble_KeepsFamilyOrder(t *testing.T) {
	periods, err := forecast.Months(date(2022, time.January, 1), 2)
	require.NoError(t, err)

	related := salaryLine(periods[0], "3", 0)
	related.Family = forecast.FamilyRelated
	related.ExpenseType, related.Item = "licenses", "software"

	ledger, err := forecast.Assemble(periods,
		forecast.FamilyLines{Family: forecast.FamilyPosition, Lines: []forecast.ExpenseLine{salaryLine(periods[1], "1", 1), salaryLine(periods[0], "2", 1)}},
		forecast.FamilyLines{Family: forecast.FamilyRelated, Lines: []forecast.ExpenseLine{related}},
	)
	require.NoError(t, err)
	require.Equal(t, 3, ledger.Len())
	assert.True(t, dec("1").Equal(ledger.Lines[0].ExpenseAmount), "no cross-row sorting")
	assert.Equal(t, "software", ledger.Lines[2].Item)
}

func TestAssemble_SchemaMismatch(t *testing.T) {
	periods, err := forecast.Months(date(2022, time.January, 1), 2)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(l *forecast.ExpenseLine)
		column string
	}{
		{"missing expense type", func(l *forecast.ExpenseLine) { l.ExpenseType = "" }, "expense_type"},
		{"missing item", func(l *forecast.ExpenseLine) { l.Item = "" }, "item"},
		{"missing month", func(l *forecast.ExpenseLine) { l.Month = forecast.Period{} }, "month_start"},
		{"month outside forecast", func(l *forecast.ExpenseLine) { l.Month = month(2030, time.May) }, "month_start"},
		{"bad headcount", func(l *forecast.ExpenseLine) { l.Headcount = 2 }, "headcount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := salaryLine(periods[0], "1", 1)
			tt.mutate(&line)

			_, err := forecast.Assemble(periods, forecast.FamilyLines{Family: forecast.FamilyPosition, Lines: []forecast.ExpenseLine{line}})
			require.ErrorIs(t, err, forecast.ErrSchemaMismatch)

			var schemaErr *forecast.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.column, schemaErr.Column)
			assert.Equal(t, "position", schemaErr.Table)
		})
	}
}

func TestAssemble_WrongFamily(t *testing.T) {
	periods, err := forecast.Months(date(2022, time.January, 1), 1)
	require.NoError(t, err)

	_, err = forecast.Assemble(periods, forecast.FamilyLines{Family: forecast.FamilyOneTime, Lines: []forecast.ExpenseLine{salaryLine(periods[0], "1", 0)}})
	assert.ErrorIs(t, err, forecast.ErrSchemaMismatch)
}
