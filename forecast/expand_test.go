package forecast_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/personnel-forecast/forecast"
)

func position(id string, salary, bonus, commission string) forecast.PositionRecord {
	return forecast.PositionRecord{
		Identity:       forecast.Identity{PositionID: id, PositionTitle: "title " + id, Department: "a", EmployeeID: "e" + id, EmployeeName: "name " + id},
		SalaryAnnual:   dec(salary),
		BonusRate:      dec(bonus),
		CommissionRate: dec(commission),
	}
}

func expenseTypes(items []forecast.LineItem) []string {
	var types []string
	for _, item := range items {
		types = append(types, item.ExpenseType)
	}
	return types
}

// =============================================================================
// POSITIONS
// =============================================================================

func TestExpandPositions_PivotsAndDropsZeroAmounts(t *testing.T) {
	// GIVEN: One position with every rate set and one with no bonus
	// WHEN: Expanding with a 25% fringe
	// THEN: Zero-rate categories produce no line item at all

	items, err := forecast.ExpandPositions([]forecast.PositionRecord{
		position("1", "1200", "0.1", "0.2"),
		position("2", "2400", "0", "0.05"),
	}, dec("0.25"))
	require.NoError(t, err)

	assert.Equal(t, []string{"salary", "bonus", "commission", "fringe", "salary", "commission", "fringe"}, expenseTypes(items))

	want := []string{"100", "10", "20", "25", "200", "10", "50"}
	for i, item := range items {
		assert.True(t, dec(want[i]).Equal(item.MonthlyBase), "%s/%s: got %s", item.PositionID, item.ExpenseType, item.MonthlyBase)
		assert.Equal(t, item.ExpenseType, item.Item)
		assert.Equal(t, forecast.FamilyPosition, item.Family)
	}
}

func TestExpandPositions_ZeroSalaryEmitsNothing(t *testing.T) {
	items, err := forecast.ExpandPositions([]forecast.PositionRecord{position("vacant", "0", "0.1", "0.1")}, dec("0.3"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExpandPositions_NoFringe(t *testing.T) {
	items, err := forecast.ExpandPositions([]forecast.PositionRecord{position("1", "1200", "0", "0")}, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, []string{"salary"}, expenseTypes(items))
}

func TestExpandPositions_DoesNotMutateInput(t *testing.T) {
	records := []forecast.PositionRecord{position("1", "1200", "0", "0")}
	records[0].EndDate = datePtr(2022, time.March, 3)

	items, err := forecast.ExpandPositions(records, decimal.Zero)
	require.NoError(t, err)

	assert.Nil(t, records[0].StartDate, "missing start stays missing on the caller's copy")
	require.NotNil(t, items[0].Active.End)
	assert.NotSame(t, records[0].EndDate, items[0].Active.End)
	assert.Equal(t, *records[0].EndDate, *items[0].Active.End)
}

func TestExpandPositions_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *forecast.PositionRecord)
		field  string
	}{
		{"bonus above 1", func(r *forecast.PositionRecord) { r.BonusRate = dec("1.5") }, "bonus_rate"},
		{"negative commission", func(r *forecast.PositionRecord) { r.CommissionRate = dec("-0.1") }, "commission_rate"},
		{"negative salary", func(r *forecast.PositionRecord) { r.SalaryAnnual = dec("-1") }, "salary_annual"},
		{"missing id", func(r *forecast.PositionRecord) { r.PositionID = "" }, "position_id"},
		{"end before start", func(r *forecast.PositionRecord) {
			r.StartDate = datePtr(2022, time.March, 1)
			r.EndDate = datePtr(2022, time.February, 1)
		}, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := position("7", "1000", "0", "0")
			tt.mutate(&r)

			_, err := forecast.ExpandPositions([]forecast.PositionRecord{position("1", "1", "0", "0"), r}, decimal.Zero)
			require.ErrorIs(t, err, forecast.ErrInvalidArgument)

			var recErr *forecast.RecordError
			require.ErrorAs(t, err, &recErr)
			assert.Equal(t, forecast.FamilyPosition, recErr.Family)
			assert.Equal(t, tt.field, recErr.Field)
			if r.PositionID != "" {
				assert.Equal(t, "7", recErr.RecordID)
			} else {
				assert.Equal(t, "row 2", recErr.RecordID)
			}
		})
	}
}

// =============================================================================
// RELATED AND ONE-TIME
// =============================================================================

func TestExpandRelated_MonthlyFromAnnual(t *testing.T) {
	items, err := forecast.ExpandRelated([]forecast.RelatedRecord{
		{Identity: forecast.Identity{PositionID: "1"}, Item: "laptop lease", ExpenseType: "equipment", AmountAnnual: dec("600")},
		{Identity: forecast.Identity{PositionID: "2"}, Item: "phone", ExpenseType: "telecom", AmountAnnual: decimal.Zero},
		{Identity: forecast.Identity{PositionID: "3"}, Item: "rebate", ExpenseType: "equipment", AmountAnnual: dec("-120")},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.True(t, dec("50").Equal(items[0].MonthlyBase))
	assert.Equal(t, "laptop lease", items[0].Item)
	assert.Equal(t, "equipment", items[0].ExpenseType)
	assert.True(t, dec("-10").Equal(items[1].MonthlyBase), "credits are allowed")
}

func TestExpandRelated_RequiresItemAndType(t *testing.T) {
	_, err := forecast.ExpandRelated([]forecast.RelatedRecord{
		{Identity: forecast.Identity{PositionID: "9"}, ExpenseType: "equipment", AmountAnnual: dec("1")},
	})
	var recErr *forecast.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "item", recErr.Field)
	assert.Equal(t, "9", recErr.RecordID)
}

func TestExpandOneTime_PinnedToExpenseMonth(t *testing.T) {
	items, err := forecast.ExpandOneTime([]forecast.OneTimeRecord{
		{Identity: forecast.Identity{PositionID: "1"}, Item: "signing bonus", ExpenseType: "bonus", ExpenseAmount: dec("5000"), ExpenseDate: datePtr(2022, time.March, 17)},
		{Identity: forecast.Identity{PositionID: "2"}, Item: "nothing", ExpenseType: "bonus", ExpenseAmount: decimal.Zero, ExpenseDate: datePtr(2022, time.March, 17)},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.True(t, dec("5000").Equal(item.MonthlyBase), "one-time amounts are not divided")
	assert.Equal(t, date(2022, time.March, 1), *item.Active.Start)
	assert.Equal(t, date(2022, time.March, 31), *item.Active.End)
	assert.Equal(t, forecast.FamilyOneTime, item.Family)
}

func TestExpandOneTime_RequiresDate(t *testing.T) {
	_, err := forecast.ExpandOneTime([]forecast.OneTimeRecord{
		{Identity: forecast.Identity{PositionID: "1"}, Item: "relocation", ExpenseType: "relocation", ExpenseAmount: dec("100")},
	})
	var recErr *forecast.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "expense_date", recErr.Field)
	assert.Equal(t, forecast.FamilyOneTime, recErr.Family)
}
