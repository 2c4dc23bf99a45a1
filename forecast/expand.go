package forecast

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// LINE ITEMS - One category of monthly cost before period expansion
// =============================================================================

// Position expense types, in the order they are emitted.
const (
	ExpenseSalary     = "salary"
	ExpenseBonus      = "bonus"
	ExpenseCommission = "commission"
	ExpenseFringe     = "fringe"
)

var monthsPerYear = decimal.NewFromInt(12)

// LineItem is a single (record, expense type) with its full-month amount and
// the interval during which it is active.
type LineItem struct {
	Family Family
	Identity
	ExpenseType string
	Item        string
	MonthlyBase decimal.Decimal
	Active      Interval
}

// positionFormula derives one monthly amount from a position and the fringe rate.
type positionFormula struct {
	expenseType string
	monthly     func(r PositionRecord, fringe decimal.Decimal) decimal.Decimal
}

var positionFormulas = []positionFormula{
	{ExpenseSalary, func(r PositionRecord, _ decimal.Decimal) decimal.Decimal {
		return r.SalaryAnnual.Div(monthsPerYear)
	}},
	{ExpenseBonus, func(r PositionRecord, _ decimal.Decimal) decimal.Decimal {
		return r.SalaryAnnual.Mul(r.BonusRate).Div(monthsPerYear)
	}},
	{ExpenseCommission, func(r PositionRecord, _ decimal.Decimal) decimal.Decimal {
		return r.SalaryAnnual.Mul(r.CommissionRate).Div(monthsPerYear)
	}},
	{ExpenseFringe, func(r PositionRecord, fringe decimal.Decimal) decimal.Decimal {
		return r.SalaryAnnual.Mul(fringe).Div(monthsPerYear)
	}},
}

// =============================================================================
// LINE-ITEM EXPANDER
// =============================================================================

// ExpandPositions pivots each position's salary, bonus, commission and
// fringe into separate line items. Zero amounts are dropped so no report
// ever shows an empty category.
func ExpandPositions(records []PositionRecord, fringe decimal.Decimal) ([]LineItem, error) {
	items := make([]LineItem, 0, len(records)*len(positionFormulas))
	for i, r := range records {
		id := recordID(r.Identity, i)
		if r.PositionID == "" {
			return nil, &RecordError{Component: "normalizer", Family: FamilyPosition, RecordID: id, Field: "position_id", Constraint: "is required"}
		}
		if err := checkRecord(FamilyPosition, id, r); err != nil {
			return nil, err
		}
		active, err := NormalizeInterval(FamilyPosition, id, r.StartDate, r.EndDate)
		if err != nil {
			return nil, err
		}
		for _, f := range positionFormulas {
			amount := f.monthly(r, fringe)
			if amount.IsZero() {
				continue
			}
			items = append(items, LineItem{
				Family:      FamilyPosition,
				Identity:    r.Identity,
				ExpenseType: f.expenseType,
				Item:        f.expenseType,
				MonthlyBase: amount,
				Active:      active,
			})
		}
	}
	return items, nil
}

// ExpandRelated spreads each annual related expense evenly over the months.
func ExpandRelated(records []RelatedRecord) ([]LineItem, error) {
	items := make([]LineItem, 0, len(records))
	for i, r := range records {
		id := recordID(r.Identity, i)
		if err := checkRecord(FamilyRelated, id, r); err != nil {
			return nil, err
		}
		active, err := NormalizeInterval(FamilyRelated, id, r.StartDate, r.EndDate)
		if err != nil {
			return nil, err
		}
		amount := r.AmountAnnual.Div(monthsPerYear)
		if amount.IsZero() {
			continue
		}
		items = append(items, LineItem{
			Family:      FamilyRelated,
			Identity:    r.Identity,
			ExpenseType: r.ExpenseType,
			Item:        r.Item,
			MonthlyBase: amount,
			Active:      active,
		})
	}
	return items, nil
}

// ExpandOneTime keeps the amount whole and pins the item to the calendar
// month containing its expense date.
func ExpandOneTime(records []OneTimeRecord) ([]LineItem, error) {
	items := make([]LineItem, 0, len(records))
	for i, r := range records {
		id := recordID(r.Identity, i)
		if err := checkRecord(FamilyOneTime, id, r); err != nil {
			return nil, err
		}
		if r.ExpenseDate.IsZero() {
			return nil, &RecordError{Component: "normalizer", Family: FamilyOneTime, RecordID: id, Field: "expense_date", Constraint: "is required"}
		}
		if r.ExpenseAmount.IsZero() {
			continue
		}
		month := MonthOf(*r.ExpenseDate)
		items = append(items, LineItem{
			Family:      FamilyOneTime,
			Identity:    r.Identity,
			ExpenseType: r.ExpenseType,
			Item:        r.Item,
			MonthlyBase: r.ExpenseAmount,
			Active:      Bounded(month.Start, month.End),
		})
	}
	return items, nil
}
