/*
adjust.go - Proration and inflation

PURPOSE:
  Scales each admitted (month, line item) pair from a full-month base
  amount to what is actually spent that month.

PRORATION:
  fraction = covered days / days in month, both counted inclusively.

    Position ends Feb 15, 2022 (28-day month):
      covered = Feb 1..Feb 15 = 15 days
      fraction = 15/28

    Position starts Feb 15, 2022:
      covered = Feb 15..Feb 28 = 14 days
      fraction = 14/28

  An admitted pair always covers at least one day, so fraction is in (0, 1].

INFLATION (as-of lookup):
  The factor for a month is the rate of the latest schedule entry dated on
  or before the month's first day. A month earlier than every entry gets
  factor 1. The schedule is sorted once into an InflationIndex and searched
  per row, so rows need not arrive in date order and the index can be
  shared read-only between workers.

    schedule: 2022-01-01 -> 1.00, 2023-01-01 -> 1.05, 2024-01-01 -> 1.10
    2021-12 -> 1      (nothing on or before)
    2022-06 -> 1.00
    2023-01 -> 1.05   (entry dated exactly on month start counts)
    2025-03 -> 1.10

SEE ALSO:
  - join.go: Produces the pairs adjusted here
  - headcount.go: Flags full-month salary rows
*/
package forecast

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRORATION
// =============================================================================

// Proration returns the share of p during which the interval is active.
// Zero when they do not overlap.
func Proration(iv Interval, p Period) decimal.Decimal {
	if !iv.Overlaps(p) {
		return decimal.Zero
	}
	covered := iv.Clamp(p).Days()
	return decimal.NewFromInt(int64(covered)).Div(decimal.NewFromInt(int64(p.Days())))
}

// =============================================================================
// INFLATION INDEX
// =============================================================================

// InflationIndex is a date-sorted inflation schedule supporting as-of lookup.
// It is immutable after construction.
type InflationIndex struct {
	dates []Date
	rates []decimal.Decimal
}

// NewInflationIndex validates and sorts the schedule. Input order does not
// matter; among entries sharing a date the last one in input order wins.
func NewInflationIndex(entries []InflationEntry) (*InflationIndex, error) {
	sorted := make([]InflationEntry, 0, len(entries))
	for i, e := range entries {
		id := fmt.Sprintf("row %d", i+1)
		if e.Date.IsZero() {
			return nil, &RecordError{Component: "inflation index", Family: FamilyInflation, RecordID: id, Field: "inflation_date", Constraint: "is required"}
		}
		if e.Rate.IsNegative() {
			return nil, &RecordError{Component: "inflation index", Family: FamilyInflation, RecordID: id, Field: "inflation_rate", Constraint: fmt.Sprintf("must be >= 0, got %s", e.Rate)}
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	idx := &InflationIndex{}
	for _, e := range sorted {
		if n := len(idx.dates); n > 0 && idx.dates[n-1].Equal(e.Date) {
			idx.rates[n-1] = e.Rate
			continue
		}
		idx.dates = append(idx.dates, e.Date)
		idx.rates = append(idx.rates, e.Rate)
	}
	return idx, nil
}

// FactorAt returns the rate of the latest entry dated on or before d,
// or 1 when d precedes the whole schedule (or the schedule is empty).
func (x *InflationIndex) FactorAt(d Date) decimal.Decimal {
	if x == nil {
		return decimal.NewFromInt(1)
	}
	// First entry strictly after d; the one before it is the floor.
	i := sort.Search(len(x.dates), func(i int) bool { return x.dates[i].After(d) })
	if i == 0 {
		return decimal.NewFromInt(1)
	}
	return x.rates[i-1]
}

// Len reports the number of distinct dates in the schedule.
func (x *InflationIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.dates)
}

// =============================================================================
// ADJUSTER
// =============================================================================

// Adjust computes the final ledger line for one admitted pair.
func Adjust(p Period, item LineItem, inflation *InflationIndex) ExpenseLine {
	amount := item.MonthlyBase.
		Mul(Proration(item.Active, p)).
		Mul(inflation.FactorAt(p.Start))

	return ExpenseLine{
		Month:         p,
		Identity:      item.Identity,
		Active:        item.Active,
		ExpenseType:   item.ExpenseType,
		ExpenseAmount: amount,
		Item:          item.Item,
		Headcount:     Headcount(p, item),
		Family:        item.Family,
	}
}
