package forecast

import "fmt"

// =============================================================================
// PERIOD - One calendar month of the forecast
// =============================================================================

// Period is the first and last calendar day of one forecast month.
// Both bounds are inclusive.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns the inclusive number of calendar days in the period.
func (p Period) Days() int {
	return DaysInclusive(p.Start, p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthOf returns the calendar month containing d.
func MonthOf(d Date) Period {
	return Period{Start: StartOfMonth(d), End: EndOfMonth(d)}
}

// NextPeriod returns the calendar month following this one.
func (p Period) NextPeriod() Period {
	return MonthOf(p.End.AddDays(1))
}

// =============================================================================
// PERIOD GENERATOR
// =============================================================================

// Months builds the ordered, contiguous run of forecast months. The first
// month is the one containing start, whatever day of the month start is.
func Months(start Date, periods int) ([]Period, error) {
	if periods < 1 {
		return nil, &RecordError{
			Component:  "period generator",
			Family:     FamilySettings,
			RecordID:   "months",
			Field:      "months",
			Constraint: fmt.Sprintf("must be at least 1, got %d", periods),
		}
	}
	if start.IsZero() {
		return nil, &RecordError{
			Component:  "period generator",
			Family:     FamilySettings,
			RecordID:   "start_date",
			Field:      "start_date",
			Constraint: "is required",
		}
	}

	months := make([]Period, 0, periods)
	current := MonthOf(start)
	for i := 0; i < periods; i++ {
		months = append(months, current)
		current = current.NextPeriod()
	}
	return months, nil
}

// =============================================================================
// INTERVAL - When a line item is active
// =============================================================================

// Interval is an inclusive activity window. A nil bound is unbounded on that
// side: nil Start means active since the beginning of time, nil End means
// active indefinitely.
type Interval struct {
	Start *Date
	End   *Date
}

// Bounded builds an interval with both ends set.
func Bounded(start, end Date) Interval {
	return Interval{Start: &start, End: &end}
}

// Overlaps returns true when the interval intersects any day of p.
func (iv Interval) Overlaps(p Period) bool {
	return iv.startsOnOrBefore(p.End) && iv.endsOnOrAfter(p.Start)
}

// CoversEndOf returns true when the interval is active on p's final day, which
// for an interval that overlaps p means active through the end of the month.
func (iv Interval) CoversEndOf(p Period) bool {
	return iv.startsOnOrBefore(p.End) && iv.endsOnOrAfter(p.End)
}

// Clamp returns the part of p inside the interval. Only meaningful when
// Overlaps(p) is true.
func (iv Interval) Clamp(p Period) Period {
	clamped := p
	if iv.Start != nil {
		clamped.Start = MaxDate(*iv.Start, p.Start)
	}
	if iv.End != nil {
		clamped.End = MinDate(*iv.End, p.End)
	}
	return clamped
}

func (iv Interval) startsOnOrBefore(d Date) bool {
	return iv.Start == nil || iv.Start.BeforeOrEqual(d)
}

func (iv Interval) endsOnOrAfter(d Date) bool {
	return iv.End == nil || iv.End.AfterOrEqual(d)
}

func (iv Interval) String() string {
	start, end := "-inf", "+inf"
	if iv.Start != nil {
		start = iv.Start.String()
	}
	if iv.End != nil {
		end = iv.End.String()
	}
	return "[" + start + ", " + end + "]"
}
