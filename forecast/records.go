/*
Package forecast expands annualized personnel cost inputs into a dense
monthly expense ledger.

PURPOSE:
  A planner keeps one row per position, per recurring related expense and
  per one-time item. The engine turns those rows into one ledger line per
  (record, expense type, month), prorated for partial months and scaled by
  a time-indexed inflation factor.

PIPELINE (data flows strictly forward):
  1. Months      - period.go     forecast months from start date + count
  2. Normalize   - normalize.go  validate records, resolve active intervals
  3. Expand      - expand.go     wide position columns -> narrow line items
  4. Join        - join.go       line items x months, keep overlaps
  5. Adjust      - adjust.go     proration fraction x inflation factor
  6. Headcount   - headcount.go  0/1 flag on full-month salary lines
  7. Assemble    - assemble.go   concatenate the three families

KEY CONCEPTS IN THIS FILE (records.go):
  - PositionRecord, RelatedRecord, OneTimeRecord: the typed input tables
  - InflationEntry: one point of the inflation schedule
  - Settings: start date, month count, fringe rate
  - Input: everything one run consumes

DESIGN PRINCIPLES:
  1. Immutability: input records are never modified; each run builds its
     own normalized line items
  2. Precision: decimal.Decimal for every amount and rate
  3. Determinism: no wall clock, no map iteration in the output path

SEE ALSO:
  - engine.go: Run wires the pipeline together
  - ledger.go: ExpenseLine, the output row
*/
package forecast

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FAMILIES - The three kinds of input rows
// =============================================================================

type Family string

const (
	FamilyPosition Family = "position"
	FamilyRelated  Family = "related"
	FamilyOneTime  Family = "onetime"

	// FamilySettings only appears in errors about the settings table.
	FamilySettings Family = "settings"
	// FamilyInflation only appears in errors about the inflation table.
	FamilyInflation Family = "inflation"
)

// =============================================================================
// INPUT RECORDS
// =============================================================================

// Identity holds the descriptive columns shared by every family and carried
// through to each ledger line unchanged.
type Identity struct {
	PositionID    string `json:"position_id"`
	PositionTitle string `json:"position_title"`
	Department    string `json:"department"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
}

// PositionRecord is one row of the positions table.
type PositionRecord struct {
	Identity
	SalaryAnnual   decimal.Decimal `json:"salary_annual" validate:"gte=0"`
	BonusRate      decimal.Decimal `json:"bonus_rate" validate:"gte=0,lte=1"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"gte=0,lte=1"`
	StartDate      *Date           `json:"start_date,omitempty"`
	EndDate        *Date           `json:"end_date,omitempty"`
}

// RelatedRecord is one recurring personnel-related expense.
type RelatedRecord struct {
	Identity
	Item         string          `json:"item" validate:"required"`
	ExpenseType  string          `json:"expense_type" validate:"required"`
	AmountAnnual decimal.Decimal `json:"amount_annual"`
	StartDate    *Date           `json:"start_date,omitempty"`
	EndDate      *Date           `json:"end_date,omitempty"`
}

// OneTimeRecord is a single-month expense.
type OneTimeRecord struct {
	Identity
	Item          string          `json:"item" validate:"required"`
	ExpenseType   string          `json:"expense_type" validate:"required"`
	ExpenseAmount decimal.Decimal `json:"expense_amount"`
	ExpenseDate   *Date           `json:"expense_date" validate:"required"`
}

// InflationEntry says: from Date on, amounts are multiplied by Rate.
type InflationEntry struct {
	Date Date            `json:"inflation_date"`
	Rate decimal.Decimal `json:"inflation_rate" validate:"gte=0"`
}

// Settings are the run-wide scalars of the settings table.
type Settings struct {
	StartDate Date            `json:"start_date"`
	Months    int             `json:"months"`
	Fringe    decimal.Decimal `json:"fringe" validate:"gte=0"`
}

// Input is everything one forecast run consumes. The engine never mutates it.
type Input struct {
	Settings  Settings         `json:"settings"`
	Positions []PositionRecord `json:"positions"`
	Related   []RelatedRecord  `json:"related"`
	OneTime   []OneTimeRecord  `json:"onetime"`
	Inflation []InflationEntry `json:"inflation"`
}
