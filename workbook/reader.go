/*
Package workbook reads forecast inputs from an Excel workbook.

PURPOSE:
  Planners keep their inputs in one .xlsx file with five sheets. This
  package turns those sheets into a forecast.Input, enforcing the table
  schemas on the way in.

SHEETS:
  settings   key column + "setting" column: start_date, months, fringe
  positions  position_id, position_title, department, employee_id,
             employee_name, salary_annual, bonus_rate, commission_rate,
             start_date, end_date
  related    position_id, position_title, department, employee_id,
             employee_name, item, expense_type, amount_annual,
             start_date, end_date
  onetime    position_id, position_title, department, employee_id,
             employee_name, item, expense_type, expense_amount,
             expense_date
  inflation  inflation_date, inflation_rate (any row order)

SCHEMA RULES:
  - Row 1 is the header; column order is free, extra columns are ignored
  - A missing sheet or a missing required column is forecast.ErrSchemaMismatch
  - A cell that cannot be read as its column's type is
    forecast.ErrInvalidArgument, naming sheet, row and column
  - Fully blank rows are skipped

CELL VALUES:
  Cells are read raw. Dates may be Excel serial numbers or text in one of
  the layouts forecast.ParseDate accepts. Empty date cells mean "no date".
  Empty numeric cells read as zero.

SEE ALSO:
  - forecast/records.go: The typed records produced here
  - export/: Writes the ledger back out
*/
package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/warp/personnel-forecast/forecast"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetSettings  = "settings"
	SheetPositions = "positions"
	SheetRelated   = "related"
	SheetOneTime   = "onetime"
	SheetInflation = "inflation"
)

var identityColumns = []string{"position_id", "position_title", "department", "employee_id", "employee_name"}

// Required columns per sheet.
var (
	PositionColumns  = append(append([]string{}, identityColumns...), "salary_annual", "bonus_rate", "commission_rate", "start_date", "end_date")
	RelatedColumns   = append(append([]string{}, identityColumns...), "item", "expense_type", "amount_annual", "start_date", "end_date")
	OneTimeColumns   = append(append([]string{}, identityColumns...), "item", "expense_type", "expense_amount", "expense_date")
	InflationColumns = []string{"inflation_date", "inflation_rate"}
)

// ReadFile opens and reads the workbook at path.
func ReadFile(path string) (forecast.Input, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return forecast.Input{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

// Read reads a workbook from r (an uploaded file, for example).
func Read(r io.Reader) (forecast.Input, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return forecast.Input{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return read(f)
}

func read(f *excelize.File) (forecast.Input, error) {
	var in forecast.Input
	var err error

	if in.Settings, err = readSettings(f); err != nil {
		return forecast.Input{}, err
	}
	if in.Positions, err = readPositions(f); err != nil {
		return forecast.Input{}, err
	}
	if in.Related, err = readRelated(f); err != nil {
		return forecast.Input{}, err
	}
	if in.OneTime, err = readOneTime(f); err != nil {
		return forecast.Input{}, err
	}
	if in.Inflation, err = readInflation(f); err != nil {
		return forecast.Input{}, err
	}

	log.WithFields(log.Fields{
		"positions": len(in.Positions),
		"related":   len(in.Related),
		"onetime":   len(in.OneTime),
		"inflation": len(in.Inflation),
	}).Debug("workbook read")
	return in, nil
}

// =============================================================================
// TABLES
// =============================================================================

// table is one sheet with its header resolved to column positions.
type table struct {
	sheet   string
	family  forecast.Family
	columns map[string]int
	rows    [][]string
	lines   []int // 1-based sheet row of each entry in rows
}

var sheetFamilies = map[string]forecast.Family{
	SheetSettings:  forecast.FamilySettings,
	SheetPositions: forecast.FamilyPosition,
	SheetRelated:   forecast.FamilyRelated,
	SheetOneTime:   forecast.FamilyOneTime,
	SheetInflation: forecast.FamilyInflation,
}

func loadTable(f *excelize.File, sheet string, required []string) (*table, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &forecast.SchemaError{Table: sheet, Reason: "sheet not found"}
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, &forecast.SchemaError{Table: sheet, Reason: "no header row"}
	}

	t := &table{sheet: sheet, family: sheetFamilies[sheet], columns: make(map[string]int)}
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := t.columns[name]; name != "" && !dup {
			t.columns[name] = i
		}
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, &forecast.SchemaError{Table: sheet, Column: col, Reason: "required column is missing"}
		}
	}
	for i, row := range rows[1:] {
		if !blank(row) {
			t.rows = append(t.rows, row)
			t.lines = append(t.lines, i+2)
		}
	}
	return t, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed value of col in row i; rows are ragged when
// trailing cells are empty.
func (t *table) cell(i int, col string) string {
	c, ok := t.columns[col]
	if !ok || c >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][c])
}

func (t *table) cellError(i int, col, value, want string) error {
	return &forecast.RecordError{
		Component:  "workbook reader",
		Family:     t.family,
		RecordID:   fmt.Sprintf("row %d", t.lines[i]),
		Field:      col,
		Constraint: fmt.Sprintf("cannot read %q as %s", value, want),
	}
}

func (t *table) decimal(i int, col string) (decimal.Decimal, error) {
	v := t.cell(i, col)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return decimal.Zero, t.cellError(i, col, v, "a number")
	}
	return d, nil
}

func (t *table) date(i int, col string) (*forecast.Date, error) {
	v := t.cell(i, col)
	if v == "" {
		return nil, nil
	}
	d, err := parseCellDate(v)
	if err != nil {
		return nil, t.cellError(i, col, v, "a date")
	}
	return &d, nil
}

func (t *table) identity(i int) forecast.Identity {
	return forecast.Identity{
		PositionID:    normalizeID(t.cell(i, "position_id")),
		PositionTitle: t.cell(i, "position_title"),
		Department:    t.cell(i, "department"),
		EmployeeID:    normalizeID(t.cell(i, "employee_id")),
		EmployeeName:  t.cell(i, "employee_name"),
	}
}

// normalizeID renders whole-number ids the way they were typed: Excel hands
// back the raw number 4 as "4", but some writers produce "4.0".
func normalizeID(v string) string {
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int64(f)) && strings.Contains(v, ".") {
		return strconv.FormatInt(int64(f), 10)
	}
	return v
}

// parseCellDate accepts Excel serial day numbers and textual dates.
func parseCellDate(v string) (forecast.Date, error) {
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return forecast.Date{}, err
		}
		return forecast.DateOf(t), nil
	}
	return forecast.ParseDate(v)
}

// =============================================================================
// SHEET READERS
// =============================================================================

func readSettings(f *excelize.File) (forecast.Settings, error) {
	t, err := loadTable(f, SheetSettings, nil)
	if err != nil {
		return forecast.Settings{}, err
	}
	valueCol := 1
	if c, ok := t.columns["setting"]; ok {
		valueCol = c
	}

	values := make(map[string]string)
	for _, row := range t.rows {
		if len(row) == 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		if valueCol < len(row) {
			values[key] = strings.TrimSpace(row[valueCol])
		} else {
			values[key] = ""
		}
	}
	for _, key := range []string{"start_date", "months", "fringe"} {
		if _, ok := values[key]; !ok {
			return forecast.Settings{}, &forecast.SchemaError{Table: SheetSettings, Column: key, Reason: "required setting is missing"}
		}
	}

	settingErr := func(key, want string) error {
		return &forecast.RecordError{
			Component:  "workbook reader",
			Family:     forecast.FamilySettings,
			RecordID:   key,
			Field:      key,
			Constraint: fmt.Sprintf("cannot read %q as %s", values[key], want),
		}
	}

	var s forecast.Settings
	if s.StartDate, err = parseCellDate(values["start_date"]); err != nil {
		return forecast.Settings{}, settingErr("start_date", "a date")
	}
	months, err := decimal.NewFromString(values["months"])
	if err != nil || !months.IsInteger() {
		return forecast.Settings{}, settingErr("months", "a whole number")
	}
	s.Months = int(months.IntPart())
	if s.Fringe, err = decimal.NewFromString(values["fringe"]); err != nil {
		return forecast.Settings{}, settingErr("fringe", "a number")
	}
	return s, nil
}

func readPositions(f *excelize.File) ([]forecast.PositionRecord, error) {
	t, err := loadTable(f, SheetPositions, PositionColumns)
	if err != nil {
		return nil, err
	}
	records := make([]forecast.PositionRecord, 0, len(t.rows))
	for i := range t.rows {
		r := forecast.PositionRecord{Identity: t.identity(i)}
		if r.SalaryAnnual, err = t.decimal(i, "salary_annual"); err != nil {
			return nil, err
		}
		if r.BonusRate, err = t.decimal(i, "bonus_rate"); err != nil {
			return nil, err
		}
		if r.CommissionRate, err = t.decimal(i, "commission_rate"); err != nil {
			return nil, err
		}
		if r.StartDate, err = t.date(i, "start_date"); err != nil {
			return nil, err
		}
		if r.EndDate, err = t.date(i, "end_date"); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func readRelated(f *excelize.File) ([]forecast.RelatedRecord, error) {
	t, err := loadTable(f, SheetRelated, RelatedColumns)
	if err != nil {
		return nil, err
	}
	records := make([]forecast.RelatedRecord, 0, len(t.rows))
	for i := range t.rows {
		r := forecast.RelatedRecord{
			Identity:    t.identity(i),
			Item:        t.cell(i, "item"),
			ExpenseType: t.cell(i, "expense_type"),
		}
		if r.AmountAnnual, err = t.decimal(i, "amount_annual"); err != nil {
			return nil, err
		}
		if r.StartDate, err = t.date(i, "start_date"); err != nil {
			return nil, err
		}
		if r.EndDate, err = t.date(i, "end_date"); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func readOneTime(f *excelize.File) ([]forecast.OneTimeRecord, error) {
	t, err := loadTable(f, SheetOneTime, OneTimeColumns)
	if err != nil {
		return nil, err
	}
	records := make([]forecast.OneTimeRecord, 0, len(t.rows))
	for i := range t.rows {
		r := forecast.OneTimeRecord{
			Identity:    t.identity(i),
			Item:        t.cell(i, "item"),
			ExpenseType: t.cell(i, "expense_type"),
		}
		if r.ExpenseAmount, err = t.decimal(i, "expense_amount"); err != nil {
			return nil, err
		}
		if r.ExpenseDate, err = t.date(i, "expense_date"); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func readInflation(f *excelize.File) ([]forecast.InflationEntry, error) {
	t, err := loadTable(f, SheetInflation, InflationColumns)
	if err != nil {
		return nil, err
	}
	entries := make([]forecast.InflationEntry, 0, len(t.rows))
	for i := range t.rows {
		var e forecast.InflationEntry
		d, err := t.date(i, "inflation_date")
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, t.cellError(i, "inflation_date", "", "a date")
		}
		e.Date = *d
		if e.Rate, err = t.decimal(i, "inflation_rate"); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
