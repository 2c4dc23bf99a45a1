package export

import (
	"fmt"
	"io"

	"github.com/warp/personnel-forecast/forecast"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetLedger  = "ledger"
	SheetSummary = "summary"
)

// XLSX writes the ledger as an Excel workbook.
type XLSX struct{}

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSX) Write(w io.Writer, ledger *forecast.Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetLedger); err != nil {
		return err
	}
	if err := writeLedgerSheet(f, ledger); err != nil {
		return fmt.Errorf("write %s sheet: %w", SheetLedger, err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	if err := writeSummarySheet(f, ledger); err != nil {
		return fmt.Errorf("write %s sheet: %w", SheetSummary, err)
	}

	_, err := f.WriteTo(w)
	return err
}

func writeLedgerSheet(f *excelize.File, ledger *forecast.Ledger) error {
	sw, err := f.NewStreamWriter(SheetLedger)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", stringCells(forecast.Columns)); err != nil {
		return err
	}

	for i, line := range ledger.Lines {
		values := line.Values()
		row := stringCells(values)
		// expense_amount and headcount are numeric cells.
		row[10] = line.ExpenseAmount.InexactFloat64()
		row[12] = line.Headcount

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeSummarySheet(f *excelize.File, ledger *forecast.Ledger) error {
	sw, err := f.NewStreamWriter(SheetSummary)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"month", "expense_amount", "headcount"}); err != nil {
		return err
	}
	for i, total := range ledger.Totals() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{total.Month, total.Amount.InexactFloat64(), total.Headcount}); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func stringCells(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
