package forecast

import "fmt"

// =============================================================================
// FORECAST ASSEMBLER
// =============================================================================

// FamilyLines is one family's adjusted output, in its own internal order.
type FamilyLines struct {
	Family Family
	Lines  []ExpenseLine
}

// Assemble concatenates the families in the order given. Each family keeps
// its internal ordering; nothing is re-sorted across families. A line that
// lacks a required column, claims the wrong family or falls outside the
// forecast months fails the whole assembly.
func Assemble(periods []Period, families ...FamilyLines) (*Ledger, error) {
	months := make(map[string]Period, len(periods))
	for _, p := range periods {
		months[p.Start.String()] = p
	}

	total := 0
	for _, f := range families {
		total += len(f.Lines)
	}

	ledger := &Ledger{Periods: periods, Lines: make([]ExpenseLine, 0, total)}
	for _, f := range families {
		for i, line := range f.Lines {
			if err := checkLine(f.Family, i, line, months); err != nil {
				return nil, err
			}
			ledger.Lines = append(ledger.Lines, line)
		}
	}
	return ledger, nil
}

func checkLine(family Family, i int, line ExpenseLine, months map[string]Period) error {
	table := string(family)
	row := fmt.Sprintf("row %d", i+1)
	switch {
	case line.Family != family:
		return &SchemaError{Table: table, Reason: fmt.Sprintf("%s belongs to family %q", row, line.Family)}
	case line.Month.Start.IsZero():
		return &SchemaError{Table: table, Column: "month_start", Reason: row + " is missing it"}
	case line.Month.End.IsZero():
		return &SchemaError{Table: table, Column: "month_end", Reason: row + " is missing it"}
	case line.ExpenseType == "":
		return &SchemaError{Table: table, Column: "expense_type", Reason: row + " is missing it"}
	case line.Item == "":
		return &SchemaError{Table: table, Column: "item", Reason: row + " is missing it"}
	case line.Headcount != 0 && line.Headcount != 1:
		return &SchemaError{Table: table, Column: "headcount", Reason: fmt.Sprintf("%s has %d, want 0 or 1", row, line.Headcount)}
	}
	if p, ok := months[line.Month.Start.String()]; !ok || !p.End.Equal(line.Month.End) {
		return &SchemaError{Table: table, Column: "month_start", Reason: fmt.Sprintf("%s month %s is not a forecast period", row, line.Month)}
	}
	return nil
}
