package export_test

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/personnel-forecast/export"
	"github.com/warp/personnel-forecast/forecast"
	"github.com/xuri/excelize/v2"
)

func datePtr(y int, m time.Month, d int) *forecast.Date {
	v := forecast.NewDate(y, m, d)
	return &v
}

// sampleLedger has one position leaving mid-February and one open-ended
// related expense, over three months.
func sampleLedger(t *testing.T) *forecast.Ledger {
	t.Helper()
	in := forecast.Input{
		Settings: forecast.Settings{StartDate: forecast.NewDate(2022, time.January, 1), Months: 3},
		Positions: []forecast.PositionRecord{{
			Identity:     forecast.Identity{PositionID: "1", PositionTitle: "Engineer", EmployeeName: "red"},
			SalaryAnnual: decimal.RequireFromString("1200"),
			EndDate:      datePtr(2022, time.February, 14),
		}},
		Related: []forecast.RelatedRecord{{
			Identity:     forecast.Identity{PositionID: "1"},
			Item:         "phone",
			ExpenseType:  "telecom",
			AmountAnnual: decimal.RequireFromString("360"),
		}},
	}
	ledger, err := (&forecast.Engine{}).Run(in)
	require.NoError(t, err)
	require.Equal(t, 5, ledger.Len())
	return ledger
}

func TestForFormat(t *testing.T) {
	for format, want := range map[string]string{
		"":      "text/csv",
		"CSV":   "text/csv",
		"json":  "application/json",
		" xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	} {
		w, err := export.ForFormat(format)
		require.NoError(t, err, format)
		assert.Equal(t, want, w.ContentType())
	}

	_, err := export.ForFormat("parquet")
	assert.ErrorIs(t, err, forecast.ErrInvalidArgument)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, export.FormatXLSX, export.FormatOf("out/ledger.XLSX"))
	assert.Equal(t, export.FormatJSON, export.FormatOf("ledger.json"))
	assert.Equal(t, export.FormatCSV, export.FormatOf("ledger"))
}

func TestCSV_HeaderAndRows(t *testing.T) {
	// GIVEN: A ledger with a bounded position and an unbounded related item
	// WHEN: Writing CSV
	// THEN: Header is the ledger schema; unbounded dates are empty cells

	var buf bytes.Buffer
	require.NoError(t, export.CSV{}.Write(&buf, sampleLedger(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, forecast.Columns, records[0])

	first := records[1]
	assert.Equal(t, []string{"2022-01-01", "2022-01-31", "1", "Engineer", "", "", "red", "", "2022-02-14", "salary", "100", "salary", "1"}, first)

	related := records[5]
	assert.Equal(t, "telecom", related[9])
	assert.Equal(t, "", related[7])
	assert.Equal(t, "", related[8])
	assert.Equal(t, "30", related[10])
}

func TestXLSX_LedgerAndSummarySheets(t *testing.T) {
	ledger := sampleLedger(t)
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, export.WriteFile(path, export.FormatXLSX, ledger))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetLedger)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, forecast.Columns, rows[0])
	assert.Equal(t, "2022-02-01", rows[2][0])
	assert.Equal(t, "50", rows[2][10], "feb salary prorated 14/28")

	summary, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"2022-01", "130", "1"}, summary[1])
	assert.Equal(t, []string{"2022-03", "30", "0"}, summary[3])
}

func TestJSON_Document(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.JSON{}.Write(&buf, sampleLedger(t)))

	var doc struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
		Summary []map[string]any `json:"summary"`
		Total   string           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, forecast.Columns, doc.Columns)
	require.Len(t, doc.Rows, 5)
	assert.Nil(t, doc.Rows[0]["start_date"], "unbounded start is null")
	assert.Equal(t, "2022-02-14", doc.Rows[0]["end_date"])
	assert.Equal(t, "100", doc.Rows[0]["expense_amount"])
	assert.Len(t, doc.Summary, 3)
	assert.Equal(t, "240", doc.Total)
}
