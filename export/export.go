/*
Package export writes a forecast ledger to the formats planners consume.

PURPOSE:
  The ledger is one flat table. Every writer emits the same columns in the
  same order (forecast.Columns) so a CSV, a workbook and a JSON dump of one
  run line up cell for cell.

FORMATS:
  csv   header row + one record per ledger line
  xlsx  one "ledger" sheet, amounts as numbers, plus a "summary" sheet of
        monthly totals
  json  {"columns": [...], "rows": [{...}], "summary": [...]}

UNBOUNDED DATES:
  A missing start_date/end_date is written as an empty cell (csv, xlsx) or
  null (json). Nothing is substituted for it.

USAGE:
  w, err := export.ForFormat("xlsx")
  if err != nil { ... }
  err = w.Write(out, ledger)
*/
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/personnel-forecast/forecast"
)

// Format names accepted by ForFormat.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Writer renders a ledger to w.
type Writer interface {
	Write(w io.Writer, ledger *forecast.Ledger) error
	ContentType() string
}

// ForFormat returns the writer for a format name (case-insensitive).
func ForFormat(format string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, "":
		return CSV{}, nil
	case FormatXLSX:
		return XLSX{}, nil
	case FormatJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", forecast.ErrInvalidArgument, format)
	}
}

// FormatOf guesses the format from a file extension; unknown extensions
// fall back to csv.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".json":
		return FormatJSON
	default:
		return FormatCSV
	}
}

// WriteFile writes the ledger to path in the given format.
func WriteFile(path, format string, ledger *forecast.Ledger) error {
	w, err := ForFormat(format)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.Write(f, ledger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
