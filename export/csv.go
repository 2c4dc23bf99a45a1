package export

import (
	"encoding/csv"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/warp/personnel-forecast/forecast"
)

// CSV writes the ledger as comma-separated values with a header row.
type CSV struct{}

func (CSV) ContentType() string { return "text/csv" }

func (CSV) Write(w io.Writer, ledger *forecast.Ledger) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(forecast.Columns); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return err
	}
	for _, line := range ledger.Lines {
		if err := writer.Write(line.Values()); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return err
	}
	return nil
}
