/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  The request body of POST /api/forecast is forecast.Input as-is: the
  record types already carry their JSON column names. This file holds the
  API-only shapes around it.

TYPES:
  RunDTO         a stored run (GET /api/runs)
  ErrorResponse  every non-2xx body

NUMBERS:
  Amounts and rates accept JSON numbers or decimal strings and are always
  returned as decimal strings, so no value passes through float64.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/personnel-forecast/store/sqlite"
)

// RunDTO represents a stored forecast run in API responses.
type RunDTO struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	CreatedAt string          `json:"created_at"`
	StartDate string          `json:"start_date"`
	Months    int             `json:"months"`
	Lines     int             `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toRunDTO(run sqlite.Run) RunDTO {
	return RunDTO{
		ID:        run.ID,
		Source:    run.Source,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
		StartDate: run.StartDate.String(),
		Months:    run.Months,
		Lines:     run.Lines,
		Total:     run.Total,
	}
}

func toRunDTOs(runs []sqlite.Run) []RunDTO {
	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	return dtos
}
