/*
handlers.go - HTTP API handlers for the personnel forecast

PURPOSE:
  Exposes the forecast engine over HTTP. Handles request parsing, output
  format negotiation and error mapping, and delegates the calculation to
  forecast.Engine.

ENDPOINTS:
  Forecast:
    POST   /api/forecast            JSON body = forecast.Input
    POST   /api/forecast/workbook   multipart upload, field "file" (.xlsx)
    Both accept ?format=csv|xlsx|json (default json).

  Runs (only when a store is configured):
    GET    /api/runs                List stored runs, newest first
    GET    /api/runs/{id}           Stored ledger, ?format= as above

  Operations:
    GET    /healthz                 Liveness
    GET    /metrics                 Prometheus metrics

REQUEST FLOW:
  1. Parse input (JSON or workbook)
  2. Run the engine
  3. Store the run, when a store is configured
  4. Render the ledger in the requested format

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, invalid record, schema mismatch, unknown format
  - 404: Unknown run id / runs not enabled
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/warp/personnel-forecast/export"
	"github.com/warp/personnel-forecast/forecast"
	"github.com/warp/personnel-forecast/store/sqlite"
	"github.com/warp/personnel-forecast/workbook"
)

const (
	sourceJSON     = "json"
	sourceWorkbook = "workbook"

	outcomeOK           = "ok"
	outcomeInvalidInput = "invalid_input"
	outcomeError        = "error"

	// maxUpload bounds workbook uploads held in memory.
	maxUpload = 32 << 20

	headerRunID = "X-Forecast-Run-Id"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *forecast.Engine
	// Store is optional; when nil runs are not kept.
	Store   *sqlite.Store
	Metrics *Metrics
}

// NewHandler creates a new handler. store may be nil.
func NewHandler(engine *forecast.Engine, store *sqlite.Store) *Handler {
	if engine == nil {
		engine = &forecast.Engine{}
	}
	return &Handler{
		Engine:  engine,
		Store:   store,
		Metrics: NewMetrics(),
	}
}

// =============================================================================
// FORECAST ENDPOINTS
// =============================================================================

// RunForecast handles POST /api/forecast.
func (h *Handler) RunForecast(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var in forecast.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.Metrics.Observe(sourceJSON, outcomeInvalidInput, 0, time.Since(started))
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.run(w, r, sourceJSON, in, started)
}

// RunWorkbook handles POST /api/forecast/workbook.
func (h *Handler) RunWorkbook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.Metrics.Observe(sourceWorkbook, outcomeInvalidInput, 0, time.Since(started))
		writeError(w, http.StatusBadRequest, "Missing workbook upload (form field \"file\")", err)
		return
	}
	defer file.Close()

	in, err := workbook.Read(file)
	if err != nil {
		h.Metrics.Observe(sourceWorkbook, outcomeInvalidInput, 0, time.Since(started))
		writeError(w, http.StatusBadRequest, "Unreadable workbook", err)
		return
	}
	h.run(w, r, sourceWorkbook, in, started)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, source string, in forecast.Input, started time.Time) {
	writer, err := export.ForFormat(formatParam(r))
	if err != nil {
		h.Metrics.Observe(source, outcomeInvalidInput, 0, time.Since(started))
		writeError(w, http.StatusBadRequest, "Unknown output format", err)
		return
	}

	ledger, err := h.Engine.Run(in)
	if err != nil {
		status, outcome := http.StatusInternalServerError, outcomeError
		if forecast.IsClientError(err) {
			status, outcome = http.StatusBadRequest, outcomeInvalidInput
		}
		h.Metrics.Observe(source, outcome, 0, time.Since(started))
		writeError(w, status, "Forecast failed", err)
		return
	}

	if h.Store != nil {
		run, err := h.Store.SaveRun(r.Context(), "api/"+source, ledger)
		if err != nil {
			h.Metrics.Observe(source, outcomeError, 0, time.Since(started))
			writeError(w, http.StatusInternalServerError, "Failed to store run", err)
			return
		}
		w.Header().Set(headerRunID, run.ID)
	}

	took := time.Since(started)
	h.Metrics.Observe(source, outcomeOK, ledger.Len(), took)
	log.WithFields(log.Fields{
		"source":   source,
		"rows":     ledger.Len(),
		"duration": took,
	}).Info("forecast run")

	writeLedger(w, writer, ledger)
}

// =============================================================================
// RUN ENDPOINTS
// =============================================================================

// ListRuns handles GET /api/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusNotFound, "Run storage is not enabled", nil)
		return
	}
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTOs(runs))
}

// GetRun handles GET /api/runs/{id}.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusNotFound, "Run storage is not enabled", nil)
		return
	}
	writer, err := export.ForFormat(formatParam(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown output format", err)
		return
	}

	id := chi.URLParam(r, "id")
	ledger, err := h.Store.LoadLedger(r.Context(), id)
	if errors.Is(err, sqlite.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "Run not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load run", err)
		return
	}

	w.Header().Set(headerRunID, id)
	writeLedger(w, writer, ledger)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func formatParam(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return export.FormatJSON
}

// writeLedger renders into a buffer first; a render error becomes a 500.
func writeLedger(w http.ResponseWriter, writer export.Writer, ledger *forecast.Ledger) {
	var buf bytes.Buffer
	if err := writer.Write(&buf, ledger); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render ledger", err)
		return
	}
	w.Header().Set("Content-Type", writer.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
