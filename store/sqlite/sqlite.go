/*
Package sqlite keeps forecast runs and their ledgers in SQLite.

PURPOSE:
  The engine itself has no storage. When a run should be kept (CLI --sqlite,
  or the api with output.sqlite configured) the finished ledger is written
  here under a run id so it can be listed and read back later.

APPEND-ONLY:
  A run is written once, in one transaction, and never updated. Re-running
  the same input produces a new run with a new id.

KEY TABLES:
  forecast_runs:  One row per run (id, source, start month, months, totals)
  expense_lines:  The ledger rows, keyed by (run_id, seq)

STORAGE FORMAT:
  Dates are TEXT "YYYY-MM-DD", NULL for an unbounded start/end date.
  Amounts are TEXT decimal strings so nothing is rounded through REAL.

USAGE:
  store, err := sqlite.New("./data/forecast.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  run, err := store.SaveRun(ctx, "cli", ledger)

SEE ALSO:
  - forecast/ledger.go: The rows stored here
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/personnel-forecast/forecast"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("forecast run not found")

// Store persists forecast runs.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Run describes one stored forecast run.
type Run struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
	StartDate forecast.Date   `json:"start_date"`
	Months    int             `json:"months"`
	Lines     int             `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: an in-memory database is private to its connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS forecast_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		start_date TEXT NOT NULL,
		months INTEGER NOT NULL,
		line_count INTEGER NOT NULL,
		total TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_forecast_runs_created
		ON forecast_runs(created_at);

	-- Ledger rows, in ledger order
	CREATE TABLE IF NOT EXISTS expense_lines (
		run_id TEXT NOT NULL REFERENCES forecast_runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		family TEXT NOT NULL,
		month_start TEXT NOT NULL,
		month_end TEXT NOT NULL,
		position_id TEXT NOT NULL,
		position_title TEXT NOT NULL,
		department TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		expense_type TEXT NOT NULL,
		expense_amount TEXT NOT NULL,
		item TEXT NOT NULL,
		headcount INTEGER NOT NULL CHECK (headcount IN (0, 1)),
		PRIMARY KEY (run_id, seq)
	);

	-- Per-month rollups and per-position drilldowns
	CREATE INDEX IF NOT EXISTS idx_expense_lines_run_month
		ON expense_lines(run_id, month_start);
	CREATE INDEX IF NOT EXISTS idx_expense_lines_run_position
		ON expense_lines(run_id, position_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WRITES
// =============================================================================

// SaveRun stores the ledger under a new run id, atomically.
func (s *Store) SaveRun(ctx context.Context, source string, ledger *forecast.Ledger) (Run, error) {
	if len(ledger.Periods) == 0 {
		return Run{}, fmt.Errorf("%w: ledger has no forecast months", forecast.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run := Run{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: s.now().UTC().Truncate(time.Second),
		StartDate: ledger.Periods[0].Start,
		Months:    len(ledger.Periods),
		Lines:     ledger.Len(),
		Total:     ledger.Total(),
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO forecast_runs (id, source, start_date, months, line_count, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.StartDate.String(), run.Months, run.Lines, run.Total.String(),
		run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx, `
		INSERT INTO expense_lines
		(run_id, seq, family, month_start, month_end, position_id, position_title, department,
		 employee_id, employee_name, start_date, end_date, expense_type, expense_amount, item, headcount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("failed to prepare line insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range ledger.Lines {
		_, err := stmt.ExecContext(ctx,
			run.ID, i, string(l.Family),
			l.Month.Start.String(), l.Month.End.String(),
			l.PositionID, l.PositionTitle, l.Department, l.EmployeeID, l.EmployeeName,
			nullDate(l.Active.Start), nullDate(l.Active.End),
			l.ExpenseType, l.ExpenseAmount.String(), l.Item, l.Headcount,
		)
		if err != nil {
			return Run{}, fmt.Errorf("failed to insert line %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}
	return run, nil
}

// =============================================================================
// READS
// =============================================================================

// GetRun returns the run header for id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, start_date, months, line_count, total, created_at
		FROM forecast_runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns every stored run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, start_date, months, line_count, total, created_at
		FROM forecast_runs
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadLedger rebuilds the stored ledger of a run, in its original order.
func (s *Store) LoadLedger(ctx context.Context, id string) (*forecast.Ledger, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	periods, err := forecast.Months(run.StartDate, run.Months)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT family, month_start, month_end, position_id, position_title, department,
		       employee_id, employee_name, start_date, end_date, expense_type, expense_amount,
		       item, headcount
		FROM expense_lines
		WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := &forecast.Ledger{Periods: periods, Lines: make([]forecast.ExpenseLine, 0, run.Lines)}
	for rows.Next() {
		var (
			l                    forecast.ExpenseLine
			family               string
			monthStart, monthEnd string
			start, end           sql.NullString
			amount               string
		)
		err := rows.Scan(&family, &monthStart, &monthEnd,
			&l.PositionID, &l.PositionTitle, &l.Department, &l.EmployeeID, &l.EmployeeName,
			&start, &end, &l.ExpenseType, &amount, &l.Item, &l.Headcount)
		if err != nil {
			return nil, err
		}

		l.Family = forecast.Family(family)
		if l.Month.Start, err = forecast.ParseDate(monthStart); err != nil {
			return nil, err
		}
		if l.Month.End, err = forecast.ParseDate(monthEnd); err != nil {
			return nil, err
		}
		if l.Active.Start, err = parseNullDate(start); err != nil {
			return nil, err
		}
		if l.Active.End, err = parseNullDate(end); err != nil {
			return nil, err
		}
		if l.ExpenseAmount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("stored amount %q: %w", amount, err)
		}
		ledger.Lines = append(ledger.Lines, l)
	}
	return ledger, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                        Run
		startDate, total, createdAt string
	)
	if err := row.Scan(&run.ID, &run.Source, &startDate, &run.Months, &run.Lines, &total, &createdAt); err != nil {
		return Run{}, err
	}

	var err error
	if run.StartDate, err = forecast.ParseDate(startDate); err != nil {
		return Run{}, err
	}
	if run.Total, err = decimal.NewFromString(total); err != nil {
		return Run{}, err
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Run{}, err
	}
	return run, nil
}

func nullDate(d *forecast.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(s sql.NullString) (*forecast.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := forecast.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
