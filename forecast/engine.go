/*
engine.go - Runs the whole forecast pipeline

PURPOSE:
  Wires period generation, normalization, expansion, join, adjustment and
  assembly into one call. The engine is a pure batch transform: no I/O,
  no wall clock, no shared state between runs.

EXAMPLE:
  engine := &forecast.Engine{Workers: 4}
  ledger, err := engine.Run(forecast.Input{
      Settings:  forecast.Settings{StartDate: jan1, Months: 24, Fringe: fringe},
      Positions: positions,
      Inflation: schedule,
  })

CONCURRENCY:
  Workers <= 1 adjusts every pair on the calling goroutine. Workers > 1
  splits each family's admitted pairs into contiguous batches adjusted in
  parallel against the same read-only InflationIndex. Every batch writes
  its own slice range, so output order and values are identical to the
  sequential run.

SEE ALSO:
  - records.go: Input types and package overview
  - assemble.go: Final concatenation
*/
package forecast

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// minBatch keeps tiny ledgers from being split into goroutine-sized crumbs.
const minBatch = 256

// Engine expands forecast inputs into a ledger.
type Engine struct {
	// Workers bounds parallel adjustment; 0 or 1 runs sequentially.
	Workers int

	// Logger receives one debug line per stage. Defaults to the logrus
	// standard logger.
	Logger log.FieldLogger
}

// Run produces the ledger for in. It fails on the first invalid record.
func (e *Engine) Run(in Input) (*Ledger, error) {
	logger := e.logger()

	if err := NormalizeSettings(in.Settings); err != nil {
		return nil, err
	}
	periods, err := Months(in.Settings.StartDate, in.Settings.Months)
	if err != nil {
		return nil, err
	}
	inflation, err := NewInflationIndex(in.Inflation)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"periods":         len(periods),
		"first_month":     periods[0].Start.String(),
		"inflation_dates": inflation.Len(),
	}).Debug("forecast months generated")

	positionItems, err := ExpandPositions(in.Positions, in.Settings.Fringe)
	if err != nil {
		return nil, err
	}
	relatedItems, err := ExpandRelated(in.Related)
	if err != nil {
		return nil, err
	}
	oneTimeItems, err := ExpandOneTime(in.OneTime)
	if err != nil {
		return nil, err
	}

	families := []FamilyLines{
		{Family: FamilyPosition, Lines: e.expand(periods, positionItems, inflation)},
		{Family: FamilyRelated, Lines: e.expand(periods, relatedItems, inflation)},
		{Family: FamilyOneTime, Lines: e.expand(periods, oneTimeItems, inflation)},
	}
	for i, items := range [][]LineItem{positionItems, relatedItems, oneTimeItems} {
		logger.WithFields(log.Fields{
			"family":     families[i].Family,
			"line_items": len(items),
			"lines":      len(families[i].Lines),
		}).Debug("family expanded")
	}

	ledger, err := Assemble(periods, families...)
	if err != nil {
		return nil, err
	}
	logger.WithField("lines", ledger.Len()).Debug("ledger assembled")
	return ledger, nil
}

// expand joins one family's items to the months and adjusts every pair.
func (e *Engine) expand(periods []Period, items []LineItem, inflation *InflationIndex) []ExpenseLine {
	pairs := JoinIndexed(periods, items)
	lines := make([]ExpenseLine, len(pairs))

	adjust := func(from, to int) {
		for k := from; k < to; k++ {
			pair := pairs[k]
			lines[k] = Adjust(periods[pair.Period], items[pair.Item], inflation)
		}
	}

	workers := e.Workers
	if workers <= 1 || len(pairs) < 2*minBatch {
		adjust(0, len(pairs))
		return lines
	}

	batch := (len(pairs) + workers - 1) / workers
	if batch < minBatch {
		batch = minBatch
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for from := 0; from < len(pairs); from += batch {
		from, to := from, min(from+batch, len(pairs))
		g.Go(func() error {
			adjust(from, to)
			return nil
		})
	}
	_ = g.Wait()
	return lines
}

func (e *Engine) logger() log.FieldLogger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.StandardLogger()
}
