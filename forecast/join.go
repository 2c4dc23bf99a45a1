package forecast

import "sort"

// =============================================================================
// PERIOD JOIN & FILTER
// =============================================================================

// Pair is one admitted (month, line item) combination, by index into the
// periods and items slices it was built from.
type Pair struct {
	Period int
	Item   int
}

// Join forms every (period, item) combination and keeps the ones whose
// active interval intersects the month. Pairs come out period-major, items
// in input order within a period.
func Join(periods []Period, items []LineItem) []Pair {
	var pairs []Pair
	for p, period := range periods {
		for i := range items {
			if items[i].Active.Overlaps(period) {
				pairs = append(pairs, Pair{Period: p, Item: i})
			}
		}
	}
	return pairs
}

// JoinIndexed admits exactly the pairs Join does, in the same order, without
// visiting the full product. It relies on periods being ascending and
// contiguous, as Months produces them: each item then overlaps one
// contiguous run of periods, found by binary search.
func JoinIndexed(periods []Period, items []LineItem) []Pair {
	buckets := make([][]int, len(periods))
	total := 0
	for i := range items {
		lo, hi := periodRange(periods, items[i].Active)
		for p := lo; p <= hi; p++ {
			buckets[p] = append(buckets[p], i)
		}
		if hi >= lo {
			total += hi - lo + 1
		}
	}

	pairs := make([]Pair, 0, total)
	for p, bucket := range buckets {
		for _, i := range bucket {
			pairs = append(pairs, Pair{Period: p, Item: i})
		}
	}
	return pairs
}

// periodRange returns the first and last period index the interval
// overlaps; hi < lo when there is none.
func periodRange(periods []Period, iv Interval) (lo, hi int) {
	n := len(periods)
	lo, hi = 0, n-1
	if iv.Start != nil {
		start := *iv.Start
		lo = sort.Search(n, func(i int) bool { return periods[i].End.AfterOrEqual(start) })
	}
	if iv.End != nil {
		end := *iv.End
		hi = sort.Search(n, func(i int) bool { return periods[i].Start.After(end) }) - 1
	}
	return lo, hi
}
