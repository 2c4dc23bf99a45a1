package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/personnel-forecast/forecast"
)

func itemActive(iv forecast.Interval) forecast.LineItem {
	return forecast.LineItem{Family: forecast.FamilyRelated, ExpenseType: "x", Item: "x", MonthlyBase: dec("1"), Active: iv}
}

func TestJoin_AdmitsOnlyOverlappingMonths(t *testing.T) {
	periods, err := forecast.Months(date(2022, time.January, 1), 4)
	require.NoError(t, err)

	items := []forecast.LineItem{
		itemActive(forecast.Interval{}),
		itemActive(forecast.Interval{End: datePtr(2022, time.February, 1)}),
		itemActive(forecast.Interval{Start: datePtr(2022, time.March, 31)}),
		itemActive(forecast.Bounded(date(2021, time.January, 1), date(2021, time.December, 31))),
	}

	pairs := forecast.Join(periods, items)

	assert.Equal(t, []forecast.Pair{
		{Period: 0, Item: 0}, {Period: 0, Item: 1},
		{Period: 1, Item: 0}, {Period: 1, Item: 1},
		{Period: 2, Item: 0}, {Period: 2, Item: 2},
		{Period: 3, Item: 0}, {Period: 3, Item: 2},
	}, pairs)
}

func TestJoinIndexed_MatchesFullProduct(t *testing.T) {
	// GIVEN: Items with every kind of boundary relative to a 30-month window
	// WHEN: Joining with the full product and with the index
	// THEN: Both admit exactly the same pairs in the same order

	periods, err := forecast.Months(date(2022, time.January, 1), 30)
	require.NoError(t, err)

	var items []forecast.LineItem
	items = append(items, itemActive(forecast.Interval{}))
	for offset := -40; offset < 960; offset += 37 {
		start := date(2022, time.January, 1).AddDays(offset)
		items = append(items,
			itemActive(forecast.Interval{Start: &start}),
			itemActive(forecast.Interval{End: &start}),
			itemActive(forecast.Bounded(start, start.AddDays(45))),
			itemActive(forecast.Bounded(start, start)),
		)
	}

	assert.Equal(t, forecast.Join(periods, items), forecast.JoinIndexed(periods, items))
}

func TestJoin_NoItems(t *testing.T) {
	periods, err := forecast.Months(date(2022, time.January, 1), 2)
	require.NoError(t, err)

	assert.Empty(t, forecast.Join(periods, nil))
	assert.Empty(t, forecast.JoinIndexed(periods, nil))
}
