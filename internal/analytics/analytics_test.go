package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_analytics/internal/analytics"
)

func TestBuildDistribution_FillsGaps(t *testing.T) {
	buckets, err := analytics.BuildDistribution(map[int]int64{5: 2, 3: 1}, analytics.RatingDomain)
	require.NoError(t, err)

	assert.Equal(t, []analytics.Bucket{
		{Value: 1, Count: 0},
		{Value: 2, Count: 0},
		{Value: 3, Count: 1},
		{Value: 4, Count: 0},
		{Value: 5, Count: 2},
	}, buckets)
	assert.Equal(t, int64(3), analytics.Total(buckets))
}

func TestBuildDistribution_EmptyInput(t *testing.T) {
	buckets, err := analytics.BuildDistribution(nil, analytics.RatingDomain)
	require.NoError(t, err)

	require.Len(t, buckets, 5)
	for i, b := range buckets {
		assert.Equal(t, i+1, b.Value)
		assert.Zero(t, b.Count)
	}
}

func TestBuildDistribution_RejectsOutOfDomain(t *testing.T) {
	_, err := analytics.BuildDistribution(map[int]int64{6: 1}, analytics.RatingDomain)
	assert.Error(t, err)
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 4.33, analytics.Average(13, 3))
	assert.Equal(t, 15.0, analytics.Average(30, 2))
	assert.Equal(t, 0.0, analytics.Average(42, 0))
	assert.Equal(t, 0.67, analytics.Average(2, 3))
}

func TestFraction(t *testing.T) {
	assert.Equal(t, 0.75, analytics.Fraction([]bool{true, true, false, true}))
	assert.Equal(t, 0.0, analytics.Fraction(nil))
	assert.Equal(t, 1.0, analytics.Fraction([]bool{true}))
}

func TestTrend(t *testing.T) {
	assert.Equal(t, 100.0, analytics.Trend(10, 0))
	assert.Equal(t, 0.0, analytics.Trend(0, 0))
	assert.Equal(t, 50.0, analytics.Trend(150, 100))
	assert.Equal(t, -50.0, analytics.Trend(50, 100))
}

type group struct {
	id  string
	avg float64
	n   int64
}

func (g group) RankID() string           { return g.id }
func (g group) PrimaryMetric() float64   { return g.avg }
func (g group) SecondaryMetric() float64 { return float64(g.n) }
func (g group) SampleCount() int64       { return g.n }

func ids(groups []group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.id
	}
	return out
}

func TestTopK_TieBrokenBySampleCount(t *testing.T) {
	groups := []group{
		{id: "A", avg: 4.5, n: 10},
		{id: "B", avg: 4.5, n: 20},
		{id: "C", avg: 4.0, n: 50},
	}

	top := analytics.TopK(groups, analytics.RankOptions{Limit: 2})
	assert.Equal(t, []string{"B", "A"}, ids(top))
	assert.Equal(t, "A", groups[0].id, "input must not be reordered")
}

func TestTopK_MinSamplesExcludesGroups(t *testing.T) {
	groups := []group{
		{id: "lucky", avg: 5.0, n: 1},
		{id: "solid", avg: 4.2, n: 12},
	}

	top := analytics.TopK(groups, analytics.RankOptions{Limit: 10, MinSamples: 5})
	assert.Equal(t, []string{"solid"}, ids(top))
}

func TestTopK_Ascending(t *testing.T) {
	groups := []group{
		{id: "A", avg: 2.0, n: 3},
		{id: "B", avg: 1.5, n: 4},
		{id: "C", avg: 2.0, n: 9},
	}

	low := analytics.TopK(groups, analytics.RankOptions{Ascending: true})
	assert.Equal(t, []string{"B", "C", "A"}, ids(low))
}

func TestTopK_ResidualTies(t *testing.T) {
	groups := []group{
		{id: "z", avg: 3, n: 2},
		{id: "a", avg: 3, n: 2},
	}

	assert.Equal(t, []string{"a", "z"}, ids(analytics.TopK(groups, analytics.RankOptions{})))
	assert.Equal(t, []string{"z", "a"}, ids(analytics.TopK(groups, analytics.RankOptions{KeepInputOrder: true})))
}

func TestTopK_DefaultLimit(t *testing.T) {
	groups := make([]group, 15)
	for i := range groups {
		groups[i] = group{id: string(rune('a' + i)), avg: float64(i), n: 1}
	}

	assert.Len(t, analytics.TopK(groups, analytics.RankOptions{}), analytics.DefaultRankLimit)
}

func TestResolver_Boundaries(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	r := analytics.NewResolver(loc)
	ref := time.Date(2026, 10, 15, 20, 30, 0, 0, time.UTC) // 01:30 on the 16th in loc

	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, loc), r.StartOfDay(ref))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, loc), r.StartOfYear(ref))
	assert.True(t, r.DaysBack(ref, 7).Equal(ref.AddDate(0, 0, -7)))
}

func TestResolver_DayAndRange(t *testing.T) {
	r := analytics.NewResolver(time.UTC)
	day := time.Date(2026, 3, 8, 14, 0, 0, 0, time.UTC)

	w := r.Day(day)
	require.True(t, w.Bounded())
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), *w.From)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *w.Until)
	assert.True(t, w.Contains(day))
	assert.False(t, w.Contains(*w.Until))

	open := r.Range(&day, nil)
	assert.NotNil(t, open.From)
	assert.Nil(t, open.Until)
	assert.True(t, open.Contains(day.AddDate(10, 0, 0)))

	below := r.Range(nil, &day)
	assert.Nil(t, below.From)
	assert.True(t, below.Contains(day.AddDate(-10, 0, 0)))
	assert.False(t, below.Contains(day))
}

func TestWindow_Previous(t *testing.T) {
	r := analytics.NewResolver(time.UTC)
	w := r.Day(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))

	prev, ok := w.Previous()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), *prev.From)
	assert.Equal(t, *w.From, *prev.Until)

	_, ok = r.Since(time.Now()).Previous()
	assert.False(t, ok)
}

func TestResolver_Bucket(t *testing.T) {
	r := analytics.NewResolver(time.UTC)
	thu := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)

	key, start := r.Bucket(thu, analytics.PeriodDay)
	assert.Equal(t, "2026-10-15", key)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), start)

	key, start = r.Bucket(thu, analytics.PeriodWeek)
	assert.Equal(t, "2026-W42", key)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), start)

	key, start = r.Bucket(thu, analytics.PeriodMonth)
	assert.Equal(t, "2026-10", key)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestResolver_BucketSundayBelongsToPreviousWeek(t *testing.T) {
	r := analytics.NewResolver(time.UTC)
	sun := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)

	key, start := r.Bucket(sun, analytics.PeriodWeek)
	assert.Equal(t, "2026-W42", key)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), start)
}

func TestPeriod_Valid(t *testing.T) {
	assert.True(t, analytics.PeriodWeek.Valid())
	assert.False(t, analytics.Period("year").Valid())
}
