package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	r, err := New(start, end)
	require.NoError(t, err)
	return r
}

func TestNewRejectsInvertedRange(t *testing.T) {
	now := time.Now()
	_, err := New(now, now.Add(-time.Hour))
	assert.Error(t, err)
}

func TestContainsHonorsBounds(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	r, err := NewWithBounds(start, end, Inclusive, Exclusive)
	require.NoError(t, err)

	assert.True(t, r.Contains(start))
	assert.False(t, r.Contains(end))
	assert.True(t, r.Contains(end.Add(-time.Nanosecond)))
}

func TestOverlapsAdjacentExclusiveRangesDoNotOverlap(t *testing.T) {
	mid := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	a, err := NewWithBounds(mid.AddDate(0, 0, -1), mid, Inclusive, Exclusive)
	require.NoError(t, err)
	b, err := NewWithBounds(mid, mid.AddDate(0, 0, 1), Inclusive, Exclusive)
	require.NoError(t, err)

	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestOverlapsSharedInstantWithInclusiveBoundsOverlaps(t *testing.T) {
	mid := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	a := mustNew(t, mid.AddDate(0, 0, -1), mid)
	b := mustNew(t, mid, mid.AddDate(0, 0, 1))

	assert.True(t, a.Overlaps(b))
}

func TestSetEqualEndAndStartToNonEmptyWidensDegenerateRange(t *testing.T) {
	instant := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := mustNew(t, instant, instant)
	require.True(t, r.EqualStartAndEnd())

	widened := r.SetEqualEndAndStartToNonEmpty()
	assert.False(t, widened.EqualStartAndEnd())
	assert.Equal(t, Exclusive, widened.EndBound())
	assert.Equal(t, instant.Add(time.Nanosecond), widened.End())
}

func TestFromDatesProducesWholeDayHalfOpenRange(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)

	r, err := FromDates(start, end)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), r.Start())
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), r.End())
	assert.Equal(t, Exclusive, r.EndBound())
}

func TestEqualIgnoresSubSecondJitter(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	a := mustNew(t, start, end)
	b := mustNew(t, start.Add(400*time.Millisecond), end.Add(900*time.Millisecond))

	assert.True(t, a.Equal(b))
}
