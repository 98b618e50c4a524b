package matrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthBucketOfEpoch(t *testing.T) {
	assert.Equal(t, 0, MonthBucketOf(time.Date(2000, time.January, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 12, MonthBucketOf(time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, MonthBucketOf(time.Date(2000, time.February, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMatrixRangeSumRequiresComputedTable(t *testing.T) {
	m := NewMatrix(3, 3)
	m.Add(0, 0, 5)
	_, err := m.RangeSum(0, 0, 2, 2)
	assert.Error(t, err)
}

func TestMatrixRangeSumWholeGridEqualsTotal(t *testing.T) {
	m := NewMatrix(3, 3)
	m.Add(0, 0, 1)
	m.Add(1, 1, 2)
	m.Add(2, 2, 3)
	m.ComputeSummedAreaTable()

	total, err := m.RangeSum(0, 0, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, total)
}

func TestMatrixRangeSumSubRectangle(t *testing.T) {
	m := NewMatrix(4, 4)
	m.Add(1, 1, 10)
	m.Add(2, 2, 20)
	m.Add(3, 3, 30) // outside the queried rectangle
	m.ComputeSummedAreaTable()

	sum, err := m.RangeSum(1, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 30.0, sum)

	outside, err := m.RangeSum(3, 3, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 30.0, outside)
}

func TestCubeQueryBuildsMarginalMatrices(t *testing.T) {
	sizes := map[Dimension]int{
		MonthBucket:       2,
		GearGroup:         2,
		SpeciesGroup:      2,
		VesselLengthGroup: 2,
		CatchLocation:     2,
	}
	cube := NewCube(Hauls, sizes)
	cube.Ingest([]Row{
		{VesselId: 1, MonthBucket: 0, GearGroup: 0, SpeciesGroup: 0, VesselLengthGroup: 0, CatchLocation: 0, LivingWeight: 100},
		{VesselId: 1, MonthBucket: 1, GearGroup: 1, SpeciesGroup: 0, VesselLengthGroup: 1, CatchLocation: 1, LivingWeight: 50},
	})

	result := cube.Query(Features{ActiveFilter: GearGroup})
	m := result[MonthBucket]
	require.NotNil(t, m)

	total, err := m.RangeSum(0, 0, m.Width-1, m.Height-1)
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)
}

func TestCubeResetClearsRows(t *testing.T) {
	sizes := map[Dimension]int{MonthBucket: 1, GearGroup: 1, SpeciesGroup: 1, VesselLengthGroup: 1, CatchLocation: 1}
	cube := NewCube(Hauls, sizes)
	cube.Ingest([]Row{{VesselId: 1, LivingWeight: 10}})
	cube.Reset()

	result := cube.Query(Features{ActiveFilter: MonthBucket})
	total, err := result[GearGroup].RangeSum(0, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}
