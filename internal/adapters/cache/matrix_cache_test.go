package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kyogre-go/fisheries/internal/adapters/persistence"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&persistence.MatrixCacheRowModel{}, &persistence.DataVersionModel{}, &persistence.WatermarkModel{}))
	return db
}

func testSizes() DimensionSizes {
	return DimensionSizes{
		matrix.MonthBucket:       600,
		matrix.GearGroup:         20,
		matrix.SpeciesGroup:      80,
		matrix.VesselLengthGroup: 5,
		matrix.CatchLocation:     400,
	}
}

// TestRefreshBucketCoversLaterBuckets reproduces the staleness scenario:
// an earlier write lands in a later bucket (bucket 291, version 51)
// while a later write lands in the earliest pending bucket (bucket 290,
// version 52). PlanRefresh picks bucket 290 and advances the watermark
// to version 52, so RefreshBucket(..., 290) must reload bucket 291's row
// too or it is permanently lost from the cube.
func TestRefreshBucketCoversLaterBuckets(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&persistence.MatrixCacheRowModel{
		Source: int(matrix.Hauls), MonthBucket: 290, LivingWeight: 100,
	}).Error)
	require.NoError(t, db.Create(&persistence.MatrixCacheRowModel{
		Source: int(matrix.Hauls), MonthBucket: 291, LivingWeight: 7,
	}).Error)

	c := NewGormMatrixCache(db, testSizes())
	require.NoError(t, c.RefreshBucket(context.Background(), matrix.Hauls, 290))

	rows, err := c.Query(context.Background(), matrix.Hauls, matrix.Features{ActiveFilter: matrix.MonthBucket})
	require.NoError(t, err)

	total, err := rows[matrix.GearGroup].RangeSum(0, 0, 19, 599)
	require.NoError(t, err)
	require.Equal(t, 107.0, total, "both bucket 290 and bucket 291 must be folded into the cube by one RefreshBucket call")
}

// TestRefreshBucketLeavesEarlierBucketsUntouched ensures the >= query
// doesn't also reload buckets before the requested one (they're already
// current and untouched by this refresh cycle).
func TestRefreshBucketLeavesEarlierBucketsUntouched(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&persistence.MatrixCacheRowModel{
		Source: int(matrix.Hauls), MonthBucket: 100, LivingWeight: 9,
	}).Error)
	require.NoError(t, db.Create(&persistence.MatrixCacheRowModel{
		Source: int(matrix.Hauls), MonthBucket: 200, LivingWeight: 5,
	}).Error)

	c := NewGormMatrixCache(db, testSizes())
	require.NoError(t, c.RefreshBucket(context.Background(), matrix.Hauls, 100))
	require.NoError(t, c.RefreshBucket(context.Background(), matrix.Hauls, 200))

	rows, err := c.Query(context.Background(), matrix.Hauls, matrix.Features{ActiveFilter: matrix.MonthBucket})
	require.NoError(t, err)

	total, err := rows[matrix.GearGroup].RangeSum(0, 0, 19, 599)
	require.NoError(t, err)
	require.Equal(t, 14.0, total, "refreshing bucket 200 must not drop bucket 100's already-loaded rows")
}
