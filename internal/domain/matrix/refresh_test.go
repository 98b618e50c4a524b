package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanRefreshNoPendingRows(t *testing.T) {
	_, _, ok := PlanRefresh(Watermark{Source: Hauls, Version: 50}, nil)
	assert.False(t, ok)
}

func TestPlanRefreshPicksEarliestBucketAndMaxVersion(t *testing.T) {
	// bucket numbers and versions need not move together: an earlier
	// write can land in a later bucket. PlanRefresh picks the earliest
	// *bucket* to refresh but still advances the watermark to the
	// highest pending *version*, since RefreshBucket reloads that
	// bucket and everything after it in bucket order.
	rows := []DataVersion{
		{Source: Hauls, Version: 51, MonthBucket: 290},
		{Source: Hauls, Version: 52, MonthBucket: 289},
	}
	bucket, nextVersion, ok := PlanRefresh(Watermark{Source: Hauls, Version: 50}, rows)
	assert.True(t, ok)
	assert.Equal(t, 289, bucket)
	assert.Equal(t, int64(52), nextVersion)
}

func TestPlanRefreshIgnoresOtherSources(t *testing.T) {
	rows := []DataVersion{{Source: Landings, Version: 99, MonthBucket: 1}}
	_, _, ok := PlanRefresh(Watermark{Source: Hauls, Version: 0}, rows)
	assert.False(t, ok)
}

func TestPlanRefreshIgnoresAlreadySeenVersions(t *testing.T) {
	rows := []DataVersion{{Source: Hauls, Version: 40, MonthBucket: 1}}
	_, _, ok := PlanRefresh(Watermark{Source: Hauls, Version: 50}, rows)
	assert.False(t, ok)
}
