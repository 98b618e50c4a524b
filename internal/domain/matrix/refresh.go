package matrix

// DataVersion is one row of the primary store's data_version table: a
// monotonically increasing version stamped on every fact mutation,
// tagged with the partition (month bucket) it affects.
type DataVersion struct {
	Source      Source
	Version     int64
	MonthBucket int
}

// Watermark is the highest version a cube's refresher has observed for
// one source, the only piece of process-wide refresh state.
type Watermark struct {
	Source  Source
	Version int64
}

// PlanRefresh inspects the data_version rows newer than the current
// watermark and decides which partition to refresh first (earliest
// affected bucket) and what the watermark should advance to once that
// refresh commits.
//
// nextWatermark is the max version across every pending row, not just
// the chosen bucket's: RefreshBucket reloads the chosen bucket and
// every bucket at or after it in one pass (see its doc comment), so by
// the time this watermark is persisted every row it counts has already
// been folded into the cube.
//
// Returns ok=false if there is nothing to do.
func PlanRefresh(current Watermark, rows []DataVersion) (bucket int, nextWatermark int64, ok bool) {
	var (
		minBucket  int
		maxVersion int64
		found      bool
	)
	for _, r := range rows {
		if r.Source != current.Source || r.Version <= current.Version {
			continue
		}
		if !found || r.MonthBucket < minBucket {
			minBucket = r.MonthBucket
			found = true
		}
		if r.Version > maxVersion {
			maxVersion = r.Version
		}
	}
	if !found {
		return 0, 0, false
	}
	return minBucket, maxVersion, true
}

// CacheMissPolicy controls what a cache lookup does on an internal
// error: MissOnError returns no result and no error, so the caller falls
// back to the primary store; ReturnError returns the error to the
// caller.
type CacheMissPolicy int

const (
	MissOnError CacheMissPolicy = iota
	ReturnError
)
