package matrixmaterializer

import "hash/fnv"

// codeOf deterministically maps a taxonomy string (gear group, species
// group) onto a dense integer range, absent a persisted reference table
// assigning stable codes. Collisions are possible at the configured
// cardinality; this is a documented simplification, not the reference
// taxonomy the full system would ship with.
func codeOf(s string, cardinality int) int {
	if s == "" || cardinality <= 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(cardinality))
}

// catchLocationCode packs a (main-area, sub-area) pair into the single
// int matrix.Row.CatchLocation expects.
func catchLocationCode(mainArea, subArea int) int {
	return mainArea*100 + subArea
}
