package fuel

import (
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// Estimator sums per-segment Holtrop fuel estimates across a trip's
// fused position track.
type Estimator struct{}

func NewEstimator() *Estimator { return &Estimator{} }

// EstimateTripLiters computes total fuel consumption across consecutive
// position pairs. Fewer than two positions yields zero.
func (e *Estimator) EstimateTripLiters(hull vessel.HullParameters, track []position.Position) float64 {
	if len(track) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(track); i++ {
		prev, cur := track[i-1], track[i]
		elapsed := cur.Timestamp.Sub(prev.Timestamp).Hours()
		if elapsed <= 0 {
			continue
		}
		speed := averageSpeedKnots(prev, cur)
		total += FuelLiters(hull, Segment{SpeedKnots: speed, ElapsedHours: elapsed})
	}
	return total
}

func averageSpeedKnots(a, b position.Position) float64 {
	if a.Speed != nil && b.Speed != nil {
		return (*a.Speed + *b.Speed) / 2
	}
	if b.Speed != nil {
		return *b.Speed
	}
	if a.Speed != nil {
		return *a.Speed
	}
	return 0
}
