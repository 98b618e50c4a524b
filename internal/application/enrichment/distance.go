package enrichment

import (
	"math"

	"github.com/kyogre-go/fisheries/internal/domain/position"
)

const earthRadiusNm = 3440.065

// trackDistanceNm sums the great-circle distance between consecutive
// fused track points, in nautical miles.
func trackDistanceNm(track []position.Position) float64 {
	if len(track) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(track); i++ {
		total += haversineNm(track[i-1].Point.Lat, track[i-1].Point.Lon, track[i].Point.Lat, track[i].Point.Lon)
	}
	return total
}

func haversineNm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusNm * c
}
