package persistence

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/position"
)

// polygonRecord mirrors one catch-location polygon in the reference
// file on disk.
type polygonRecord struct {
	MainArea int                   `json:"main_area"`
	SubArea  int                   `json:"sub_area"`
	Points   []catchlocation.Point `json:"points"`
}

// LoadCatchLocationIndex reads the catch-location polygon reference
// file and builds the index the haul distributor and matrix
// materializer locate positions against. An empty path yields an
// empty index (every Locate call misses), since this reference set is
// supplied externally rather than produced by any ingestion stream.
func LoadCatchLocationIndex(path string) (*catchlocation.Index, error) {
	if path == "" {
		return catchlocation.NewIndex(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catch-location polygons file %s: %w", path, err)
	}

	var records []polygonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catch-location polygons file %s: %w", path, err)
	}

	polygons := make([]catchlocation.Polygon, len(records))
	for i, r := range records {
		polygons[i] = catchlocation.Polygon{
			Id:     catchlocation.Id{MainArea: r.MainArea, SubArea: r.SubArea},
			Points: r.Points,
		}
	}
	return catchlocation.NewIndex(polygons), nil
}

// deliveryPointRecord mirrors one delivery-point code's coordinate in
// the reference file on disk.
type deliveryPointRecord struct {
	Code  string             `json:"code"`
	Point catchlocation.Point `json:"point"`
}

// LoadDeliveryPoints reads the delivery-point reference file into a
// code-keyed lookup the precision layer's DeliveryPoint strategy snaps
// trip boundaries against. An empty path yields an empty map, so the
// strategy simply never has a reference point to snap to.
func LoadDeliveryPoints(path string) (map[string]catchlocation.Point, error) {
	if path == "" {
		return map[string]catchlocation.Point{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read delivery-points file %s: %w", path, err)
	}

	var records []deliveryPointRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse delivery-points file %s: %w", path, err)
	}

	points := make(map[string]catchlocation.Point, len(records))
	for _, r := range records {
		points[r.Code] = r.Point
	}
	return points, nil
}

// portRecord mirrors one port's coordinate and surveyed dock points in
// the reference file on disk.
type portRecord struct {
	Code       string                `json:"code"`
	Point      catchlocation.Point   `json:"point"`
	DockPoints []catchlocation.Point `json:"dock_points"`
}

// LoadPorts reads the port reference file into a code-keyed lookup the
// precision layer's Port and DockPoint strategies snap trip boundaries
// against. An empty path yields an empty map.
func LoadPorts(path string) (map[string]position.PortReference, error) {
	if path == "" {
		return map[string]position.PortReference{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ports file %s: %w", path, err)
	}

	var records []portRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse ports file %s: %w", path, err)
	}

	refs := make(map[string]position.PortReference, len(records))
	for _, r := range records {
		refs[r.Code] = position.PortReference{Point: r.Point, DockPoints: r.DockPoints}
	}
	return refs, nil
}
