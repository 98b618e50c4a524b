package config

// LocationsConfig points at the catch-location polygon, delivery-point
// and port reference data the haul distributor, matrix materializer and
// precision layer index points against. These reference sets are
// external to the platform's own ingestion streams, unlike
// vessels/hauls/landings/positions.
type LocationsConfig struct {
	PolygonsFile       string `mapstructure:"polygons_file"`
	DeliveryPointsFile string `mapstructure:"delivery_points_file"`
	PortsFile          string `mapstructure:"ports_file"`
}
