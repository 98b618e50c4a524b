package persistence

import (
	"time"
)

// VesselModel represents the vessels table.
type VesselModel struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	Mmsi        *int32  `gorm:"column:mmsi;uniqueIndex"`
	CallSign    *string `gorm:"column:call_sign;uniqueIndex"`
	Length      float64 `gorm:"column:length"`
	LengthGroup int     `gorm:"column:length_group;not null"`
	HullJSON    string  `gorm:"column:hull_json;type:text"` // HullParameters JSON, empty if vessel has no hull model
}

func (VesselModel) TableName() string { return "vessels" }

// EventModel represents the events table: the append-only per-vessel
// ERS/Landings event stream the trip assemblers consume.
type EventModel struct {
	EventID             int64     `gorm:"column:event_id;primaryKey;autoIncrement"`
	VesselID            int64     `gorm:"column:vessel_id;not null;index:idx_events_vessel"`
	Type                int       `gorm:"column:type;not null"`
	ReportTimestamp     time.Time `gorm:"column:report_ts;not null"`
	OccurrenceTimestamp time.Time `gorm:"column:occurrence_ts;not null;index:idx_events_vessel"`
	MessageID           string    `gorm:"column:message_id;not null;uniqueIndex:idx_events_natural_key"`
	MessageVersion      int       `gorm:"column:message_version;not null"`
	PortCode            string    `gorm:"column:port_code"`
}

func (EventModel) TableName() string { return "events" }

// TripModel represents the trips table. The uniqueness of (vessel_id,
// assembler, period_start, period_end) is enforced by the assembler's
// full-recompute-and-diff strategy, not a database constraint.
type TripModel struct {
	TripID               int64      `gorm:"column:trip_id;primaryKey;autoIncrement"`
	VesselID             int64      `gorm:"column:vessel_id;not null;index:idx_trips_vessel_assembler"`
	Assembler            int        `gorm:"column:assembler;not null;index:idx_trips_vessel_assembler"`
	PeriodStart          time.Time  `gorm:"column:period_start;not null"`
	PeriodEnd            time.Time  `gorm:"column:period_end;not null"`
	PeriodStartBound     int        `gorm:"column:period_start_bound;not null"`
	PeriodEndBound       int        `gorm:"column:period_end_bound;not null"`
	LandingCoverageStart time.Time  `gorm:"column:landing_coverage_start;not null"`
	LandingCoverageEnd   time.Time  `gorm:"column:landing_coverage_end;not null"`
	PrecisionStart       *time.Time `gorm:"column:precision_start"`
	PrecisionEnd         *time.Time `gorm:"column:precision_end"`
	StartPortCode        *string    `gorm:"column:start_port_code"`
	EndPortCode          *string    `gorm:"column:end_port_code"`
	TargetSpecies        *string    `gorm:"column:target_species"`
	Distance             *float64   `gorm:"column:distance"`
	FuelLiters           *float64   `gorm:"column:fuel_liters"`
}

func (TripModel) TableName() string { return "trips" }

// TripAssemblerLogModel represents the trip_assembler_log table, the
// append-only audit trail each assembler run writes alongside the trips
// it produced.
type TripAssemblerLogModel struct {
	LogID                 string     `gorm:"column:trip_assembler_log_id;primaryKey"`
	VesselID               int64      `gorm:"column:vessel_id;not null;index"`
	Assembler              int        `gorm:"column:assembler;not null"`
	CalculationTimerPrior  *time.Time `gorm:"column:calculation_timer_prior"`
	CalculationTimerPost   time.Time  `gorm:"column:calculation_timer_post;not null"`
	ConflictWindowStart    *time.Time `gorm:"column:conflict_window_start"`
	ConflictWindowEnd      *time.Time `gorm:"column:conflict_window_end"`
	ConflictStrategy       int        `gorm:"column:conflict_strategy;not null"`
	PriorTripVesselEvents  int        `gorm:"column:prior_trip_vessel_events;not null"`
	NewVesselEvents        int        `gorm:"column:new_vessel_events;not null"`
}

func (TripAssemblerLogModel) TableName() string { return "trip_assembler_log" }

// HaulModel represents the hauls table. Catch composition is stored as a
// JSON array (catches_json); postgres may prefer jsonb in a real
// migration but text keeps the model sqlite-portable for tests.
type HaulModel struct {
	HaulID         int64   `gorm:"column:haul_id;primaryKey"`
	VesselID       int64   `gorm:"column:vessel_id;not null;index:idx_hauls_vessel_range"`
	Gear           string  `gorm:"column:gear;not null"`
	GearGroup      string  `gorm:"column:gear_group;not null"`
	StartTimestamp time.Time `gorm:"column:start_ts;not null;index:idx_hauls_vessel_range"`
	StopTimestamp  time.Time `gorm:"column:stop_ts;not null"`
	StartLat       float64 `gorm:"column:start_lat"`
	StartLon       float64 `gorm:"column:start_lon"`
	StopLat        float64 `gorm:"column:stop_lat"`
	StopLon        float64 `gorm:"column:stop_lon"`
	CatchesJSON    string  `gorm:"column:catches_json;type:text"`
	WhaleCatchesJSON string `gorm:"column:whale_catches_json;type:text"`
}

func (HaulModel) TableName() string { return "hauls" }

// LandingModel represents the landings table. Only the highest Version
// seen for a given LandingID is retained; Save performs the
// keep-max-version upsert itself.
type LandingModel struct {
	LandingID         string    `gorm:"column:landing_id;primaryKey"`
	Version           int       `gorm:"column:version;not null"`
	VesselID          *int64    `gorm:"column:vessel_id;index:idx_landings_vessel_range"`
	LandingTimestamp  time.Time `gorm:"column:landing_ts;not null;index:idx_landings_vessel_range"`
	Gear              string    `gorm:"column:gear"`
	GearGroup         string    `gorm:"column:gear_group"`
	DeliveryPoint     *string   `gorm:"column:delivery_point"`
	VesselLengthGroup int       `gorm:"column:vessel_length_group"`
	CatchesJSON       string    `gorm:"column:catches_json;type:text"`
}

func (LandingModel) TableName() string { return "landings" }

// PositionModel represents the positions table: fused AIS/VMS points.
type PositionModel struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VesselID        int64     `gorm:"column:vessel_id;not null;index:idx_positions_vessel_range"`
	Timestamp       time.Time `gorm:"column:ts;not null;index:idx_positions_vessel_range"`
	Lat             float64   `gorm:"column:lat"`
	Lon             float64   `gorm:"column:lon"`
	Course          *float64  `gorm:"column:course"`
	Speed           *float64  `gorm:"column:speed"`
	DistanceToShore float64   `gorm:"column:distance_to_shore"`
	Source          int       `gorm:"column:source;not null"`
}

func (PositionModel) TableName() string { return "positions" }

// DataVersionModel represents the data_version table: the append-only
// stream of version stamps the matrix refresher watches to decide which
// month bucket to recompute next.
type DataVersionModel struct {
	ID          int64 `gorm:"column:id;primaryKey;autoIncrement"`
	Source      int   `gorm:"column:source;not null;index"`
	Version     int64 `gorm:"column:version;not null;index"`
	MonthBucket int   `gorm:"column:matrix_month_bucket;not null;index"`
}

func (DataVersionModel) TableName() string { return "data_version" }

// WatermarkModel represents the matrix_watermark table: a single row per
// cube source recording the highest DataVersion the cache has folded in.
type WatermarkModel struct {
	Source  int   `gorm:"column:source;primaryKey"`
	Version int64 `gorm:"column:version;not null"`
}

func (WatermarkModel) TableName() string { return "matrix_watermark" }

// MatrixCacheRowModel represents the matrix_cache_rows table: the
// persisted projection of hauls/landings onto the cube's coordinate
// space, one row per fact, refreshed bucket-by-bucket.
type MatrixCacheRowModel struct {
	ID                int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Source            int     `gorm:"column:source;not null;index:idx_matrix_rows_source_bucket"`
	MonthBucket       int     `gorm:"column:matrix_month_bucket;not null;index:idx_matrix_rows_source_bucket"`
	CatchLocation     int     `gorm:"column:catch_location"`
	GearGroup         int     `gorm:"column:gear_group"`
	SpeciesGroup      int     `gorm:"column:species_group"`
	VesselLengthGroup int     `gorm:"column:vessel_length_group"`
	VesselID          *int64  `gorm:"column:vessel_id"`
	LivingWeight      float64 `gorm:"column:living_weight;not null"`
}

func (MatrixCacheRowModel) TableName() string { return "matrix_cache_rows" }
