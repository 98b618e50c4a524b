package config

import "time"

// DatabaseConfig holds primary-store connection configuration. The core
// does not dictate storage engine choice beyond requiring transactional
// multi-row writes and range-scan reads over timestamp-indexed tables;
// sqlite is used for tests/dev, postgres for production.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL (takes precedence over individual fields).
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite file path.
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig bounds the primary-store connection pool. The matrix cache
// reads and writes through the same connection and has no pool setting
// of its own.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// CacheConfig selects the matrix cache's miss behavior. Storage and Path
// are accepted and defaulted but not read by the cache, which always
// holds its cubes in memory.
type CacheConfig struct {
	Mode    string `mapstructure:"cache_mode" validate:"omitempty,oneof=MissOnError ReturnError"`
	Storage string `mapstructure:"storage" validate:"omitempty,oneof=Memory Disk"`
	Path    string `mapstructure:"path"`
}

// RefreshConfig tunes the matrix refresh orchestrator's tick cadence.
// BucketTimeout is accepted and defaulted but not read by the
// refresher.
type RefreshConfig struct {
	Interval       time.Duration `mapstructure:"refresh_interval"`
	BucketTimeout  time.Duration `mapstructure:"bucket_timeout"`
}

// TripsConfig carries the trip assembler/precision-layer tunables the
// spec leaves as open configuration: the landing-coverage absorption
// window and the ordered precision-strategy list.
type TripsConfig struct {
	LandingCoverageExtension time.Duration `mapstructure:"landing_coverage_extension"`
	PrecisionStrategies      []string      `mapstructure:"precision_strategies"`
	NearshoreBandMeters      float64       `mapstructure:"nearshore_band_meters"`
	PrecisionSlack           time.Duration `mapstructure:"precision_slack"`
	TrackMargin              time.Duration `mapstructure:"track_margin"`
}

// WorkersConfig bounds the per-vessel worker pool used by trip assembly.
type WorkersConfig struct {
	PoolSize int `mapstructure:"worker_pool_size" validate:"omitempty,min=1"`
}
