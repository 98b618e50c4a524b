package config

import "time"

// SetDefaults fills every field LoadConfig didn't find an env var or
// config-file value for. No unknown top-level option is accepted
// (strict mapstructure decode in LoadConfig) — this only fills gaps in
// recognized ones.
func SetDefaults(cfg *Config) {
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "fisheries"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "fisheries"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	if cfg.Cache.Mode == "" {
		cfg.Cache.Mode = "MissOnError"
	}
	if cfg.Cache.Storage == "" {
		cfg.Cache.Storage = "Memory"
	}

	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = 30 * time.Second
	}
	if cfg.Refresh.BucketTimeout == 0 {
		cfg.Refresh.BucketTimeout = 2 * time.Minute
	}

	if cfg.Trips.LandingCoverageExtension == 0 {
		cfg.Trips.LandingCoverageExtension = 3 * 7 * 24 * time.Hour // 3 weeks
	}
	if len(cfg.Trips.PrecisionStrategies) == 0 {
		cfg.Trips.PrecisionStrategies = []string{"first_moved_point", "delivery_point", "port", "dock_point", "distance_to_shore"}
	}
	if cfg.Trips.NearshoreBandMeters == 0 {
		cfg.Trips.NearshoreBandMeters = 500
	}
	if cfg.Trips.PrecisionSlack == 0 {
		cfg.Trips.PrecisionSlack = time.Hour
	}
	if cfg.Trips.TrackMargin == 0 {
		cfg.Trips.TrackMargin = 2 * time.Hour
	}

	if cfg.Workers.PoolSize == 0 {
		cfg.Workers.PoolSize = 8
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Logging.Rotation.MaxSize == 0 {
		cfg.Logging.Rotation.MaxSize = 100
	}
	if cfg.Logging.Rotation.MaxBackups == 0 {
		cfg.Logging.Rotation.MaxBackups = 3
	}
	if cfg.Logging.Rotation.MaxAge == 0 {
		cfg.Logging.Rotation.MaxAge = 28
	}

	if cfg.Health.Port == 0 {
		cfg.Health.Port = 9090
	}

	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/fisheries-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
}
