package config

// HealthConfig configures the daemon's gRPC health-checking listener,
// separate from the internal query/ingest/refresh contract.
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}
