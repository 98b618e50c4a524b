package config

import "time"

// DaemonConfig holds the long-running fisheries-daemon process's
// single-instance and shutdown behavior.
type DaemonConfig struct {
	// PID file location, used to refuse a second concurrent daemon.
	PIDFile string `mapstructure:"pid_file"`

	// Graceful shutdown timeout once an interrupt/terminate signal
	// arrives.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
