// Package logging wires zerolog to the LoggingConfig loaded at startup:
// level, output destination, format and optional size-based file
// rotation.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kyogre-go/fisheries/internal/infrastructure/config"
)

// New builds a zerolog.Logger from cfg and sets the package-global level
// so libraries calling the bare zerolog.Logger shortcuts respect it too.
func New(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, err
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer
	switch cfg.Output {
	case "file":
		if cfg.Rotation.Enabled {
			out = &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.Rotation.MaxSize,
				MaxBackups: cfg.Rotation.MaxBackups,
				MaxAge:     cfg.Rotation.MaxAge,
				Compress:   cfg.Rotation.Compress,
			}
		} else {
			f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return zerolog.Logger{}, err
			}
			out = f
		}
	case "stderr":
		out = os.Stderr
	default:
		out = os.Stdout
	}

	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.IncludeCaller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()
	if cfg.IncludeStacktrace {
		zerolog.ErrorStackMarshaler = func(err error) any { return err.Error() }
	}
	return logger, nil
}
