package appcontext

import (
	"io"
	"os"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/config"
	"github.com/rs/zerolog"
)

// NewLogger debug 環境 out 使用 console 格式, 其餘為 json
// sinks 一律收 json, 例如 kafka log writer
func NewLogger(cf *config.Config, out io.Writer, sinks ...io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	level, err := zerolog.ParseLevel(cf.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cf.IsDebug() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if len(sinks) > 0 {
		out = zerolog.MultiLevelWriter(append([]io.Writer{out}, sinks...)...)
	}
	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("moduler", cf.ModulerName).
		Logger()
}
