// Package logger configura el logging estructurado del servicio sobre zerolog:
// JSON por línea en producción y consola coloreada en desarrollo.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config opciones de arranque del logger.
type Config struct {
	Env   string // "development" activa la salida de consola
	Level string // trace | debug | info | warn | error; otro valor cae en info
}

// Logger emisor de eventos estructurados con nivel mínimo configurado.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger del servicio según la configuración.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With abre un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}
