package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controla destino y verbosidad del logger.
type Config struct {
	// Env: en "development" la salida es consola legible; cualquier otro
	// valor produce JSON por línea.
	Env string
	// Level: trace, debug, info, warn o error. Valores desconocidos caen en info.
	Level string
}

// Logger envuelve zerolog para inyectarlo por constructor en usecases y jobs.
type Logger struct {
	zl zerolog.Logger
}

var levels = map[string]zerolog.Level{
	"trace": zerolog.TraceLevel,
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

func parseLevel(s string) zerolog.Level {
	if lvl, ok := levels[s]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

// New construye el logger estructurado de la aplicación y redirige además el
// logger global de zerolog, para que las librerías que escriben por esa vía
// compartan formato y nivel.
func New(cfg Config) *Logger {
	var out io.Writer = os.Stdout
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With abre un sublogger con campos fijos (por ejemplo el nombre de un job).
func (l *Logger) With() zerolog.Context { return l.zl.With() }

// Zerolog expone el logger interno cuando se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }
