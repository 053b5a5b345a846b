package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where and how log entries are written.
type Options struct {
	Level  string
	Format string

	// Console receives human readable entries. Nil disables console output,
	// which interactive modes rely on to keep the terminal clean.
	Console io.Writer

	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Logger provides leveled, structured logging safe for concurrent use.
type Logger struct {
	z *zap.Logger
	s *zap.SugaredLogger
}

// New builds a logger from options.
func New(opts Options) *Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(encoder(opts.Format), zapcore.Lock(zapcore.AddSync(opts.Console)), level))
	}
	if opts.File != "" {
		// File output is always JSON.
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), fileWriter, level))
	}
	if len(cores) == 0 {
		return Nop()
	}

	return FromZap(zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("vocalis"))
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{z: z, s: z.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return FromZap(zap.NewNop())
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	if format == "json" {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// With returns a child logger carrying the given fields.
func (lg *Logger) With(fields ...zap.Field) *Logger {
	return FromZap(lg.z.With(fields...))
}

// Zap exposes the underlying structured logger.
func (lg *Logger) Zap() *zap.Logger {
	return lg.z
}

// Debugf writes a debug message.
func (lg *Logger) Debugf(format string, args ...any) {
	lg.s.Debugf(format, args...)
}

// Infof writes an informational message.
func (lg *Logger) Infof(format string, args ...any) {
	lg.s.Infof(format, args...)
}

// Warnf writes a warning message.
func (lg *Logger) Warnf(format string, args ...any) {
	lg.s.Warnf(format, args...)
}

// Errorf writes an error message.
func (lg *Logger) Errorf(format string, args ...any) {
	lg.s.Errorf(format, args...)
}

// Sync flushes buffered entries.
func (lg *Logger) Sync() error {
	return lg.z.Sync()
}
