package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"autofill-agent/internal/application/port/output"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type Config struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string
	// Dir receives one JSON log file per process. Empty disables file output.
	Dir string
	// Name becomes part of the log file name and the logger name.
	Name string
	// Console enables the human readable stderr core.
	Console bool
}

func DefaultConfig(name string) Config {
	return Config{
		Level:   "info",
		Dir:     "log",
		Name:    name,
		Console: true,
	}
}

type LoggerAdapter struct {
	sugar *zap.SugaredLogger
	root  *zap.Logger
}

func NewLoggerAdapter(cfg Config) (*LoggerAdapter, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if cfg.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level))
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sanitize(cfg.Name))
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, filename),
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     14,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), writer, level))
	}

	if len(cores) == 0 {
		return NewNop(), nil
	}

	root := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	if cfg.Name != "" {
		root = root.Named(cfg.Name)
	}
	return &LoggerAdapter{sugar: root.Sugar(), root: root}, nil
}

// NewFromZap wraps an existing zap logger, e.g. one built on an observer core in tests.
func NewFromZap(l *zap.Logger) *LoggerAdapter {
	return &LoggerAdapter{sugar: l.Sugar(), root: l}
}

func NewNop() *LoggerAdapter {
	return NewFromZap(zap.NewNop())
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{sugar: l.sugar.With(key, value), root: l.root}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{sugar: l.sugar.With(args...), root: l.root}
}

// Close flushes buffered entries. Sync errors on terminals are expected and ignored.
func (l *LoggerAdapter) Close() error {
	_ = l.root.Sync()
	return nil
}

func sanitize(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	s = string(result)
	if s == "" {
		return "autofill"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
