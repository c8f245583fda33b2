package logger

import (
	"os"
	"path/filepath"

	"github.com/joeydtaylor/btnify/pkg/manifest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLog builds a JSON logger that writes to cfg.Dir/file with rotation and,
// when cfg.ConsoleEnabled, to stdout as well.
func NewLog(cfg manifest.Log, file string) (*zap.Logger, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, file),
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays, // days
	})

	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, level)}
	if cfg.ConsoleEnabled() {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), level))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// NewSystemLog is NewLog for cfg.SystemFile.
func NewSystemLog(cfg manifest.Log) (*zap.Logger, error) { return NewLog(cfg, cfg.SystemFile) }

// NewAccessLog is NewLog for cfg.AccessFile.
func NewAccessLog(cfg manifest.Log) (*zap.Logger, error) { return NewLog(cfg, cfg.AccessFile) }
