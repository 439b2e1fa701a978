// Package logging builds the shared zap logger: a human console plus an
// append-only JSON file carrying the full diagnostic record.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger that tees to stderr and to fileName. Error-level
// entries (per-symbol download failures and the like) go to the file only, so
// the console stays quiet while the log file keeps the complete record.
// Fatal entries still reach the console.
func New(fileName string, debug bool) *zap.Logger {
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		LocalTime:  true,
	})

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		if debug {
			return true
		}
		return lvl >= zapcore.InfoLevel
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), fileWriter, fileLevel)

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		if lvl == zapcore.ErrorLevel {
			return false
		}
		if debug {
			return true
		}
		return lvl >= zapcore.InfoLevel
	})
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), consoleLevel)

	return zap.New(zapcore.NewTee(fileCore, consoleCore))
}
