// Package environment reads process environment configuration once at
// startup. It only controls diagnostic output volume; none of the values
// here change the functional behavior of the shell.
package environment

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envVerbose      = "CHRONOSH_VERBOSE"
	envCleanLogFile = "CHRONOSH_CLEAN_LOG_FILE"
)

// Verbosity returns the diagnostic verbosity level (0-3) from
// CHRONOSH_VERBOSE. Out-of-range or unparseable values clamp to the
// nearest valid level.
func Verbosity() int {
	raw := os.Getenv(envVerbose)
	if raw == "" {
		return 1
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if v < 0 {
		return 0
	}
	if v > 3 {
		return 3
	}
	return v
}

// GetLogLevel maps the verbosity level to a zap atomic level.
func GetLogLevel() zap.AtomicLevel {
	switch Verbosity() {
	case 0:
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	case 1:
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case 2:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
}

// ShouldCleanLogFile reports whether the log file should be truncated on
// startup.
func ShouldCleanLogFile() bool {
	return os.Getenv(envCleanLogFile) == "1"
}
