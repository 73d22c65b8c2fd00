package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "SQUIXL_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks SQUIXL_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the SQUIXL_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent unless explicitly initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogLoad logs a settings document being read into the value model.
func LogLoad(path string, version int, migrated bool) {
	Info("Settings loaded",
		zap.String("path", path),
		zap.Int("version", version),
		zap.Bool("migrated", migrated),
	)
}

// LogCommit logs a successful atomic commit of the primary file.
func LogCommit(path string, size int, forced bool, elapsed time.Duration) {
	Info("Settings committed",
		zap.String("path", path),
		zap.Int("bytes", size),
		zap.Bool("forced", forced),
		zap.Duration("since_last_commit", elapsed),
	)
}

// LogBackup logs a numbered backup being written.
func LogBackup(path string, number int) {
	Info("Settings backup written",
		zap.String("path", path),
		zap.Int("number", number),
	)
}

// LogRotate logs old backups removed to respect the retention cap.
func LogRotate(removed []string, kept int) {
	Debug("Backups rotated",
		zap.Strings("removed", removed),
		zap.Int("kept", kept),
	)
}

// LogStorageFailure logs a recoverable filesystem error.
func LogStorageFailure(op, path string, err error) {
	Warn("Storage operation failed",
		zap.String("op", op),
		zap.String("path", path),
		zap.Error(err),
	)
}

// SinkWriter returns a writer whose every Write becomes one log entry at level.
func SinkWriter(level zapcore.Level) io.Writer {
	std, err := zap.NewStdLogAt(GetLogger(), level)
	if err != nil {
		// Only returned for levels zap does not know; fall back to info.
		std = zap.NewStdLog(GetLogger())
	}
	return std.Writer()
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
