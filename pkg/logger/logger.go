package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel defines the severity level of the log message
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = map[LogLevel]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	FatalLevel: "FATAL",
}

func (l LogLevel) String() string {
	return levelNames[l]
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a level; anything else is info
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LogRotationConfig defines how log rotation should be managed
type LogRotationConfig struct {
	MaxSizeMB  int  // Maximum size of a log file in megabytes before rotation (default: 10)
	MaxAgeDays int  // Maximum number of days to retain old log files (default: 7)
	MaxBackups int  // Maximum number of old log files to retain (default: 5)
	Compress   bool // Gzip rotated files
}

// DefaultRotationConfig provides default values for log rotation
func DefaultRotationConfig() LogRotationConfig {
	return LogRotationConfig{
		MaxSizeMB:  10,
		MaxAgeDays: 7,
		MaxBackups: 5,
	}
}

const logFileName = "near-tx.log"

// Logger is a printf-style logger carrying provider and endpoint context
type Logger struct {
	providerName string
	endpointURL  string
	sugar        *zap.SugaredLogger
	level        zap.AtomicLevel
}

var (
	defaultLogger  *Logger
	rotationConfig = DefaultRotationConfig()
	logMu          sync.Mutex
	logLevel       = InfoLevel
)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = ""
	return cfg
}

func newLogger(core zapcore.Core, level zap.AtomicLevel) *Logger {
	return &Logger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

func stderrLogger(level LogLevel) *Logger {
	atomic := zap.NewAtomicLevelAt(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), atomic)
	return newLogger(core, atomic)
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), level: zap.NewAtomicLevel()}
}

// InitGlobalLogger initializes the global logger with the specified log directory
func InitGlobalLogger(logDir string, level LogLevel) error {
	return InitGlobalLoggerWithRotation(logDir, level, DefaultRotationConfig())
}

// InitGlobalLoggerWithRotation initializes the global logger with specified rotation settings.
// Entries at error level and above are also written to stderr.
func InitGlobalLoggerWithRotation(logDir string, level LogLevel, config LogRotationConfig) error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    config.MaxSizeMB,
		MaxAge:     config.MaxAgeDays,
		MaxBackups: config.MaxBackups,
		Compress:   config.Compress,
		LocalTime:  true,
	}

	atomic := zap.NewAtomicLevelAt(level.zapLevel())
	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(writer), atomic),
		zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), zapcore.ErrorLevel),
	)

	logLevel = level
	rotationConfig = config
	defaultLogger = newLogger(core, atomic)
	defaultLogger.Info("Logging initialized at level %s with rotation (maxSize=%dMB, maxAge=%dd, maxBackups=%d)",
		level, config.MaxSizeMB, config.MaxAgeDays, config.MaxBackups)
	return nil
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logMu.Lock()
	defer logMu.Unlock()
	logLevel = level
	if defaultLogger != nil {
		defaultLogger.level.SetLevel(level.zapLevel())
		defaultLogger.Info("Log level changed to %s", level)
	}
}

// GetRotationConfig gets a copy of the current rotation configuration
func GetRotationConfig() LogRotationConfig {
	logMu.Lock()
	defer logMu.Unlock()
	return rotationConfig
}

// GetLogger returns a new logger with the specified provider and endpoint context
func GetLogger(providerName, endpointURL string) *Logger {
	return GetDefaultLogger().WithProvider(providerName).WithEndpoint(endpointURL)
}

// GetDefaultLogger returns the default global logger
func GetDefaultLogger() *Logger {
	logMu.Lock()
	defer logMu.Unlock()

	if defaultLogger == nil {
		// Not initialized: log to stderr
		return stderrLogger(logLevel)
	}

	return defaultLogger
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatal logs a fatal error message and terminates the program
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// WithProvider returns a new logger with the specified provider context
func (l *Logger) WithProvider(providerName string) *Logger {
	if providerName == "" {
		return l
	}
	return &Logger{
		providerName: providerName,
		endpointURL:  l.endpointURL,
		sugar:        l.sugar.With("provider", providerName),
		level:        l.level,
	}
}

// WithEndpoint returns a new logger with the specified endpoint context
func (l *Logger) WithEndpoint(endpointURL string) *Logger {
	if endpointURL == "" {
		return l
	}
	return &Logger{
		providerName: l.providerName,
		endpointURL:  endpointURL,
		sugar:        l.sugar.With("endpoint", endpointURL),
		level:        l.level,
	}
}
