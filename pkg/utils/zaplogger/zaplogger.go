// Package zaplogger wraps a process-wide zap logger for the gateway
package zaplogger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const timeLayout = "2006-01-02T15:04:05.999-0700"

var (
	log   *zap.Logger
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

// Fields type, used to pass structured context to a log call.
type Fields map[string]interface{}

// AppLog is a log line persisted by the database sink
type AppLog struct {
	ID        uint      `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"index"`
	Level     string    `gorm:"index"`
	Caller    string
	Message   string
	Fields    string // JSON of everything except the standard keys
}

// TableName specifies the table name for AppLog
func (AppLog) TableName() string {
	return "_app_logs"
}

// DbWriter is a zapcore.WriteSyncer that stores JSON-encoded entries through gorm
type DbWriter struct {
	db *gorm.DB
}

func (w *DbWriter) Write(p []byte) (int, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(p, &raw); err != nil {
		return 0, err
	}

	entry := AppLog{
		Level:   unquote(raw["level"]),
		Caller:  unquote(raw["caller"]),
		Message: unquote(raw["message"]),
	}
	ts, err := time.Parse(timeLayout, unquote(raw["timestamp"]))
	if err != nil {
		ts = time.Now()
	}
	entry.Timestamp = ts

	extra := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		switch k {
		case "level", "timestamp", "caller", "message":
		default:
			extra[k] = v
		}
	}
	fieldsJSON, err := json.Marshal(extra)
	if err != nil {
		return 0, err
	}
	entry.Fields = string(fieldsJSON)

	if err := w.db.Create(&entry).Error; err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *DbWriter) Sync() error {
	return nil
}

func unquote(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return string(v)
	}
	return s
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(timeLayout))
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "timestamp",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   customTimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}

func init() {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), level)
	log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// InitLogger tees console output into the _app_logs table
func InitLogger(db *gorm.DB) error {
	if err := db.AutoMigrate(&AppLog{}); err != nil {
		return fmt.Errorf("failed to auto migrate: %v", err)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(&DbWriter{db: db}), level),
	)
	log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return nil
}

// SetLogLevel sets the logging level, unknown values fall back to info
func SetLogLevel(l string) {
	switch l {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Info logs an info message
func Info(msg string, fields ...Fields) {
	log.Info(msg, toZap(fields)...)
}

// Debug logs a debug message
func Debug(msg string, fields ...Fields) {
	log.Debug(msg, toZap(fields)...)
}

// Warn logs a warning message
func Warn(msg string, fields ...Fields) {
	log.Warn(msg, toZap(fields)...)
}

// Error logs an error message
func Error(msg string, fields ...Fields) {
	log.Error(msg, toZap(fields)...)
}

// Fatal logs a fatal message and exits the program
func Fatal(msg string, fields ...Fields) {
	log.Fatal(msg, toZap(fields)...)
}

// WithFields returns a child logger carrying fields
func WithFields(fields Fields) *zap.Logger {
	return log.With(toZap([]Fields{fields})...)
}

// TimeTrack logs the time taken since start
func TimeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	Debug(name+" took "+elapsed.String(), Fields{"duration": elapsed})
}

func toZap(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zapFields := make([]zap.Field, 0, len(fields[0]))
	for k, v := range fields[0] {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// Sync flushes any buffered log entries
func Sync() error {
	return log.Sync()
}
