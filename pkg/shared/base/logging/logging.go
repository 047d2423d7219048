// 指示: miu200521358
// Package logging はログ出力の契約と既定ロガーの保持先を提供する。
package logging

import "sync"

// LogLevel はログレベルを表す。
type LogLevel int

const (
	// LOG_LEVEL_DEBUG はデバッグレベル。
	LOG_LEVEL_DEBUG LogLevel = iota
	// LOG_LEVEL_INFO は情報レベル。
	LOG_LEVEL_INFO
	// LOG_LEVEL_WARN は警告レベル。
	LOG_LEVEL_WARN
	// LOG_LEVEL_ERROR はエラーレベル。
	LOG_LEVEL_ERROR
)

// ILogger はログ出力の契約を表す。
type ILogger interface {
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
	SetLevel(level LogLevel)
	Level() LogLevel
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   ILogger
)

// DefaultLogger は既定ロガーを返す。未設定時はnil。
func DefaultLogger() ILogger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。
func SetDefaultLogger(logger ILogger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// ParseLevel は文字列からログレベルを解決する。未知の値はINFOとする。
func ParseLevel(value string) LogLevel {
	switch value {
	case "debug", "DEBUG":
		return LOG_LEVEL_DEBUG
	case "warn", "WARN", "warning", "WARNING":
		return LOG_LEVEL_WARN
	case "error", "ERROR":
		return LOG_LEVEL_ERROR
	default:
		return LOG_LEVEL_INFO
	}
}
