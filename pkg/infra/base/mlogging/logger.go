// 指示: miu200521358
package mlogging

import (
	"io"
	"os"

	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger はzapを出力先とするロガーを表す。
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
	lv    logging.LogLevel
}

// NewLogger はロガーを生成する。writerがnilの場合は標準エラーへ出力する。
func NewLogger(writer io.Writer) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(writer),
		level,
	)
	return &Logger{
		sugar: zap.New(core).Sugar(),
		level: level,
		lv:    logging.LOG_LEVEL_INFO,
	}
}

// Debug はDEBUGログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.sugar.Debugf(format, params...)
}

// Info はINFOログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.sugar.Infof(format, params...)
}

// Warn はWARNログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.sugar.Warnf(format, params...)
}

// Error はERRORログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.sugar.Errorf(format, params...)
}

// SetLevel は出力レベルを設定する。
func (l *Logger) SetLevel(level logging.LogLevel) {
	l.lv = level
	l.level.SetLevel(toZapLevel(level))
}

// Level は現在の出力レベルを返す。
func (l *Logger) Level() logging.LogLevel {
	return l.lv
}

// Sync はバッファ済みログを書き出す。
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// toZapLevel はログレベルをzapのレベルへ変換する。
func toZapLevel(level logging.LogLevel) zapcore.Level {
	switch level {
	case logging.LOG_LEVEL_DEBUG:
		return zapcore.DebugLevel
	case logging.LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case logging.LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
