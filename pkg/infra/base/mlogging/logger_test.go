// 指示: miu200521358
package mlogging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
)

func TestLoggerRespectsLevel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(buf)
	logger.SetLevel(logging.LOG_LEVEL_WARN)

	logger.Info("info message %d", 1)
	logger.Warn("warn message %d", 2)

	out := buf.String()
	if strings.Contains(out, "info message 1") {
		t.Fatalf("info should be filtered: %s", out)
	}
	if !strings.Contains(out, "warn message 2") {
		t.Fatalf("warn should be written: %s", out)
	}
	if logger.Level() != logging.LOG_LEVEL_WARN {
		t.Fatalf("level mismatch: got=%d want=%d", logger.Level(), logging.LOG_LEVEL_WARN)
	}
}

func TestLoggerDebugEnabled(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(buf)
	logger.Debug("hidden")
	logger.SetLevel(logging.LOG_LEVEL_DEBUG)
	logger.Debug("shown %s", "debug")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug should be filtered at info: %s", out)
	}
	if !strings.Contains(out, "shown debug") {
		t.Fatalf("debug should be written: %s", out)
	}
}
