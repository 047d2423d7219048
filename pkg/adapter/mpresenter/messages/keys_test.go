// 指示: miu200521358
package messages

import (
	"strings"
	"testing"
)

func TestMessagesAreDefined(t *testing.T) {
	keys := []string{
		FlagConfig,
		FlagDesc,
		FlagOut,
		FlagReport,
		FlagWatch,
		FlagV,
		MessageInputRequired,
		MessageInputUnsupported,
		MessageConfigFailed,
		MessageBuiltinFailed,
		MessageContactFailed,
		MessageConvertFailed,
		MessageWatchFailed,
		LogConvertStart,
		LogCategoryStart,
		LogLayerMerged,
		LogConvertSuccess,
		LogReportWritten,
		LogWarning,
		LogWatchStart,
		LogWatchChanged,
		LogWatchRunFailed,
		LogBatchTarget,
		LogBatchSummary,
		LogBatchItemFailed,
	}

	seen := map[string]struct{}{}
	for _, key := range keys {
		if key == "" {
			t.Fatalf("key should not be empty")
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("key should be unique: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestWrappingMessagesKeepCause(t *testing.T) {
	for _, key := range []string{MessageConfigFailed, MessageBuiltinFailed, MessageContactFailed, MessageConvertFailed, MessageWatchFailed} {
		if !strings.HasSuffix(key, "%w") {
			t.Fatalf("wrapping message should end with %%w: %s", key)
		}
	}
}

func TestLogLinesArePrefixedWithAppName(t *testing.T) {
	for _, key := range []string{LogConvertStart, LogConvertSuccess, LogWatchStart, LogBatchSummary} {
		if !strings.HasPrefix(key, "[%s]") || !strings.HasSuffix(key, "\n") {
			t.Fatalf("log line format mismatch: %q", key)
		}
	}
}
