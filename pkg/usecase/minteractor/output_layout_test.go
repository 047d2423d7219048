// 指示: miu200521358
package minteractor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBuildDefaultOutputPathAtUsesTimestampDir(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	got := buildDefaultOutputPathAt(filepath.Join("avatars", "Kikyo.json"), now)
	want := filepath.Join("avatars", "Kikyo_20260304050607", "Kikyo_CVR.yaml")
	if got != want {
		t.Fatalf("output path mismatch: got=%s want=%s", got, want)
	}
	if got := buildDefaultOutputPathAt(filepath.Join("avatars", ".json"), now); got != "" {
		t.Fatalf("empty base should produce empty path: got=%s", got)
	}
}

func TestBuildDefaultReportPath(t *testing.T) {
	testCases := []struct {
		name   string
		output string
		want   string
	}{
		{name: "yaml", output: filepath.Join("out", "a_CVR.yaml"), want: filepath.Join("out", "a_CVR_report.json")},
		{name: "blank", output: "  ", want: ""},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildDefaultReportPath(tc.output); got != tc.want {
				t.Fatalf("report path mismatch: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestResolveOutputPathRejectsUnknownExtension(t *testing.T) {
	if _, err := resolveOutputPath("a.json", "out/a.asset"); err == nil {
		t.Fatalf("expected extension error")
	}
	got, err := resolveOutputPath("a.json", "out/a.YML")
	if err != nil {
		t.Fatalf("resolveOutputPath failed: %v", err)
	}
	if got != "out/a.YML" {
		t.Fatalf("resolved path mismatch: got=%s", got)
	}
}

func TestPrepareOutputLayoutCreatesDir(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "nested", "a_CVR.yaml")
	if err := prepareOutputLayout(outputPath); err != nil {
		t.Fatalf("prepareOutputLayout failed: %v", err)
	}
	info, err := os.Stat(filepath.Dir(outputPath))
	if err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}
}
