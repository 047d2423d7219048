// 指示: miu200521358
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

const fxControllerYAML = `version: 1
objects:
  - id: 1
    kind: AnimatorController
    controller:
      name: FX
      parameters:
        - {name: Hat, type: Bool, default: 0}
        - {name: VelocityX, type: Float, default: 0}
      layers:
        - name: Hat
          state_machine: {id: 2}
          default_weight: 0
  - id: 2
    kind: AnimatorStateMachine
    state_machine:
      name: Hat
      position: [0, 0, 0]
      any_state_position: [0, 0, 0]
      entry_position: [0, 0, 0]
      exit_position: [0, 0, 0]
      parent_state_machine_position: [0, 0, 0]
      states: [{id: 3}]
      default_state: {id: 3}
  - id: 3
    kind: AnimatorState
    state:
      name: On
      position: [200, 0, 0]
      speed: 1
      write_default_values: true
      motion: {id: 4}
  - id: 4
    kind: AnimationClip
    clip:
      name: HatOn
      frame_rate: 60
      bounds: {center: [0, 0, 0], extent: [0, 0, 0]}
      curves:
        - binding: {path: Hat, type: GameObject, property: m_IsActive}
          keys: [{time: 0, value: 1}]
`

const avatarJSON = `{
  "name": "Kikyo",
  "parameters": [{"name": "Hat", "type": "Bool", "synced": true}],
  "playable_layers": [{"category": "FX", "controller": "FX.controller"}],
  "menu": {"name": "Root", "controls": [{"name": "Hat", "type": "Toggle", "parameter": "Hat", "value": 1}]},
  "blink_blend_shapes": ["blink"],
  "viseme_blend_shapes": ["vrc.v_aa"],
  "contacts": [{"path": "Head/Boop", "kind": "receiver"}]
}`

// writeAvatarFixture は記述子とFXコントローラーを書き出し、記述子パスを返す。
func writeAvatarFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "FX.controller"), []byte(fxControllerYAML), 0o644); err != nil {
		t.Fatalf("write controller failed: %v", err)
	}
	descPath := filepath.Join(dir, "Kikyo.json")
	if err := os.WriteFile(descPath, []byte(avatarJSON), 0o644); err != nil {
		t.Fatalf("write descriptor failed: %v", err)
	}
	return descPath
}

func TestParseOptionsWithFlags(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{"-desc", "avatar.json", "-out", "out.yaml", "-report", "r.json", "-watch", "-v"}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.descriptorPath != "avatar.json" || opts.outputPath != "out.yaml" || opts.reportPath != "r.json" {
		t.Fatalf("paths mismatch: %+v", opts)
	}
	if !opts.watch || !opts.verbose {
		t.Fatalf("bool flags mismatch: %+v", opts)
	}
}

func TestParseOptionsWithPositionals(t *testing.T) {
	opts, err := parseOptions([]string{"avatar.json", "result.yaml"}, bytes.NewBuffer(nil))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.descriptorPath != "avatar.json" || opts.outputPath != "result.yaml" {
		t.Fatalf("positional mismatch: %+v", opts)
	}
}

func TestParseOptionsErrors(t *testing.T) {
	if _, err := parseOptions(nil, bytes.NewBuffer(nil)); err == nil || !strings.Contains(err.Error(), "-desc") {
		t.Fatalf("missing descriptor should fail: %v", err)
	}
	if _, err := parseOptions([]string{"-desc", "avatar.vrm"}, bytes.NewBuffer(nil)); err == nil || !strings.Contains(err.Error(), ".json") {
		t.Fatalf("unsupported extension should fail: %v", err)
	}
}

func TestRunConvertsAvatar(t *testing.T) {
	descPath := writeAvatarFixture(t)
	dir := filepath.Dir(descPath)
	outPath := filepath.Join(dir, "out", "Kikyo_CVR.yaml")
	reportPath := filepath.Join(dir, "out", "Kikyo_report.json")
	out := bytes.NewBuffer(nil)
	errOut := bytes.NewBuffer(nil)

	err := run(context.Background(), []string{"-desc", descPath, "-out", outPath, "-report", reportPath}, out, errOut)
	if err != nil {
		t.Fatalf("run failed: %v\nstderr=%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "変換完了") || !strings.Contains(out.String(), "レイヤー追加: Hat") {
		t.Fatalf("progress output mismatch:\n%s", out.String())
	}
	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output container should exist: %v", err)
	}
	if !strings.Contains(string(written), "name: Kikyo_CVR") || !strings.Contains(string(written), "MovementX") {
		t.Fatalf("output container mismatch:\n%s", written)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report should exist: %v", err)
	}
	if got := gjson.GetBytes(report, "avatar").String(); got != "Kikyo" {
		t.Fatalf("report avatar mismatch: got=%s", got)
	}
	if got := gjson.GetBytes(report, `renamed.#(source=="VelocityX").target`).String(); got != "MovementX" {
		t.Fatalf("builtin rename should be reported: got=%s report=%s", got, report)
	}
}

func TestRunUsesConfig(t *testing.T) {
	descPath := writeAvatarFixture(t)
	dir := filepath.Dir(descPath)
	configPath := filepath.Join(dir, "vrc2cvr.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\noutput:\n  controller_name: Custom\n"), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	outPath := filepath.Join(dir, "custom.yaml")

	if err := run(context.Background(), []string{"-config", configPath, "-desc", descPath, "-out", outPath}, bytes.NewBuffer(nil), bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output container should exist: %v", err)
	}
	if !strings.Contains(string(written), "name: Custom") {
		t.Fatalf("configured controller name should be used:\n%s", written)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	descPath := writeAvatarFixture(t)
	configPath := filepath.Join(filepath.Dir(descPath), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("version: 3\n"), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	err := run(context.Background(), []string{"-config", configPath, "-desc", descPath}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil || !strings.Contains(err.Error(), "設定の読み込みに失敗しました") {
		t.Fatalf("invalid config should fail: %v", err)
	}
}

func TestRunWatchStopsOnCancel(t *testing.T) {
	descPath := writeAvatarFixture(t)
	outPath := filepath.Join(filepath.Dir(descPath), "watch.yaml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := bytes.NewBuffer(nil)

	if err := run(ctx, []string{"-watch", "-desc", descPath, "-out", outPath}, out, bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("watch run failed: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("initial conversion should run before watching: %v", err)
	}
	if !strings.Contains(out.String(), "監視開始") {
		t.Fatalf("watch start should be reported:\n%s", out.String())
	}
}

func TestWatchTargetsIncludeControllers(t *testing.T) {
	descPath := writeAvatarFixture(t)
	files := watchTargets(options{descriptorPath: descPath, configPath: "cfg.yaml"})
	want := filepath.Join(filepath.Dir(descPath), "FX.controller")
	if len(files) != 3 || files[2] != want {
		t.Fatalf("watch targets mismatch: %v", files)
	}
}
