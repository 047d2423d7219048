// 指示: miu200521358
// Package mconfig は変換設定YAMLを読み込む。
package mconfig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CONFIG_VERSION は対応する設定ファイルの版。
const CONFIG_VERSION = 1

const (
	defaultDesyncPrefix  = "#"
	defaultImpulseSuffix = "-impulse"
	defaultLogLevel      = "info"
)

// OutputConfig は出力に関する設定を表す。
type OutputConfig struct {
	// ControllerName は出力コントローラー名。空の場合は "<アバター名>_CVR"。
	ControllerName string `yaml:"controller_name"`
}

// Config は変換設定を表す。
type Config struct {
	Version           int          `yaml:"version"`
	PreserveSyncState *bool        `yaml:"preserve_sync_state"`
	DesyncPrefix      string       `yaml:"desync_prefix"`
	ImpulseSuffix     string       `yaml:"impulse_suffix"`
	BuiltinLibrary    string       `yaml:"builtin_library"`
	LogLevel          string       `yaml:"log_level"`
	Output            OutputConfig `yaml:"output"`
}

// DefaultConfig は既定値だけの設定を返す。
func DefaultConfig() *Config {
	cfg := &Config{Version: CONFIG_VERSION}
	cfg.applyDefaults()
	return cfg
}

// PreserveSync は同期状態を維持するかを返す。未指定なら維持する。
func (c *Config) PreserveSync() bool {
	if c.PreserveSyncState == nil {
		return true
	}
	return *c.PreserveSyncState
}

// Level はログレベルを返す。
func (c *Config) Level() logging.LogLevel {
	return logging.ParseLevel(strings.ToLower(c.LogLevel))
}

// LoadConfig は設定ファイルを読み込む。パスが空なら既定値を返す。
// 組み込みクリップ集の相対パスは設定ファイルのあるフォルダー基準で解決する。
func LoadConfig(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfig(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.WrapConfigError(merr.ErrorIDConfigInvalid, err, "設定ファイルが見つかりません: %s", path)
		}
		return nil, errors.Wrapf(err, "設定ファイルの読み込みに失敗しました: %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, merr.WrapConfigError(merr.ErrorIDConfigInvalid, err, "設定ファイルの形式が不正です: %s", path)
	}
	if cfg.Version != CONFIG_VERSION {
		return nil, merr.NewConfigError(merr.ErrorIDConfigInvalid, "未対応の設定ファイル版です: %s version=%d", path, cfg.Version)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "設定値が不正です: %s", path)
	}
	cfg.applyDefaults()
	if cfg.BuiltinLibrary != "" && !filepath.IsAbs(cfg.BuiltinLibrary) {
		cfg.BuiltinLibrary = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.BuiltinLibrary))
	}
	return &cfg, nil
}

// validate は値の範囲を検証する。
func (c *Config) validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return merr.NewConfigError(merr.ErrorIDConfigInvalid, "未知のログレベルです: %q", c.LogLevel)
	}
	if c.DesyncPrefix != "" && c.DesyncPrefix == c.ImpulseSuffix {
		return merr.NewConfigError(merr.ErrorIDConfigInvalid, "非同期接頭辞と単発接尾辞が同じです: %q", c.DesyncPrefix)
	}
	if strings.ContainsAny(c.Output.ControllerName, `/\`) {
		return merr.NewConfigError(merr.ErrorIDConfigInvalid, "出力コントローラー名にパス区切りは使えません: %q", c.Output.ControllerName)
	}
	return nil
}

// applyDefaults はゼロ値の項目へ既定値を設定する。
func (c *Config) applyDefaults() {
	if c.DesyncPrefix == "" {
		c.DesyncPrefix = defaultDesyncPrefix
	}
	if c.ImpulseSuffix == "" {
		c.ImpulseSuffix = defaultImpulseSuffix
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}
