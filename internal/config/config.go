// Package config layers daemon configuration the way breeze-agent's own
// config package does: built-in defaults, then an optional YAML file, then
// QAD_-prefixed environment variables, with viper doing the merge. The only
// CLI flag cmd/qad-fixture binds is --config, which picks the file; no flag
// overrides individual fields.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable named in the ambient config surface: card
// discovery, per-kind uinput enablement, evdev fallback, image format, and
// the page-flip engine's timing knobs. The three Uinput* switches and the
// two timing fields are loaded but not consulted by the rest of the daemon:
// the uinput backend always creates all three devices, and the page-flip
// engine uses its own fixed 10-minute keep-alive and 500ms fallback cadence.
type Config struct {
	DRMCardGlobs   []string `mapstructure:"drm_card_globs"`
	UinputMouse    bool     `mapstructure:"uinput_mouse"`
	UinputKeyboard bool     `mapstructure:"uinput_keyboard"`
	UinputTouch    bool     `mapstructure:"uinput_touch"`
	EvdevFallback  bool     `mapstructure:"evdev_fallback"`
	KMSFormatRGB   bool     `mapstructure:"kms_format_rgb"`
	ScreenBackend  string   `mapstructure:"screen_backend"` // "kms" or "ilm"

	PageFlipKeepAliveSeconds   int `mapstructure:"page_flip_keep_alive_seconds"`
	FallbackIntervalMillis     int `mapstructure:"fallback_interval_millis"`

	ListenAddr string `mapstructure:"listen_addr"`
}

// Default returns the built-in baseline, matching spec §4.L's defaults.
func Default() *Config {
	return &Config{
		DRMCardGlobs:             []string{"/dev/dri/card*"},
		UinputMouse:              true,
		UinputKeyboard:           true,
		UinputTouch:              true,
		EvdevFallback:            true,
		KMSFormatRGB:             true,
		ScreenBackend:            "kms",
		PageFlipKeepAliveSeconds: 600,
		FallbackIntervalMillis:   500,
		ListenAddr:               "127.0.0.1:9090",
	}
}

// Load reads defaults, then cfgFile (or qad-fixture.yaml on the standard
// search path if cfgFile is empty), then QAD_-prefixed environment
// variables. A file absent from the search path is not an error; an
// explicit cfgFile that cannot be read, or a malformed file, is.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("qad-fixture")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("QAD")
	// Unmarshal only sees keys viper already knows, so register each field's
	// key for env lookup (QAD_<KEY>).
	for _, key := range []string{
		"drm_card_globs", "uinput_mouse", "uinput_keyboard", "uinput_touch",
		"evdev_fallback", "kms_format_rgb", "screen_backend",
		"page_flip_keep_alive_seconds", "fallback_interval_millis", "listen_addr",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// KeepAlive is the configured page-flip keep-alive timer period as a
// time.Duration, converted from the configured integer seconds.
func (c *Config) KeepAlive() time.Duration {
	return time.Duration(c.PageFlipKeepAliveSeconds) * time.Second
}

// FallbackInterval is the time-based fallback worker's poll cadence.
func (c *Config) FallbackInterval() time.Duration {
	return time.Duration(c.FallbackIntervalMillis) * time.Millisecond
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "qad-fixture")
	case "darwin":
		return "/Library/Application Support/qad-fixture"
	default:
		return "/etc/qad-fixture"
	}
}
