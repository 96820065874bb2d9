package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/codethink/qad-fixture/internal/backend"
	"github.com/codethink/qad-fixture/internal/config"
	"github.com/codethink/qad-fixture/internal/devclass"
	"github.com/codethink/qad-fixture/internal/evdevio"
	"github.com/codethink/qad-fixture/internal/ilmscreen"
	"github.com/codethink/qad-fixture/internal/pageflip"
	"github.com/codethink/qad-fixture/internal/telemetry"
	"github.com/codethink/qad-fixture/internal/uinputdev"
)

// buildRegistry assembles the factories runServe hands to backend.New,
// grounded on spec §4.J: uinput is the default input backend, evdev is the
// fallback; KMS is the default screen backend, ILM the alternative.
func buildRegistry(cfg *config.Config, log *zap.Logger) *backend.Registry {
	inputFactories := map[backend.InputKind]backend.InputFactory{
		backend.InputUinput: func() (backend.InputBackend, error) {
			return uinputdev.New()
		},
		backend.InputEvdev: func() (backend.InputBackend, error) {
			return evdevio.New(), nil
		},
	}

	screenFactories := map[backend.ScreenKind]backend.ScreenFactory{
		backend.ScreenKMS: func() (backend.ScreenBackend, error) {
			var cards []string
			for _, pattern := range cfg.DRMCardGlobs {
				matches, _ := filepath.Glob(pattern)
				cards = append(cards, matches...)
			}
			return pageflip.Start(cards, cfg.KMSFormatRGB, telemetry.Component(log, "pageflip"))
		},
		backend.ScreenILM: func() (backend.ScreenBackend, error) {
			return ilmscreen.New()
		},
	}

	return backend.New(inputFactories, screenFactories)
}

// resolveDeviceMappings implements spec §4.E's startup choice: fixed uinput
// defaults unless evdev discovery is enabled, /proc/bus/input/devices is
// readable, and at least one device in it classifies. The returned InputKind tells dispatch which
// backend actually owns these event numbers: uinput's fixed 0/1/2 triple, or
// the real kernel event numbers evdev discovery found.
func resolveDeviceMappings(cfg *config.Config) ([]devclass.Mapping, backend.InputKind) {
	if !cfg.EvdevFallback {
		return devclass.DefaultUinputMappings(), backend.InputUinput
	}

	f, err := os.Open("/proc/bus/input/devices")
	if err != nil {
		return devclass.DefaultUinputMappings(), backend.InputUinput
	}
	defer f.Close()

	mappings := devclass.ParseProcInputDevices(f)
	if mappings == nil {
		return devclass.DefaultUinputMappings(), backend.InputUinput
	}
	return mappings, backend.InputEvdev
}

func defaultScreenKind(cfg *config.Config) backend.ScreenKind {
	if cfg.ScreenBackend == "ilm" {
		return backend.ScreenILM
	}
	return backend.ScreenKMS
}
