// Package ilmscreen implements the optional Wayland/ivi-compositor screen
// backend: it enumerates wl_output globals as CRTC-shaped entries but never
// actually reads pixels back, matching the original ILM backend's own
// screenshot stub. Present so the registry has a second ScreenBackend to
// select between, per SPEC_FULL.md §4.M.
package ilmscreen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/codethink/qad-fixture/internal/backend"
)

// Output is one enumerated wl_output global, shaped like a CRTC entry so
// callers can treat it the same way as a KMS screen ID.
type Output struct {
	ID     int
	Name   string
	Width  int32
	Height int32
}

// Backend connects to the compositor once at construction and keeps the
// registry of outputs discovered during the initial roundtrip.
type Backend struct {
	display *client.Display
	outputs []Output
}

// New connects to the Wayland display and blocks briefly for the initial
// registry roundtrip that announces wl_output globals.
func New() (*Backend, error) {
	display, err := client.Connect("")
	if err != nil {
		return nil, backend.NewError(backend.DeviceUnavailable, "ilmscreen.New", err)
	}

	b := &Backend{display: display}

	registry, err := display.GetRegistry()
	if err != nil {
		display.Destroy()
		return nil, backend.NewError(backend.DeviceUnavailable, "ilmscreen.GetRegistry", err)
	}

	registry.SetGlobalHandler(func(e client.RegistryGlobalEvent) {
		if e.Interface != "wl_output" {
			return
		}
		out := client.NewOutput(registry.Context())
		if err := registry.Bind(e.Name, e.Interface, e.Version, out); err != nil {
			return
		}
		idx := len(b.outputs)
		b.outputs = append(b.outputs, Output{ID: int(e.Name)})
		out.SetGeometryHandler(func(ev client.OutputGeometryEvent) {
			b.outputs[idx].Name = ev.Make + " " + ev.Model
		})
		out.SetModeHandler(func(ev client.OutputModeEvent) {
			b.outputs[idx].Width, b.outputs[idx].Height = ev.Width, ev.Height
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	roundtrip(ctx, display)

	return b, nil
}

func roundtrip(ctx context.Context, display *client.Display) {
	done := make(chan struct{})
	go func() {
		display.Context().Dispatch()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Outputs lists the wl_output globals discovered at construction, presented
// as CRTC-shaped entries for the registry's screen enumeration surface.
func (b *Backend) Outputs() []Output {
	return b.outputs
}

// Screenshot always fails with Unavailable: the ivi-shell screenshot
// protocol this backend would need is not part of the stack a plain
// wl_output client can reach, matching the original ILM backend's own
// grab_frame_buffer stub.
func (b *Backend) Screenshot(screenID int) (backend.ImageData, error) {
	return backend.ImageData{}, backend.NewError(backend.Unavailable, "ilmscreen.Screenshot", nil)
}

// ListScreens reports one CrtcInfo-shaped entry per bound wl_output, using
// the output's last-known mode to decide mode_valid, in the same
// "CRTC: ID=<id>, mode_valid=<0|1>" text format the KMS backend uses.
func (b *Backend) ListScreens() (string, error) {
	var lines []string
	for _, o := range b.outputs {
		valid := 0
		if o.Width > 0 && o.Height > 0 {
			valid = 1
		}
		lines = append(lines, fmt.Sprintf("CRTC: ID=%d, mode_valid=%d", o.ID, valid))
	}
	return strings.Join(lines, "\n"), nil
}

// Close disconnects from the compositor.
func (b *Backend) Close() error {
	return b.display.Destroy()
}
