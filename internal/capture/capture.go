// Package capture implements the snapshot capture path (component G): map
// the currently-scanned-out framebuffer read-only and PNG-encode it. Used
// both as the KMS backend's cache-miss fallback and as the probe SelectCard
// uses to test whether a candidate card actually yields a usable image.
// Grounded on kms.cpp's grab_frame_buffer, adjusted to spec §4.G's explicit
// sequence (GetCrtc, then GetFB(crtc.buffer_id), then MapDumb, then mmap)
// rather than the original's own dumb_map_auto_t, which allocates a fresh
// unrelated buffer instead of mapping the active one. Spec §4.G is
// unambiguous here, so it wins over the original.
package capture

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/codethink/qad-fixture/internal/backend"
	"github.com/codethink/qad-fixture/internal/drm"
	"github.com/codethink/qad-fixture/internal/imageenc"
)

// Capture opens cardPath read-write CLOEXEC, resolves screenID's CRTC and
// its bound framebuffer, maps it read-only, and PNG-encodes the mapped
// bytes. Cleanup runs on every exit path via defer: munmap, then close.
// This backend never owns the CRTC's fb, so it never removes it, only
// munmaps and closes.
func Capture(cardPath string, screenID int, rgb bool) (backend.ImageData, error) {
	fd, err := unix.Open(cardPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return backend.ImageData{}, backend.NewError(backend.DeviceUnavailable, "capture.Capture", err)
	}
	defer unix.Close(fd)

	crtc, err := drm.GetCrtc(fd, uint32(screenID))
	if err != nil {
		return backend.ImageData{}, backend.NewError(backend.IoFailure, "capture.GetCrtc", err)
	}
	if crtc.BufferID == 0 {
		return backend.ImageData{}, backend.NewError(backend.Unavailable, "capture.GetCrtc", fmt.Errorf("crtc %d has no bound framebuffer", screenID))
	}

	fb, err := drm.GetFB(fd, crtc.BufferID)
	if err != nil {
		return backend.ImageData{}, backend.NewError(backend.IoFailure, "capture.GetFB", err)
	}

	offset, err := drm.MapDumbOffset(fd, fb.Handle)
	if err != nil {
		return backend.ImageData{}, backend.NewError(backend.IoFailure, "capture.MapDumbOffset", err)
	}

	size := int(fb.Pitch) * int(fb.Height)
	mapped, err := unix.Mmap(fd, int64(offset), size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return backend.ImageData{}, backend.NewError(backend.IoFailure, "capture.Mmap", err)
	}
	defer unix.Munmap(mapped)

	png, err := imageenc.EncodePNG(mapped, imageenc.EncodePNGOptions{
		Width:  int(fb.Width),
		Height: int(fb.Height),
		Pitch:  int(fb.Pitch),
		BPP:    int(fb.BPP),
		RGB:    rgb,
	})
	if err != nil {
		return backend.ImageData{}, backend.NewError(backend.EncodeFailure, "capture.EncodePNG", err)
	}

	return backend.ImageData{Bytes: png, Kind: backend.ImagePNG}, nil
}

// Probe adapts Capture to drm.CaptureProbe's signature for SelectCard: it
// reports whether a candidate card/CRTC pair yields a non-empty image.
func Probe(cardPath string, crtcID uint32) bool {
	img, err := Capture(cardPath, int(crtcID), true)
	return err == nil && len(img.Bytes) > 0
}
