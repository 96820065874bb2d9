// Package pageflip implements the page-flip capture engine (component H):
// it takes DRM master only to program the CRTC, double-buffers via dumb
// buffers, and keeps a warm
// last-drawn frame so screenshot reads never re-open the device. Grounded on
// kms_page_flip.cpp's async handler, with the boost::asio reactor replaced
// by a goroutine polling the card fd with unix.Poll.
package pageflip

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"go.uber.org/zap"

	"github.com/codethink/qad-fixture/internal/backend"
	"github.com/codethink/qad-fixture/internal/capture"
	"github.com/codethink/qad-fixture/internal/drm"
	"github.com/codethink/qad-fixture/internal/imageenc"
)

// State names the state machine positions from spec §4.H.
type State int

const (
	StateCreated State = iota
	StateWaitingFlip
	StateProcessing
	StateClosed
	StateFallback
	StateWaitingTick
)

// keepAlive matches the original's 10-minute keep-alive timer; re-armed on
// every successful flip, self-renewing on expiry.
const keepAlive = 10 * time.Minute

// fallbackInterval is the cadence of the time-based fallback worker when
// dumb-buffer setup, master, or the initial flip fails.
const fallbackInterval = 500 * time.Millisecond

// Engine is the process-wide page-flip capture engine. Exactly one instance
// runs per chosen card; it is created once by the registry and never torn
// down except at process exit.
type Engine struct {
	log *zap.Logger

	fd          int
	cardPath    string
	crtcID      uint32
	connectorID uint32
	mode        drm.ModeInfo
	rgb         bool

	mu           sync.Mutex
	buffers      [2]*drm.DumbBuffer
	activeIndex  int
	pendingFlip  bool
	state        State
	lastEncoded  []byte
	fallbackIdx  int

	stop chan struct{}
}

// Start resolves a usable card with drm.SelectCard's policy (first CRTC with
// a valid mode, else CRTC 2, kept only if a snapshot capture of it yields a
// non-empty image), runs the startup
// sequence from spec §4.H, and launches the background worker. If dumb
// buffer setup, master, or the initial flip fails, it falls back to a
// time-based polling worker instead of returning an error. Per spec, the
// engine always has *some* running worker once Start succeeds.
func Start(candidates []string, rgb bool, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var chosenCard string
	var chosenCrtc uint32
	found := false
	for _, card := range candidates {
		crtcs, err := drm.ListCrtcs(card)
		if err != nil {
			continue
		}
		id := uint32(2)
		for _, c := range crtcs {
			if c.ModeValid {
				id = c.ID
				break
			}
		}
		if capture.Probe(card, id) {
			chosenCard, chosenCrtc, found = card, id, true
			break
		}
	}
	if !found {
		return nil, backend.NewError(backend.DeviceUnavailable, "pageflip.Start", nil)
	}

	fd, err := unix.Open(chosenCard, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, backend.NewError(backend.DeviceUnavailable, "pageflip.Start", err)
	}

	e := &Engine{log: log, fd: fd, cardPath: chosenCard, crtcID: chosenCrtc, rgb: rgb, state: StateCreated, stop: make(chan struct{})}

	if !e.tryFastStart() {
		e.log.Warn("page-flip fast start failed, falling back to timed capture")
		e.state = StateFallback
		go e.runFallback()
		return e, nil
	}

	go e.runReactor()
	return e, nil
}

// tryFastStart runs spec §4.H steps 2-6. It returns false (never an error)
// on any failure, since the caller always falls back rather than failing
// engine construction outright.
func (e *Engine) tryFastStart() bool {
	hasDumb, err := drm.HasDumbBuffer(e.fd)
	if err != nil || !hasDumb {
		return false
	}

	binding, err := drm.ResolveConnectorBinding(e.fd)
	if err != nil {
		return false
	}
	e.crtcID = binding.CrtcID
	e.connectorID = binding.ConnectorID
	e.mode = binding.Mode

	for i := range e.buffers {
		buf, err := drm.CreateDumb(e.fd, binding.Width, binding.Height, 32)
		if err != nil {
			e.destroyBuffers(i)
			return false
		}
		fbID, err := drm.AddFB(e.fd, binding.Width, binding.Height, buf.Pitch, 32, 24, buf.Handle)
		if err != nil {
			drm.DestroyDumb(e.fd, buf.Handle)
			e.destroyBuffers(i)
			return false
		}
		buf.FBID = fbID

		offset, err := drm.MapDumbOffset(e.fd, buf.Handle)
		if err != nil {
			drm.RmFB(e.fd, fbID)
			drm.DestroyDumb(e.fd, buf.Handle)
			e.destroyBuffers(i)
			return false
		}
		mapped, err := unix.Mmap(e.fd, int64(offset), int(buf.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			drm.RmFB(e.fd, fbID)
			drm.DestroyDumb(e.fd, buf.Handle)
			e.destroyBuffers(i)
			return false
		}
		buf.Mapped = mapped
		e.buffers[i] = buf
	}

	if err := drm.SetMaster(e.fd); err != nil {
		e.destroyBuffers(len(e.buffers))
		return false
	}
	err = drm.SetCrtc(e.fd, e.crtcID, e.buffers[0].FBID, []uint32{e.connectorID}, &e.mode)
	dropErr := drm.DropMaster(e.fd)
	if err != nil || dropErr != nil {
		e.destroyBuffers(len(e.buffers))
		return false
	}

	if err := drm.PageFlip(e.fd, e.crtcID, e.buffers[0].FBID, 0); err != nil {
		e.destroyBuffers(len(e.buffers))
		return false
	}
	e.pendingFlip = true
	e.state = StateWaitingFlip
	return true
}

func (e *Engine) destroyBuffers(upTo int) {
	for i := 0; i < upTo; i++ {
		if e.buffers[i] == nil {
			continue
		}
		if e.buffers[i].Mapped != nil {
			unix.Munmap(e.buffers[i].Mapped)
		}
		if e.buffers[i].FBID != 0 {
			drm.RmFB(e.fd, e.buffers[i].FBID)
		}
		drm.DestroyDumb(e.fd, e.buffers[i].Handle)
		e.buffers[i] = nil
	}
}

// Close tears down the engine: unmap both buffers, remove each fb, destroy
// both dumb handles, close the card fd. Only called at process exit.
func (e *Engine) Close() error {
	close(e.stop)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyBuffers(len(e.buffers))
	e.state = StateClosed
	if e.fd < 0 {
		return nil
	}
	fd := e.fd
	e.fd = -1
	return unix.Close(fd)
}

// reset implements spec.md:227's resubmit-failure contract: tear down the
// dumb buffers, close the card fd, and switch to the same time-based
// fallback worker tryFastStart falls back to on startup failure. Called
// only from runReactor, which returns right after without touching the fd.
func (e *Engine) reset() {
	e.mu.Lock()
	e.destroyBuffers(len(e.buffers))
	if e.fd >= 0 {
		unix.Close(e.fd)
		e.fd = -1
	}
	e.state = StateFallback
	e.mu.Unlock()

	e.log.Warn("page flip resubmit failed, resetting to timed capture fallback")
	go e.runFallback()
}

// Image returns the last-drawn passive buffer PNG-encoded, or a false ok if
// the engine has no mapped bytes yet (fallback still warming up, or
// engine construction never completed a first flip).
func (e *Engine) Image() (backend.ImageData, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateFallback || e.state == StateWaitingTick {
		if e.lastEncoded == nil {
			return backend.ImageData{}, false
		}
		return backend.ImageData{Bytes: e.lastEncoded, Kind: backend.ImagePNG}, true
	}

	passive := e.buffers[1-e.activeIndex]
	if passive == nil || passive.Mapped == nil {
		return backend.ImageData{}, false
	}
	png, err := imageenc.EncodePNG(passive.Mapped, imageenc.EncodePNGOptions{
		Width: int(passive.Width), Height: int(passive.Height), Pitch: int(passive.Pitch), BPP: 32, RGB: e.rgb,
	})
	if err != nil {
		return backend.ImageData{}, false
	}
	return backend.ImageData{Bytes: png, Kind: backend.ImagePNG}, true
}

// Screenshot satisfies backend.ScreenBackend. The cached frame always comes
// from the CRTC the Engine was started against, whatever screenID is; on a
// cache miss it falls back to a one-shot snapshot capture of screenID.
func (e *Engine) Screenshot(screenID int) (backend.ImageData, error) {
	img, ok := e.Image()
	if !ok {
		return capture.Capture(e.cardPath, screenID, e.rgb)
	}
	return img, nil
}

// ListScreens renders drm.ListCrtcs over this engine's card as spec §6's
// one-line-per-CRTC text format.
func (e *Engine) ListScreens() (string, error) {
	crtcs, err := drm.ListCrtcs(e.cardPath)
	if err != nil {
		return "", backend.NewError(backend.IoFailure, "pageflip.ListScreens", err)
	}

	var lines []string
	for _, c := range crtcs {
		valid := 0
		if c.ModeValid {
			valid = 1
		}
		lines = append(lines, fmt.Sprintf("CRTC: ID=%d, mode_valid=%d", c.ID, valid))
	}
	return strings.Join(lines, "\n"), nil
}
