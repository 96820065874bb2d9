package pageflip

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/codethink/qad-fixture/internal/capture"
	"github.com/codethink/qad-fixture/internal/drm"
)

// runReactor is the steady-state worker for WAITING_FLIP/PROCESSING: poll
// the card fd for read readiness, decode the completion event, flip the
// active index, resubmit, and reset the keep-alive timer. Exactly one flip
// is outstanding at a time, matching the invariant in spec §4.H.
func (e *Engine) runReactor() {
	keepAliveTimer := time.NewTimer(keepAlive)
	defer keepAliveTimer.Stop()

	buf := make([]byte, 4096)
	for {
		select {
		case <-e.stop:
			return
		case <-keepAliveTimer.C:
			// Expiry just re-arms itself; the timer exists only to keep
			// this goroutine's cadence alive across quiescent periods.
			keepAliveTimer.Reset(keepAlive)
			continue
		default:
		}

		pfd := []unix.PollFd{{Fd: int32(e.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(pfd, 200)
		if err != nil || n == 0 || pfd[0].Revents&unix.POLLIN == 0 {
			continue
		}

		e.mu.Lock()
		e.state = StateProcessing
		e.mu.Unlock()

		nread, err := unix.Read(e.fd, buf)
		if err != nil || nread <= 0 {
			e.mu.Lock()
			e.state = StateWaitingFlip
			e.mu.Unlock()
			continue
		}

		events := drm.ParseEvents(buf[:nread])
		if len(events) == 0 {
			e.mu.Lock()
			e.state = StateWaitingFlip
			e.mu.Unlock()
			continue
		}

		e.mu.Lock()
		e.activeIndex ^= 1
		nextFB := e.buffers[e.activeIndex].FBID
		flipErr := drm.PageFlip(e.fd, e.crtcID, nextFB, 0)
		if flipErr != nil {
			e.mu.Unlock()
			e.reset()
			return
		}
		e.pendingFlip = true
		e.state = StateWaitingFlip
		e.mu.Unlock()

		if !keepAliveTimer.Stop() {
			select {
			case <-keepAliveTimer.C:
			default:
			}
		}
		keepAliveTimer.Reset(keepAlive)
	}
}

// runFallback is the time-based fallback worker: periodically capture the
// currently scanned-out framebuffer via internal/capture and latch the
// result, ping-ponging between two cache slots.
func (e *Engine) runFallback() {
	var cache [2][]byte
	ticker := time.NewTicker(fallbackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
		}

		img, err := capture.Capture(e.cardPath, int(e.crtcID), e.rgb)
		if err != nil {
			continue
		}

		e.mu.Lock()
		e.fallbackIdx ^= 1
		cache[e.fallbackIdx] = img.Bytes
		e.lastEncoded = cache[e.fallbackIdx]
		e.state = StateWaitingTick
		e.mu.Unlock()
	}
}
