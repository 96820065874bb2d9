package drm

import (
	"encoding/binary"
	"unsafe"
)

// PageFlip submits DRM_IOCTL_MODE_PAGE_FLIP with DRM_MODE_PAGE_FLIP_EVENT,
// binding fbID to crtcID; userData round-trips through the completion event
// read back off the card fd.
func PageFlip(fd int, crtcID, fbID uint32, userData uint64) error {
	p := sysPageFlip{crtcID: crtcID, fbID: fbID, flags: pageFlipEventFlag, userData: userData}
	return ioctl(fd, reqPageFlip, unsafe.Pointer(&p))
}

// DRM event types, from drm.h.
const (
	eventTypeVblank       = 0x01
	eventTypeFlipComplete = 0x02
)

// drm_event header: type, length (both u32).
const eventHeaderSize = 8

// vblank/flip-complete payload: user_data(u64), tv_sec, tv_usec, sequence,
// crtc_id (all u32), 24 bytes after the 8-byte header, 32 total.
const vblankEventSize = 32

// FlipEvent is a decoded completion event: the engine matches UserData
// against the value it submitted in PageFlip to confirm which flip
// completed.
type FlipEvent struct {
	UserData uint64
	CrtcID   uint32
}

// ParseEvents decodes zero or more concatenated drm_event records out of a
// buffer read from the card fd, returning only DRM_EVENT_FLIP_COMPLETE
// events; vblank-only events are skipped. Malformed trailing bytes (a
// truncated read) are silently dropped; the next read will resync.
func ParseEvents(buf []byte) []FlipEvent {
	var out []FlipEvent
	for len(buf) >= eventHeaderSize {
		typ := binary.LittleEndian.Uint32(buf[0:4])
		length := binary.LittleEndian.Uint32(buf[4:8])
		if length < eventHeaderSize || int(length) > len(buf) {
			break
		}
		if typ == eventTypeFlipComplete && length >= vblankEventSize {
			userData := binary.LittleEndian.Uint64(buf[8:16])
			crtcID := binary.LittleEndian.Uint32(buf[28:32])
			out = append(out, FlipEvent{UserData: userData, CrtcID: crtcID})
		}
		buf = buf[length:]
	}
	return out
}
