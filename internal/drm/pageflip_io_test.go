package drm

import (
	"encoding/binary"
	"testing"
)

func encodeFlipEvent(userData uint64, crtcID uint32) []byte {
	buf := make([]byte, vblankEventSize)
	binary.LittleEndian.PutUint32(buf[0:4], eventTypeFlipComplete)
	binary.LittleEndian.PutUint32(buf[4:8], vblankEventSize)
	binary.LittleEndian.PutUint64(buf[8:16], userData)
	binary.LittleEndian.PutUint32(buf[28:32], crtcID)
	return buf
}

func TestParseEventsSingleFlipComplete(t *testing.T) {
	buf := encodeFlipEvent(42, 7)
	events := ParseEvents(buf)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].UserData != 42 || events[0].CrtcID != 7 {
		t.Fatalf("got %+v, want UserData=42 CrtcID=7", events[0])
	}
}

func TestParseEventsSkipsVblankOnly(t *testing.T) {
	buf := make([]byte, vblankEventSize)
	binary.LittleEndian.PutUint32(buf[0:4], eventTypeVblank)
	binary.LittleEndian.PutUint32(buf[4:8], vblankEventSize)
	events := ParseEvents(buf)
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0 (vblank-only)", len(events))
	}
}

func TestParseEventsConcatenated(t *testing.T) {
	var buf []byte
	buf = append(buf, encodeFlipEvent(1, 1)...)
	buf = append(buf, encodeFlipEvent(2, 2)...)
	events := ParseEvents(buf)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].UserData != 1 || events[1].UserData != 2 {
		t.Fatalf("got %+v", events)
	}
}

func TestParseEventsTruncatedTrailingBytesDropped(t *testing.T) {
	buf := encodeFlipEvent(5, 5)
	buf = append(buf, 0x01, 0x02, 0x03)
	events := ParseEvents(buf)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (trailing garbage ignored)", len(events))
	}
}
