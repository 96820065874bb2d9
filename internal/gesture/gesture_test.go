package gesture

import (
	"encoding/binary"
	"os"
	"testing"
	"time"

	"github.com/codethink/qad-fixture/internal/inputcodes"
)

type rec struct {
	typ, code uint16
	value     int32
}

func drain(t *testing.T, r *os.File) []rec {
	t.Helper()
	r.SetReadDeadline(time.Now().Add(2 * time.Second))
	var out []rec
	buf := make([]byte, 24)
	for {
		n, err := r.Read(buf)
		if err != nil || n == 0 {
			break
		}
		out = append(out, rec{
			typ:   binary.LittleEndian.Uint16(buf[16:18]),
			code:  binary.LittleEndian.Uint16(buf[18:20]),
			value: int32(binary.LittleEndian.Uint32(buf[20:24])),
		})
	}
	return out
}

func pipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close(); w.Close() })
	return r, w
}

// P1: the last event written before return is SYN/SYN_REPORT.
func lastIsSyn(t *testing.T, events []rec) {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("no events written")
	}
	last := events[len(events)-1]
	if last.typ != inputcodes.EV_SYN || last.code != inputcodes.SYN_REPORT {
		t.Fatalf("last event = %+v, want SYN/SYN_REPORT", last)
	}
}

func TestMoveWritesThreeRecords(t *testing.T) {
	r, w := pipe(t)
	if !Move(int(w.Fd()), 100, 200) {
		t.Fatal("Move returned false")
	}
	w.Close()
	events := drain(t, r)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	lastIsSyn(t, events)
}

func TestButtonDownUpTrackingID(t *testing.T) {
	r, w := pipe(t)
	if !Button(int(w.Fd()), 1) {
		t.Fatal("Button(1) returned false")
	}
	if !Button(int(w.Fd()), 0) {
		t.Fatal("Button(0) returned false")
	}
	w.Close()
	events := drain(t, r)
	if len(events) != 6 {
		t.Fatalf("got %d events, want 6: %+v", len(events), events)
	}
	if events[0].value != inputcodes.TrackingIDDown {
		t.Fatalf("first tracking id = %d, want %d", events[0].value, inputcodes.TrackingIDDown)
	}
	if events[3].value != inputcodes.TrackingIDUp {
		t.Fatalf("second tracking id = %d, want %d", events[3].value, inputcodes.TrackingIDUp)
	}
}

// P2: count of BTN_TOUCH=1 equals count of BTN_TOUCH=0, one each.
func TestTouchButtonCounts(t *testing.T) {
	r, w := pipe(t)
	if !Touch(int(w.Fd()), 10, 20, 0) {
		t.Fatal("Touch returned false")
	}
	w.Close()
	events := drain(t, r)

	var downs, ups int
	for _, e := range events {
		if e.typ == inputcodes.EV_KEY && e.code == inputcodes.BTN_TOUCH {
			if e.value == 1 {
				downs++
			} else {
				ups++
			}
		}
	}
	if downs != 1 || ups != 1 {
		t.Fatalf("downs=%d ups=%d, want 1/1", downs, ups)
	}
	lastIsSyn(t, events)
}

func TestTouchBlocksForDuration(t *testing.T) {
	r, w := pipe(t)
	defer r.Close()

	start := time.Now()
	if !Touch(int(w.Fd()), 1, 1, time.Second) {
		t.Fatal("Touch returned false")
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Fatalf("elapsed %v, want >= 1s", elapsed)
	}
}

// P3: exactly one MT_TRACKING_ID=100 strictly before exactly one
// MT_TRACKING_ID=-1.
func TestSwipeTrackingIDOnceEach(t *testing.T) {
	r, w := pipe(t)
	ok, err := Swipe(int(w.Fd()), 0, 0, 10, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("Swipe returned false")
	}
	w.Close()
	events := drain(t, r)

	var downIdx, upIdx = -1, -1
	for i, e := range events {
		if e.typ != inputcodes.EV_ABS || e.code != inputcodes.ABS_MT_TRACKING_ID {
			continue
		}
		switch e.value {
		case inputcodes.TrackingIDDown:
			if downIdx != -1 {
				t.Fatalf("tracking id 100 emitted more than once")
			}
			downIdx = i
		case inputcodes.TrackingIDUp:
			if upIdx != -1 {
				t.Fatalf("tracking id -1 emitted more than once")
			}
			upIdx = i
		}
	}
	if downIdx == -1 || upIdx == -1 {
		t.Fatalf("missing tracking id transition: down=%d up=%d", downIdx, upIdx)
	}
	if downIdx >= upIdx {
		t.Fatalf("down (%d) did not precede up (%d)", downIdx, upIdx)
	}
	lastIsSyn(t, events)
}

func TestSwipeZeroVelocityRejected(t *testing.T) {
	r, w := pipe(t)
	_ = r
	_, err := Swipe(int(w.Fd()), 0, 0, 1, 1, 0)
	if err != ErrZeroVelocity {
		t.Fatalf("got err=%v, want ErrZeroVelocity", err)
	}
}

func TestSwipeElapsedTime(t *testing.T) {
	r, w := pipe(t)
	defer r.Close()

	start := time.Now()
	ok, err := Swipe(int(w.Fd()), 0, 0, 10, 20, 2)
	if err != nil || !ok {
		t.Fatalf("Swipe(ok=%v, err=%v)", ok, err)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Fatalf("elapsed %v, want >= 1s for 2 steps at 500ms", elapsed)
	}
}

func TestTextPressReleaseSynPerCode(t *testing.T) {
	r, w := pipe(t)
	codes := []uint16{30, 48, 46}

	start := time.Now()
	if !Text(int(w.Fd()), codes) {
		t.Fatal("Text returned false")
	}
	w.Close()

	if elapsed := time.Since(start); elapsed < 3*time.Second {
		t.Fatalf("elapsed %v, want >= 3s for 3 codes at 1s", elapsed)
	}

	events := drain(t, r)
	if len(events) != len(codes)*3 {
		t.Fatalf("got %d events, want %d", len(events), len(codes)*3)
	}
}
