package inputevent

import (
	"encoding/binary"
	"os"
	"testing"
	"time"

	"github.com/codethink/qad-fixture/internal/inputcodes"
)

func timeSoon() time.Time { return time.Now().Add(200 * time.Millisecond) }

// readAll drains every pending 24-byte record from the read end of a pipe.
func readAll(t *testing.T, r *os.File) [][3]int64 {
	t.Helper()
	r.SetDeadline(timeSoon())
	var out [][3]int64
	buf := make([]byte, recordSize)
	for {
		n, err := r.Read(buf)
		if err != nil || n == 0 {
			break
		}
		typ := binary.LittleEndian.Uint16(buf[16:18])
		code := binary.LittleEndian.Uint16(buf[18:20])
		value := int32(binary.LittleEndian.Uint32(buf[20:24]))
		out = append(out, [3]int64{int64(typ), int64(code), int64(value)})
	}
	return out
}

func TestWriteSyn(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if !Syn(int(w.Fd())) {
		t.Fatal("Syn returned false")
	}

	got := readAll(t, r)
	want := [3]int64{inputcodes.EV_SYN, inputcodes.SYN_REPORT, 0}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %v, want [%v]", got, want)
	}
}

func TestKeyCompoundPressRelease(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if !Key(int(w.Fd()), 30) {
		t.Fatal("Key returned false")
	}

	got := readAll(t, r)
	want := [][3]int64{
		{inputcodes.EV_KEY, 30, 1},
		{inputcodes.EV_KEY, 30, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestPositionMTOrdering(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if !PositionMT(int(w.Fd()), 100, 200) {
		t.Fatal("PositionMT returned false")
	}

	got := readAll(t, r)
	want := [][3]int64{
		{inputcodes.EV_ABS, inputcodes.ABS_MT_POSITION_X, 100},
		{inputcodes.EV_ABS, inputcodes.ABS_MT_POSITION_Y, 200},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestWriteOnClosedFdFails(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	r.Close()
	w.Close()

	if Write(int(w.Fd()), inputcodes.EV_SYN, inputcodes.SYN_REPORT, 0) {
		t.Fatal("expected Write on a closed fd to fail")
	}
}
