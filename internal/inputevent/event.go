// Package inputevent is the event codec (component A): it writes individual
// Linux input_event records to a file descriptor with strict ordering. It is
// the lowest layer in the stack; the gesture sequencer composes these into
// higher-level operations, see internal/gesture.
package inputevent

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/codethink/qad-fixture/internal/inputcodes"
)

// record is the on-the-wire layout of a 64-bit struct input_event: two
// 8-byte timeval fields (zeroed; the kernel assigns real timestamps),
// followed by type/code/value. 24 bytes total, matching §3's InputEvent.
type record struct {
	sec   int64
	usec  int64
	typ   uint16
	code  uint16
	value int32
}

const recordSize = int(unsafe.Sizeof(record{}))

func encode(typ, code uint16, value int32) []byte {
	buf := make([]byte, recordSize)
	// sec/usec stay zero; only type/code/value carry information.
	binary.LittleEndian.PutUint16(buf[16:18], typ)
	binary.LittleEndian.PutUint16(buf[18:20], code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(value))
	return buf
}

// Write writes one input_event record to fd. Returns false iff the
// underlying write fails; the caller treats false as fatal for the current
// gesture (see spec §7 propagation policy).
func Write(fd int, typ, code uint16, value int32) bool {
	buf := encode(typ, code, value)
	n, err := unix.Write(fd, buf)
	return err == nil && n == len(buf)
}

// Syn emits SYN_REPORT, committing whatever events preceded it.
func Syn(fd int) bool {
	return Write(fd, inputcodes.EV_SYN, inputcodes.SYN_REPORT, 0)
}

// Button emits EV_KEY/BTN_TOUCH with the given value (0 or 1).
func Button(fd int, value int32) bool {
	return Write(fd, inputcodes.EV_KEY, inputcodes.BTN_TOUCH, value)
}

// Key is the compound helper: one press (value=1) then one release
// (value=0), both type=KEY. The caller is responsible for the following Syn.
func Key(fd int, code uint16) bool {
	return Write(fd, inputcodes.EV_KEY, code, 1) &&
		Write(fd, inputcodes.EV_KEY, code, 0)
}

// PositionAbs writes (x, y) as two consecutive ABS_X/ABS_Y records.
func PositionAbs(fd int, x, y int32) bool {
	return Write(fd, inputcodes.EV_ABS, inputcodes.ABS_X, x) &&
		Write(fd, inputcodes.EV_ABS, inputcodes.ABS_Y, y)
}

// PositionMT writes (x, y) as two consecutive MT_POSITION_X/Y records.
func PositionMT(fd int, x, y int32) bool {
	return Write(fd, inputcodes.EV_ABS, inputcodes.ABS_MT_POSITION_X, x) &&
		Write(fd, inputcodes.EV_ABS, inputcodes.ABS_MT_POSITION_Y, y)
}

// PositionRel writes (x, y) as two consecutive REL_X/REL_Y records.
func PositionRel(fd int, x, y int32) bool {
	return Write(fd, inputcodes.EV_REL, inputcodes.REL_X, x) &&
		Write(fd, inputcodes.EV_REL, inputcodes.REL_Y, y)
}

// Tracking emits ABS_MT_TRACKING_ID.
func Tracking(fd int, value int32) bool {
	return Write(fd, inputcodes.EV_ABS, inputcodes.ABS_MT_TRACKING_ID, value)
}

// Pressure emits ABS_MT_PRESSURE.
func Pressure(fd int, value int32) bool {
	return Write(fd, inputcodes.EV_ABS, inputcodes.ABS_MT_PRESSURE, value)
}

// Major emits ABS_MT_TOUCH_MAJOR followed by ABS_MT_WIDTH_MAJOR, both set to
// the same value; the swipe gesture grows this value by one per step.
func Major(fd int, value int32) bool {
	return Write(fd, inputcodes.EV_ABS, inputcodes.ABS_MT_TOUCH_MAJOR, value) &&
		Write(fd, inputcodes.EV_ABS, inputcodes.ABS_MT_WIDTH_MAJOR, value)
}
