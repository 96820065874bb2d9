// Package uinputdev implements the uinput virtual-device factory (component
// C): it opens /dev/uinput three times, sets capability bits per device
// kind, writes the device-setup record, and creates the kernel-side devices.
// The ioctl encoding follows the standard _IOC-style bit layout, generalized
// from EVIOCGABS/EVIOCGRAB to the UI_SET_*/UI_DEV_* family this factory
// needs.
package uinputdev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/codethink/qad-fixture/internal/inputcodes"
)

const uinputPath = "/dev/uinput"

// _IOC direction/shift layout, as in the kernel's asm-generic/ioctl.h.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone  = 0
	iocWrite = 1
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

func iow(typ, nr uint32, size uintptr) uintptr {
	return ioc(iocWrite, typ, nr, uint32(size))
}

func ioNoArg(typ, nr uint32) uintptr {
	return ioc(iocNone, typ, nr, 0)
}

var (
	uiSetEvBit   = iow('U', 100, unsafe.Sizeof(int32(0)))
	uiSetKeyBit  = iow('U', 101, unsafe.Sizeof(int32(0)))
	uiSetRelBit  = iow('U', 102, unsafe.Sizeof(int32(0)))
	uiSetAbsBit  = iow('U', 103, unsafe.Sizeof(int32(0)))
	uiDevCreate  = ioNoArg('U', 1)
	uiDevDestroy = ioNoArg('U', 2)
)

// setup mirrors struct uinput_setup: input_id (bustype, vendor, product,
// version, each u16) followed by an 80-byte name and a u32 ff_effects_max.
type setup struct {
	busType uint16
	vendor  uint16
	product uint16
	version uint16
	name    [80]byte
	ffMax   uint32
}

const uiDevSetupNR = 3

func uiDevSetupReq() uintptr {
	return iow('U', uiDevSetupNR, unsafe.Sizeof(setup{}))
}

// absSetup mirrors struct uinput_abs_setup: code (u16, padded to 4), then
// input_absinfo (value, min, max, fuzz, flat, resolution, all i32).
type absSetup struct {
	code       uint16
	_          uint16
	value      int32
	min        int32
	max        int32
	fuzz       int32
	flat       int32
	resolution int32
}

const uiAbsSetupNR = 4

func uiAbsSetupReq() uintptr {
	return iow('U', uiAbsSetupNR, unsafe.Sizeof(absSetup{}))
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func setBit(fd int, req uintptr, bit uint16) error {
	v := int32(bit)
	return ioctl(fd, req, unsafe.Pointer(&v))
}

func writeSetup(fd int, name string, busType uint16, vendor, product uint16) error {
	var s setup
	s.busType = busType
	s.vendor = vendor
	s.product = product
	s.version = 1
	copy(s.name[:], name)
	return ioctl(fd, uiDevSetupReq(), unsafe.Pointer(&s))
}

func writeAbsSetup(fd int, code uint16, min, max int32) error {
	s := absSetup{code: code, min: min, max: max}
	return ioctl(fd, uiAbsSetupReq(), unsafe.Pointer(&s))
}

func openUinput() (int, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return -1, err
	}
	return fd, nil
}

// createMouse opens and configures the mouse virtual device: EV_KEY
// (BTN_LEFT, BTN_RIGHT), EV_REL (REL_X, REL_Y), bus USB, vendor 0x1234,
// product 0x5678 per spec §3.
func createMouse() (int, error) {
	fd, err := openUinput()
	if err != nil {
		return -1, fmt.Errorf("uinputdev: open mouse: %w", err)
	}
	steps := []func() error{
		func() error { return setBit(fd, uiSetEvBit, inputcodes.EV_KEY) },
		func() error { return setBit(fd, uiSetKeyBit, inputcodes.BTN_LEFT) },
		func() error { return setBit(fd, uiSetKeyBit, inputcodes.BTN_RIGHT) },
		func() error { return setBit(fd, uiSetEvBit, inputcodes.EV_REL) },
		func() error { return setBit(fd, uiSetRelBit, inputcodes.REL_X) },
		func() error { return setBit(fd, uiSetRelBit, inputcodes.REL_Y) },
		func() error { return writeSetup(fd, "qad-fixture-mouse", inputcodes.BUS_USB, 0x1234, 0x5678) },
		func() error { return ioctl(fd, uiDevCreate, nil) },
	}
	return finishCreate(fd, steps)
}

// createKeyboard configures EV_KEY for every scancode from KEY_ESC through
// KEY_RIGHT inclusive, per spec §3.
func createKeyboard() (int, error) {
	fd, err := openUinput()
	if err != nil {
		return -1, fmt.Errorf("uinputdev: open keyboard: %w", err)
	}
	steps := []func() error{
		func() error { return setBit(fd, uiSetEvBit, inputcodes.EV_KEY) },
	}
	for code := uint16(inputcodes.KEY_ESC); code <= uint16(inputcodes.KEY_RIGHT); code++ {
		c := code
		steps = append(steps, func() error { return setBit(fd, uiSetKeyBit, c) })
	}
	steps = append(steps,
		func() error { return writeSetup(fd, "qad-fixture-keyboard", inputcodes.BUS_USB, 0x1234, 0x5679) },
		func() error { return ioctl(fd, uiDevCreate, nil) },
	)
	return finishCreate(fd, steps)
}

const (
	axisMin     = 0
	axisMax     = 32767
	pressureMin = 0
	pressureMax = 100
	maxSlots    = 10
)

// createTouch configures EV_ABS (slots, position, pressure, tracking id) and
// EV_KEY (BTN_TOUCH), writing absolute axis ranges before create as required
// by spec §4.C.
func createTouch() (int, error) {
	fd, err := openUinput()
	if err != nil {
		return -1, fmt.Errorf("uinputdev: open touch: %w", err)
	}
	steps := []func() error{
		func() error { return setBit(fd, uiSetEvBit, inputcodes.EV_KEY) },
		func() error { return setBit(fd, uiSetKeyBit, inputcodes.BTN_TOUCH) },
		func() error { return setBit(fd, uiSetEvBit, inputcodes.EV_ABS) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_X) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_Y) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_MT_SLOT) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_MT_POSITION_X) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_MT_POSITION_Y) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_MT_TRACKING_ID) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_MT_PRESSURE) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_MT_TOUCH_MAJOR) },
		func() error { return setBit(fd, uiSetAbsBit, inputcodes.ABS_MT_WIDTH_MAJOR) },
		func() error { return writeAbsSetup(fd, inputcodes.ABS_X, axisMin, axisMax) },
		func() error { return writeAbsSetup(fd, inputcodes.ABS_Y, axisMin, axisMax) },
		func() error { return writeAbsSetup(fd, inputcodes.ABS_MT_POSITION_X, axisMin, axisMax) },
		func() error { return writeAbsSetup(fd, inputcodes.ABS_MT_POSITION_Y, axisMin, axisMax) },
		func() error { return writeAbsSetup(fd, inputcodes.ABS_MT_PRESSURE, pressureMin, pressureMax) },
		func() error { return writeAbsSetup(fd, inputcodes.ABS_MT_SLOT, 0, maxSlots-1) },
		func() error { return writeAbsSetup(fd, inputcodes.ABS_MT_TRACKING_ID, -1, 65535) },
		func() error { return writeSetup(fd, "qad-fixture-touch", inputcodes.BUS_USB, 0x1234, 0x567a) },
		func() error { return ioctl(fd, uiDevCreate, nil) },
	}
	return finishCreate(fd, steps)
}

func finishCreate(fd int, steps []func() error) (int, error) {
	for _, step := range steps {
		if err := step(); err != nil {
			unix.Close(fd)
			return -1, err
		}
	}
	return fd, nil
}

// Destroy issues UI_DEV_DESTROY and closes fd. Errors are not fatal; the
// caller is tearing down regardless.
func Destroy(fd int) error {
	_ = ioctl(fd, uiDevDestroy, nil)
	return unix.Close(fd)
}

// Create builds the full mouse/keyboard/touch triple. Any single failure is
// fatal to the whole set (spec §4.C: "A failure to create any one device is
// fatal to the backend"), so partially-created devices are torn down before
// returning the error.
func Create() (mouseFd, keyboardFd, touchFd int, err error) {
	mouseFd, err = createMouse()
	if err != nil {
		return -1, -1, -1, fmt.Errorf("uinputdev: create mouse: %w", err)
	}
	keyboardFd, err = createKeyboard()
	if err != nil {
		Destroy(mouseFd)
		return -1, -1, -1, fmt.Errorf("uinputdev: create keyboard: %w", err)
	}
	touchFd, err = createTouch()
	if err != nil {
		Destroy(mouseFd)
		Destroy(keyboardFd)
		return -1, -1, -1, fmt.Errorf("uinputdev: create touch: %w", err)
	}
	return mouseFd, keyboardFd, touchFd, nil
}
