// Package drm implements the DRM/KMS enumerator (component F) and the
// low-level ioctl surface the page-flip engine and snapshot capture share:
// resource/connector/encoder/CRTC queries, dumb-buffer allocation, and
// framebuffer attach/detach. There is no cgo binding available in this
// stack, so the wire structs and _IOWR encoding are hand-rolled raw syscalls,
// informed by the struct layouts in the NeowayLabs/drm reference but not
// importing that package. See DESIGN.md for why.
package drm

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const drmIoctlBase = 'd'

// _IOWR(base, nr, size). DRM mode ioctls are all read-write.
func iowr(nr uintptr, size uintptr) uintptr {
	const (
		iocWrite     = 1
		iocRead      = 2
		iocNRShift   = 0
		iocTypeShift = 8
		iocSizeShift = 16
		iocDirShift  = 30
	)
	dir := uintptr(iocWrite | iocRead)
	return (dir << iocDirShift) | (uintptr(drmIoctlBase) << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift)
}

// io(nr) is the direction-less _IO(DRM_IOCTL_BASE, nr) encoding used by
// SET_MASTER/DROP_MASTER, which carry no payload struct.
func io(nr uintptr) uintptr {
	const iocTypeShift = 8
	return (uintptr(drmIoctlBase) << iocTypeShift) | nr
}

var (
	reqGetResources = iowr(0xA0, unsafe.Sizeof(sysResources{}))
	reqGetCrtc      = iowr(0xA1, unsafe.Sizeof(sysCrtc{}))
	reqSetCrtc      = iowr(0xA2, unsafe.Sizeof(sysCrtc{}))
	reqPageFlip     = iowr(0xB0, unsafe.Sizeof(sysPageFlip{}))
	reqGetEncoder   = iowr(0xA6, unsafe.Sizeof(sysGetEncoder{}))
	reqGetConnector = iowr(0xA7, unsafe.Sizeof(sysGetConnector{}))
	reqGetFB        = iowr(0xAD, unsafe.Sizeof(sysFBCmd{}))
	reqAddFB        = iowr(0xAE, unsafe.Sizeof(sysFBCmd{}))
	reqRmFB         = iowr(0xAF, unsafe.Sizeof(uint32(0)))
	reqCreateDumb   = iowr(0xB2, unsafe.Sizeof(sysCreateDumb{}))
	reqMapDumb      = iowr(0xB3, unsafe.Sizeof(sysMapDumb{}))
	reqDestroyDumb  = iowr(0xB4, unsafe.Sizeof(sysDestroyDumb{}))
	reqGetCap       = iowr(0x0C, unsafe.Sizeof(sysGetCap{}))
	reqSetMaster    = io(0x1e)
	reqDropMaster   = io(0x1f)
)

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// ModeInfo mirrors struct drm_mode_modeinfo field for field; the page-flip
// path reads only Hdisplay/Vdisplay and passes the rest through to SetCrtc.
type ModeInfo struct {
	Clock                                         uint32
	Hdisplay, HsyncStart, HsyncEnd, Htotal, Hskew uint16
	Vdisplay, VsyncStart, VsyncEnd, Vtotal, Vscan uint16
	Vrefresh                                       uint32
	Flags                                          uint32
	Type                                           uint32
	Name                                           [32]byte
}

type sysResources struct {
	fbIDPtr         uint64
	crtcIDPtr       uint64
	connectorIDPtr  uint64
	encoderIDPtr    uint64
	countFBs        uint32
	countCrtcs      uint32
	countConnectors uint32
	countEncoders   uint32
	minWidth        uint32
	maxWidth        uint32
	minHeight       uint32
	maxHeight       uint32
}

type sysCrtc struct {
	setConnectorsPtr uint64
	countConnectors  uint32
	id               uint32
	fbID             uint32
	x, y             uint32
	gammaSize        uint32
	modeValid        uint32
	mode             ModeInfo
}

type sysGetEncoder struct {
	id             uint32
	typ            uint32
	crtcID         uint32
	possibleCrtcs  uint32
	possibleClones uint32
}

type sysGetConnector struct {
	encodersPtr   uint64
	modesPtr      uint64
	propsPtr      uint64
	propValuesPtr uint64

	countModes    uint32
	countProps    uint32
	countEncoders uint32

	encoderID       uint32
	id              uint32
	connectorType   uint32
	connectorTypeID uint32

	connection        uint32
	mmWidth, mmHeight uint32
	subpixel          uint32
}

type sysFBCmd struct {
	fbID          uint32
	width, height uint32
	pitch         uint32
	bpp           uint32
	depth         uint32
	handle        uint32
}

type sysCreateDumb struct {
	height, width uint32
	bpp           uint32
	flags         uint32
	handle        uint32
	pitch         uint32
	size          uint64
}

type sysMapDumb struct {
	handle uint32
	pad    uint32
	offset uint64
}

type sysDestroyDumb struct {
	handle uint32
}

type sysGetCap struct {
	capability uint64
	value      uint64
}

// sysPageFlip mirrors struct drm_mode_crtc_page_flip.
type sysPageFlip struct {
	crtcID    uint32
	fbID      uint32
	flags     uint32
	reserved  uint32
	userData  uint64
}

// DRM_CAP_DUMB_BUFFER, per drm.h.
const capDumbBuffer = 0x1

// PageFlipEvent flags.
const pageFlipEventFlag = 0x01
