package drm

import "unsafe"

// DumbBuffer mirrors the DumbBuffer data model in spec §3: handle, size,
// pitch plus the fb_id and mapped pointer assigned after AddFB/mmap.
type DumbBuffer struct {
	Handle uint32
	Pitch  uint32
	Size   uint64
	Width  uint32
	Height uint32
	FBID   uint32
	Mapped []byte
}

// CreateDumb allocates a dumb buffer at width x height x bpp. Invariant per
// spec §3: size = pitch*height, pitch >= 4*width.
func CreateDumb(fd int, width, height, bpp uint32) (*DumbBuffer, error) {
	c := sysCreateDumb{width: width, height: height, bpp: bpp}
	if err := ioctl(fd, reqCreateDumb, unsafe.Pointer(&c)); err != nil {
		return nil, err
	}
	return &DumbBuffer{Handle: c.handle, Pitch: c.pitch, Size: c.size, Width: width, Height: height}, nil
}

// MapDumbOffset returns the mmap-able fake offset for handle.
func MapDumbOffset(fd int, handle uint32) (uint64, error) {
	m := sysMapDumb{handle: handle}
	if err := ioctl(fd, reqMapDumb, unsafe.Pointer(&m)); err != nil {
		return 0, err
	}
	return m.offset, nil
}

// DestroyDumb frees a dumb buffer's kernel-side handle.
func DestroyDumb(fd int, handle uint32) error {
	d := sysDestroyDumb{handle: handle}
	return ioctl(fd, reqDestroyDumb, unsafe.Pointer(&d))
}

// AddFB attaches a dumb buffer as a scanout framebuffer, bpp=32 depth=24 per
// spec §4.H step 4.
func AddFB(fd int, width, height, pitch, bpp, depth, handle uint32) (uint32, error) {
	f := sysFBCmd{width: width, height: height, pitch: pitch, bpp: bpp, depth: depth, handle: handle}
	if err := ioctl(fd, reqAddFB, unsafe.Pointer(&f)); err != nil {
		return 0, err
	}
	return f.fbID, nil
}

// RmFB detaches a framebuffer id.
func RmFB(fd int, fbID uint32) error {
	return ioctl(fd, reqRmFB, unsafe.Pointer(&fbID))
}

// FBInfo is the decoded drm_mode_fb_cmd returned by GetFB: geometry and
// pixel format of an already-attached framebuffer (typically the one
// currently bound to a CRTC via its BufferID).
type FBInfo struct {
	Handle uint32
	Width  uint32
	Height uint32
	Pitch  uint32
	BPP    uint32
	Depth  uint32
}

// GetFB fetches an existing framebuffer's geometry/handle by id, used by
// snapshot capture to describe the buffer currently scanned out by a CRTC
// (spec §4.G step 3).
func GetFB(fd int, fbID uint32) (*FBInfo, error) {
	f := sysFBCmd{fbID: fbID}
	if err := ioctl(fd, reqGetFB, unsafe.Pointer(&f)); err != nil {
		return nil, err
	}
	return &FBInfo{Handle: f.handle, Width: f.width, Height: f.height, Pitch: f.pitch, BPP: f.bpp, Depth: f.depth}, nil
}
