package drm

import "unsafe"

// Resources is the decoded drm_mode_card_res: the id lists for fbs, crtcs,
// connectors, encoders.
type Resources struct {
	FBs, Crtcs, Connectors, Encoders []uint32
}

// GetResources issues GETRESOURCES twice: once to learn the counts, once
// with backing arrays sized to match, mirroring the NeowayLabs/drm
// reference's two-pass query pattern.
func GetResources(fd int) (*Resources, error) {
	var res sysResources
	if err := ioctl(fd, reqGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, err
	}

	var fbs, crtcs, connectors, encoders []uint32
	if res.countFBs > 0 {
		fbs = make([]uint32, res.countFBs)
		res.fbIDPtr = uint64(uintptr(unsafe.Pointer(&fbs[0])))
	}
	if res.countCrtcs > 0 {
		crtcs = make([]uint32, res.countCrtcs)
		res.crtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcs[0])))
	}
	if res.countConnectors > 0 {
		connectors = make([]uint32, res.countConnectors)
		res.connectorIDPtr = uint64(uintptr(unsafe.Pointer(&connectors[0])))
	}
	if res.countEncoders > 0 {
		encoders = make([]uint32, res.countEncoders)
		res.encoderIDPtr = uint64(uintptr(unsafe.Pointer(&encoders[0])))
	}

	if err := ioctl(fd, reqGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, err
	}

	return &Resources{FBs: fbs, Crtcs: crtcs, Connectors: connectors, Encoders: encoders}, nil
}

// Crtc is the decoded drm_mode_crtc.
type Crtc struct {
	ID        uint32
	BufferID  uint32
	ModeValid bool
	Mode      ModeInfo
}

func GetCrtc(fd int, id uint32) (*Crtc, error) {
	c := sysCrtc{id: id}
	if err := ioctl(fd, reqGetCrtc, unsafe.Pointer(&c)); err != nil {
		return nil, err
	}
	return &Crtc{ID: c.id, BufferID: c.fbID, ModeValid: c.modeValid != 0, Mode: c.mode}, nil
}

// SetCrtc binds fbID to crtcID and drives connectors, issuing modeValid=1
// when mode is non-nil (a nil mode disconnects, per kernel convention).
func SetCrtc(fd int, crtcID, fbID uint32, connectors []uint32, mode *ModeInfo) error {
	c := sysCrtc{id: crtcID, fbID: fbID}
	if len(connectors) > 0 {
		c.setConnectorsPtr = uint64(uintptr(unsafe.Pointer(&connectors[0])))
		c.countConnectors = uint32(len(connectors))
	}
	if mode != nil {
		c.mode = *mode
		c.modeValid = 1
	}
	return ioctl(fd, reqSetCrtc, unsafe.Pointer(&c))
}

// Encoder is the decoded drm_mode_get_encoder.
type Encoder struct {
	ID            uint32
	CrtcID        uint32
	PossibleCrtcs uint32
}

func GetEncoder(fd int, id uint32) (*Encoder, error) {
	e := sysGetEncoder{id: id}
	if err := ioctl(fd, reqGetEncoder, unsafe.Pointer(&e)); err != nil {
		return nil, err
	}
	return &Encoder{ID: e.id, CrtcID: e.crtcID, PossibleCrtcs: e.possibleCrtcs}, nil
}

// Connection states from drm_mode.h.
const (
	ConnectorConnected    = 1
	ConnectorDisconnected = 2
	ConnectorUnknown      = 3
)

// Connector is the decoded drm_mode_get_connector.
type Connector struct {
	ID         uint32
	EncoderID  uint32
	Connection uint32
	Modes      []ModeInfo
	Encoders   []uint32
}

func GetConnector(fd int, id uint32) (*Connector, error) {
	var c sysGetConnector
	c.id = id
	if err := ioctl(fd, reqGetConnector, unsafe.Pointer(&c)); err != nil {
		return nil, err
	}

	var props []uint32
	var propValues []uint64
	if c.countProps > 0 {
		props = make([]uint32, c.countProps)
		c.propsPtr = uint64(uintptr(unsafe.Pointer(&props[0])))
		propValues = make([]uint64, c.countProps)
		c.propValuesPtr = uint64(uintptr(unsafe.Pointer(&propValues[0])))
	}

	if c.countModes == 0 {
		c.countModes = 1
	}
	modes := make([]ModeInfo, c.countModes)
	c.modesPtr = uint64(uintptr(unsafe.Pointer(&modes[0])))

	var encoders []uint32
	if c.countEncoders > 0 {
		encoders = make([]uint32, c.countEncoders)
		c.encodersPtr = uint64(uintptr(unsafe.Pointer(&encoders[0])))
	}

	if err := ioctl(fd, reqGetConnector, unsafe.Pointer(&c)); err != nil {
		return nil, err
	}

	return &Connector{
		ID:         c.id,
		EncoderID:  c.encoderID,
		Connection: c.connection,
		Modes:      modes,
		Encoders:   encoders,
	}, nil
}

// HasCap reports whether the device advertises the given capability (used
// for DRM_CAP_DUMB_BUFFER at page-flip engine startup).
func HasCap(fd int, capability uint64) (bool, error) {
	g := sysGetCap{capability: capability}
	if err := ioctl(fd, reqGetCap, unsafe.Pointer(&g)); err != nil {
		return false, err
	}
	return g.value != 0, nil
}

// HasDumbBuffer reports DRM_CAP_DUMB_BUFFER.
func HasDumbBuffer(fd int) (bool, error) {
	return HasCap(fd, capDumbBuffer)
}

// SetMaster and DropMaster take/release DRM master on fd.
func SetMaster(fd int) error  { return ioctl(fd, reqSetMaster, nil) }
func DropMaster(fd int) error { return ioctl(fd, reqDropMaster, nil) }
