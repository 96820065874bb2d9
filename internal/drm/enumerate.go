package drm

import (
	"golang.org/x/sys/unix"
)

// CrtcInfo is spec §3's (id, mode_valid) pair.
type CrtcInfo struct {
	ID        uint32
	ModeValid bool
}

// ListCrtcs opens card read-only, fetches resources, and maps each CRTC id
// to (id, mode_valid) in kernel order, per spec §4.F. The fd is closed
// before returning, matching the original's open/query/close discipline.
func ListCrtcs(cardPath string) ([]CrtcInfo, error) {
	fd, err := unix.Open(cardPath, unix.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	res, err := GetResources(fd)
	if err != nil {
		return nil, err
	}

	infos := make([]CrtcInfo, 0, len(res.Crtcs))
	for _, id := range res.Crtcs {
		c, err := GetCrtc(fd, id)
		if err != nil {
			continue
		}
		infos = append(infos, CrtcInfo{ID: c.ID, ModeValid: c.ModeValid})
	}
	return infos, nil
}

// fallbackCrtcID is used by SelectCard when no CRTC reports mode_valid,
// per spec §4.F ("or fall back to CRTC id 2 if none").
const fallbackCrtcID = 2

// ConnectorBinding is the resolved tuple from spec §3: which CRTC drives
// which connector, with which mode and geometry.
type ConnectorBinding struct {
	CrtcID      uint32
	ConnectorID uint32
	Mode        ModeInfo
	Width       uint32
	Height      uint32
}

// ResolveConnectorBinding implements the policy from spec §3: prefer the
// connector's current encoder's CRTC if it is usable; otherwise scan the
// connector's encoders and their possible-CRTC bitmask for any usable CRTC,
// tie-breaking by lowest array index.
func ResolveConnectorBinding(fd int) (*ConnectorBinding, error) {
	res, err := GetResources(fd)
	if err != nil {
		return nil, err
	}

	crtcUsable := make(map[uint32]bool, len(res.Crtcs))
	crtcIndex := make(map[uint32]int, len(res.Crtcs))
	for i, id := range res.Crtcs {
		c, err := GetCrtc(fd, id)
		if err != nil {
			continue
		}
		crtcUsable[id] = c.ModeValid
		crtcIndex[id] = i
	}

	for _, connID := range res.Connectors {
		conn, err := GetConnector(fd, connID)
		if err != nil || conn.Connection != ConnectorConnected || len(conn.Modes) == 0 {
			continue
		}

		mode := conn.Modes[0]

		if conn.EncoderID != 0 {
			enc, err := GetEncoder(fd, conn.EncoderID)
			if err == nil && enc.CrtcID != 0 && crtcUsable[enc.CrtcID] {
				return &ConnectorBinding{
					CrtcID:      enc.CrtcID,
					ConnectorID: connID,
					Mode:        mode,
					Width:       uint32(mode.Hdisplay),
					Height:      uint32(mode.Vdisplay),
				}, nil
			}
		}

		best := -1
		var bestCrtc uint32
		for _, encID := range conn.Encoders {
			enc, err := GetEncoder(fd, encID)
			if err != nil {
				continue
			}
			for i, crtcID := range res.Crtcs {
				if enc.PossibleCrtcs&(1<<uint(i)) == 0 {
					continue
				}
				if !crtcUsable[crtcID] {
					continue
				}
				if best == -1 || i < best {
					best = i
					bestCrtc = crtcID
				}
			}
		}
		if best != -1 {
			return &ConnectorBinding{
				CrtcID:      bestCrtc,
				ConnectorID: connID,
				Mode:        mode,
				Width:       uint32(mode.Hdisplay),
				Height:      uint32(mode.Vdisplay),
			}, nil
		}
	}

	return nil, unix.ENODEV
}
